package services_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToken(t *testing.T) {
	auth := services.NewAuthService("secret", time.Hour)
	user := &models.User{ID: primitive.NewObjectID(), Name: "Asha", Email: "asha@example.com"}

	token, err := auth.NewToken(user)
	require.NoError(t, err)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.ID)
	assert.Equal(t, user.ID.Hex(), claims.Subject)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), claims.ExpiresAt, 5)
}

func TestParseTokenRejects(t *testing.T) {
	auth := services.NewAuthService("secret", time.Hour)
	user := &models.User{ID: primitive.NewObjectID(), Name: "Asha"}

	expired, err := services.NewAuthService("secret", -time.Minute).NewToken(user)
	require.NoError(t, err)
	otherKey, err := services.NewAuthService("other", time.Hour).NewToken(user)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":   expired,
		"other key": otherKey,
		"garbage":   "not.a.token",
		"empty":     "",
	} {
		_, err := auth.ParseToken(token)
		assert.ErrorIs(t, err, res.ErrUnauthorized, name)
		assert.Equal(t, http.StatusUnauthorized, res.StatusFromError(err), name)
	}
}

func TestClaimsFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := services.NewClaimsFromContext(c)
	assert.Error(t, err)

	c.Set(services.CLAIMS_KEY, "asha")
	_, err = services.NewClaimsFromContext(c)
	assert.Error(t, err)

	c.Set(services.CLAIMS_KEY, &services.Claims{ID: "abc"})
	claims, err := services.NewClaimsFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.ID)
}

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := services.GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, services.OTP_LENGTH)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', code)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestHashSecret(t *testing.T) {
	hash, err := services.HashSecret("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)
	assert.True(t, services.CheckSecret("123456", hash))
	assert.False(t, services.CheckSecret("654321", hash))
}
