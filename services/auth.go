package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const CLAIMS_KEY = "user"
const TOKEN_COOKIE = "token"

type Claims struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.StandardClaims
}

type AuthService struct {
	secret []byte
	ttl    time.Duration
}

func (a *AuthService) TTL() time.Duration {
	return a.ttl
}

func (a *AuthService) NewToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(a.ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *AuthService) ParseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, res.ErrUnauthorized)
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, fmt.Errorf("invalid token: %w", res.ErrUnauthorized)
	}
	return claims, nil
}

// NewClaimsFromContext returns the claims the JWT middleware stored.
func NewClaimsFromContext(ctx *gin.Context) (*Claims, error) {
	value, ok := ctx.Get(CLAIMS_KEY)
	if !ok {
		return nil, errors.New("no claims in context")
	}
	claims, ok := value.(*Claims)
	if !ok {
		return nil, errors.New("claims have an unexpected type")
	}
	return claims, nil
}

func NewAuthService(secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}
