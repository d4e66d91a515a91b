package services_test

import (
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/CPU-commits/CareerNest/forms"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/repositories/repotest"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountsFixture struct {
	users     *repotest.UserRepository
	otps      repositories.OTPRepository
	auth      *services.AuthService
	publisher *fakePublisher
	accounts  *services.AccountsService
}

func newAccounts(t *testing.T, users ...*models.User) *accountsFixture {
	_, client := newRedis(t)
	f := &accountsFixture{
		users:     repotest.NewUserRepository(users...),
		otps:      repositories.NewOTPRepository(client),
		auth:      services.NewAuthService("secret", time.Hour),
		publisher: &fakePublisher{},
	}
	f.accounts = services.NewAccountsService(f.users, f.otps, f.auth, f.publisher, nil)
	return f
}

func validRegisterForm() forms.RegisterForm {
	return forms.RegisterForm{
		Name:            "Asha Rao",
		Email:           "Asha@Example.com",
		Password:        "Secret#123",
		ConfirmPassword: "Secret#123",
		AcceptTerms:     true,
		IsAdult:         true,
	}
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func (f *accountsFixture) verifyEmail(t *testing.T, email string) {
	t.Helper()
	require.Nil(t, f.accounts.SendEmailOTP(ctx, email))
	require.Nil(t, f.accounts.VerifyEmailOTP(ctx, &forms.VerifyOTPForm{
		Email: email,
		OTP:   f.publisher.lastOTP(),
	}))
}

func TestRegisterRejectsEachViolation(t *testing.T) {
	violations := map[string]func(*forms.RegisterForm){
		"name":          func(f *forms.RegisterForm) { f.Name = "" },
		"email":         func(f *forms.RegisterForm) { f.Email = "not-an-email" },
		"weak password": func(f *forms.RegisterForm) { f.Password, f.ConfirmPassword = "secret", "secret" },
		"mismatch":      func(f *forms.RegisterForm) { f.ConfirmPassword = "Secret#124" },
		"terms":         func(f *forms.RegisterForm) { f.AcceptTerms = false },
		"adult":         func(f *forms.RegisterForm) { f.IsAdult = false },
	}
	for name, violate := range violations {
		t.Run(name, func(t *testing.T) {
			f := newAccounts(t)
			form := validRegisterForm()
			violate(&form)

			user, token, errRes := f.accounts.Register(ctx, &form)
			require.NotNil(t, errRes)
			assert.Equal(t, http.StatusBadRequest, errRes.StatusCode)
			assert.Nil(t, user)
			assert.Empty(t, token)
			assert.Zero(t, f.users.Calls)
		})
	}
}

func TestRegisterNeedsVerifiedEmail(t *testing.T) {
	f := newAccounts(t)
	form := validRegisterForm()

	_, _, errRes := f.accounts.Register(ctx, &form)
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusForbidden, errRes.StatusCode)
	assert.Zero(t, f.users.Calls)
}

func TestRegister(t *testing.T) {
	f := newAccounts(t)
	f.verifyEmail(t, "asha@example.com")

	form := validRegisterForm()
	user, token, errRes := f.accounts.Register(ctx, &form)
	require.Nil(t, errRes)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.True(t, user.IsVerified)
	assert.NotEqual(t, form.Password, user.Password)

	claims, err := f.auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.ID)
	assert.Equal(t, "Asha Rao", claims.Name)

	// The verified flag is single use
	verified, err := f.otps.IsVerified(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.False(t, verified)

	errRes = f.accounts.SendEmailOTP(ctx, "ASHA@example.com")
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusConflict, errRes.StatusCode)
}

func TestRegisterDuplicate(t *testing.T) {
	existing := models.NewModelUser("Asha", "asha@example.com", "hash")
	f := newAccounts(t, existing)
	require.NoError(t, f.otps.MarkVerified(ctx, "asha@example.com", time.Minute))

	form := validRegisterForm()
	_, _, errRes := f.accounts.Register(ctx, &form)
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusConflict, errRes.StatusCode)
	assert.ErrorIs(t, errRes, services.ErrEmailRegistered)
}

func TestSendEmailOTP(t *testing.T) {
	f := newAccounts(t)

	require.Nil(t, f.accounts.SendEmailOTP(ctx, " Asha@Example.com"))
	require.Len(t, f.publisher.messages, 1)
	email, ok := f.publisher.messages[0].data.(res.NotifyEmail)
	require.True(t, ok)
	assert.Equal(t, services.SUBJECT_NOTIFY_EMAIL, f.publisher.messages[0].subject)
	assert.Equal(t, "asha@example.com", email.To)
	assert.Equal(t, res.EMAIL_VERIFICATION, email.Template)
	assert.Len(t, email.Data["otp"], services.OTP_LENGTH)
}

func TestSendEmailOTPPublishFailure(t *testing.T) {
	f := newAccounts(t)
	f.publisher.err = errStore

	errRes := f.accounts.SendEmailOTP(ctx, "asha@example.com")
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusServiceUnavailable, errRes.StatusCode)
}

func TestVerifyEmailOTPAttempts(t *testing.T) {
	f := newAccounts(t)
	require.Nil(t, f.accounts.SendEmailOTP(ctx, "asha@example.com"))
	wrong := &forms.VerifyOTPForm{Email: "asha@example.com", OTP: wrongCode(f.publisher.lastOTP())}

	for i := 1; i < services.MAX_OTP_ATTEMPTS; i++ {
		errRes := f.accounts.VerifyEmailOTP(ctx, wrong)
		require.NotNil(t, errRes)
		assert.ErrorIs(t, errRes, services.ErrOTPInvalid, "attempt %d", i)
	}
	errRes := f.accounts.VerifyEmailOTP(ctx, wrong)
	require.NotNil(t, errRes)
	assert.ErrorIs(t, errRes, services.ErrOTPTooManyAttempts)

	// The code is gone, even the right one is refused now
	errRes = f.accounts.VerifyEmailOTP(ctx, &forms.VerifyOTPForm{
		Email: "asha@example.com",
		OTP:   f.publisher.lastOTP(),
	})
	require.NotNil(t, errRes)
	assert.ErrorIs(t, errRes, services.ErrOTPExpired)
	assert.Equal(t, http.StatusBadRequest, errRes.StatusCode)
}

// verifyConcurrently sends every code at once and returns the outcomes.
func (f *accountsFixture) verifyConcurrently(email string, codes []string) []*res.ErrorRes {
	results := make([]*res.ErrorRes, len(codes))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, code := range codes {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			<-start
			results[i] = f.accounts.VerifyEmailOTP(ctx, &forms.VerifyOTPForm{Email: email, OTP: code})
		}(i, code)
	}
	close(start)
	wg.Wait()
	return results
}

func TestVerifyEmailOTPConcurrentGuesses(t *testing.T) {
	f := newAccounts(t)
	require.Nil(t, f.accounts.SendEmailOTP(ctx, "asha@example.com"))
	code := f.publisher.lastOTP()

	codes := make([]string, 20)
	for i := range codes {
		codes[i] = wrongCode(code)
	}
	invalid := 0
	for _, errRes := range f.verifyConcurrently("asha@example.com", codes) {
		require.NotNil(t, errRes)
		assert.Equal(t, http.StatusBadRequest, errRes.StatusCode)
		if errors.Is(errRes, services.ErrOTPInvalid) {
			invalid++
		}
	}
	assert.Equal(t, services.MAX_OTP_ATTEMPTS-1, invalid)

	errRes := f.accounts.VerifyEmailOTP(ctx, &forms.VerifyOTPForm{Email: "asha@example.com", OTP: code})
	require.NotNil(t, errRes)
	assert.ErrorIs(t, errRes, services.ErrOTPExpired)
	verified, err := f.otps.IsVerified(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestVerifyEmailOTPConcurrentRightCode(t *testing.T) {
	f := newAccounts(t)
	require.Nil(t, f.accounts.SendEmailOTP(ctx, "asha@example.com"))
	code := f.publisher.lastOTP()

	accepted := 0
	for _, errRes := range f.verifyConcurrently("asha@example.com", []string{code, code, code, code}) {
		if errRes == nil {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestVerifyEmailOTPIsSingleUse(t *testing.T) {
	f := newAccounts(t)
	f.verifyEmail(t, "asha@example.com")

	errRes := f.accounts.VerifyEmailOTP(ctx, &forms.VerifyOTPForm{
		Email: "asha@example.com",
		OTP:   f.publisher.lastOTP(),
	})
	require.NotNil(t, errRes)
	assert.ErrorIs(t, errRes, services.ErrOTPExpired)
}

func TestLogin(t *testing.T) {
	hash, err := services.HashSecret("Secret#123")
	require.NoError(t, err)
	user := models.NewModelUser("Asha", "asha@example.com", hash)
	f := newAccounts(t, user)

	for _, form := range []forms.LoginForm{
		{Email: "asha@example.com", Password: "Secret#124"},
		{Email: "ravi@example.com", Password: "Secret#123"},
	} {
		form := form
		_, token, errRes := f.accounts.Login(ctx, &form)
		require.NotNil(t, errRes)
		assert.Equal(t, http.StatusUnauthorized, errRes.StatusCode)
		assert.Empty(t, token)
	}

	logged, token, errRes := f.accounts.Login(ctx, &forms.LoginForm{Email: "ASHA@example.com", Password: "Secret#123"})
	require.Nil(t, errRes)
	assert.Equal(t, user.ID, logged.ID)
	claims, err := f.auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", claims.Email)
}

func TestMeAndDeleteAccount(t *testing.T) {
	user := models.NewModelUser("Asha", "asha@example.com", "hash")
	f := newAccounts(t, user)
	claims := claimsOf(user)

	me, errRes := f.accounts.Me(ctx, claims)
	require.Nil(t, errRes)
	assert.Equal(t, "Asha", me.Name)

	require.Nil(t, f.accounts.DeleteAccount(ctx, claims))
	_, errRes = f.accounts.Me(ctx, claims)
	require.NotNil(t, errRes)
	assert.Equal(t, http.StatusNotFound, errRes.StatusCode)
}
