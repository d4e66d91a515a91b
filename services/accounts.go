package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/CPU-commits/CareerNest/forms"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrEmailNotVerified   = errors.New("verify your email before registering")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AccountsService struct {
	users     repositories.UserRepository
	otps      repositories.OTPRepository
	auth      *AuthService
	publisher Publisher
	logger    *zap.Logger
}

func (a *AccountsService) sendEmail(email res.NotifyEmail) *res.ErrorRes {
	if err := a.publisher.PublishEncode(SUBJECT_NOTIFY_EMAIL, email); err != nil {
		a.logger.Error("publish email", zap.String("template", email.Template), zap.Error(err))
		return &res.ErrorRes{
			Err:        errors.New("could not send the email, try again later"),
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	return nil
}

func (a *AccountsService) SendEmailOTP(ctx context.Context, email string) *res.ErrorRes {
	email = repositories.NormalizeEmail(email)
	_, err := a.users.FindByEmail(ctx, email)
	if err == nil {
		return &res.ErrorRes{
			Err:        ErrEmailRegistered,
			StatusCode: http.StatusConflict,
		}
	}
	if !errors.Is(err, res.ErrNotFound) {
		return res.NewErrorRes(err)
	}
	code, err := issueOTP(ctx, a.otps, repositories.OTP_EMAIL, email)
	if err != nil {
		a.logger.Error("issue otp", zap.Error(err))
		return res.NewErrorRes(err)
	}
	return a.sendEmail(res.NotifyEmail{
		To:       email,
		Template: res.EMAIL_VERIFICATION,
		Subject:  "Your verification code",
		Data:     map[string]string{"otp": code},
	})
}

func (a *AccountsService) VerifyEmailOTP(ctx context.Context, form *forms.VerifyOTPForm) *res.ErrorRes {
	email := repositories.NormalizeEmail(form.Email)
	if errRes := checkOTP(ctx, a.otps, repositories.OTP_EMAIL, email, form.OTP); errRes != nil {
		return errRes
	}
	if err := a.otps.MarkVerified(ctx, email, VERIFIED_TTL); err != nil {
		return res.NewErrorRes(err)
	}
	return nil
}

// Register validates the form before touching any store.
func (a *AccountsService) Register(
	ctx context.Context,
	form *forms.RegisterForm,
) (*models.User, string, *res.ErrorRes) {
	if err := forms.Validate(form); err != nil {
		return nil, "", badRequest(errors.New(forms.Message(err)))
	}
	email := repositories.NormalizeEmail(form.Email)
	verified, err := a.otps.IsVerified(ctx, email)
	if err != nil {
		return nil, "", res.NewErrorRes(err)
	}
	if !verified {
		return nil, "", &res.ErrorRes{
			Err:        ErrEmailNotVerified,
			StatusCode: http.StatusForbidden,
		}
	}
	hash, err := HashSecret(form.Password)
	if err != nil {
		return nil, "", internal(err)
	}
	user := models.NewModelUser(form.Name, email, hash)
	id, err := a.users.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, res.ErrConflict) {
			return nil, "", &res.ErrorRes{
				Err:        ErrEmailRegistered,
				StatusCode: http.StatusConflict,
			}
		}
		a.logger.Error("insert user", zap.Error(err))
		return nil, "", res.NewErrorRes(err)
	}
	user.ID = id
	if err := a.otps.ClearVerified(ctx, email); err != nil {
		a.logger.Warn("clear verified flag", zap.Error(err))
	}
	token, err := a.auth.NewToken(user)
	if err != nil {
		return nil, "", internal(err)
	}
	return user, token, nil
}

func (a *AccountsService) Login(ctx context.Context, form *forms.LoginForm) (*models.User, string, *res.ErrorRes) {
	unauthorized := &res.ErrorRes{
		Err:        ErrInvalidCredentials,
		StatusCode: http.StatusUnauthorized,
	}
	user, err := a.users.FindByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, res.ErrNotFound) {
			return nil, "", unauthorized
		}
		return nil, "", res.NewErrorRes(err)
	}
	if !CheckSecret(form.Password, user.Password) {
		return nil, "", unauthorized
	}
	token, err := a.auth.NewToken(user)
	if err != nil {
		return nil, "", internal(err)
	}
	return user, token, nil
}

func findUser(
	ctx context.Context,
	users repositories.UserRepository,
	claims *Claims,
) (*models.User, *res.ErrorRes) {
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, &res.ErrorRes{
			Err:        fmt.Errorf("invalid user id: %w", res.ErrUnauthorized),
			StatusCode: http.StatusUnauthorized,
		}
	}
	user, err := users.FindByID(ctx, id)
	if err != nil {
		return nil, res.NewErrorRes(err)
	}
	return user, nil
}

func (a *AccountsService) Me(ctx context.Context, claims *Claims) (*models.User, *res.ErrorRes) {
	return findUser(ctx, a.users, claims)
}

func (a *AccountsService) DeleteAccount(ctx context.Context, claims *Claims) *res.ErrorRes {
	user, errRes := findUser(ctx, a.users, claims)
	if errRes != nil {
		return errRes
	}
	if err := a.users.Delete(ctx, user.ID); err != nil {
		return res.NewErrorRes(err)
	}
	a.logger.Info("account deleted", zap.String("user", user.ID.Hex()))
	return nil
}

func NewAccountsService(
	users repositories.UserRepository,
	otps repositories.OTPRepository,
	auth *AuthService,
	publisher Publisher,
	logger *zap.Logger,
) *AccountsService {
	return &AccountsService{
		users:     users,
		otps:      otps,
		auth:      auth,
		publisher: publisher,
		logger:    nopLogger(logger),
	}
}
