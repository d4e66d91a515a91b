package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/CPU-commits/CareerNest/forms"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Password reset session states
const (
	RESET_IDLE          = "idle"
	RESET_OTP_REQUESTED = "otpRequested"
	RESET_OTP_VERIFIED  = "otpVerified"
	RESET_PASSWORD_SET  = "passwordReset"
)

const RESET_SESSION_TTL = 30 * time.Minute

var ErrResetExpired = errors.New("password reset expired, request a new OTP")

var resetTransitions = map[string][]string{
	RESET_IDLE:          {RESET_OTP_REQUESTED},
	RESET_OTP_REQUESTED: {RESET_OTP_VERIFIED, RESET_IDLE},
	RESET_OTP_VERIFIED:  {RESET_PASSWORD_SET, RESET_IDLE},
	RESET_PASSWORD_SET:  {RESET_IDLE},
}

func IsResetTransitionAllowed(from, to string) bool {
	for _, state := range resetTransitions[from] {
		if state == to {
			return true
		}
	}
	return false
}

func transition(session *repositories.ResetSession, to string) *res.ErrorRes {
	if !IsResetTransitionAllowed(session.State, to) {
		return &res.ErrorRes{
			Err:        fmt.Errorf("cannot go from %s to %s: %w", session.State, to, res.ErrInvalidState),
			StatusCode: http.StatusConflict,
		}
	}
	session.State = to
	return nil
}

type RecoveryService struct {
	users     repositories.UserRepository
	otps      repositories.OTPRepository
	sessions  repositories.ResetSessionRepository
	publisher Publisher
	logger    *zap.Logger
}

// SendOTP opens a reset session bound to email. The email cannot change
// for the session; a new address needs a new SendOTP. Unknown addresses
// get a session too, with no email behind it and no OTP sent, so the
// answer is the same whether the account exists or not.
func (r *RecoveryService) SendOTP(ctx context.Context, email string) (string, *res.ErrorRes) {
	var user *models.User
	found, err := r.users.FindByEmail(ctx, email)
	if err == nil {
		user = found
	} else if !errors.Is(err, res.ErrNotFound) {
		return "", res.NewErrorRes(err)
	}
	session := &repositories.ResetSession{
		ID:    uuid.NewString(),
		State: RESET_IDLE,
	}
	if user != nil {
		session.Email = user.Email
	}
	if errRes := transition(session, RESET_OTP_REQUESTED); errRes != nil {
		return "", errRes
	}
	code, err := issueOTP(ctx, r.otps, repositories.OTP_PASSWORD, session.ID)
	if err != nil {
		return "", res.NewErrorRes(err)
	}
	if err := r.sessions.Save(ctx, session, RESET_SESSION_TTL); err != nil {
		return "", res.NewErrorRes(err)
	}
	if user == nil {
		r.logger.Info("password reset for unknown email", zap.String("reset_id", session.ID))
		return session.ID, nil
	}
	if err := r.publisher.PublishEncode(SUBJECT_NOTIFY_EMAIL, res.NotifyEmail{
		To:       user.Email,
		Template: res.PASSWORD_RESET,
		Subject:  "Reset your password",
		Data:     map[string]string{"otp": code, "name": user.Name},
	}); err != nil {
		r.logger.Error("publish email", zap.String("template", res.PASSWORD_RESET), zap.Error(err))
		return "", &res.ErrorRes{
			Err:        errors.New("could not send the email, try again later"),
			StatusCode: http.StatusServiceUnavailable,
		}
	}
	return session.ID, nil
}

func (r *RecoveryService) session(ctx context.Context, id string) (*repositories.ResetSession, *res.ErrorRes) {
	session, err := r.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, res.ErrNotFound) {
			return nil, &res.ErrorRes{
				Err:        ErrResetExpired,
				StatusCode: http.StatusNotFound,
			}
		}
		return nil, res.NewErrorRes(err)
	}
	return session, nil
}

func (r *RecoveryService) VerifyOTP(ctx context.Context, form *forms.PasswordOTPForm) *res.ErrorRes {
	session, errRes := r.session(ctx, form.ResetID)
	if errRes != nil {
		return errRes
	}
	if !IsResetTransitionAllowed(session.State, RESET_OTP_VERIFIED) {
		return transition(session, RESET_OTP_VERIFIED)
	}
	if errRes := checkOTP(ctx, r.otps, repositories.OTP_PASSWORD, session.ID, form.OTP); errRes != nil {
		return errRes
	}
	transition(session, RESET_OTP_VERIFIED)
	if err := r.sessions.Save(ctx, session, RESET_SESSION_TTL); err != nil {
		return res.NewErrorRes(err)
	}
	return nil
}

// ResetPassword sets the new password and returns the session to idle,
// which ends it.
func (r *RecoveryService) ResetPassword(ctx context.Context, form *forms.ResetPasswordForm) *res.ErrorRes {
	if err := forms.Validate(form); err != nil {
		return badRequest(errors.New(forms.Message(err)))
	}
	session, errRes := r.session(ctx, form.ResetID)
	if errRes != nil {
		return errRes
	}
	if errRes := transition(session, RESET_PASSWORD_SET); errRes != nil {
		return errRes
	}
	if session.Email == "" {
		return &res.ErrorRes{
			Err:        ErrResetExpired,
			StatusCode: http.StatusNotFound,
		}
	}
	hash, err := HashSecret(form.Password)
	if err != nil {
		return internal(err)
	}
	if err := r.users.UpdatePassword(ctx, session.Email, hash); err != nil {
		return res.NewErrorRes(err)
	}
	transition(session, RESET_IDLE)
	if err := r.sessions.Delete(ctx, session.ID); err != nil {
		r.logger.Warn("delete reset session", zap.String("id", session.ID), zap.Error(err))
	}
	return nil
}

func NewRecoveryService(
	users repositories.UserRepository,
	otps repositories.OTPRepository,
	sessions repositories.ResetSessionRepository,
	publisher Publisher,
	logger *zap.Logger,
) *RecoveryService {
	return &RecoveryService{
		users:     users,
		otps:      otps,
		sessions:  sessions,
		publisher: publisher,
		logger:    nopLogger(logger),
	}
}
