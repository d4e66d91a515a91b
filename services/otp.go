package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"golang.org/x/crypto/bcrypt"
)

const (
	OTP_LENGTH       = 6
	OTP_TTL          = 10 * time.Minute
	VERIFIED_TTL     = 30 * time.Minute
	MAX_OTP_ATTEMPTS = 5
)

var (
	ErrOTPInvalid         = errors.New("invalid OTP")
	ErrOTPExpired         = errors.New("OTP expired or not requested")
	ErrOTPTooManyAttempts = errors.New("too many attempts, request a new OTP")
)

// Cost used for OTP and password hashes. Tests lower it.
var HashCost = 12

func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", OTP_LENGTH, n.Int64()), nil
}

func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckSecret(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// issueOTP stores a fresh code for subject and returns it in clear.
func issueOTP(ctx context.Context, otps repositories.OTPRepository, purpose, subject string) (string, error) {
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}
	hash, err := HashSecret(code)
	if err != nil {
		return "", err
	}
	if err := otps.Save(ctx, purpose, subject, hash, OTP_TTL); err != nil {
		return "", err
	}
	return code, nil
}

// checkOTP consumes one attempt. The code is discarded once it matches or
// once the attempts run out.
func checkOTP(ctx context.Context, otps repositories.OTPRepository, purpose, subject, code string) *res.ErrorRes {
	record, err := otps.Attempt(ctx, purpose, subject)
	if err != nil {
		if errors.Is(err, res.ErrNotFound) {
			return badRequest(ErrOTPExpired)
		}
		return res.NewErrorRes(err)
	}
	if record.Attempts > MAX_OTP_ATTEMPTS {
		return discardOTP(ctx, otps, purpose, subject)
	}
	if !CheckSecret(code, record.Hash) {
		if record.Attempts == MAX_OTP_ATTEMPTS {
			return discardOTP(ctx, otps, purpose, subject)
		}
		return badRequest(ErrOTPInvalid)
	}
	// Two right guesses racing each other, only one removes the code
	consumed, err := otps.Consume(ctx, purpose, subject)
	if err != nil {
		return res.NewErrorRes(err)
	}
	if !consumed {
		return badRequest(ErrOTPExpired)
	}
	return nil
}

func discardOTP(ctx context.Context, otps repositories.OTPRepository, purpose, subject string) *res.ErrorRes {
	if err := otps.Delete(ctx, purpose, subject); err != nil {
		return res.NewErrorRes(err)
	}
	return badRequest(ErrOTPTooManyAttempts)
}
