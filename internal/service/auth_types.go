package service

import (
	"context"
	"time"

	"github.com/SM227465/cl/internal/entity"

	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	OTPSessionTTL   time.Duration
}

// OTPSender delivers a one-time code out of band and hands the code back so
// it can be bound to the session.
type OTPSender interface {
	Send(ctx context.Context, countryCode, phoneNumber string) (string, error)
}

type EmailSender interface {
	SendPasswordResetEmail(ctx context.Context, user *entity.User, resetURL string) error
	SendWelcomeEmail(ctx context.Context, user *entity.User) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// PasswordHashCost is deliberately above bcrypt.DefaultCost.
const PasswordHashCost = 12

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = PasswordHashCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify never returns an error: any internal failure reads as a mismatch.
func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
