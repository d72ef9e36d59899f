package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SM227465/cl/internal/entity"
	"github.com/SM227465/cl/internal/repository"
	"github.com/SM227465/cl/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Compared against on unknown-email logins so both branches of the unified
// invalid-credentials error cost a bcrypt verification.
const dummyPasswordHash = "$2a$12$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

const tokenExpireUnit = "milliseconds"

type AuthService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens *utils.TokenManager
	otp    OTPSender
	mail   EmailSender
	clock  Clock
	log    *logrus.Logger
}

func NewAuthService(
	users repository.UserRepository,
	hasher PasswordHasher,
	tokens *utils.TokenManager,
	otp OTPSender,
	mail EmailSender,
	clock Clock,
	log *logrus.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		otp:    otp,
		mail:   mail,
		clock:  clock,
		log:    log,
	}
}

// Signup creates an account and logs the new user straight in. Hashing
// happens here, before the store call; the plaintext never reaches the
// repository.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*entity.User, *TokenBundle, error) {
	email := utils.NormalizeEmail(input.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, ErrEmailInUse
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &entity.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		Role:         entity.UserRoleGuest,
		PasswordHash: hash,
		IsActive:     true,
	}
	if code := strings.TrimSpace(input.CountryCode); code != "" {
		user.CountryCode = &code
	}
	if phone := strings.TrimSpace(input.PhoneNumber); phone != "" {
		user.PhoneNumber = &phone
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	if s.mail != nil {
		if err := s.mail.SendWelcomeEmail(ctx, user); err != nil {
			s.logger().WithError(err).WithField("email", user.Email).Warn("welcome email failed")
		}
	}

	bundle, err := s.issueTokenPair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, bundle, nil
}

// EmailLogin returns the same error for an unknown email and a wrong
// password.
func (s *AuthService) EmailLogin(ctx context.Context, email, password string) (*entity.User, *TokenBundle, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, nil, ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		_ = s.hasher.Verify(dummyPasswordHash, password)
		return nil, nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	bundle, err := s.issueTokenPair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, bundle, nil
}

// PhoneLogin sends a one-time code over SMS and binds it to a short-lived
// otp-session token stored alongside the code on the user record. The code
// itself never appears in the response.
func (s *AuthService) PhoneLogin(ctx context.Context, countryCode, phoneNumber string) (*OTPChallenge, error) {
	if strings.TrimSpace(countryCode) == "" || strings.TrimSpace(phoneNumber) == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.FindByPhone(ctx, countryCode, phoneNumber)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	code, err := s.otp.Send(ctx, countryCode, phoneNumber)
	if err != nil {
		s.logger().WithError(err).WithField("user_id", user.ID).Error("otp delivery failed")
		return nil, ErrOTPSendFailed
	}

	session, ttl, err := s.tokens.Issue(utils.TokenKindOTPSession, user.ID.String())
	if err != nil {
		return nil, err
	}
	if err := s.users.SetOTPState(ctx, user.ID, code, session); err != nil {
		return nil, err
	}

	return &OTPChallenge{Session: session, ExpiresIn: ttl.Milliseconds()}, nil
}

func (s *AuthService) VerifyOTP(ctx context.Context, otp, otpSession string) (*entity.User, *TokenBundle, error) {
	if strings.TrimSpace(otp) == "" || strings.TrimSpace(otpSession) == "" {
		return nil, nil, ErrInvalidInput
	}

	claims, err := s.tokens.Verify(otpSession, utils.TokenKindOTPSession)
	if err != nil {
		return nil, nil, err
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, nil, utils.ErrTokenInvalid
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserGone
	}
	if user.LastOTPCode == nil || *user.LastOTPCode != otp {
		return nil, nil, ErrInvalidOTP
	}

	bundle, err := s.issueTokenPair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, bundle, nil
}

// RefreshTokens exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*TokenBundle, error) {
	claims, err := s.tokens.Verify(refreshToken, utils.TokenKindRefresh)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, utils.ErrTokenInvalid
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserGone
	}

	access, ttl, err := s.tokens.Issue(utils.TokenKindAccess, user.ID.String())
	if err != nil {
		return nil, err
	}
	return &TokenBundle{
		Access: TokenInfo{Token: access, ExpiresIn: ttl.Milliseconds(), TokenExpireUnit: tokenExpireUnit},
	}, nil
}

// ForgotPassword persists only the reset token's hash; the plaintext goes
// into the outbound link and nowhere else. A failed send rolls the persisted
// fields back before surfacing the error.
func (s *AuthService) ForgotPassword(ctx context.Context, email, domain, path string) (string, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(domain) == "" || strings.TrimSpace(path) == "" {
		return "", ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrEmailNotFound
	}

	plain, hashed, expiresAt, err := utils.GenerateResetToken()
	if err != nil {
		return "", err
	}
	if err := s.users.SetResetToken(ctx, user.ID, hashed, expiresAt); err != nil {
		return "", err
	}

	resetURL := fmt.Sprintf("%s/%s/%s", strings.TrimRight(domain, "/"), strings.Trim(path, "/"), plain)
	if err := s.mail.SendPasswordResetEmail(ctx, user, resetURL); err != nil {
		s.logger().WithError(err).WithField("email", user.Email).Error("reset email failed")
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger().WithError(clearErr).WithField("user_id", user.ID).Error("reset token rollback failed")
		}
		return "", ErrEmailSendFailed
	}

	return user.Email, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if strings.TrimSpace(token) == "" || password == "" {
		return ErrInvalidInput
	}

	user, err := s.users.FindByResetTokenHash(ctx, utils.HashResetToken(token))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrResetTokenInvalid
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash, s.now())
}

func (s *AuthService) issueTokenPair(userID uuid.UUID) (*TokenBundle, error) {
	access, accessTTL, err := s.tokens.Issue(utils.TokenKindAccess, userID.String())
	if err != nil {
		return nil, err
	}
	refresh, refreshTTL, err := s.tokens.Issue(utils.TokenKindRefresh, userID.String())
	if err != nil {
		return nil, err
	}
	return &TokenBundle{
		Access: TokenInfo{Token: access, ExpiresIn: accessTTL.Milliseconds(), TokenExpireUnit: tokenExpireUnit},
		Refresh: &TokenInfo{
			Token:           refresh,
			ExpiresIn:       refreshTTL.Milliseconds(),
			TokenExpireUnit: tokenExpireUnit,
		},
	}, nil
}

func (s *AuthService) logger() *logrus.Logger {
	if s.log == nil {
		return logrus.StandardLogger()
	}
	return s.log
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
