package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/SM227465/cl/internal/entity"
	"github.com/SM227465/cl/internal/utils"

	"github.com/google/uuid"
)

// --- fakes ---

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User

	setResetErr     error
	clearResetCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok || !user.IsActive {
		return nil, nil
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email && user.IsActive {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByPhone(_ context.Context, countryCode, phoneNumber string) (*entity.User, error) {
	for _, user := range f.users {
		if user.CountryCode != nil && *user.CountryCode == countryCode &&
			user.PhoneNumber != nil && *user.PhoneNumber == phoneNumber && user.IsActive {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByResetTokenHash(_ context.Context, tokenHash string) (*entity.User, error) {
	for _, user := range f.users {
		if user.PasswordResetTokenHash != nil && *user.PasswordResetTokenHash == tokenHash &&
			user.PasswordResetExpiresAt != nil && user.PasswordResetExpiresAt.After(time.Now()) &&
			user.IsActive {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SetOTPState(_ context.Context, userID uuid.UUID, code, session string) error {
	user, ok := f.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	user.LastOTPCode = &code
	user.LastOTPSession = &session
	return nil
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	if f.setResetErr != nil {
		return f.setResetErr
	}
	user, ok := f.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	user.PasswordResetTokenHash = &tokenHash
	user.PasswordResetExpiresAt = &expiresAt
	return nil
}

func (f *fakeUserRepo) ClearResetToken(_ context.Context, userID uuid.UUID) error {
	f.clearResetCalls++
	user, ok := f.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	user.PasswordResetTokenHash = nil
	user.PasswordResetExpiresAt = nil
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string, changedAt time.Time) error {
	user, ok := f.users[userID]
	if !ok {
		return errors.New("no such user")
	}
	user.PasswordHash = passwordHash
	user.PasswordChangedAt = &changedAt
	user.PasswordResetTokenHash = nil
	user.PasswordResetExpiresAt = nil
	return nil
}

type fakeOTPSender struct {
	code string
	err  error
}

func (f *fakeOTPSender) Send(context.Context, string, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.code, nil
}

type fakeEmailSender struct {
	resetErr  error
	resetURLs []string
	welcomes  int
}

func (f *fakeEmailSender) SendPasswordResetEmail(_ context.Context, _ *entity.User, resetURL string) error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resetURLs = append(f.resetURLs, resetURL)
	return nil
}

func (f *fakeEmailSender) SendWelcomeEmail(context.Context, *entity.User) error {
	f.welcomes++
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// --- helpers ---

func newTestTokenManager() *utils.TokenManager {
	return &utils.TokenManager{
		Issuer: "cl-test",
		Kinds: map[utils.TokenKind]utils.TokenSettings{
			utils.TokenKindAccess:     {Secret: []byte("access-secret"), TTL: time.Hour},
			utils.TokenKindRefresh:    {Secret: []byte("refresh-secret"), TTL: 7 * 24 * time.Hour},
			utils.TokenKindOTPSession: {Secret: []byte("otp-secret"), TTL: 10 * time.Minute},
		},
	}
}

func newTestService(repo *fakeUserRepo, otp OTPSender, mail EmailSender) *AuthService {
	if otp == nil {
		otp = &fakeOTPSender{code: "123456"}
	}
	if mail == nil {
		mail = &fakeEmailSender{}
	}
	return NewAuthService(
		repo,
		BcryptPasswordHasher{Cost: 4},
		newTestTokenManager(),
		otp,
		mail,
		RealClock{},
		nil,
	)
}

func signupInput() SignupInput {
	return SignupInput{
		FirstName:       "A",
		LastName:        "B",
		Email:           "a@b.com",
		CountryCode:     "+91",
		PhoneNumber:     "7074639326",
		Password:        "Secret1!",
		ConfirmPassword: "Secret1!",
	}
}

// --- tests ---

func TestSignup_NeverStoresPlaintext(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)

	user, tokens, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if user.PasswordHash == "Secret1!" || strings.Contains(user.PasswordHash, "Secret1!") {
		t.Fatal("plaintext password reached the stored record")
	}

	hasher := BcryptPasswordHasher{Cost: 4}
	if !hasher.Verify(user.PasswordHash, "Secret1!") {
		t.Fatal("stored hash does not verify against the original password")
	}
	if hasher.Verify(user.PasswordHash, "Secret1?") {
		t.Fatal("stored hash verifies against a mutated password")
	}

	if tokens.Access.Token == "" || tokens.Refresh == nil || tokens.Refresh.Token == "" {
		t.Fatal("expected both access and refresh tokens")
	}
	if tokens.Access.ExpiresIn != time.Hour.Milliseconds() {
		t.Fatalf("access expiresIn = %d ms, want %d", tokens.Access.ExpiresIn, time.Hour.Milliseconds())
	}
	if tokens.Access.TokenExpireUnit != "milliseconds" {
		t.Fatalf("tokenExpireUnit = %q", tokens.Access.TokenExpireUnit)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)

	if _, _, err := svc.Signup(context.Background(), signupInput()); err != nil {
		t.Fatalf("first Signup error: %v", err)
	}
	if _, _, err := svc.Signup(context.Background(), signupInput()); !errors.Is(err, ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestEmailLogin_UnifiedInvalidCredentials(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)
	if _, _, err := svc.Signup(context.Background(), signupInput()); err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	_, _, wrongPassword := svc.EmailLogin(context.Background(), "a@b.com", "WrongPass1!")
	_, _, unknownEmail := svc.EmailLogin(context.Background(), "nobody@b.com", "Secret1!")
	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", unknownEmail)
	}
}

func TestEmailLogin_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)
	if _, _, err := svc.Signup(context.Background(), signupInput()); err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	user, tokens, err := svc.EmailLogin(context.Background(), " A@B.com ", "Secret1!")
	if err != nil {
		t.Fatalf("EmailLogin error: %v", err)
	}
	if user.Email != "a@b.com" {
		t.Fatalf("email = %q", user.Email)
	}
	if tokens.Refresh == nil {
		t.Fatal("expected a refresh token on login")
	}
}

func TestPhoneLogin_UserNotFound(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)

	if _, err := svc.PhoneLogin(context.Background(), "+91", "0000000000"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPhoneLogin_BindsCodeToSession(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	sender := &fakeOTPSender{code: "654321"}
	svc := newTestService(repo, sender, nil)
	user, _, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	hashBefore := user.PasswordHash

	challenge, err := svc.PhoneLogin(context.Background(), "+91", "7074639326")
	if err != nil {
		t.Fatalf("PhoneLogin error: %v", err)
	}
	if challenge.Session == "" {
		t.Fatal("expected an otp-session token")
	}

	stored := repo.users[user.ID]
	if stored.LastOTPCode == nil || *stored.LastOTPCode != "654321" {
		t.Fatal("OTP code was not persisted")
	}
	if stored.LastOTPSession == nil || *stored.LastOTPSession != challenge.Session {
		t.Fatal("OTP session was not persisted")
	}

	claims, err := newTestTokenManager().Verify(challenge.Session, utils.TokenKindOTPSession)
	if err != nil {
		t.Fatalf("session does not verify as otp-session: %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Fatalf("session subject = %q, want %q", claims.UserID, user.ID)
	}

	// The OTP write must not touch the password hash.
	if stored.PasswordHash != hashBefore {
		t.Fatal("password hash changed during OTP issuance")
	}
}

func TestPhoneLogin_SendFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeOTPSender{err: errors.New("twilio down")}, nil)
	if _, _, err := svc.Signup(context.Background(), signupInput()); err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	if _, err := svc.PhoneLogin(context.Background(), "+91", "7074639326"); !errors.Is(err, ErrOTPSendFailed) {
		t.Fatalf("expected ErrOTPSendFailed, got %v", err)
	}
}

func TestVerifyOTP(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeOTPSender{code: "111222"}, nil)
	signedUp, _, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	challenge, err := svc.PhoneLogin(context.Background(), "+91", "7074639326")
	if err != nil {
		t.Fatalf("PhoneLogin error: %v", err)
	}

	if _, _, err := svc.VerifyOTP(context.Background(), "999999", challenge.Session); !errors.Is(err, ErrInvalidOTP) {
		t.Fatalf("wrong code: expected ErrInvalidOTP, got %v", err)
	}

	// A refresh token is not an otp-session token.
	refresh, _, err := newTestTokenManager().Issue(utils.TokenKindRefresh, signedUp.ID.String())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, _, err := svc.VerifyOTP(context.Background(), "111222", refresh); err == nil {
		t.Fatal("expected an error for a wrong-kind session token")
	}

	user, tokens, err := svc.VerifyOTP(context.Background(), "111222", challenge.Session)
	if err != nil {
		t.Fatalf("VerifyOTP error: %v", err)
	}
	if user.ID != signedUp.ID {
		t.Fatal("verified user mismatch")
	}
	if tokens.Access.Token == "" || tokens.Refresh == nil {
		t.Fatal("expected a full token pair after OTP verification")
	}
}

func TestVerifyOTP_UserGone(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)

	session, _, err := newTestTokenManager().Issue(utils.TokenKindOTPSession, uuid.NewString())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, _, err := svc.VerifyOTP(context.Background(), "123456", session); !errors.Is(err, ErrUserGone) {
		t.Fatalf("expected ErrUserGone, got %v", err)
	}
}

func TestRefreshTokens(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)
	user, tokens, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	bundle, err := svc.RefreshTokens(context.Background(), tokens.Refresh.Token)
	if err != nil {
		t.Fatalf("RefreshTokens error: %v", err)
	}
	if bundle.Access.Token == "" {
		t.Fatal("expected a new access token")
	}
	if bundle.Refresh != nil {
		t.Fatal("refresh token must not be rotated")
	}

	// An access token must not be accepted on the refresh path.
	if _, err := svc.RefreshTokens(context.Background(), tokens.Access.Token); err == nil {
		t.Fatal("expected an error for access-as-refresh")
	}

	repo.users[user.ID].IsActive = false
	if _, err := svc.RefreshTokens(context.Background(), tokens.Refresh.Token); !errors.Is(err, ErrUserGone) {
		t.Fatalf("expected ErrUserGone for a deactivated user, got %v", err)
	}
}

func TestForgotPassword_PersistsHashOnly(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	mail := &fakeEmailSender{}
	svc := newTestService(repo, nil, mail)
	user, _, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	sentTo, err := svc.ForgotPassword(context.Background(), "a@b.com", "https://example.com", "reset")
	if err != nil {
		t.Fatalf("ForgotPassword error: %v", err)
	}
	if sentTo != "a@b.com" {
		t.Fatalf("sentTo = %q", sentTo)
	}
	if len(mail.resetURLs) != 1 {
		t.Fatalf("reset emails sent = %d, want 1", len(mail.resetURLs))
	}

	// The link carries the plaintext; the record carries only its digest.
	url := mail.resetURLs[0]
	plain := url[strings.LastIndex(url, "/")+1:]
	stored := repo.users[user.ID]
	if stored.PasswordResetTokenHash == nil {
		t.Fatal("reset token hash was not persisted")
	}
	if *stored.PasswordResetTokenHash == plain {
		t.Fatal("plaintext reset token was persisted")
	}
	if utils.HashResetToken(plain) != *stored.PasswordResetTokenHash {
		t.Fatal("persisted hash does not match the mailed token")
	}
	if stored.PasswordResetExpiresAt == nil || !stored.PasswordResetExpiresAt.After(time.Now()) {
		t.Fatal("reset expiry missing or already past")
	}
}

func TestForgotPassword_RollsBackOnSendFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	mail := &fakeEmailSender{resetErr: errors.New("smtp down")}
	svc := newTestService(repo, nil, mail)
	user, _, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}

	if _, err := svc.ForgotPassword(context.Background(), "a@b.com", "https://example.com", "reset"); !errors.Is(err, ErrEmailSendFailed) {
		t.Fatalf("expected ErrEmailSendFailed, got %v", err)
	}
	if repo.clearResetCalls != 1 {
		t.Fatalf("ClearResetToken calls = %d, want 1", repo.clearResetCalls)
	}
	stored := repo.users[user.ID]
	if stored.PasswordResetTokenHash != nil || stored.PasswordResetExpiresAt != nil {
		t.Fatal("reset fields were not rolled back")
	}
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestService(repo, nil, nil)

	if _, err := svc.ForgotPassword(context.Background(), "nobody@b.com", "https://example.com", "reset"); !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("expected ErrEmailNotFound, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	mail := &fakeEmailSender{}
	now := time.Now()
	svc := NewAuthService(
		repo,
		BcryptPasswordHasher{Cost: 4},
		newTestTokenManager(),
		&fakeOTPSender{code: "123456"},
		mail,
		fixedClock{now: now},
		nil,
	)
	user, _, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if user.PasswordChangedAt != nil {
		t.Fatal("passwordChangedAt must be unset on initial creation")
	}

	if err := svc.ResetPassword(context.Background(), "deadbeef", "NewSecret1!"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for an unknown token, got %v", err)
	}

	if _, err := svc.ForgotPassword(context.Background(), "a@b.com", "https://example.com", "reset"); err != nil {
		t.Fatalf("ForgotPassword error: %v", err)
	}
	url := mail.resetURLs[0]
	plain := url[strings.LastIndex(url, "/")+1:]

	if err := svc.ResetPassword(context.Background(), plain, "NewSecret1!"); err != nil {
		t.Fatalf("ResetPassword error: %v", err)
	}

	stored := repo.users[user.ID]
	hasher := BcryptPasswordHasher{Cost: 4}
	if !hasher.Verify(stored.PasswordHash, "NewSecret1!") {
		t.Fatal("new password does not verify")
	}
	if hasher.Verify(stored.PasswordHash, "Secret1!") {
		t.Fatal("old password still verifies")
	}
	if stored.PasswordChangedAt == nil || !stored.PasswordChangedAt.Equal(now) {
		t.Fatal("passwordChangedAt was not stamped")
	}
	if stored.PasswordResetTokenHash != nil || stored.PasswordResetExpiresAt != nil {
		t.Fatal("reset token was not consumed")
	}

	// Single use: the same token must not work twice.
	if err := svc.ResetPassword(context.Background(), plain, "AnotherSecret1!"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid on reuse, got %v", err)
	}
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	mail := &fakeEmailSender{}
	svc := newTestService(repo, nil, mail)
	user, _, err := svc.Signup(context.Background(), signupInput())
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if _, err := svc.ForgotPassword(context.Background(), "a@b.com", "https://example.com", "reset"); err != nil {
		t.Fatalf("ForgotPassword error: %v", err)
	}

	expired := time.Now().Add(-time.Minute)
	repo.users[user.ID].PasswordResetExpiresAt = &expired

	url := mail.resetURLs[0]
	plain := url[strings.LastIndex(url, "/")+1:]
	if err := svc.ResetPassword(context.Background(), plain, "NewSecret1!"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for an expired token, got %v", err)
	}
}
