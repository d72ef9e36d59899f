package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SM227465/cl/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByPhone(ctx context.Context, countryCode, phoneNumber string) (*entity.User, error)
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	SetOTPState(ctx context.Context, userID uuid.UUID, code, session string) error
	SetResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, userID uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, changedAt time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = true", id).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_active = true", email).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByPhone(ctx context.Context, countryCode, phoneNumber string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("country_code = ? AND phone_number = ? AND is_active = true", countryCode, phoneNumber).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByResetTokenHash matches the stored digest and the expiry in a single
// query so an expired token is indistinguishable from an unknown one.
func (r *userRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Where("password_reset_token_hash = ? AND password_reset_expires_at > NOW() AND is_active = true", tokenHash).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// SetOTPState writes only the OTP fields, leaving the rest of the record
// untouched.
func (r *userRepository) SetOTPState(ctx context.Context, userID uuid.UUID, code, session string) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"last_otp_code":    code,
			"last_otp_session": session,
		}).Error
}

func (r *userRepository) SetResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_reset_token_hash": tokenHash,
			"password_reset_expires_at": expiresAt,
		}).Error
}

func (r *userRepository) ClearResetToken(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_reset_token_hash": nil,
			"password_reset_expires_at": nil,
		}).Error
}

// UpdatePassword stores the new hash, stamps password_changed_at and consumes
// any outstanding reset token in one write.
func (r *userRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, changedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_hash":             passwordHash,
			"password_changed_at":       changedAt,
			"password_reset_token_hash": nil,
			"password_reset_expires_at": nil,
		}).Error
}
