package dto

import (
	"time"

	"github.com/SM227465/cl/internal/entity"
	"github.com/SM227465/cl/internal/service"
)

type SignupRequest struct {
	FirstName       string `json:"firstName" validate:"required,min=2,max=50"`
	LastName        string `json:"lastName" validate:"required,min=2,max=50"`
	Email           string `json:"email" validate:"required,email"`
	CountryCode     string `json:"countryCode" validate:"omitempty"`
	PhoneNumber     string `json:"phoneNumber" validate:"omitempty"`
	Password        string `json:"password" validate:"required,min=8,max=16"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type EmailLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PhoneLoginRequest struct {
	CountryCode string `json:"countryCode" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type VerifyOTPRequest struct {
	OTP        string `json:"otp" validate:"required"`
	OTPSession string `json:"otpSession" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Domain string `json:"domain" validate:"required"`
	Path   string `json:"path" validate:"required"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,max=16"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type TokenInfo struct {
	Token           string `json:"token"`
	ExpiresIn       int64  `json:"expiresIn"`
	TokenExpireUnit string `json:"tokenExpireUnit"`
}

type TokenBundle struct {
	Access  TokenInfo  `json:"access"`
	Refresh *TokenInfo `json:"refresh,omitempty"`
}

// UserResponse is the sanitized client view of a user: no password, reset or
// OTP fields.
type UserResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CountryCode *string   `json:"countryCode,omitempty"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	return UserResponse{
		ID:          user.ID.String(),
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		FullName:    user.FullName(),
		Email:       user.Email,
		Role:        string(user.Role),
		CountryCode: user.CountryCode,
		PhoneNumber: user.PhoneNumber,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func TokenBundleFromService(bundle *service.TokenBundle) TokenBundle {
	result := TokenBundle{
		Access: TokenInfo{
			Token:           bundle.Access.Token,
			ExpiresIn:       bundle.Access.ExpiresIn,
			TokenExpireUnit: bundle.Access.TokenExpireUnit,
		},
	}
	if bundle.Refresh != nil {
		result.Refresh = &TokenInfo{
			Token:           bundle.Refresh.Token,
			ExpiresIn:       bundle.Refresh.ExpiresIn,
			TokenExpireUnit: bundle.Refresh.TokenExpireUnit,
		}
	}
	return result
}
