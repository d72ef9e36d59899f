package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SM227465/cl/internal/dto"
	"github.com/SM227465/cl/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var errMissingResetToken = errors.New("Password reset token is missing")

type AuthHandler struct {
	Service  *service.AuthService
	Validate *validator.Validate
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{Service: svc, Validate: validate}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	input := service.SignupInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		CountryCode:     req.CountryCode,
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
	user, tokens, err := h.Service.Signup(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "Account Created Successfully",
		"tokens":  dto.TokenBundleFromService(tokens),
		"user":    dto.UserResponseFromEntity(user),
	})
}

func (h *AuthHandler) EmailLogin(c echo.Context) error {
	var req dto.EmailLoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	user, tokens, err := h.Service.EmailLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"tokens":  dto.TokenBundleFromService(tokens),
		"user":    dto.UserResponseFromEntity(user),
	})
}

func (h *AuthHandler) PhoneLogin(c echo.Context) error {
	var req dto.PhoneLoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	challenge, err := h.Service.PhoneLogin(c.Request().Context(), req.CountryCode, req.PhoneNumber)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"message":    "OTP sent successfully",
		"otpSession": challenge.Session,
		"expiresIn":  challenge.ExpiresIn,
	})
}

func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req dto.VerifyOTPRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	user, tokens, err := h.Service.VerifyOTP(c.Request().Context(), req.OTP, req.OTPSession)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"tokens":  dto.TokenBundleFromService(tokens),
		"user":    dto.UserResponseFromEntity(user),
	})
}

func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req dto.RefreshTokenRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusUnauthorized, err)
	}

	tokens, err := h.Service.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Token refreshed",
		"tokens":  dto.TokenBundleFromService(tokens),
	})
}

func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req dto.ForgotPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	email, err := h.Service.ForgotPassword(c.Request().Context(), req.Email, req.Domain, req.Path)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Email sent to %s", email),
	})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return writeError(c, http.StatusBadRequest, errMissingResetToken)
	}

	var req dto.ResetPasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	if err := h.Service.ResetPassword(c.Request().Context(), token, req.Password); err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Your password reset was successful",
	})
}

func (h *AuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
