package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SM227465/cl/internal/service"
	"github.com/SM227465/cl/internal/utils"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the shared failure envelope for every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, ErrorResponse{Success: false, Message: err.Error()})
}

func writeServiceError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrEmailInUse):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrEmailNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUserGone):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidOTP):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrResetTokenInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrOTPSendFailed):
		status = http.StatusBadGateway
	case errors.Is(err, service.ErrEmailSendFailed):
		status = http.StatusInternalServerError
	case errors.Is(err, service.ErrCarNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrExternalAPIError):
		status = http.StatusServiceUnavailable
	case errors.Is(err, service.ErrExternalFetchFail):
		status = http.StatusBadGateway
	case errors.Is(err, utils.ErrTokenWrongKind):
		status = http.StatusBadRequest
	case errors.Is(err, utils.ErrTokenExpired), errors.Is(err, utils.ErrTokenInvalid):
		status = http.StatusUnauthorized
	}
	return writeError(c, status, err)
}
