package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SM227465/cl/internal/repository"
	"github.com/SM227465/cl/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const accessTokenCookie = "access_token"

// AuthMiddleware guards protected routes: it verifies the bearer access
// token, resolves the user and rejects tokens issued before the user's last
// password change.
type AuthMiddleware struct {
	Tokens *utils.TokenManager
	Users  repository.UserRepository
}

func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractToken(c)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
		}

		claims, err := m.Tokens.Verify(token, utils.TokenKindAccess)
		switch {
		case errors.Is(err, utils.ErrTokenExpired):
			return echo.NewHTTPError(http.StatusUnauthorized, "Token has expired! Please log in again.")
		case errors.Is(err, utils.ErrTokenWrongKind):
			return echo.NewHTTPError(http.StatusBadRequest, "Type of token is not an access token")
		case err != nil:
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token! Please log in again.")
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token! Please log in again.")
		}
		user, err := m.Users.FindByID(c.Request().Context(), userID)
		if err != nil {
			return err
		}
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "The user belonging to this token does no longer exist")
		}
		if claims.IssuedAt != nil && user.PasswordChangedAfter(claims.IssuedAt.Time) {
			return echo.NewHTTPError(http.StatusUnauthorized, "User changed password recently! Please login again.")
		}

		SetCurrentUser(c, user)
		return next(c)
	}
}

// extractToken prefers the Authorization header and falls back to the access
// token cookie.
func extractToken(c echo.Context) string {
	authorization := c.Request().Header.Get("Authorization")
	if authorization != "" {
		parts := strings.SplitN(authorization, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	cookie, err := c.Cookie(accessTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
