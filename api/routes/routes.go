package routes

import (
	"net/http"
	"time"

	"github.com/SM227465/cl/api/handler"
	"github.com/SM227465/cl/api/middleware"
	"github.com/SM227465/cl/internal/entity"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Cars           *handler.CarHandler
	AuthMiddleware middleware.AuthMiddleware
	APIRate        *middleware.RateLimiter
}

func NewRouter(e *echo.Echo, authHandler *handler.AuthHandler, carHandler *handler.CarHandler, authMiddleware middleware.AuthMiddleware) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		Cars:           carHandler,
		AuthMiddleware: authMiddleware,
		APIRate:        middleware.NewRateLimiter(rate.Limit(2), 100, 15*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Server is up"})
	})

	api := e.Group("/api", r.APIRate.Middleware())

	auth := api.Group("/v1/auth")
	auth.POST("/signup", r.Auth.Signup)
	auth.POST("/login/email", r.Auth.EmailLogin)
	auth.POST("/login/phone", r.Auth.PhoneLogin)
	auth.POST("/verify-otp", r.Auth.VerifyOTP)
	auth.POST("/refresh-token", r.Auth.RefreshToken)
	auth.POST("/forgot-password", r.Auth.ForgotPassword)
	auth.PATCH("/reset-password/:token", r.Auth.ResetPassword)

	cars := api.Group("/v1/cars")
	cars.GET("", r.Cars.List)
	cars.GET("/:id", r.Cars.Get)
	cars.POST("", r.Cars.Create, r.AuthMiddleware.RequireAuth, middleware.RequireRole(entity.UserRoleAdmin))
}
