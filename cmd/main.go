package main

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/SM227465/cl/api/handler"
	apiMiddleware "github.com/SM227465/cl/api/middleware"
	"github.com/SM227465/cl/api/routes"
	"github.com/SM227465/cl/config"
	"github.com/SM227465/cl/internal/repository"
	"github.com/SM227465/cl/internal/service"
	"github.com/SM227465/cl/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	db := config.ConnectionDb()
	validate := validator.New()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	authConfig := service.AuthConfig{
		AccessTokenTTL:  envDurationMS("ACCESS_TOKEN_MAX_AGE", time.Hour),
		RefreshTokenTTL: envDurationMS("REFRESH_TOKEN_MAX_AGE", 7*24*time.Hour),
		OTPSessionTTL:   envDurationMS("OTP_SESSION_MAX_AGE", 10*time.Minute),
	}

	accessSecret := os.Getenv("ACCESS_TOKEN_SECRET")
	refreshSecret := os.Getenv("REFRESH_TOKEN_SECRET")
	otpSecret := os.Getenv("OTP_SESSION_SECRET")
	if accessSecret == "" || refreshSecret == "" || otpSecret == "" {
		logger.Fatal("ACCESS_TOKEN_SECRET, REFRESH_TOKEN_SECRET and OTP_SESSION_SECRET are required")
	}

	tokenManager := &utils.TokenManager{
		Issuer: os.Getenv("JWT_ISSUER"),
		Kinds: map[utils.TokenKind]utils.TokenSettings{
			utils.TokenKindAccess:     {Secret: []byte(accessSecret), TTL: authConfig.AccessTokenTTL},
			utils.TokenKindRefresh:    {Secret: []byte(refreshSecret), TTL: authConfig.RefreshTokenTTL},
			utils.TokenKindOTPSession: {Secret: []byte(otpSecret), TTL: authConfig.OTPSessionTTL},
		},
	}

	userRepo := repository.NewUserRepository(db)
	carRepo := repository.NewCarRepository(db)

	otpSender := service.NewTwilioOTPSender(
		os.Getenv("TWILIO_ACCOUNT_SID"),
		os.Getenv("TWILIO_AUTH_TOKEN"),
		os.Getenv("TWILIO_FROM_NUMBER"),
	)
	otpSender.DevEcho = os.Getenv("OTP_DEV_ECHO") == "true"

	mailService := service.NewMailService(service.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     envInt("SMTP_PORT", 587),
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASS"),
		From:     os.Getenv("EMAIL_FROM"),
	})

	authService := service.NewAuthService(
		userRepo,
		service.BcryptPasswordHasher{Cost: service.PasswordHashCost},
		tokenManager,
		otpSender,
		mailService,
		service.RealClock{},
		logger,
	)
	carService := service.NewCarService(carRepo, service.NewExternalCarClient(os.Getenv("EXTERNAL_CAR_API")))

	authHandler := handler.NewAuthHandler(authService, validate)
	carHandler := handler.NewCarHandler(carService, validate)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.HTTPErrorHandler = errorHandler
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.CORS())
	app.Use(echoMiddleware.Secure())
	app.Use(echoMiddleware.BodyLimit("10K"))
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{Tokens: tokenManager, Users: userRepo}
	router := routes.NewRouter(app, authHandler, carHandler, authMiddleware)
	router.RegisterRoutes()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", addr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

// errorHandler rewrites echo's default error payload into the shared
// {success, message} envelope used by every endpoint.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	message := "Something went wrong"
	if httpErr, ok := err.(*echo.HTTPError); ok {
		status = httpErr.Code
		if text, ok := httpErr.Message.(string); ok {
			message = text
		}
	}
	_ = c.JSON(status, map[string]any{"success": false, "message": message})
}

func envDurationMS(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
