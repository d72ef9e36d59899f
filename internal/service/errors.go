package service

import "errors"

// Sentinel errors carry the exact client-facing message; handlers map each to
// an HTTP status.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailInUse         = errors.New("A user exists with this email; if it's you, please login.")
	ErrInvalidCredentials = errors.New("Incorrect email or password")
	ErrUserNotFound       = errors.New("No user found with this countryCode and phoneNumber")
	ErrEmailNotFound      = errors.New("There is no user with this email address.")
	ErrUserGone           = errors.New("The user belonging to this token does no longer exist")
	ErrInvalidOTP         = errors.New("Invalid otp")
	ErrOTPSendFailed      = errors.New("Failed to send OTP, try again later")
	ErrResetTokenInvalid  = errors.New("Token is invalid or has expired")
	ErrEmailSendFailed    = errors.New("There was an error to sending the email, Try again later.")
)
