package service

type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	CountryCode     string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
}

type TokenInfo struct {
	Token           string
	ExpiresIn       int64
	TokenExpireUnit string
}

// TokenBundle is the access/refresh pair returned by the login flows. Refresh
// is nil on the refresh-token endpoint, which rotates the access token only.
type TokenBundle struct {
	Access  TokenInfo
	Refresh *TokenInfo
}

type OTPChallenge struct {
	Session   string
	ExpiresIn int64
}
