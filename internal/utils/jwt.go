package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenKind string

const (
	TokenKindAccess     TokenKind = "access"
	TokenKindRefresh    TokenKind = "refresh"
	TokenKindOTPSession TokenKind = "otp-session"
)

var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenWrongKind = errors.New("unexpected token type")
)

type TokenClaims struct {
	UserID string `json:"id"`
	Kind   string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenSettings is the secret and lifetime for one token kind. Each kind is
// signed with its own secret so a token of one kind can never pass
// verification against another kind's key.
type TokenSettings struct {
	Secret []byte
	TTL    time.Duration
}

type TokenManager struct {
	Issuer string
	Kinds  map[TokenKind]TokenSettings
}

func (m *TokenManager) Issue(kind TokenKind, userID string) (string, time.Duration, error) {
	settings, ok := m.Kinds[kind]
	if !ok || len(settings.Secret) == 0 {
		return "", 0, ErrTokenInvalid
	}
	now := time.Now()
	claims := TokenClaims{
		UserID: userID,
		Kind:   string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(settings.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(settings.Secret)
	if err != nil {
		return "", 0, err
	}
	return signed, settings.TTL, nil
}

// Verify checks the signature and expiry against the given kind's secret and
// requires the embedded kind tag to match. A wrong-kind mismatch is reported
// even when the signature happens to verify, so a refresh token can never be
// replayed where an access token is expected.
func (m *TokenManager) Verify(tokenString string, kind TokenKind) (*TokenClaims, error) {
	settings, ok := m.Kinds[kind]
	if !ok || len(settings.Secret) == 0 {
		return nil, ErrTokenInvalid
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return settings.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Kind != string(kind) {
		return nil, ErrTokenWrongKind
	}
	return claims, nil
}
