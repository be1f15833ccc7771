package token

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Hints are the display-only facts extractable from the access token when the
// server happens to issue JWTs. The token is otherwise treated as opaque; the
// server stays authoritative on validity, so the signature is never verified
// client-side.
type Hints struct {
	Subject   string
	Email     string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// ErrNotAJWT is returned when the access token is not JWT-shaped.
var ErrNotAJWT = errors.New("access token is not a JWT")

// Inspect decodes the token without verifying it and extracts display hints.
func Inspect(rawToken string) (*Hints, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrNotAJWT
	}

	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, ErrNotAJWT
	}

	claims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("error extracting claims")
	}

	hints := &Hints{}
	if sub, err := claims.GetSubject(); err == nil {
		hints.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		hints.Email = email
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		hints.IssuedAt = &iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		hints.ExpiresAt = &exp.Time
	}
	return hints, nil
}

// ExpiresWithin reports whether the token carries an expiry hint that falls
// inside d from now. Tokens without a readable expiry report false.
func ExpiresWithin(rawToken string, d time.Duration) bool {
	hints, err := Inspect(rawToken)
	if err != nil || hints.ExpiresAt == nil {
		return false
	}
	return time.Until(*hints.ExpiresAt) <= d
}
