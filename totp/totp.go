// Package totp generates authenticator-app codes from a shared secret, for
// accounts whose second factor is an authenticator rather than email.
package totp

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Code returns the current 6-digit code for the base32 secret.
func Code(secret string, at time.Time) (string, error) {
	code, err := totp.GenerateCode(normalizeSecret(secret), at)
	if err != nil {
		return "", errors.Wrap(err, "[Code]")
	}
	return code, nil
}

// Validate checks a code against the secret for the current period.
func Validate(code, secret string, at time.Time) bool {
	valid, err := totp.ValidateCustom(code, normalizeSecret(secret), at, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return valid
}

// normalizeSecret strips the spacing authenticator setup pages add for
// readability.
func normalizeSecret(secret string) string {
	return strings.ToUpper(strings.ReplaceAll(secret, " ", ""))
}
