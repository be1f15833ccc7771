package users

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// SecondFactorMethod identifies how a second login factor is provided. The wire
// values come from the marketplace API's metodo_2fa field.
type SecondFactorMethod string

const (
	MFNone          SecondFactorMethod = ""
	MFAuthenticator SecondFactorMethod = "TOTP"  // time-based code from an authenticator app
	MFEmail         SecondFactorMethod = "GMAIL" // code emailed on demand
)

// Known reports whether the method is one the client can drive a challenge for.
func (m SecondFactorMethod) Known() bool {
	return m == MFAuthenticator || m == MFEmail
}

// Profile is the minimal user profile the client persists alongside the token.
type Profile struct {
	ID    int    `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

var (
	// Names may contain letters (including Spanish diacritics) and spaces.
	nameRegex  = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

const passwordSpecialChars = "@$!%*?&#"

// MaskEmail obscures an address for display while keeping it recognisable,
// e.g. ma***ria@g***.com. Short locals are masked entirely.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at < 0 {
		return "***"
	}
	local, domain := email[:at], email[at+1:]

	maskedLocal := "***"
	if len(local) > 4 {
		maskedLocal = local[:2] + "***" + local[len(local)-3:]
	}

	maskedDomain := "***"
	if domain != "" {
		maskedDomain = domain[:1] + "***"
		if dot := strings.Index(domain, "."); dot > 0 {
			maskedDomain += domain[dot:]
		}
	}
	return maskedLocal + "@" + maskedDomain
}

// ValidateName checks the display name rules enforced at registration.
func ValidateName(name string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return fmt.Errorf("name must be at least 2 characters long")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("name may only contain letters and spaces")
	}
	return nil
}

// ValidateEmail checks the email syntax accepted at registration.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
// - Contains at least one special character (@$!%*?&#)
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		} else if strings.ContainsRune(passwordSpecialChars, char) {
			hasSpecial = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character (%s)", passwordSpecialChars)
	}

	return nil
}
