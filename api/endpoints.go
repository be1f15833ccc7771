package api

import "strings"

// Endpoint path constants
// All API endpoints are defined here to ensure consistency and prevent typos
const (
	EndpointLogin              = "/api/auth/login"
	EndpointCheckSession       = "/api/auth/check-session"
	EndpointVerifyLoginCode    = "/api/auth/verify-login-code"
	EndpointResendLoginCode    = "/api/auth/resend-login-code"
	EndpointCloseOtherSessions = "/api/auth/close-other-sessions"

	EndpointRegister           = "/api/auth/register"
	EndpointVerifyEmail        = "/api/auth/verify-email"
	EndpointResendVerification = "/api/auth/resend-verification-code"

	EndpointForgotPassword     = "/api/auth/forgot-password"
	EndpointVerifyRecoveryCode = "/api/auth/verify-recovery-code"
	EndpointResetPassword      = "/api/auth/reset-password"

	// Email second-factor enrolment (requires an active session).
	EndpointConfigureEmail2FA = "/api/gmail-2fa/configurar"
	EndpointVerifyEmail2FA    = "/api/gmail-2fa/verificar"
)

// publicPathFragments lists endpoints reachable without a session. Requests
// whose path contains one of these never carry the bearer token, and a 401 on
// them never forces a redirect (the caller's own error handling runs).
var publicPathFragments = []string{
	"/auth/login",
	"/auth/register",
	"/auth/verify-login-code",
	"/auth/resend-login-code",
	"/auth/forgot-password",
	"/auth/verify-recovery-code",
	"/auth/reset-password",
	"/auth/verify-email",
	"/auth/resend-verification-code",
}

// IsPublicPath reports whether the request path matches the allow-list.
func IsPublicPath(path string) bool {
	for _, fragment := range publicPathFragments {
		if strings.Contains(path, fragment) {
			return true
		}
	}
	return false
}
