package nav

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Primary routes
	RouteLogin     = "/login"
	RouteRegister  = "/register"
	RouteDashboard = "/dashboard"

	// Second-factor routes
	RouteTwoFactorVerify = "/two-factor-verify"
	RouteVerifyEmailCode = "/verify-email-code"

	// Email verification after registration
	RouteVerifyEmail = "/verify-email"

	// Password recovery
	RouteForgotPassword     = "/forgot-password"
	RouteVerifyRecoveryCode = "/verify-recovery-code"
	RouteResetPassword      = "/reset-password"

	// Email second-factor enrolment
	RouteSetupEmail2FA = "/setup-email-2fa"

	// Error pages (reachable without authentication)
	RouteForbidden   = "/403"
	RouteNotFound    = "/404"
	RouteServerError = "/500"
)

// Reason query-parameter values carried on forced redirects to login.
const (
	ReasonSessionRevoked = "session_revoked"
	ReasonTokenExpired   = "token_expired"
	ReasonInactivity     = "inactivity"
	ReasonInvalidSession = "invalid_session"
)

// errorPages are routes on which forced redirects are suppressed to avoid loops.
var errorPages = map[string]bool{
	RouteForbidden:   true,
	RouteNotFound:    true,
	RouteServerError: true,
}

// IsPassthroughPage reports whether path is a page on which response errors must
// be passed through unchanged (error pages and the login page itself).
func IsPassthroughPage(path string) bool {
	return path == RouteLogin || errorPages[path]
}
