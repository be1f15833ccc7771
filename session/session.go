package session

import (
	"github.com/nubarte/marketplace-client/users"
)

// Storage key layout. The token is stored under a canonical key plus a legacy
// alias that older client builds read; profile fields are stored individually.
const (
	KeyAccessToken  = "access_token"
	KeyLegacyToken  = "token"
	KeyUserID       = "userId"
	KeyUserName     = "userName"
	KeyUserEmail    = "userEmail"
	KeyLoggedIn      = "isLoggedIn"
	KeyPendingEmail  = "temp_correo_2fa"
	KeyRecoveryEmail = "recovery_email"
)

// Session is the authenticated state owned by the credential store. A session
// is authenticated exactly when it carries an access token.
type Session struct {
	AccessToken string
	User        users.Profile
}

// Authenticated reports whether the session holds an access token. Any other
// stored field is ignored for this decision.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// Store persists the session and the transient flow emails: the pending
// second-factor email and the password-recovery email. Save and Clear are
// atomic: either all session artifacts are persisted, or none are. Clear is
// idempotent.
//
// Only the auth orchestrator's login/verify success paths and the logout path
// write the session; every other component reads it.
type Store interface {
	Save(Session) error
	Clear() error
	Current() Session
	IsAuthenticated() bool

	SavePendingSecondFactorEmail(email string) error
	PendingSecondFactorEmail() string
	ClearPendingSecondFactorEmail() error

	SaveRecoveryEmail(email string) error
	RecoveryEmail() string
	ClearRecoveryEmail() error
}
