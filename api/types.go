package api

// Wire types for the marketplace auth API. Field names follow the server's
// JSON contract, which is partly in Spanish (usuario, correo, metodo_2fa).

// Usuario is the user profile as returned by the server.
type Usuario struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
	Correo string `json:"correo"`
}

// LoginResponse is the success payload of the login and verify-login-code
// operations. The same shape covers three outcomes: blocked account, second
// factor required, and full success.
type LoginResponse struct {
	Blocked          bool   `json:"blocked,omitempty"`
	MinutesRemaining int    `json:"minutesRemaining,omitempty"`
	Message          string `json:"message,omitempty"`

	Requires2FA bool   `json:"requires2FA,omitempty"`
	Metodo2FA   string `json:"metodo_2fa,omitempty"`
	Correo      string `json:"correo,omitempty"`

	// The token arrives under access_token on newer server builds and under
	// token on older ones.
	AccessToken string   `json:"access_token,omitempty"`
	Token       string   `json:"token,omitempty"`
	Usuario     *Usuario `json:"usuario,omitempty"`
}

// BearerToken returns the issued token regardless of which field carried it.
func (r *LoginResponse) BearerToken() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// CheckSessionResponse is the payload of a successful session check.
type CheckSessionResponse struct {
	Valid   bool   `json:"valid,omitempty"`
	Message string `json:"message,omitempty"`
}

// RegisterResponse is the payload of a successful registration.
type RegisterResponse struct {
	RequiresVerification bool   `json:"requiresVerification,omitempty"`
	Message              string `json:"message,omitempty"`
}

// SimpleResponse covers operations that only return a message.
type SimpleResponse struct {
	Message string `json:"message,omitempty"`
}

// RecoveryResponse is the payload of the password-recovery operations. The
// server caps code requests per account and reports the remaining quota.
type RecoveryResponse struct {
	Message           string `json:"message,omitempty"`
	AttemptsRemaining *int   `json:"attemptsRemaining,omitempty"`
	Warning           string `json:"warning,omitempty"`
}

// Email2FASetupResponse is the payload of the email second-factor enrolment
// request. Email carries the masked address the code was sent to.
type Email2FASetupResponse struct {
	Email   string `json:"email,omitempty"`
	Message string `json:"message,omitempty"`
}

// CloseOtherSessionsResponse reports how many other sessions were revoked.
type CloseOtherSessionsResponse struct {
	SessionsRevoked int    `json:"sessionsRevoked"`
	Message         string `json:"message,omitempty"`
}
