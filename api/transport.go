package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/nubarte/marketplace-client/nav"
	"github.com/nubarte/marketplace-client/session"
)

// SessionEndFunc tears down all session state (credential store, inactivity
// monitor, periodic validator). The authenticator calls it at most once per
// fatal response; it must be idempotent.
type SessionEndFunc func(reason string)

// Authenticator is the request/response interceptor: it attaches the bearer
// token to non-public requests and translates authentication failures into
// session termination and navigation intents. The original error always
// reaches the caller so its own handling can still run.
type Authenticator struct {
	next      http.RoundTripper
	store     session.Store
	navigator nav.Navigator

	lock         sync.RWMutex
	onSessionEnd SessionEndFunc
}

var _ http.RoundTripper = (*Authenticator)(nil)

// NewAuthenticator wraps next (nil means http.DefaultTransport).
func NewAuthenticator(store session.Store, navigator nav.Navigator, next http.RoundTripper) *Authenticator {
	if next == nil {
		next = http.DefaultTransport
	}
	if navigator == nil {
		navigator = nav.NopNavigator{}
	}
	return &Authenticator{
		next:      next,
		store:     store,
		navigator: navigator,
	}
}

// SetSessionEndHook registers the full-logout path. Until set, the
// authenticator falls back to clearing the credential store directly.
func (a *Authenticator) SetSessionEndHook(fn SessionEndFunc) {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.onSessionEnd = fn
}

func (a *Authenticator) RoundTrip(req *http.Request) (*http.Response, error) {
	public := IsPublicPath(req.URL.Path)

	req = req.Clone(req.Context())
	if !public {
		if token := a.store.Current().AccessToken; token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		a.handleErrorResponse(req, resp, public)
	}
	return resp, nil
}

// handleErrorResponse applies the redirect rule table. The response itself is
// passed through untouched apart from the body being re-buffered for code
// extraction.
func (a *Authenticator) handleErrorResponse(req *http.Request, resp *http.Response, public bool) {
	// No redirect loops: on the login page or an error page the caller gets
	// the error unchanged.
	if nav.IsPassthroughPage(a.navigator.CurrentPath()) {
		return
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		code := peekErrorCode(resp)
		switch {
		case code == CodeSessionRevoked:
			a.endSession(nav.ReasonSessionRevoked)
		case code == CodeTokenExpired:
			a.endSession(nav.ReasonTokenExpired)
		case !public:
			a.endSession(nav.ReasonInvalidSession)
		default:
			// Allow-listed path (e.g. a failed login attempt): the caller's
			// own error handling decides.
		}
	case resp.StatusCode == http.StatusForbidden:
		a.navigator.Navigate(nav.Intent{Route: nav.RouteForbidden})
	case resp.StatusCode == http.StatusNotFound:
		// API-level not-found is routine, never session-fatal.
	case resp.StatusCode >= 500:
		a.navigator.Navigate(nav.Intent{Route: nav.RouteServerError})
	}

	log.Debug().Int("status", resp.StatusCode).Str("path", req.URL.Path).
		Msg("error response intercepted")
}

func (a *Authenticator) endSession(reason string) {
	a.lock.RLock()
	hook := a.onSessionEnd
	a.lock.RUnlock()

	if hook != nil {
		hook(reason)
	} else if err := a.store.Clear(); err != nil {
		log.Warn().Err(err).Msg("credential store clear failed")
	}
	a.navigator.Navigate(nav.Intent{Route: nav.RouteLogin, Reason: reason})
}

// peekErrorCode extracts the application error code from the response body
// without consuming it for the caller.
func peekErrorCode(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Code
}
