// Package sessioncheck re-confirms the session against the server on a fixed
// interval and reacts to revocation signals with a full logout.
package sessioncheck

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nubarte/marketplace-client/api"
	apperrors "github.com/nubarte/marketplace-client/internal/errors"
	"github.com/nubarte/marketplace-client/nav"
)

// API is the single operation the validator needs from the transport layer.
type API interface {
	CheckSession(ctx context.Context) (*api.CheckSessionResponse, error)
}

const (
	revokedMessage = "Tu sesión fue cerrada desde otro dispositivo. Por favor inicia sesión nuevamente."
	expiredMessage = "Tu sesión ha expirado. Por favor inicia sesión nuevamente."
	invalidMessage = "Tu sesión ya no es válida. Serás redirigido al login."
)

// Validator polls the check-session endpoint while a session is active.
// Start and Stop are idempotent; after Stop no further poll acts on the
// session.
type Validator struct {
	api           API
	interval      time.Duration
	notifier      nav.Notifier
	authenticated func() bool
	onInvalid     func(reason string)

	lock    sync.Mutex
	stop    chan struct{}
	running bool
}

// NewValidator creates a stopped validator. onInvalid must perform the full
// logout and be safe to call concurrently with the inactivity timeout path.
func NewValidator(
	apiClient API,
	interval time.Duration,
	notifier nav.Notifier,
	authenticated func() bool,
	onInvalid func(reason string),
) *Validator {
	if notifier == nil {
		notifier = nav.NotifierFunc(func(string) {})
	}
	return &Validator{
		api:           apiClient,
		interval:      interval,
		notifier:      notifier,
		authenticated: authenticated,
		onInvalid:     onInvalid,
	}
}

// Start launches the poll loop. A second call while running is a no-op.
func (v *Validator) Start() {
	v.lock.Lock()
	defer v.lock.Unlock()

	if v.running {
		return
	}
	v.running = true
	v.stop = make(chan struct{})
	go v.run(v.stop)
	log.Debug().Dur("interval", v.interval).Msg("session validation started")
}

// Stop cancels the poll loop. Idempotent; safe to call from onInvalid.
func (v *Validator) Stop() {
	v.lock.Lock()
	defer v.lock.Unlock()

	if !v.running {
		return
	}
	v.running = false
	close(v.stop)
	log.Debug().Msg("session validation stopped")
}

// Running reports whether the poll loop is active.
func (v *Validator) Running() bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.running
}

func (v *Validator) run(stop chan struct{}) {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if v.check(stop) {
				return
			}
		}
	}
}

// check performs one poll. It returns true when the loop must exit because
// the session was invalidated.
func (v *Validator) check(stop chan struct{}) bool {
	if v.authenticated != nil && !v.authenticated() {
		// Logged out between ticks; nothing to validate.
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), v.interval)
	defer cancel()

	_, err := v.api.CheckSession(ctx)
	if err == nil {
		log.Debug().Msg("session confirmed live")
		return false
	}

	select {
	case <-stop:
		// Stopped while the request was in flight; the cleared session must
		// not be acted on.
		return true
	default:
	}

	apiErr, ok := api.AsError(err)
	if !ok || apiErr.Status != http.StatusUnauthorized {
		// Transport or server hiccup: leave the session untouched.
		log.Debug().Err(err).Msg("session check failed without verdict")
		return false
	}

	message, reason := invalidMessage, nav.ReasonInvalidSession
	switch {
	case apperrors.Is(err, apperrors.ErrSessionRevoked):
		message, reason = revokedMessage, nav.ReasonSessionRevoked
	case apperrors.Is(err, apperrors.ErrTokenExpired):
		message, reason = expiredMessage, nav.ReasonTokenExpired
	}

	log.Warn().Str("code", apiErr.Code).Msg("session invalidated by server")
	v.notifier.Notify(message)
	v.onInvalid(reason)
	return true
}
