// Package twofactor drives the second-factor login challenge: resolving which
// method applies, dispatching email codes, and completing the verify exchange.
package twofactor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/nubarte/marketplace-client/api"
	apperrors "github.com/nubarte/marketplace-client/internal/errors"
	"github.com/nubarte/marketplace-client/nav"
	"github.com/nubarte/marketplace-client/session"
	"github.com/nubarte/marketplace-client/users"
)

// API covers the two challenge operations.
type API interface {
	VerifyLoginCode(ctx context.Context, correo, codigo string) (*api.LoginResponse, error)
	ResendLoginCode(ctx context.Context, correo string) error
}

// SessionFinalizer completes the login exactly as a no-2FA success would:
// session persisted atomically, inactivity monitoring and session validation
// started. Implemented by the auth orchestrator.
type SessionFinalizer interface {
	FinalizeSecondFactor(ctx context.Context, res *api.LoginResponse) error
}

const (
	emptyCodeMessage     = "Por favor ingresa el código recibido"
	invalidCodeMessage   = "Código inválido o expirado"
	codeSentMessage      = "Código enviado a tu correo"
	codeResentMessage    = "Nuevo código enviado a tu correo"
	resendFailedMessage  = "No se pudo reenviar el código"
	codeExpiredMessage   = "El código ha expirado. Solicita uno nuevo."
	unknownMethodMessage = "Método 2FA desconocido."
	badEmailMessage      = "Error al obtener el correo. Por favor inicia sesión nuevamente."
)

// Challenge is the pending second-factor state. It exists from login's
// requires-2FA response until successful verification or abandonment.
type Challenge struct {
	Email        string
	Method       users.SecondFactorMethod
	AttemptsUsed int

	countdown *Countdown
}

// Handler drives the two-step challenge exchange for both methods.
type Handler struct {
	api       API
	store     session.Store
	navigator nav.Navigator
	notifier  nav.Notifier
	finalizer SessionFinalizer

	countdownBudget time.Duration
	resendLimiter   *rate.Limiter
	nowFunc         func() time.Time

	lock           sync.Mutex
	challenge      *Challenge
	resendInFlight bool
}

// HandlerOption modifies the Handler instance.
type HandlerOption func(*Handler)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.nowFunc = nowFunc
	}
}

// WithResendCooldown throttles how often a resend may be issued.
func WithResendCooldown(cooldown time.Duration) HandlerOption {
	return func(h *Handler) {
		h.resendLimiter = rate.NewLimiter(rate.Every(cooldown), 1)
	}
}

// NewHandler wires the challenge handler. countdownBudget is the fixed UI
// countdown for emailed codes (product default 900 seconds).
func NewHandler(
	apiClient API,
	store session.Store,
	navigator nav.Navigator,
	notifier nav.Notifier,
	finalizer SessionFinalizer,
	countdownBudget time.Duration,
	options ...HandlerOption,
) *Handler {
	if navigator == nil {
		navigator = nav.NopNavigator{}
	}
	if notifier == nil {
		notifier = nav.NotifierFunc(func(string) {})
	}
	h := &Handler{
		api:             apiClient,
		store:           store,
		navigator:       navigator,
		notifier:        notifier,
		finalizer:       finalizer,
		countdownBudget: countdownBudget,
		resendLimiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		nowFunc:         time.Now,
	}
	for _, option := range options {
		option(h)
	}
	return h
}

// ResolveEmail picks the pending challenge email. Precedence: the explicit
// navigation-carried value, then the temporarily stored challenge email, then
// the last known logged-in email. An unresolvable or syntactically invalid
// result fails closed.
func (h *Handler) ResolveEmail(explicit string) (string, error) {
	email := explicit
	if email == "" {
		email = h.store.PendingSecondFactorEmail()
	}
	if email == "" {
		email = h.store.Current().User.Email
	}
	if email == "" || !strings.Contains(email, "@") {
		return "", apperrors.ErrInvalidEmail
	}
	return email, nil
}

// Begin enters the challenge for the given method. For TOTP no code is sent;
// the authenticator app generates it. For the email method exactly one code
// dispatch is requested and the countdown starts. An unresolvable email fails
// closed: the user is sent back to the unauthenticated entry point.
func (h *Handler) Begin(ctx context.Context, method users.SecondFactorMethod, explicitEmail string) error {
	email, err := h.ResolveEmail(explicitEmail)
	if err != nil {
		h.notifier.Notify(badEmailMessage)
		h.navigator.Navigate(nav.Intent{Route: nav.RouteLogin})
		return err
	}

	if !method.Known() {
		h.notifier.Notify(unknownMethodMessage)
		return apperrors.ErrUnknown2FAMethod
	}

	if err := h.store.SavePendingSecondFactorEmail(email); err != nil {
		return errors.Wrap(err, "[Handler.Begin] save pending email")
	}

	challenge := &Challenge{Email: email, Method: method}

	switch method {
	case users.MFAuthenticator:
		h.setChallenge(challenge)
		h.navigator.Navigate(nav.Intent{
			Route:  nav.RouteTwoFactorVerify,
			Params: map[string]string{"correo": email, "metodo_2fa": string(method)},
		})

	case users.MFEmail:
		challenge.countdown = newCountdown(h.countdownBudget, h.nowFunc, func() {
			h.notifier.Notify(codeExpiredMessage)
		})
		h.setChallenge(challenge)
		h.navigator.Navigate(nav.Intent{
			Route:  nav.RouteVerifyEmailCode,
			Params: map[string]string{"correo": email, "metodo_2fa": string(method)},
		})

		log.Debug().Str("correo", email).Msg("dispatching initial login code")
		if err := h.api.ResendLoginCode(ctx, email); err != nil {
			h.notifier.Notify(resendFailedMessage)
			return errors.Wrap(err, "[Handler.Begin] initial code dispatch")
		}
		h.notifier.Notify(codeSentMessage)
	}

	return nil
}

// Verify completes the challenge. An empty code is rejected locally before
// any network call. On server failure the countdown is left running so the
// user can retry with the same dispatched code.
func (h *Handler) Verify(ctx context.Context, explicitEmail, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		h.notifier.Notify(emptyCodeMessage)
		return apperrors.ErrMissingCode
	}

	email, err := h.ResolveEmail(explicitEmail)
	if err != nil {
		h.notifier.Notify(badEmailMessage)
		h.navigator.Navigate(nav.Intent{Route: nav.RouteLogin})
		return err
	}

	res, err := h.api.VerifyLoginCode(ctx, email, code)
	if err != nil {
		h.lock.Lock()
		if h.challenge != nil {
			h.challenge.AttemptsUsed++
		}
		h.lock.Unlock()

		message := invalidCodeMessage
		if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" {
			message = apiErr.Message
		}
		h.notifier.Notify(message)
		return errors.Wrap(err, "[Handler.Verify] code rejected")
	}

	if err := h.store.ClearPendingSecondFactorEmail(); err != nil {
		return errors.Wrap(err, "[Handler.Verify] clear pending email")
	}
	if err := h.finalizer.FinalizeSecondFactor(ctx, res); err != nil {
		return errors.Wrap(err, "[Handler.Verify] finalize session")
	}
	h.clearChallenge()
	return nil
}

// Resend re-requests a code dispatch. A resend already in flight is ignored,
// and resends are rate limited. On success the countdown resets to the full
// budget.
func (h *Handler) Resend(ctx context.Context) error {
	h.lock.Lock()
	if h.resendInFlight {
		h.lock.Unlock()
		return nil
	}
	challenge := h.challenge
	if challenge == nil {
		h.lock.Unlock()
		return errors.New("[Handler.Resend] no pending challenge")
	}
	if !h.resendLimiter.Allow() {
		h.lock.Unlock()
		return nil
	}
	h.resendInFlight = true
	h.lock.Unlock()

	defer func() {
		h.lock.Lock()
		h.resendInFlight = false
		h.lock.Unlock()
	}()

	if err := h.api.ResendLoginCode(ctx, challenge.Email); err != nil {
		h.notifier.Notify(resendFailedMessage)
		return errors.Wrap(err, "[Handler.Resend] dispatch")
	}

	if challenge.countdown != nil {
		challenge.countdown.Reset()
	}
	h.notifier.Notify(codeResentMessage)
	return nil
}

// Abandon discards the pending challenge (the user navigated away) and clears
// the temporarily stored email.
func (h *Handler) Abandon() {
	h.clearChallenge()
	if err := h.store.ClearPendingSecondFactorEmail(); err != nil {
		log.Debug().Err(err).Msg("clear pending email failed")
	}
	h.navigator.Navigate(nav.Intent{Route: nav.RouteLogin})
}

// Pending returns a snapshot of the active challenge, or nil.
func (h *Handler) Pending() *Challenge {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.challenge == nil {
		return nil
	}
	snapshot := *h.challenge
	return &snapshot
}

// Countdown exposes the active email-code countdown, or nil for TOTP
// challenges.
func (h *Handler) Countdown() *Countdown {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.challenge == nil {
		return nil
	}
	return h.challenge.countdown
}

func (h *Handler) setChallenge(c *Challenge) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.challenge != nil && h.challenge.countdown != nil {
		h.challenge.countdown.Stop()
	}
	h.challenge = c
}

func (h *Handler) clearChallenge() {
	h.setChallenge(nil)
}
