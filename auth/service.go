// Package auth implements the top-level authentication state machine:
// credential login, hand-off to the second-factor challenge, session
// finalization, and the single idempotent logout path every termination
// trigger converges on.
package auth

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/nubarte/marketplace-client/api"
	apperrors "github.com/nubarte/marketplace-client/internal/errors"
	"github.com/nubarte/marketplace-client/internal/utils"
	"github.com/nubarte/marketplace-client/nav"
	"github.com/nubarte/marketplace-client/session"
	"github.com/nubarte/marketplace-client/twofactor"
	"github.com/nubarte/marketplace-client/users"
)

// API is the transport surface the orchestrator consumes.
type API interface {
	Login(ctx context.Context, correo, contrasena string) (*api.LoginResponse, error)
	VerifyLoginCode(ctx context.Context, correo, codigo string) (*api.LoginResponse, error)
	ResendLoginCode(ctx context.Context, correo string) error
	CloseOtherSessions(ctx context.Context) (*api.CloseOtherSessionsResponse, error)
	Register(ctx context.Context, nombre, correo, contrasena string) (*api.RegisterResponse, error)
	VerifyEmail(ctx context.Context, correo, codigo string) (*api.SimpleResponse, error)
	ResendVerificationCode(ctx context.Context, correo string) error
	RequestRecoveryCode(ctx context.Context, correo string) (*api.RecoveryResponse, error)
	VerifyRecoveryCode(ctx context.Context, correo, codigo string) (*api.RecoveryResponse, error)
	ResetPassword(ctx context.Context, correo, codigo, contrasena string) (*api.SimpleResponse, error)
	ConfigureEmail2FA(ctx context.Context, correo string) (*api.Email2FASetupResponse, error)
	VerifyEmail2FASetup(ctx context.Context, correo, codigo string) (*api.SimpleResponse, error)
}

// Monitor is the inactivity clock lifecycle.
type Monitor interface {
	StartMonitoring()
	StopMonitoring()
}

// Validator is the periodic session validator lifecycle.
type Validator interface {
	Start()
	Stop()
}

// Deps holds all collaborator dependencies for the Service.
type Deps struct {
	API       API
	Store     session.Store
	Monitor   Monitor
	Validator Validator
	Navigator nav.Navigator
	Notifier  nav.Notifier
}

// Service is the auth orchestrator. A non-absent token in the store implies
// the monitor and validator are active; clearing the token deactivates both
// synchronously.
type Service struct {
	api       API
	store     session.Store
	monitor   Monitor
	validator Validator
	navigator nav.Navigator
	notifier  nav.Notifier

	secondFactor *twofactor.Handler
	nowFunc      func() time.Time
	sfConfig     secondFactorConfig

	logoutLock sync.Mutex
}

var _ twofactor.SessionFinalizer = (*Service)(nil)

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = nowFunc
	}
}

// secondFactorConfig carries the challenge-handler knobs through NewService.
type secondFactorConfig struct {
	countdownBudget time.Duration
	resendCooldown  time.Duration
}

// WithCountdownBudget overrides the email-code countdown (default 900s).
func WithCountdownBudget(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.sfConfig.countdownBudget = d
	}
}

// WithResendCooldown overrides the code-resend cooldown (default 30s).
func WithResendCooldown(d time.Duration) ServiceOption {
	return func(s *Service) {
		s.sfConfig.resendCooldown = d
	}
}

// NewService initializes the orchestrator with required dependencies.
func NewService(deps Deps, options ...ServiceOption) (*Service, error) {
	if deps.API == nil {
		return nil, errors.New("[NewService] API is required")
	}
	if deps.Store == nil {
		return nil, errors.New("[NewService] Store is required")
	}
	if deps.Monitor == nil {
		return nil, errors.New("[NewService] Monitor is required")
	}
	if deps.Validator == nil {
		return nil, errors.New("[NewService] Validator is required")
	}
	if deps.Navigator == nil {
		deps.Navigator = nav.NopNavigator{}
	}
	if deps.Notifier == nil {
		deps.Notifier = nav.NotifierFunc(func(string) {})
	}

	s := &Service{
		api:       deps.API,
		store:     deps.Store,
		monitor:   deps.Monitor,
		validator: deps.Validator,
		navigator: deps.Navigator,
		notifier:  deps.Notifier,
		nowFunc:   time.Now,
		sfConfig: secondFactorConfig{
			countdownBudget: 900 * time.Second,
			resendCooldown:  30 * time.Second,
		},
	}
	for _, option := range options {
		option(s)
	}

	s.secondFactor = twofactor.NewHandler(
		deps.API,
		deps.Store,
		deps.Navigator,
		deps.Notifier,
		s,
		s.sfConfig.countdownBudget,
		twofactor.WithNowTime(s.nowFunc),
		twofactor.WithResendCooldown(s.sfConfig.resendCooldown),
	)
	return s, nil
}

// SecondFactor exposes the challenge handler to the presentation layer.
func (s *Service) SecondFactor() *twofactor.Handler {
	return s.secondFactor
}

// Login attempts a credential login and interprets the server's response
// shape. Empty fields are rejected locally before any network call.
func (s *Service) Login(ctx context.Context, correo, contrasena string) (*Result, error) {
	if correo == "" || contrasena == "" {
		return &Result{Kind: KindValidationError, Message: missingFieldsMessage}, nil
	}

	res, err := s.api.Login(ctx, correo, contrasena)
	if err != nil {
		return s.loginFailure(err), nil
	}

	// The server reports some lockouts on the success channel.
	if res.Blocked {
		return s.blockedResult(res.MinutesRemaining, res.Message), nil
	}

	if res.Requires2FA {
		method := users.SecondFactorMethod(res.Metodo2FA)
		if err := s.secondFactor.Begin(ctx, method, res.Correo); err != nil {
			if apperrors.Is(err, apperrors.ErrUnknown2FAMethod) {
				return nil, err
			}
			// Navigation happened; the code dispatch failed but the user can
			// resend from the challenge page.
			log.Warn().Err(err).Msg("second-factor entry degraded")
		}
		s.notifier.Notify(verifyingMessage)
		return &Result{
			Kind:         KindSecondFactorRequired,
			Message:      verifyingMessage,
			Method:       method,
			PendingEmail: res.Correo,
		}, nil
	}

	established, err := s.finalizeLogin(res)
	if err != nil {
		return nil, err
	}
	return &Result{Kind: KindSuccess, Message: loginSuccessMessage, Session: established}, nil
}

// loginFailure maps transport-level login errors onto attempt results.
func (s *Service) loginFailure(err error) *Result {
	apiErr, ok := api.AsError(err)
	if !ok {
		log.Warn().Err(err).Msg("login transport failure")
		return &Result{Kind: KindFailure, Message: loginFailedMessage}
	}

	switch {
	case apperrors.Is(err, apperrors.ErrAccountBlocked):
		return s.blockedResult(apiErr.MinutesRemaining, apiErr.Message)
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		return &Result{
			Kind:              KindFailure,
			Message:           attemptsMessage(utils.Value(apiErr.AttemptsRemaining)),
			AttemptsRemaining: apiErr.AttemptsRemaining,
		}
	default:
		message := apiErr.Message
		if message == "" {
			message = loginFailedMessage
		}
		return &Result{Kind: KindFailure, Message: message}
	}
}

func (s *Service) blockedResult(minutesRemaining int, serverMessage string) *Result {
	result := &Result{Kind: KindBlocked, MinutesRemaining: minutesRemaining}
	if minutesRemaining > 0 {
		result.UnlockAt = s.nowFunc().Add(time.Duration(minutesRemaining) * time.Minute)
		result.Message = blockedMessage(minutesRemaining, result.UnlockAt)
	} else if serverMessage != "" {
		result.Message = serverMessage
	} else {
		result.Message = blockedGenericMessage
	}
	return result
}

// finalizeLogin persists all session artifacts as a unit and arms the
// session-lifetime machinery. Either everything is persisted, or nothing is.
func (s *Service) finalizeLogin(res *api.LoginResponse) (session.Session, error) {
	token := res.BearerToken()
	if token == "" {
		return session.Session{}, apperrors.Wrapf(apperrors.ErrInternal, "[finalizeLogin] no token in response")
	}

	established := session.Session{AccessToken: token}
	if res.Usuario != nil {
		established.User = users.Profile{
			ID:    res.Usuario.ID,
			Name:  res.Usuario.Nombre,
			Email: res.Usuario.Correo,
		}
	}

	if err := s.store.Save(established); err != nil {
		return session.Session{}, errors.Wrap(err, "[finalizeLogin] persist session")
	}

	s.monitor.StartMonitoring()
	s.validator.Start()
	s.navigator.Navigate(nav.Intent{Route: nav.RouteDashboard})
	log.Info().Str("correo", established.User.Email).Msg("session established")
	return established, nil
}

// FinalizeSecondFactor completes a verified challenge exactly like a no-2FA
// login success.
func (s *Service) FinalizeSecondFactor(_ context.Context, res *api.LoginResponse) error {
	_, err := s.finalizeLogin(res)
	return err
}

// TerminateSession tears down every session artifact: inactivity monitoring,
// the periodic validator, and the credential store. Idempotent and safe to
// invoke concurrently from the inactivity and validator paths.
func (s *Service) TerminateSession() {
	s.logoutLock.Lock()
	defer s.logoutLock.Unlock()

	s.monitor.StopMonitoring()
	s.validator.Stop()
	if err := s.store.Clear(); err != nil {
		log.Warn().Err(err).Msg("credential store clear failed")
	}
	log.Info().Msg("session terminated")
}

// Logout terminates the session and returns the user to the login page.
func (s *Service) Logout() {
	s.TerminateSession()
	s.navigator.Navigate(nav.Intent{Route: nav.RouteLogin})
}

// IsAuthenticated reports whether a token is currently stored.
func (s *Service) IsAuthenticated() bool {
	return s.store.IsAuthenticated()
}

// GetUserData returns the stored user profile.
func (s *Service) GetUserData() users.Profile {
	return s.store.Current().User
}

// CloseOtherSessions revokes every other session for the account. A 401
// during the call means this session is gone too.
func (s *Service) CloseOtherSessions(ctx context.Context) (int, error) {
	res, err := s.api.CloseOtherSessions(ctx)
	if err != nil {
		if apiErr, ok := api.AsError(err); ok && apiErr.Status == http.StatusUnauthorized {
			s.notifier.Notify(sessionExpiredMessage)
			s.Logout()
		}
		return 0, errors.Wrap(err, "[CloseOtherSessions]")
	}
	return res.SessionsRevoked, nil
}

// Register creates an account after local validation of all fields.
func (s *Service) Register(ctx context.Context, nombre, correo, contrasena string) (*api.RegisterResponse, error) {
	if nombre == "" || correo == "" || contrasena == "" {
		return nil, apperrors.ErrMissingCredentials
	}
	if err := users.ValidateName(nombre); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidName, "%s", err.Error())
	}
	if err := users.ValidateEmail(correo); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidEmail, "%s", err.Error())
	}
	if err := users.ValidatePasswordStrength(contrasena); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrWeakPassword, "%s", err.Error())
	}

	res, err := s.api.Register(ctx, nombre, correo, contrasena)
	if err != nil {
		if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" {
			return nil, errors.Wrap(err, apiErr.Message)
		}
		return nil, errors.Wrap(err, registrationFailedMessage)
	}

	if res.RequiresVerification {
		if err := s.store.SavePendingSecondFactorEmail(correo); err != nil {
			log.Debug().Err(err).Msg("save pending verification email failed")
		}
		s.navigator.Navigate(nav.Intent{
			Route:  nav.RouteVerifyEmail,
			Params: map[string]string{"email": correo},
		})
	}
	return res, nil
}

// VerifyEmail confirms a registration with the emailed 6-digit code.
func (s *Service) VerifyEmail(ctx context.Context, correo, codigo string) error {
	if len(codigo) != 6 {
		return apperrors.Wrapf(apperrors.ErrMissingCode, "%s", codeLengthMessage)
	}

	if _, err := s.api.VerifyEmail(ctx, correo, codigo); err != nil {
		return errors.Wrap(err, "[VerifyEmail]")
	}
	if err := s.store.ClearPendingSecondFactorEmail(); err != nil {
		log.Debug().Err(err).Msg("clear pending verification email failed")
	}
	s.navigator.Navigate(nav.Intent{Route: nav.RouteLogin})
	return nil
}

// ResendVerificationCode re-requests the registration code.
func (s *Service) ResendVerificationCode(ctx context.Context, correo string) error {
	return errors.Wrap(s.api.ResendVerificationCode(ctx, correo), "[ResendVerificationCode]")
}
