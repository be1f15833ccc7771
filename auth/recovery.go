package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/nubarte/marketplace-client/api"
	apperrors "github.com/nubarte/marketplace-client/internal/errors"
	"github.com/nubarte/marketplace-client/nav"
	"github.com/nubarte/marketplace-client/users"
)

// Password recovery runs in three server round-trips: request a code, verify
// it, then set the new password. The email is persisted between steps so the
// later pages can run without re-entering it.

// RequestRecoveryCode asks for a recovery code to be emailed. The server
// throttles these per account; an exhausted quota arrives as a blocked result.
func (s *Service) RequestRecoveryCode(ctx context.Context, correo string) (*Result, error) {
	if correo == "" {
		return &Result{Kind: KindValidationError, Message: recoveryEmailNeededMessage}, nil
	}

	res, err := s.api.RequestRecoveryCode(ctx, correo)
	if err != nil {
		apiErr, ok := api.AsError(err)
		if ok && apperrors.Is(err, apperrors.ErrAccountBlocked) {
			log.Warn().Int("minutesRemaining", apiErr.MinutesRemaining).Msg("recovery request throttled")
			result := s.blockedResult(apiErr.MinutesRemaining, apiErr.Message)
			s.notifier.Notify(result.Message)
			return result, nil
		}
		message := recoverySendFailedMessage
		if ok && apiErr.Message != "" {
			message = apiErr.Message
		}
		return &Result{Kind: KindFailure, Message: message}, nil
	}

	if err := s.store.SaveRecoveryEmail(correo); err != nil {
		log.Debug().Err(err).Msg("save recovery email failed")
	}

	message := recoveryCodeSentMessage
	if res.Message != "" {
		message = res.Message
	}
	s.notifier.Notify(message)
	if res.Warning != "" {
		s.notifier.Notify(res.Warning)
	}
	s.navigator.Navigate(nav.Intent{
		Route:  nav.RouteVerifyRecoveryCode,
		Params: map[string]string{"correo": correo},
	})
	return &Result{Kind: KindSuccess, Message: message, AttemptsRemaining: res.AttemptsRemaining}, nil
}

// VerifyRecoveryCode checks the emailed code. An empty correo falls back to
// the address stored by RequestRecoveryCode.
func (s *Service) VerifyRecoveryCode(ctx context.Context, correo, codigo string) error {
	correo, err := s.recoveryEmail(correo)
	if err != nil {
		return err
	}
	if len(codigo) != 6 {
		return apperrors.Wrapf(apperrors.ErrMissingCode, "%s", codeLengthMessage)
	}

	if _, err := s.api.VerifyRecoveryCode(ctx, correo, codigo); err != nil {
		s.notifier.Notify(recoveryFailureMessage(err))
		return errors.Wrap(err, "[VerifyRecoveryCode]")
	}

	s.navigator.Navigate(nav.Intent{
		Route:  nav.RouteResetPassword,
		Params: map[string]string{"correo": correo, "codigo": codigo},
	})
	return nil
}

// ResetPassword sets the new password using a verified recovery code, then
// returns the user to the login page.
func (s *Service) ResetPassword(ctx context.Context, correo, codigo, contrasena string) error {
	correo, err := s.recoveryEmail(correo)
	if err != nil {
		return err
	}
	if err := users.ValidatePasswordStrength(contrasena); err != nil {
		return apperrors.Wrapf(apperrors.ErrWeakPassword, "%s", err.Error())
	}

	if _, err := s.api.ResetPassword(ctx, correo, codigo, contrasena); err != nil {
		s.notifier.Notify(recoveryFailureMessage(err))
		return errors.Wrap(err, "[ResetPassword]")
	}

	if err := s.store.ClearRecoveryEmail(); err != nil {
		log.Debug().Err(err).Msg("clear recovery email failed")
	}
	s.notifier.Notify(resetSuccessMessage)
	s.navigator.Navigate(nav.Intent{Route: nav.RouteLogin})
	return nil
}

func (s *Service) recoveryEmail(correo string) (string, error) {
	if correo != "" {
		return correo, nil
	}
	if stored := s.store.RecoveryEmail(); stored != "" {
		return stored, nil
	}
	s.navigator.Navigate(nav.Intent{Route: nav.RouteForgotPassword})
	return "", apperrors.Wrapf(apperrors.ErrInvalidEmail, "[recoveryEmail] no recovery email on record")
}

func recoveryFailureMessage(err error) string {
	if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return recoveryInvalidCodeMessage
}

// BeginEmailSecondFactorSetup starts email second-factor enrolment for the
// logged-in account and returns the masked address the code was sent to.
// Without a logged-in email the flow cannot run and falls back to login.
func (s *Service) BeginEmailSecondFactorSetup(ctx context.Context) (string, error) {
	email := s.store.Current().User.Email
	if email == "" {
		s.notifier.Notify(setupEmailMissingMessage)
		s.navigator.Navigate(nav.Intent{Route: nav.RouteLogin})
		return "", apperrors.Wrapf(apperrors.ErrInvalidEmail, "[BeginEmailSecondFactorSetup] no logged-in email")
	}

	res, err := s.api.ConfigureEmail2FA(ctx, email)
	if err != nil {
		s.notifier.Notify(recoveryFailureMessage(err))
		return "", errors.Wrap(err, "[BeginEmailSecondFactorSetup]")
	}

	masked := res.Email
	if masked == "" {
		masked = users.MaskEmail(email)
	}
	s.notifier.Notify(setupCodeSentMessage)
	log.Info().Str("correo", masked).Msg("email 2fa enrolment code sent")
	return masked, nil
}

// ConfirmEmailSecondFactorSetup completes enrolment with the emailed code and
// returns to the dashboard.
func (s *Service) ConfirmEmailSecondFactorSetup(ctx context.Context, codigo string) error {
	if strings.TrimSpace(codigo) == "" {
		s.notifier.Notify(setupEnterCodeMessage)
		return apperrors.Wrapf(apperrors.ErrMissingCode, "%s", setupEnterCodeMessage)
	}

	email := s.store.Current().User.Email
	if email == "" {
		s.notifier.Notify(setupEmailMissingMessage)
		s.navigator.Navigate(nav.Intent{Route: nav.RouteLogin})
		return apperrors.Wrapf(apperrors.ErrInvalidEmail, "[ConfirmEmailSecondFactorSetup] no logged-in email")
	}

	if _, err := s.api.VerifyEmail2FASetup(ctx, email, codigo); err != nil {
		s.notifier.Notify(recoveryFailureMessage(err))
		return errors.Wrap(err, "[ConfirmEmailSecondFactorSetup]")
	}

	s.notifier.Notify(setupCompleteMessage)
	s.navigator.Navigate(nav.Intent{Route: nav.RouteDashboard})
	return nil
}
