package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nubarte/marketplace-client/api"
	"github.com/nubarte/marketplace-client/auth"
	apperrors "github.com/nubarte/marketplace-client/internal/errors"
	"github.com/nubarte/marketplace-client/internal/utils"
	"github.com/nubarte/marketplace-client/nav"
	"github.com/nubarte/marketplace-client/session"
	"github.com/nubarte/marketplace-client/users"
)

func sessionFor(email string) session.Session {
	return session.Session{
		AccessToken: testToken,
		User:        users.Profile{ID: 1, Name: "María", Email: email},
	}
}

func TestRequestRecoveryCodeEmptyEmailRejectedLocally(t *testing.T) {
	f := setupTestFixture(t)

	result, err := f.service.RequestRecoveryCode(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, auth.KindValidationError, result.Kind)
	require.Equal(t, 0, f.api.RequestRecoveryCodeCalls)
}

func TestRequestRecoveryCodePersistsEmailAndNavigates(t *testing.T) {
	f := setupTestFixture(t)
	f.api.RequestRecoveryCodeResponse = &api.RecoveryResponse{
		Message:           "Código enviado",
		AttemptsRemaining: utils.Ptr(2),
	}

	result, err := f.service.RequestRecoveryCode(context.Background(), testEmail)
	require.NoError(t, err)
	require.Equal(t, auth.KindSuccess, result.Kind)
	require.Equal(t, 2, utils.Value(result.AttemptsRemaining))

	require.Equal(t, testEmail, f.store.RecoveryEmail())
	require.Equal(t, nav.RouteVerifyRecoveryCode, f.navigator.lastRoute())
	require.Contains(t, f.notifier.all(), "Código enviado")
}

func TestRequestRecoveryCodeSurfacesQuotaWarning(t *testing.T) {
	f := setupTestFixture(t)
	f.api.RequestRecoveryCodeResponse = &api.RecoveryResponse{
		Warning: "Este es tu último intento de hoy",
	}

	_, err := f.service.RequestRecoveryCode(context.Background(), testEmail)
	require.NoError(t, err)
	require.Contains(t, f.notifier.all(), "Este es tu último intento de hoy")
}

func TestRequestRecoveryCodeThrottledReportsBlock(t *testing.T) {
	f := setupTestFixture(t)
	f.api.RequestRecoveryCodeErr = &api.Error{
		Status:           http.StatusTooManyRequests,
		Blocked:          true,
		Message:          "Demasiados intentos",
		MinutesRemaining: 30,
	}

	result, err := f.service.RequestRecoveryCode(context.Background(), testEmail)
	require.NoError(t, err)
	require.Equal(t, auth.KindBlocked, result.Kind)
	require.Equal(t, 30, result.MinutesRemaining)
	require.Contains(t, f.notifier.all(), result.Message)

	// The flow did not advance.
	require.Empty(t, f.store.RecoveryEmail())
	require.Equal(t, nav.RouteLogin, f.navigator.path)
}

func TestRequestRecoveryCodeTransportFailureFallsBackToGenericMessage(t *testing.T) {
	f := setupTestFixture(t)
	f.api.RequestRecoveryCodeErr = &api.Error{Status: http.StatusBadGateway}

	result, err := f.service.RequestRecoveryCode(context.Background(), testEmail)
	require.NoError(t, err)
	require.Equal(t, auth.KindFailure, result.Kind)
	require.Equal(t, "Error al enviar el código. Intenta de nuevo.", result.Message)
}

func TestVerifyRecoveryCodeUsesStoredEmail(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.store.SaveRecoveryEmail(testEmail))

	err := f.service.VerifyRecoveryCode(context.Background(), "", "123456")
	require.NoError(t, err)
	require.Equal(t, 1, f.api.VerifyRecoveryCodeCalls)
	require.Equal(t, nav.RouteResetPassword, f.navigator.lastRoute())
	require.Equal(t, testEmail, f.navigator.intents[len(f.navigator.intents)-1].Params["correo"])
}

func TestVerifyRecoveryCodeWithoutEmailReturnsToForgotPassword(t *testing.T) {
	f := setupTestFixture(t)

	err := f.service.VerifyRecoveryCode(context.Background(), "", "123456")
	require.ErrorIs(t, err, apperrors.ErrInvalidEmail)
	require.Equal(t, nav.RouteForgotPassword, f.navigator.lastRoute())
	require.Equal(t, 0, f.api.VerifyRecoveryCodeCalls)
}

func TestVerifyRecoveryCodeRejectsShortCodeLocally(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.store.SaveRecoveryEmail(testEmail))

	err := f.service.VerifyRecoveryCode(context.Background(), "", "12")
	require.ErrorIs(t, err, apperrors.ErrMissingCode)
	require.Equal(t, 0, f.api.VerifyRecoveryCodeCalls)
}

func TestVerifyRecoveryCodeFailureSurfacesServerMessage(t *testing.T) {
	f := setupTestFixture(t)
	f.api.VerifyRecoveryCodeErr = &api.Error{Status: http.StatusUnauthorized, Message: "Código expirado"}

	err := f.service.VerifyRecoveryCode(context.Background(), testEmail, "123456")
	require.Error(t, err)
	require.Contains(t, f.notifier.all(), "Código expirado")
}

func TestResetPasswordEnforcesPolicyLocally(t *testing.T) {
	f := setupTestFixture(t)

	err := f.service.ResetPassword(context.Background(), testEmail, "123456", "weak")
	require.ErrorIs(t, err, apperrors.ErrWeakPassword)
	require.Equal(t, 0, f.api.ResetPasswordCalls)
}

func TestResetPasswordClearsRecoveryEmailAndReturnsToLogin(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.store.SaveRecoveryEmail(testEmail))

	err := f.service.ResetPassword(context.Background(), "", "123456", testPassword)
	require.NoError(t, err)
	require.Equal(t, 1, f.api.ResetPasswordCalls)
	require.Empty(t, f.store.RecoveryEmail())
	require.Equal(t, nav.RouteLogin, f.navigator.lastRoute())
}

func TestBeginEmailSetupRequiresLoggedInEmail(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.BeginEmailSecondFactorSetup(context.Background())
	require.ErrorIs(t, err, apperrors.ErrInvalidEmail)
	require.Equal(t, nav.RouteLogin, f.navigator.lastRoute())
	require.Contains(t, f.notifier.all(), "No se pudo obtener tu correo. Por favor, inicia sesión nuevamente.")
	require.Equal(t, 0, f.api.ConfigureEmail2FACalls)
}

func TestBeginEmailSetupSendsCodeAndMasksAddress(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.store.Save(sessionFor(testEmail)))

	masked, err := f.service.BeginEmailSecondFactorSetup(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, f.api.ConfigureEmail2FACalls)
	require.Equal(t, "ma***ria@e***.com", masked)
	require.Contains(t, f.notifier.all(), "Código enviado a tu correo")
}

func TestBeginEmailSetupPrefersServerMaskedAddress(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.store.Save(sessionFor(testEmail)))
	f.api.ConfigureEmail2FAResponse = &api.Email2FASetupResponse{Email: "m***@e***.com"}

	masked, err := f.service.BeginEmailSecondFactorSetup(context.Background())
	require.NoError(t, err)
	require.Equal(t, "m***@e***.com", masked)
}

func TestConfirmEmailSetupRejectsEmptyCode(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.store.Save(sessionFor(testEmail)))

	err := f.service.ConfirmEmailSecondFactorSetup(context.Background(), "   ")
	require.ErrorIs(t, err, apperrors.ErrMissingCode)
	require.Contains(t, f.notifier.all(), "Por favor ingresa el código")
	require.Equal(t, 0, f.api.VerifyEmail2FASetupCalls)
}

func TestConfirmEmailSetupSuccessNavigatesToDashboard(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.store.Save(sessionFor(testEmail)))

	err := f.service.ConfirmEmailSecondFactorSetup(context.Background(), "123456")
	require.NoError(t, err)
	require.Equal(t, nav.RouteDashboard, f.navigator.lastRoute())
	require.Contains(t, f.notifier.all(), "Email 2FA activado correctamente")
}

func TestConfirmEmailSetupFailureSurfacesServerMessage(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.store.Save(sessionFor(testEmail)))
	f.api.VerifyEmail2FASetupErr = &api.Error{Status: http.StatusUnauthorized, Message: "Código incorrecto"}

	err := f.service.ConfirmEmailSecondFactorSetup(context.Background(), "000000")
	require.Error(t, err)
	require.Contains(t, f.notifier.all(), "Código incorrecto")
	require.NotEqual(t, nav.RouteDashboard, f.navigator.lastRoute())
}
