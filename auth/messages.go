package auth

import (
	"fmt"
	"time"
)

// User-facing messages, in the product's language.
const (
	missingFieldsMessage  = "Por favor completa todos los campos"
	loginFailedMessage    = "Error al iniciar sesión"
	loginSuccessMessage   = "Inicio de sesión exitoso"
	verifyingMessage      = "Credenciales correctas. Verificando 2FA..."
	blockedGenericMessage = "Cuenta bloqueada por seguridad. Intenta de nuevo más tarde."
	limitExceededMessage  = "Has excedido el límite de intentos. Tu cuenta será bloqueada."
	lastAttemptMessage    = "Contraseña incorrecta. Te queda 1 intento antes del bloqueo."
	sessionExpiredMessage = "Tu sesión ha expirado. Por favor inicia sesión nuevamente."

	registrationFailedMessage = "Error en registro"
	codeLengthMessage         = "El código debe tener 6 dígitos"

	recoveryEmailNeededMessage = "Por favor ingresa tu correo electrónico"
	recoverySendFailedMessage  = "Error al enviar el código. Intenta de nuevo."
	recoveryCodeSentMessage    = "Código de recuperación enviado a tu correo"
	recoveryInvalidCodeMessage = "Código inválido"
	resetSuccessMessage        = "Contraseña actualizada correctamente. Inicia sesión con tu nueva contraseña."

	setupEmailMissingMessage = "No se pudo obtener tu correo. Por favor, inicia sesión nuevamente."
	setupCodeSentMessage     = "Código enviado a tu correo"
	setupEnterCodeMessage    = "Por favor ingresa el código"
	setupCompleteMessage     = "Email 2FA activado correctamente"
)

// blockedMessage renders the lock notice with the remaining minutes and the
// absolute unlock time computed from now.
func blockedMessage(minutes int, unlockAt time.Time) string {
	plural := "s"
	if minutes == 1 {
		plural = ""
	}
	return fmt.Sprintf("Cuenta bloqueada. Intenta en %d minuto%s (%s).",
		minutes, plural, unlockAt.Format("15:04"))
}

// attemptsMessage applies the tiered wrong-password phrasing.
func attemptsMessage(remaining int) string {
	switch {
	case remaining == 0:
		return limitExceededMessage
	case remaining == 1:
		return lastAttemptMessage
	default:
		return fmt.Sprintf("Contraseña incorrecta. Te quedan %d intentos.", remaining)
	}
}
