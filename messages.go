package authclient

// User-facing texts. The product ships in Spanish; errors returned to
// calling code stay in English.
const (
	msgConnectionError = "Error de conexión. Inténtalo de nuevo."

	msgCheckFields        = "Revisa los campos marcados."
	msgPasswordsDontMatch = "Las contraseñas no coinciden."

	msgLoginSuccess       = "Inicio de sesión exitoso. Redirigiendo..."
	msgEmailNotRegistered = "El correo no está registrado."
	msgWrongPassword      = "Contraseña incorrecta."
	msgInvalidCredentials = "Credenciales inválidas."
	msgUserNotFound       = "Usuario no encontrado."

	msgRegisterSuccess = "Registro exitoso. Te enviamos un código de verificación."
	msgRegisterNoOTP   = "Registro exitoso, pero no se pudo enviar el código. Usa \"Reenviar código\"."

	msgOTPSentEmail = "Código enviado. Revisa tu correo."
	msgOTPSentSMS   = "Código enviado por SMS."
	msgOTPVerified  = "Verificación exitosa. Redirigiendo..."
	msgOTPInvalid   = "Código incorrecto. Inténtalo de nuevo."

	msgCodeExpiringSoon = "El código expira pronto."
	msgCodeExpired      = "El código ha expirado. Solicita uno nuevo."
	msgResendWait       = "Espera antes de solicitar otro código."

	msgNoVerificationEmail = "No se encontró un correo para verificar. Redirigiendo al inicio de sesión..."
	msgPhoneUnavailable    = "No se encontró un teléfono asociado a la cuenta."
	msgPhoneLoginFailed    = "No se encontró una cuenta con ese número."

	msgRecoverySent          = "Te enviamos un código de recuperación a tu correo."
	msgRecoveryEmailNotFound = "Correo no encontrado."
	msgRecoveryRateLimited   = "Demasiados intentos. Espera unos minutos e inténtalo de nuevo."
	msgNoRecoverySession     = "Sesión de recuperación no encontrada. Solicita un nuevo código."
	msgResetSuccess          = "Contraseña actualizada. Inicia sesión con tu nueva contraseña."
	msgResetInvalidCode      = "Código inválido o expirado."

	msgWelcomeGeneric = "Bienvenido."
	msgLoggedOut      = "Sesión cerrada."
)
