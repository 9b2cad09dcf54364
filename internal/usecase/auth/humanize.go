package auth

import "strings"

// DefaultLoginMessage is shown when the failure carries no text.
const DefaultLoginMessage = "Error al iniciar sesión. Verifica tus credenciales."

// BusyLoginMessage is shown when the attempts in flight use up the remaining ones.
const BusyLoginMessage = "Hay demasiados intentos en curso. Intenta nuevamente en unos segundos."

type loginRule struct {
	all     []string
	any     []string
	message string
}

// Checked in order; the first match wins.
var loginRules = []loginRule{
	{any: []string{"invalid login credentials", "invalid_credentials"}, message: "Email o contraseña incorrectos."},
	{any: []string{"email not confirmed"}, message: "El email no ha sido confirmado. Revisá tu bandeja de entrada."},
	{any: []string{"too many requests", "rate limit"}, message: "Demasiados intentos. Esperá unos minutos antes de reintentar."},
	{any: []string{"network", "fetch"}, message: "Error de conexión. Verificá tu conexión a internet."},
	{any: []string{"user not found"}, message: "No existe una cuenta con ese email."},
	{all: []string{"email", "required"}, message: "El email es requerido."},
	{all: []string{"password", "required"}, message: "La contraseña es requerida."},
}

// HumanizeLoginError maps a login failure text to the Spanish message shown on
// the form. Unknown texts are returned unchanged.
func HumanizeLoginError(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return DefaultLoginMessage
	}
	lower := strings.ToLower(msg)
	for _, r := range loginRules {
		if r.matches(lower) {
			return r.message
		}
	}
	return msg
}

func (r loginRule) matches(lower string) bool {
	for _, s := range r.all {
		if !strings.Contains(lower, s) {
			return false
		}
	}
	if len(r.any) == 0 {
		return len(r.all) > 0
	}
	for _, s := range r.any {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
