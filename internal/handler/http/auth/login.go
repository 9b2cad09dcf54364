package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/handler/http/requestid"
	"municipal-portal/internal/handler/http/respond"
	"municipal-portal/internal/repository"
	authuc "municipal-portal/internal/usecase/auth"
)

type loginRequest struct {
	Email    string `json:"email" example:"admin@municipio.gob"`
	Password string `json:"password" example:"your_password"`
}

type loginResponse struct {
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Email     string    `json:"email" example:"admin@municipio.gob"`
	Role      string    `json:"role" example:"admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

type loginErrorResponse struct {
	Error            string `json:"error" example:"Credenciales incorrectas. Verifica tu email y contraseña."`
	RemainingSeconds int    `json:"remaining_seconds,omitempty" example:"42"`
	AttemptsLeft     int    `json:"attempts_left,omitempty" example:"2"`
	Hint             string `json:"hint,omitempty" example:"2 intentos restantes"`
}

// LoginHandler signs a panel user in and returns a bearer token.
//
// @Summary      Iniciar sesión
// @Description  Valida email y contraseña y emite un token JWT para el panel
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Credenciales"
// @Success      200 {object} loginResponse
// @Failure      400 {object} loginErrorResponse "Formulario inválido"
// @Failure      401 {object} loginErrorResponse "Credenciales incorrectas"
// @Failure      429 {object} loginErrorResponse "Bloqueado temporalmente"
// @Header       429 {integer} Retry-After "Segundos hasta poder reintentar"
// @Failure      500 {object} loginErrorResponse
// @Router       /auth/login [post]
func LoginHandler(authn repository.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("login request rejected", slog.String("reason", "invalid_body"))
			writeLogin(w, http.StatusBadRequest, loginErrorResponse{Error: authuc.DefaultLoginMessage})
			return
		}

		session, err := authn.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			status, body := loginFailure(err)
			if status == http.StatusTooManyRequests && body.RemainingSeconds > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(body.RemainingSeconds))
			}
			writeLogin(w, status, body)
			return
		}

		writeLogin(w, http.StatusOK, loginResponse{
			Token:     session.Token,
			Email:     session.Email,
			Role:      session.Role,
			ExpiresAt: session.ExpiresAt,
		})
	}
}

// loginFailure maps a Login error to the response the form renders.
func loginFailure(err error) (int, loginErrorResponse) {
	var le *authuc.LoginError
	if !errors.As(err, &le) {
		return http.StatusInternalServerError, loginErrorResponse{Error: authuc.DefaultLoginMessage}
	}
	body := loginErrorResponse{Error: le.Message, Hint: le.Hint()}
	if le.Decision.Locked {
		body.RemainingSeconds = le.Decision.RemainingSeconds
	}
	if le.Decision.ShowAttemptsHint() {
		body.AttemptsLeft = le.Decision.AttemptsLeft
	}

	switch {
	case le.Decision.Locked || errors.Is(err, authuc.ErrLocked):
		return http.StatusTooManyRequests, body
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest, body
	case errors.Is(err, entity.ErrUnauthorized):
		return http.StatusUnauthorized, body
	default:
		return http.StatusInternalServerError, body
	}
}

func writeLogin(w http.ResponseWriter, status int, body any) {
	recordLoginResponse(strconv.Itoa(status))
	respond.JSON(w, status, body)
}
