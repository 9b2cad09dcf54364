// Package auth signs administrators in to the content panel.
//
// Credentials are checked locally against the configured accounts. A per-email
// lockout stops guessing before the credential check runs, and every failure is
// turned into the Spanish text shown on the login form.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"municipal-portal/internal/domain/entity"
	"municipal-portal/internal/repository"
	"municipal-portal/pkg/ratelimit"
)

// ErrLocked is returned while an email is locked out.
var ErrLocked = errors.New("too many requests: login locked")

// MinPasswordLength is the shortest password the login form accepts.
const MinPasswordLength = 6

// CredentialVerifier checks an email and password and returns the account role.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (string, error)
}

// LoginError is a failed login as the form shows it.
type LoginError struct {
	// Message is the Spanish text for the user.
	Message string
	// Decision is the lockout state after the attempt.
	Decision ratelimit.Decision
	Err      error
}

func (e *LoginError) Error() string { return e.Message }
func (e *LoginError) Unwrap() error { return e.Err }

// Hint returns the remaining-attempts hint, or "".
func (e *LoginError) Hint() string { return e.Decision.AttemptsHint() }

// Service implements repository.Authenticator.
type Service struct {
	verifier CredentialVerifier
	lockout  *ratelimit.Lockout
	issuer   *TokenIssuer
	logger   *slog.Logger
}

var _ repository.Authenticator = (*Service)(nil)

// NewService wires the login flow. A nil logger uses slog.Default.
func NewService(verifier CredentialVerifier, lockout *ratelimit.Lockout, issuer *TokenIssuer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{verifier: verifier, lockout: lockout, issuer: issuer, logger: logger}
}

type loginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f loginForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("El email no es válido.")),
		validation.Field(&f.Password,
			validation.Required.Error("password is required"),
			validation.RuneLength(MinPasswordLength, 0).Error(
				fmt.Sprintf("La contraseña debe tener al menos %d caracteres.", MinPasswordLength))),
	)
}

// Status returns the lockout state of email without counting an attempt.
func (s *Service) Status(email string) ratelimit.Decision {
	return s.lockout.Status(normalizeEmail(email))
}

// Login checks the credentials and issues a session token.
//
// Form errors do not count as attempts. A locked email is rejected before the
// credentials are looked at; each rejected credential counts towards the lock and
// only a successful login clears the count. Attempts in flight are reserved up
// front, so a concurrent burst cannot verify more passwords than the lock allows.
func (s *Service) Login(ctx context.Context, email, password string) (repository.Session, error) {
	start := time.Now()
	key := normalizeEmail(email)

	if err := (loginForm{Email: key, Password: password}).Validate(); err != nil {
		recordLogin("", resultInvalid, start)
		return repository.Session{}, &LoginError{
			Message:  HumanizeLoginError(firstMessage(err)),
			Decision: s.lockout.Status(key),
			Err:      fmt.Errorf("%w: %v", entity.ErrInvalidInput, err),
		}
	}

	if d := s.lockout.Acquire(key); !d.Allowed {
		recordLogin("", resultLocked, start)
		s.logger.WarnContext(ctx, "login rejected while locked",
			slog.String("email", key),
			slog.Bool("locked", d.Locked),
			slog.Int("remaining_seconds", d.RemainingSeconds))
		msg := d.LockedMessage()
		if !d.Locked {
			msg = BusyLoginMessage
		}
		return repository.Session{}, &LoginError{Message: msg, Decision: d, Err: ErrLocked}
	}

	role, err := s.verifier.Verify(ctx, key, password)
	if err != nil {
		d := s.lockout.RecordFailure(key)
		msg := HumanizeLoginError(err.Error())
		if d.Locked {
			msg = d.LockedMessage()
		}
		recordLogin("", resultFailure, start)
		s.logger.WarnContext(ctx, "login failed",
			slog.String("email", key),
			slog.Int("attempts_left", d.AttemptsLeft),
			slog.Bool("locked", d.Locked))
		return repository.Session{}, &LoginError{Message: msg, Decision: d, Err: err}
	}

	token, exp, err := s.issuer.Issue(key, role)
	if err != nil {
		s.lockout.Release(key)
		recordLogin(role, resultError, start)
		s.logger.ErrorContext(ctx, "token generation failed", slog.Any("error", err))
		return repository.Session{}, &LoginError{Message: DefaultLoginMessage, Err: err}
	}
	s.lockout.Reset(key)
	recordLogin(role, resultSuccess, start)
	s.logger.InfoContext(ctx, "login succeeded",
		slog.String("email", key),
		slog.String("role", role))

	return repository.Session{Token: token, Email: key, Role: role, ExpiresAt: exp}, nil
}

// firstMessage returns the message of the first failing field, in field order.
func firstMessage(err error) string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err.Error()
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if errs[f] != nil {
			return errs[f].Error()
		}
	}
	return ""
}
