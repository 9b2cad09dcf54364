package ratelimit

import (
	"fmt"
	"strconv"
)

// attemptsHintThreshold: the form starts warning about remaining attempts below it.
const attemptsHintThreshold = 3

// Decision is the lockout state of a key as seen by one attempt.
type Decision struct {
	Key string `json:"-"`

	// Allowed is false while the key is locked; the attempt must not reach the backend.
	Allowed bool `json:"allowed"`

	// Locked reports the lock state after the call that produced the decision.
	Locked bool `json:"locked"`

	// RemainingSeconds is the countdown until the lock lifts, 0 when unlocked.
	RemainingSeconds int `json:"remaining_seconds"`

	// AttemptsLeft is how many more failures are tolerated before locking.
	AttemptsLeft int `json:"attempts_left"`
}

// RetryAfter returns the Retry-After header value, or "" when unlocked.
func (d Decision) RetryAfter() string {
	if !d.Locked || d.RemainingSeconds <= 0 {
		return ""
	}
	return strconv.Itoa(d.RemainingSeconds)
}

// ShowAttemptsHint reports whether the remaining attempts are worth telling the user.
func (d Decision) ShowAttemptsHint() bool {
	return !d.Locked && d.AttemptsLeft > 0 && d.AttemptsLeft < attemptsHintThreshold
}

// AttemptsHint is the Spanish hint shown under a failed login.
func (d Decision) AttemptsHint() string {
	if !d.ShowAttemptsHint() {
		return ""
	}
	if d.AttemptsLeft == 1 {
		return "1 intento restante"
	}
	return fmt.Sprintf("%d intentos restantes", d.AttemptsLeft)
}

// LockedMessage is the Spanish notice shown while locked.
func (d Decision) LockedMessage() string {
	if !d.Locked {
		return ""
	}
	return fmt.Sprintf("Demasiados intentos fallidos. Intenta nuevamente en %d segundos.", d.RemainingSeconds)
}
