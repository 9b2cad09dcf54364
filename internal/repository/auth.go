package repository

import (
	"context"
	"time"
)

// Session is the result of a successful administrator login.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticator verifies administrator credentials.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (Session, error)
}
