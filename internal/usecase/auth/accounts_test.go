package auth

import (
	"context"
	"errors"
	"testing"

	"municipal-portal/internal/domain/entity"
)

func TestAccountProvider_Verify(t *testing.T) {
	p := NewAccountProvider(
		Account{Email: "Prensa@Municipio.gob.ar", Password: "correct horse battery", Role: RoleAdmin},
		Account{Email: "consulta@municipio.gob.ar", Password: "another long phrase", Role: RoleViewer},
		Account{Email: "", Password: "ignored"},
	)
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantRole string
		wantErr  bool
	}{
		{"admin", "prensa@municipio.gob.ar", "correct horse battery", RoleAdmin, false},
		{"case and spaces", "  PRENSA@municipio.gob.ar ", "correct horse battery", RoleAdmin, false},
		{"viewer", "consulta@municipio.gob.ar", "another long phrase", RoleViewer, false},
		{"wrong password", "prensa@municipio.gob.ar", "nope", "", true},
		{"unknown user", "otro@municipio.gob.ar", "correct horse battery", "", true},
		{"crossed credentials", "consulta@municipio.gob.ar", "correct horse battery", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := p.Verify(context.Background(), tt.email, tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, entity.ErrUnauthorized) {
					t.Errorf("error %v does not wrap ErrUnauthorized", err)
				}
				return
			}
			if role != tt.wantRole {
				t.Errorf("role = %q, want %q", role, tt.wantRole)
			}
		})
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		pass    string
		wantErr bool
	}{
		{"", true},
		{"short", true},
		{"111111111111", true},
		{"123456789012", true},
		{"987654321098", true},
		{"myqwertypass99", true},
		{"password1234", true},
		{"municipio2025", true},
		{"Plaza-San-Martin-1887", false},
		{"correct horse battery", false},
	}
	for _, tt := range tests {
		err := CheckPasswordStrength(tt.pass)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckPasswordStrength(%q) error = %v, wantErr %v", tt.pass, err, tt.wantErr)
		}
	}
}

func TestValidateAccounts(t *testing.T) {
	good := Account{Email: "prensa@municipio.gob.ar", Password: "Plaza-San-Martin-1887"}

	tests := []struct {
		name     string
		accounts []Account
		wantErr  bool
	}{
		{"single admin with default role", []Account{good}, false},
		{"no accounts", nil, true},
		{"viewer only", []Account{{Email: "v@m.gob.ar", Password: "Plaza-San-Martin-1887", Role: RoleViewer}}, true},
		{"duplicated email", []Account{good, {Email: "PRENSA@municipio.gob.ar", Password: "Plaza-San-Martin-1887"}}, true},
		{"unknown role", []Account{good, {Email: "x@m.gob.ar", Password: "Plaza-San-Martin-1887", Role: "editor"}}, true},
		{"weak password", []Account{{Email: "a@m.gob.ar", Password: "admin"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccounts(tt.accounts)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAccounts() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
