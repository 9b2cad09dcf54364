package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"municipal-portal/internal/domain/entity"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
// Both cases read the same so accounts cannot be enumerated.
var ErrInvalidCredentials = fmt.Errorf("invalid login credentials: %w", entity.ErrUnauthorized)

// Account is one panel user configured at startup.
type Account struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// AccountProvider checks credentials against the configured accounts.
type AccountProvider struct {
	accounts []Account
}

// NewAccountProvider returns a provider for accounts. Emails compare
// case-insensitively.
func NewAccountProvider(accounts ...Account) *AccountProvider {
	normalized := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		a.Email = normalizeEmail(a.Email)
		if a.Email == "" || a.Password == "" {
			continue
		}
		if a.Role == "" {
			a.Role = RoleAdmin
		}
		normalized = append(normalized, a)
	}
	return &AccountProvider{accounts: normalized}
}

// Verify returns the role of the account matching email and password.
// Every account is compared so the time taken does not depend on which one matched.
func (p *AccountProvider) Verify(_ context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	role := ""
	for _, a := range p.accounts {
		userMatch := subtle.ConstantTimeCompare([]byte(email), []byte(a.Email)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(a.Password)) == 1
		if userMatch && passMatch && role == "" {
			role = a.Role
		}
	}
	if role == "" {
		return "", ErrInvalidCredentials
	}
	return role, nil
}

// Len returns the number of usable accounts.
func (p *AccountProvider) Len() int { return len(p.accounts) }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// minAccountPasswordLength applies to configured accounts, not to the login form.
const minAccountPasswordLength = 12

var weakPasswordList = []string{
	"admin", "password", "123456", "secret", "admin123", "password123",
	"123456789", "12345678", "qwerty", "abc123", "letmein", "welcome",
	"municipio", "municipalidad", "intendencia", "test", "default", "root",
}

var keyboardPatterns = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm", "qwerty", "asdfgh", "zxcvb"}

// ValidateAccounts rejects configurations that would let anyone guess their way
// into the panel. At least one admin account is required.
func ValidateAccounts(accounts []Account) error {
	var errs []error
	seen := make(map[string]bool, len(accounts))
	admins := 0
	for i, a := range accounts {
		email := normalizeEmail(a.Email)
		if email == "" {
			errs = append(errs, fmt.Errorf("account %d: email must not be empty", i))
			continue
		}
		if seen[email] {
			errs = append(errs, fmt.Errorf("account %s: duplicated", email))
		}
		seen[email] = true
		role := a.Role
		if role == "" {
			role = RoleAdmin
		}
		if !IsKnownRole(role) {
			errs = append(errs, fmt.Errorf("account %s: unknown role %q", email, a.Role))
		}
		if role == RoleAdmin {
			admins++
		}
		if err := CheckPasswordStrength(a.Password); err != nil {
			errs = append(errs, fmt.Errorf("account %s: %w", email, err))
		}
	}
	if admins == 0 {
		errs = append(errs, errors.New("at least one admin account is required"))
	}
	return errors.Join(errs...)
}

// CheckPasswordStrength applies the account password policy.
func CheckPasswordStrength(pass string) error {
	switch {
	case pass == "":
		return errors.New("password must not be empty")
	case len(pass) < minAccountPasswordLength:
		return fmt.Errorf("password must be at least %d characters", minAccountPasswordLength)
	case isSimpleNumericPattern(pass):
		return errors.New("password must not be a simple numeric pattern")
	case isKeyboardPattern(pass):
		return errors.New("password must not be a keyboard pattern")
	}
	lower := strings.ToLower(pass)
	for _, weak := range weakPasswordList {
		if lower == weak {
			return errors.New("password must not be a weak password")
		}
		if strings.HasPrefix(lower, weak) && len(pass) < minAccountPasswordLength+5 {
			return errors.New("password must not be based on common weak passwords")
		}
	}
	return nil
}

// isSimpleNumericPattern matches repeated characters and ascending or
// descending digit runs such as "123456789012".
func isSimpleNumericPattern(pass string) bool {
	if isRepeatedChar(pass) {
		return true
	}
	for _, ch := range pass {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	asc, desc := true, true
	for i := 1; i < len(pass); i++ {
		diff := int(pass[i]) - int(pass[i-1])
		if diff != 1 && diff != -9 {
			asc = false
		}
		if diff != -1 && diff != 9 {
			desc = false
		}
	}
	return asc || desc
}

func isRepeatedChar(pass string) bool {
	if pass == "" {
		return false
	}
	for i := 1; i < len(pass); i++ {
		if pass[i] != pass[0] {
			return false
		}
	}
	return true
}

func isKeyboardPattern(pass string) bool {
	lower := strings.ToLower(pass)
	for _, pattern := range keyboardPatterns {
		if strings.Contains(lower, pattern) || strings.Contains(lower, reverse(pattern)) {
			return true
		}
	}
	return false
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
