package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration ensures d > 0.
func ValidatePositiveDuration(name string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %s", name, d)
	}
	return nil
}

// ValidateDurationRange ensures min <= d <= max.
func ValidateDurationRange(name string, d, min, max time.Duration) error {
	if d < min || d > max {
		return fmt.Errorf("%s must be between %s and %s, got %s", name, min, max, d)
	}
	return nil
}
