package circuitbreaker

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"municipal-portal/internal/domain/entity"
)

func testConfig() Config {
	return Config{
		Name:             "test-circuit",
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          time.Hour,
		FailureThreshold: 1.0,
		MinRequests:      3,
	}
}

func TestNew(t *testing.T) {
	cb := New(testConfig())

	if cb.Name() != "test-circuit" {
		t.Errorf("expected name='test-circuit', got %q", cb.Name())
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected initial state=Closed, got %v", cb.State())
	}
}

func TestBackendConfig(t *testing.T) {
	cfg := BackendConfig("news")
	if cfg.Name != "backend-news" {
		t.Errorf("Name = %q, want backend-news", cfg.Name)
	}
	if cfg.MinRequests != 5 || cfg.FailureThreshold != 1.0 {
		t.Errorf("BackendConfig = %+v", cfg)
	}
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := New(testConfig())
	boom := errors.New("connection refused")

	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(func() (interface{}, error) { return nil, boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: err = %v, want %v", i, err, boom)
		}
	}
	if !cb.IsOpen() {
		t.Fatalf("expected open circuit, got %v", cb.State())
	}

	called := false
	_, err := cb.Execute(func() (interface{}, error) {
		called = true
		return nil, nil
	})
	if called {
		t.Error("fn called while circuit open")
	}
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrUnavailable wrapping ErrOpenState", err)
	}
}

func TestCircuitBreaker_DomainErrorsDoNotTrip(t *testing.T) {
	cb := New(testConfig())
	domainErrs := []error{
		entity.ErrNotFound,
		fmt.Errorf("GetBySlug: %w", entity.ErrInvalidInput),
		&entity.ValidationError{Field: "title", Message: "is required"},
		entity.ErrUnauthorized,
	}

	for i := 0; i < 3; i++ {
		for _, derr := range domainErrs {
			_, _ = cb.Execute(func() (interface{}, error) { return nil, derr })
		}
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("state = %v, want Closed", cb.State())
	}
}

func TestDo(t *testing.T) {
	cb := New(testConfig())

	got, err := Do(cb, func() ([]string, error) { return []string{"a"}, nil })
	if err != nil || len(got) != 1 {
		t.Fatalf("Do = %v, %v", got, err)
	}

	ptr, err := Do(cb, func() (*int, error) { return nil, entity.ErrNotFound })
	if ptr != nil || !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("Do = %v, %v; want nil, ErrNotFound", ptr, err)
	}
}
