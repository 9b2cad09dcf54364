// Package config reads configuration values from the environment, .env files and
// optional YAML files.
//
// Malformed values never abort startup on their own: the default is used and a
// warning is recorded, so the caller can log every fallback in one place.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// LookupFunc returns the raw value of key and whether it is set.
type LookupFunc func(key string) (string, bool)

// Env reads typed values through a LookupFunc and collects fallback warnings.
type Env struct {
	Lookup   LookupFunc
	Warnings []string
}

// NewEnv reads from the process environment.
func NewEnv() *Env {
	return &Env{Lookup: os.LookupEnv}
}

// FromMap reads from a fixed map. Useful in tests.
func FromMap(m map[string]string) *Env {
	return &Env{Lookup: func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}}
}

func (e *Env) raw(key string) (string, bool) {
	v, ok := e.Lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *Env) warn(key, value string, def any, err error) {
	e.Warnings = append(e.Warnings,
		fmt.Sprintf("%s=%q is invalid (%v), using default %v", key, value, err, def))
}

// String returns the value of key or def when unset or blank.
func (e *Env) String(key, def string) string {
	if v, ok := e.raw(key); ok {
		return v
	}
	return def
}

// Int parses key as a base-10 integer.
func (e *Env) Int(key string, def int) int {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.warn(key, v, def, err)
		return def
	}
	return n
}

// Bool parses key with strconv.ParseBool.
func (e *Env) Bool(key string, def bool) bool {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.warn(key, v, def, err)
		return def
	}
	return b
}

// Duration parses key with time.ParseDuration ("90s", "5m").
func (e *Env) Duration(key string, def time.Duration) time.Duration {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.warn(key, v, def, err)
		return def
	}
	return d
}

// StringList splits key on commas, trimming blanks and dropping empty items.
func (e *Env) StringList(key string, def []string) []string {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// LogWarnings writes every collected warning to logger.
func (e *Env) LogWarnings(logger *slog.Logger) {
	for _, w := range e.Warnings {
		logger.Warn("configuration fallback", slog.String("detail", w))
	}
}
