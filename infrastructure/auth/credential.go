// Package auth provides credential lookup and authentication for agent init.
package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/felixgeelhaar/agent-shell/domain/agent"
)

// CredentialSource yields the API credential.
type CredentialSource interface {
	Credential(ctx context.Context) (string, error)
}

// EnvSource reads the credential from an environment variable.
type EnvSource struct {
	name   string
	lookup func(string) (string, bool)
}

// EnvOption configures an EnvSource.
type EnvOption func(*EnvSource)

// WithLookup replaces os.LookupEnv.
func WithLookup(fn func(string) (string, bool)) EnvOption {
	return func(s *EnvSource) {
		s.lookup = fn
	}
}

// NewEnvSource creates a source reading the named variable.
func NewEnvSource(name string, opts ...EnvOption) *EnvSource {
	s := &EnvSource{name: name, lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the variable name.
func (s *EnvSource) Name() string {
	return s.name
}

// Credential returns the trimmed variable value, or agent.ErrMissingCredential
// when it is unset or blank.
func (s *EnvSource) Credential(_ context.Context) (string, error) {
	value, ok := s.lookup(s.name)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s is not set", agent.ErrMissingCredential, s.name)
	}
	return value, nil
}

// StaticSource is a fixed credential.
type StaticSource string

// Credential implements CredentialSource.
func (s StaticSource) Credential(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", agent.ErrMissingCredential
	}
	return string(s), nil
}
