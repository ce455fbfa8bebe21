// Package csrf issues and verifies per-session tokens for the hidden
// csrf_token field rendered by builder.AddCSRFInput.
package csrf

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/session"
)

// DefaultSessionKey is where tokens are kept in the session.
const DefaultSessionKey = "csrf_token"

var (
	// ErrInvalidToken is returned when a submitted token does not match.
	ErrInvalidToken = errors.New("csrf: invalid token")
	// ErrMissingToken is returned when the session holds no token.
	ErrMissingToken = errors.New("csrf: no token issued for session")
)

// Option configures a Manager.
type Option func(*Manager)

// WithSessionKey stores tokens under a custom session key.
func WithSessionKey(key string) Option {
	return func(m *Manager) {
		if key = strings.TrimSpace(key); key != "" {
			m.key = key
		}
	}
}

// WithGenerator replaces the token generator.
func WithGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.generate = fn
		}
	}
}

// Manager issues tokens into session stores.
type Manager struct {
	key      string
	generate func() string
}

// New constructs a Manager. Tokens default to random v4 UUIDs.
func New(options ...Option) *Manager {
	m := &Manager{
		key:      DefaultSessionKey,
		generate: uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// SessionKey returns the key tokens are stored under.
func (m *Manager) SessionKey() string {
	return m.key
}

// Issue returns the session's token, creating one when none exists yet.
func (m *Manager) Issue(store session.ReadWriter) string {
	if token, ok := store.Read(m.key); ok {
		return token
	}
	return m.Rotate(store)
}

// Rotate replaces the session's token.
func (m *Manager) Rotate(store session.Writer) string {
	token := m.generate()
	store.Set(m.key, token)
	return token
}

// Verify compares submitted with the session's token in constant time.
func (m *Manager) Verify(store session.Reader, submitted string) error {
	expected, ok := store.Read(m.key)
	if !ok {
		return ErrMissingToken
	}
	if submitted == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) != 1 {
		return ErrInvalidToken
	}
	return nil
}
