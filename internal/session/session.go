// Package session persists the client's auth token and API base address.
//
// The session is an explicit object handed to the API client rather than
// ambient global state. Every write is immediately durable, so a token saved
// by one invocation is visible to the next.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/bioflow/internal/shared"
)

const builtinAPIBase = "http://localhost:8000"

type sessionData struct {
	APIBase string `toml:"api_base"`
	Token   string `toml:"token"`
}

// Session is a durable store for the auth token and API base override,
// backed by a TOML file.
type Session struct {
	path string
	data sessionData
}

// DefaultPath returns the session file location, ~/.bioflow/session.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".bioflow", "session.toml"), nil
}

// Open loads the session file at path. A missing file yields an empty,
// logged-out session.
func Open(path string) (*Session, error) {
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if err := toml.Unmarshal(data, &s.data); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	return s, nil
}

// APIBase returns the API base address. Precedence: saved override,
// build-time override, built-in default.
func (s *Session) APIBase() string {
	if s.data.APIBase != "" {
		return s.data.APIBase
	}
	if shared.DefaultAPIBase != "" {
		return shared.DefaultAPIBase
	}
	return builtinAPIBase
}

// StoredAPIBase returns the saved override only, empty when none was set.
// Callers layering further defaults (a config file) check this first.
func (s *Session) StoredAPIBase() string {
	return s.data.APIBase
}

// SetAPIBase saves an API base override.
func (s *Session) SetAPIBase(base string) error {
	s.data.APIBase = base
	return s.save()
}

// Token returns the stored bearer token, empty when logged out.
// No format or expiry validation happens client-side; an invalid token is
// only discovered when an authenticated request fails.
func (s *Session) Token() string {
	return s.data.Token
}

// LoggedIn reports whether a token is present.
func (s *Session) LoggedIn() bool {
	return s.data.Token != ""
}

// SetToken stores a bearer token.
func (s *Session) SetToken(token string) error {
	s.data.Token = token
	return s.save()
}

// ClearToken removes the stored token.
func (s *Session) ClearToken() error {
	s.data.Token = ""
	return s.save()
}

func (s *Session) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}
