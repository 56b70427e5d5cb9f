// Package session owns the client's authentication state: the bearer token,
// the identity behind it, and the token's on-disk persistence.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"botforge/internal/api"
)

// StoreError wraps a session operation failure with a user-facing message.
type StoreError struct {
	Op      string
	Err     error
	Message string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store holds the current session. The UI loop is the only writer; the token
// is additionally read by in-flight request goroutines through Token, so the
// fields are mutex-guarded. Every token change is mirrored to the token file
// so a session survives restarts.
type Store struct {
	tokens TokenFile
	logger *slog.Logger

	mu    sync.RWMutex
	token string
	user  *api.User
}

// NewStore creates a session store persisting its token through tokens.
func NewStore(tokens TokenFile, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{tokens: tokens, logger: logger}
}

// Token returns the current bearer token, or "" when logged out. Suitable as
// an api.TokenSource: it is re-resolved on every outbound request.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current identity, or nil when logged out.
func (s *Store) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a usable session exists.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// Restore loads a previously saved token and verifies it against the
// identity endpoint. An unauthorized response clears the saved token; any
// other failure keeps it on disk and leaves the store logged out, since the
// token may still be good once the backend is reachable again.
func (s *Store) Restore(ctx context.Context, client *api.Client) error {
	token, err := s.tokens.Load()
	if err != nil {
		return &StoreError{Op: "load saved token", Err: err, Message: "failed to read saved session"}
	}
	if token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := client.Me(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			s.logger.Info("saved token rejected, clearing session")
			s.Logout()
			return nil
		}
		s.mu.Lock()
		s.token = ""
		s.mu.Unlock()
		return &StoreError{Op: "verify saved token", Err: err, Message: "could not reach the backend"}
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	s.logger.Info("session restored", "username", user.Username)
	return nil
}

// Adopt installs the session returned by a successful login or register call
// and persists its token.
func (s *Store) Adopt(resp api.AuthResponse) {
	s.mu.Lock()
	s.token = resp.AccessToken
	user := resp.User
	s.user = &user
	s.mu.Unlock()

	if err := s.tokens.Save(resp.AccessToken); err != nil {
		// The live session works either way; it just won't survive a restart.
		s.logger.Warn("failed to persist token", "error", err)
	}
	s.logger.Info("authenticated", "username", resp.User.Username)
}

// Logout clears the token and identity and removes the persisted token. It
// never fails: a leftover token file only means the next Restore will ask
// the backend and get a 401. Also the forced-logout path for unauthorized
// responses observed after startup.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("failed to remove token file", "error", err)
	}
}
