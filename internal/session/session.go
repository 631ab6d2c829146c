// Package session tracks the authenticated user and session flags. The
// biometric flag is a device preference and survives logout; the
// loading flag is transient and never persisted.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kienmai98/Life/internal/core"
	"github.com/kienmai98/Life/internal/log"
	"github.com/kienmai98/Life/internal/persist"
)

// Saver receives the persisted slice of session state on every change.
type Saver interface {
	Save(key string, state any)
}

// Session is the single holder of the current identity.
type Session struct {
	mu                 sync.RWMutex
	user               *core.User
	isLoading          bool
	isBiometricEnabled bool
	saver              Saver
}

func New(saver Saver) *Session {
	return &Session{
		// Loading starts true: the process begins with an auth check.
		isLoading: true,
		saver:     saver,
	}
}

// Restore applies a persisted snapshot. The loading flag is left alone.
func (s *Session) Restore(state persist.SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = cloneUser(state.User)
	s.isBiometricEnabled = state.IsBiometricEnabled
}

// SetUser installs (or clears, with nil) the authenticated identity.
// Clears the loading flag as a side effect: the auth transition is over.
func (s *Session) SetUser(ctx context.Context, u *core.User) {
	s.mu.Lock()
	s.user = cloneUser(u)
	s.isLoading = false
	s.mu.Unlock()

	s.snapshot()

	if u != nil {
		slog.InfoContext(ctx, "Session user set",
			log.FieldComponent, log.ComponentSession,
			log.FieldUserID, u.ID)
	} else {
		slog.InfoContext(ctx, "Session user cleared",
			log.FieldComponent, log.ComponentSession)
	}
}

func (s *Session) SetLoading(loading bool) {
	s.mu.Lock()
	s.isLoading = loading
	s.mu.Unlock()
	// Transient flag: not persisted, no snapshot.
}

func (s *Session) SetBiometricEnabled(ctx context.Context, enabled bool) {
	s.mu.Lock()
	s.isBiometricEnabled = enabled
	s.mu.Unlock()

	s.snapshot()

	slog.InfoContext(ctx, "Biometric preference changed",
		log.FieldComponent, log.ComponentSession,
		"enabled", enabled)
}

// Logout clears the user and the loading flag. The biometric flag is a
// device-level preference and is deliberately kept.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.isLoading = false
	s.mu.Unlock()

	s.snapshot()

	slog.InfoContext(ctx, "Session logged out",
		log.FieldComponent, log.ComponentSession,
		log.FieldOperation, log.OpLogout)
}

// User returns the current identity, or nil when logged out.
func (s *Session) User() *core.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *Session) IsBiometricEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isBiometricEnabled
}

func (s *Session) snapshot() {
	if s.saver == nil {
		return
	}
	s.mu.RLock()
	state := persist.SessionState{
		User:               cloneUser(s.user),
		IsBiometricEnabled: s.isBiometricEnabled,
	}
	s.mu.RUnlock()
	s.saver.Save(persist.SessionKey, state)
}

func cloneUser(u *core.User) *core.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
