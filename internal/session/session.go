// Package session tracks authenticated connections and their lease
// lifetimes.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Session is one authenticated client lease.
type Session struct {
	ID   string
	Host string

	mu           sync.RWMutex
	userID       string
	lastActivity time.Time
}

// SetUserID binds the session to a user.
func (s *Session) SetUserID(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

// GetUserID returns the bound user, empty if unauthenticated.
func (s *Session) GetUserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// UpdateActivity refreshes the lease.
func (s *Session) UpdateActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

func (s *Session) lastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

// Manager owns all live sessions and expires idle ones.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	leasePeriod time.Duration
	logger      *zap.Logger
}

// NewManager creates a session manager with the given lease period.
func NewManager(leasePeriod time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		leasePeriod: leasePeriod,
		logger:      logger,
	}
}

// CreateSession registers a new session.
func (m *Manager) CreateSession(id, host string) *Session {
	sess := &Session{
		ID:           id,
		Host:         host,
		lastActivity: time.Now(),
	}
	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()
	return sess
}

// GetSession looks up a session by id.
func (m *Manager) GetSession(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// RemoveSession drops a session.
func (m *Manager) RemoveSession(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// UpdateActivity refreshes the lease of the given session, if it exists.
func (m *Manager) UpdateActivity(id string) {
	if sess, ok := m.GetSession(id); ok {
		sess.UpdateActivity()
	}
}

// ActiveSessions returns the number of live sessions.
func (m *Manager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpiredSessions periodically removes sessions whose lease lapsed.
// Runs until the context is cancelled.
func (m *Manager) CleanupExpiredSessions(ctx context.Context) {
	interval := m.leasePeriod / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.expire()
		}
	}
}

func (m *Manager) expire() {
	cutoff := time.Now().Add(-m.leasePeriod)

	m.mu.Lock()
	var expired []string
	for id, sess := range m.sessions {
		if sess.lastActive().Before(cutoff) {
			expired = append(expired, id)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, id := range expired {
		m.logger.Info("session expired", zap.String("session_id", id))
	}
}
