package backend

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session binds a token to an account.
type Session struct {
	Token     string
	AccountID string
	ExpiresAt time.Time
}

// IsExpired reports whether the session is past its lifetime at now.
func (s Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Sessions keeps login sessions in memory and evicts expired ones in the
// background.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
	ticker   *time.Ticker
	done     chan struct{}
	once     sync.Once
}

// SessionsOption configures Sessions.
type SessionsOption func(*Sessions)

// WithSessionsClock overrides the clock used for expiry.
func WithSessionsClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessions creates a store issuing sessions valid for ttl. A positive
// cleanupInterval starts the eviction loop; stop it with Close.
func NewSessions(ttl, cleanupInterval time.Duration, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if cleanupInterval > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		go s.cleanupLoop()
	}
	return s
}

// TTL returns the lifetime of new sessions.
func (s *Sessions) TTL() time.Duration { return s.ttl }

// Create issues a session for accountID.
func (s *Sessions) Create(accountID string) Session {
	sess := Session{
		Token:     uuid.NewString(),
		AccountID: accountID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the live session for token.
func (s *Sessions) Get(token string) (Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if sess.IsExpired(s.now()) {
		s.Delete(token)
		return Session{}, ErrSessionExpired
	}
	return sess, nil
}

// Delete removes token. Unknown tokens are ignored.
func (s *Sessions) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included.
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes expired sessions and returns how many were dropped.
func (s *Sessions) Cleanup() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, sess := range s.sessions {
		if sess.IsExpired(now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Close stops the eviction loop.
func (s *Sessions) Close() {
	s.once.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.done)
	})
}

func (s *Sessions) cleanupLoop() {
	for {
		select {
		case <-s.ticker.C:
			s.Cleanup()
		case <-s.done:
			return
		}
	}
}
