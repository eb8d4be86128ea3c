// Package session keeps the per-browser session contexts that own a sample register
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/abelzeko/water-samples/internal/entities"
	"github.com/abelzeko/water-samples/internal/repository"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// DefaultTTL matches the one day cookie expiry of the login form
const DefaultTTL = 24 * time.Hour

// Session is the explicitly owned context of one logged-in browser.
// Everything in it is destroyed when the session ends.
type Session struct {
	ID        string
	Identity  entities.Identity
	Register  *repository.SampleRegister
	Views     entities.ReportViews
	CreatedAt time.Time
	ExpiresAt time.Time

	mu sync.Mutex
}

// Lock serialises requests coming from the same browser
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session
func (s *Session) Unlock() { s.mu.Unlock() }

// Manager tracks live sessions by id
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a session manager whose sessions live for ttl
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// TTL returns the lifetime of new sessions
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create opens a new session with an empty register for an authenticated identity
func (m *Manager) Create(identity entities.Identity) *Session {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		Identity:  identity,
		Register:  repository.NewSampleRegister(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Printf("Opened session for user %s", identity.Username)
	return s
}

// Get returns a live session. Expired sessions are reported as missing.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || !m.now().Before(s.ExpiresAt) {
		return nil, false
	}
	return s, true
}

// Destroy ends a session and discards its register
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return
	}
	s.Lock()
	discarded := s.Register.Len()
	s.Unlock()
	log.Printf("Closed session for user %s (%d samples discarded)", s.Identity.Username, discarded)
}

// Sweep removes every session expired at now and returns how many were dropped
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of tracked sessions, expired ones included until swept
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// NewSweeper schedules Sweep on the given cron spec. The caller starts and stops it.
func NewSweeper(m *Manager, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := m.Sweep(m.now()); n > 0 {
			log.Printf("Swept %d expired sessions", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up session sweeper: %w", err)
	}
	return c, nil
}
