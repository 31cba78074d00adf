package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager owns the live sessions.
type Manager struct {
	cfg Config
	ttl time.Duration
	bus *Bus
	log zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager. Sessions idle for longer than ttl are
// removed by Sweep; a ttl of zero disables sweeping.
func NewManager(cfg Config, ttl time.Duration, logger zerolog.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		ttl:      ttl,
		bus:      NewBus(),
		log:      logger.With().Str("component", "sessions").Logger(),
		sessions: make(map[string]*Session),
	}
}

// Bus returns the bus session changes are published on.
func (m *Manager) Bus() *Bus {
	return m.bus
}

// Create starts a new, empty session.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.cfg, m.bus, time.Now(), m.log)
	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()
	m.log.Debug().Str("session", s.ID).Int("sessions", n).Msg("session created")
	return s
}

// Get returns the session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	return s, nil
}

// Remove drops the session with id, if any.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle since before now-ttl and returns how many
// were removed.
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.idle(now, m.ttl) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.log.Info().Int("removed", removed).Int("sessions", len(m.sessions)).Msg("idle sessions swept")
	}
	return removed
}

// Run sweeps idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	if m.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(m.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}
