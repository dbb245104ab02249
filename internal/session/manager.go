package session

import (
	"sync"
	"time"

	"healthdash/domain/core"
	"healthdash/internal"
	"healthdash/internal/dataset"
	"healthdash/internal/derive"
)

// Manager tracks live sessions over one shared dataset store and
// evicts the ones nobody has touched within the TTL.
type Manager struct {
	store  *dataset.Store
	ttl    time.Duration
	logger *internal.Logger

	mu       sync.RWMutex
	sessions map[core.ID]*Session

	done chan struct{}
}

// NewManager creates a session manager. Sessions idle longer than ttl
// are evicted by the sweeper; a zero ttl disables eviction.
func NewManager(store *dataset.Store, ttl time.Duration) *Manager {
	return &Manager{
		store:    store,
		ttl:      ttl,
		logger:   internal.NewDefaultLogger(),
		sessions: make(map[core.ID]*Session),
		done:     make(chan struct{}),
	}
}

// Create registers a new session with default inputs.
func (m *Manager) Create() *Session {
	inputs := derive.NewInputs(m.store.MaxYear())
	s := newSession(derive.NewEngine(m.store, inputs))

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session and marks it active.
func (m *Manager) Get(id core.ID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	s.Touch()
	return s, nil
}

// Remove drops a session. Reports whether it existed.
func (m *Manager) Remove(id core.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Len counts live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupIdle evicts sessions idle longer than maxAge and returns how
// many were removed.
func (m *Manager) CleanupIdle(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs TTL eviction on a ticker until Close.
func (m *Manager) StartSweeper(interval time.Duration) {
	if m.ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				removed := m.CleanupIdle(m.ttl)
				if removed > 0 {
					m.logger.Info("🧹 Evicted %d idle sessions, %d remain", removed, m.Len())
				} else if m.logger.GetLevel() >= internal.LogLevelTrace {
					m.logger.Trace("Sweep pass evicted nothing, %d sessions live", m.Len())
				}
			case <-m.done:
				return
			}
		}
	}()
}

// Close stops the sweeper.
func (m *Manager) Close() {
	close(m.done)
}
