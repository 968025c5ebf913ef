package session

import (
	"slices"
	"sync"

	"github.com/matzehuels/holopanel/pkg/display"
)

// BackendFactory creates the display backend for a player's session.
type BackendFactory func(player string) display.Backend

// Manager keeps one session per player. It is safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  BackendFactory
	opts     Options
}

// NewManager creates a manager that builds sessions with the given options.
func NewManager(factory BackendFactory, opts Options) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		factory:  factory,
		opts:     opts,
	}
}

// Open returns the player's session, starting one if needed.
func (m *Manager) Open(player string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[player]; ok {
		return s
	}
	s := New(player, m.factory(player), m.opts)
	m.sessions[player] = s
	s.logger.Debug("session opened")
	return s
}

// Get returns the player's session or ErrNotFound.
func (m *Manager) Get(player string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[player]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Close ends the player's session.
func (m *Manager) Close(player string) error {
	m.mu.Lock()
	s, ok := m.sessions[player]
	delete(m.sessions, player)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

// CloseAll ends every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}

// Players returns the players with an open session, sorted.
func (m *Manager) Players() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	players := make([]string, 0, len(m.sessions))
	for p := range m.sessions {
		players = append(players, p)
	}
	slices.Sort(players)
	return players
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
