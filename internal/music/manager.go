package music

import (
	"fmt"
	"log/slog"
	"sync"
)

// OutputFactory builds the audio output for a guild when its session is
// first created, typically by binding an encoder pipeline to the guild's
// voice connection.
type OutputFactory func(guildID string) (AudioOutput, error)

// Manager owns one Session per guild, created lazily on first use and
// released on disconnect. It is the process-wide keyed store for
// playback state; nothing is persisted.
type Manager struct {
	outputs  OutputFactory
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager.
func NewManager(outputs OutputFactory, notifier Notifier, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		outputs:  outputs,
		notifier: notifier,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Session returns the guild's session, creating it on first use.
func (m *Manager) Session(guildID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[guildID]; ok {
		return sess, nil
	}

	output, err := m.outputs(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio output for guild %s: %w", guildID, err)
	}

	sess := NewSession(guildID, output, m.notifier, m.logger)
	m.sessions[guildID] = sess
	return sess, nil
}

// Existing returns the guild's session without creating one.
func (m *Manager) Existing(guildID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[guildID]
	return sess, ok
}

// Release closes and forgets the guild's session, if any. Used when the
// bot disconnects from the guild's voice channel.
func (m *Manager) Release(guildID string) {
	m.mu.Lock()
	sess, ok := m.sessions[guildID]
	delete(m.sessions, guildID)
	m.mu.Unlock()

	if ok {
		sess.Close()
	}
}

// ReleaseAll closes every session, used during shutdown.
func (m *Manager) ReleaseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.Close()
	}
}
