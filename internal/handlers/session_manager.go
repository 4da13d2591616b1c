package handlers

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/debate"
	"dev.helix.debate/internal/models"
)

// SessionManager keeps live debate sessions in memory, keyed by session id.
// Finished debates move to the database; the manager only serves the ones
// still running.
type SessionManager struct {
	mu        sync.RWMutex
	sessions  map[string]*debate.Session
	generator *debate.MessageGenerator
	attacher  *debate.EvidenceAttacher
	policy    debate.StagePolicy
	logger    *logrus.Logger
}

// NewSessionManager creates a session manager with the shared collaborators
// every new session is wired with.
func NewSessionManager(
	generator *debate.MessageGenerator,
	attacher *debate.EvidenceAttacher,
	policy debate.StagePolicy,
	logger *logrus.Logger,
) *SessionManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &SessionManager{
		sessions:  make(map[string]*debate.Session),
		generator: generator,
		attacher:  attacher,
		policy:    policy,
		logger:    logger,
	}
}

// Create builds and registers a new session for the given configuration.
func (m *SessionManager) Create(config models.DebateConfig) *debate.Session {
	session := debate.NewSession(config, m.generator, m.attacher, m.policy, m.logger)

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()

	return session
}

// Get returns the live session with the given id.
func (m *SessionManager) Get(id string) (*debate.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return session, nil
}

// Remove drops a session from the live set, typically after it was persisted.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
