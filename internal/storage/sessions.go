package storage

import (
	"sync"

	"github.com/bobmcallan/advisor/internal/common"
	"github.com/bobmcallan/advisor/internal/interfaces"
	"github.com/bobmcallan/advisor/internal/models"
)

// MemorySessionStore holds live chat sessions in memory keyed by session id.
// Sessions do not survive a restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.ChatSession
	logger   *common.Logger
}

// NewMemorySessionStore creates an empty session store.
func NewMemorySessionStore(logger *common.Logger) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*models.ChatSession),
		logger:   logger,
	}
}

// Get returns the session for an id if one exists.
func (s *MemorySessionStore) Get(id string) (*models.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

// GetOrCreate returns the session for an id, creating it on first use.
func (s *MemorySessionStore) GetOrCreate(id string) *models.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[id]; ok {
		return session
	}
	session := models.NewChatSession(id)
	s.sessions[id] = session
	s.logger.Debug().Str("session_id", id).Msg("Session created")
	return session
}

// Delete removes a session. Deleting a missing id is a no-op.
func (s *MemorySessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Count returns the number of live sessions.
func (s *MemorySessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var _ interfaces.SessionStore = (*MemorySessionStore)(nil)
