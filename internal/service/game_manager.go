package service

import (
	"sync"

	"github.com/benbeisheim/chess-engine/internal/model"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

type SessionManager struct {
	sessions map[string]*Session
	archive  GameArchive
	log      logr.Logger
	mu       sync.RWMutex
}

// NewSessionManager creates an empty manager. archive may be nil, in which
// case finished games are not kept.
func NewSessionManager(archive GameArchive, log logr.Logger) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		archive:  archive,
		log:      log.WithName("sessions"),
	}
}

func (sm *SessionManager) Create() *Session {
	sessionID := uuid.New().String()
	session := newSession(sessionID, sm.archive, sm.log)

	sm.mu.Lock()
	sm.sessions[sessionID] = session
	sm.mu.Unlock()

	sm.log.Info("session created", "session", sessionID)
	return session
}

func (sm *SessionManager) Get(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Remove drops the session and closes every connection watching it.
func (sm *SessionManager) Remove(sessionID string) error {
	sm.mu.Lock()
	session, exists := sm.sessions[sessionID]
	if exists {
		delete(sm.sessions, sessionID)
	}
	sm.mu.Unlock()

	if !exists {
		return ErrSessionNotFound
	}
	session.closeConnections()
	sm.log.Info("session removed", "session", sessionID)
	return nil
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func (sm *SessionManager) Click(sessionID, square string) error {
	session, err := sm.Get(sessionID)
	if err != nil {
		return err
	}
	return session.Click(square)
}

func (sm *SessionManager) Select(sessionID, square string) (bool, error) {
	session, err := sm.Get(sessionID)
	if err != nil {
		return false, err
	}
	return session.Select(square)
}

func (sm *SessionManager) MoveTo(sessionID, square string) (bool, error) {
	session, err := sm.Get(sessionID)
	if err != nil {
		return false, err
	}
	return session.MoveTo(square)
}

func (sm *SessionManager) Promote(sessionID, piece string) error {
	session, err := sm.Get(sessionID)
	if err != nil {
		return err
	}
	return session.Promote(piece)
}

func (sm *SessionManager) Reset(sessionID string) error {
	session, err := sm.Get(sessionID)
	if err != nil {
		return err
	}
	session.Reset()
	return nil
}

func (sm *SessionManager) State(sessionID string) (model.GameState, error) {
	session, err := sm.Get(sessionID)
	if err != nil {
		return model.GameState{}, err
	}
	return session.State(), nil
}

func (sm *SessionManager) RegisterConnection(sessionID, clientID string, conn Conn) error {
	session, err := sm.Get(sessionID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(clientID, conn)
}

func (sm *SessionManager) UnregisterConnection(sessionID, clientID string) {
	session, err := sm.Get(sessionID)
	if err != nil {
		return
	}
	session.UnregisterConnection(clientID)
}
