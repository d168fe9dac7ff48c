package service

import (
	"errors"

	"github.com/benbeisheim/chess-engine/internal/model"
	"github.com/benbeisheim/chess-engine/internal/storage"
)

// ErrArchiveDisabled is returned by archive queries when the server runs
// without a game archive.
var ErrArchiveDisabled = errors.New("game archive disabled")

// ArchiveReader is the read side of the game archive.
type ArchiveReader interface {
	LoadGame(id string) (*storage.GameRecord, error)
	ListGames() ([]storage.GameRecord, error)
}

type GameService struct {
	sessionManager *SessionManager
	archive        ArchiveReader
}

// NewGameService wires the session manager with an optional archive reader.
func NewGameService(sessionManager *SessionManager, archive ArchiveReader) *GameService {
	return &GameService{
		sessionManager: sessionManager,
		archive:        archive,
	}
}

func (gs *GameService) CreateSession() (string, model.GameState) {
	session := gs.sessionManager.Create()
	return session.ID, session.State()
}

func (gs *GameService) GetGameState(sessionID string) (model.GameState, error) {
	return gs.sessionManager.State(sessionID)
}

func (gs *GameService) ResetSession(sessionID string) (model.GameState, error) {
	if err := gs.sessionManager.Reset(sessionID); err != nil {
		return model.GameState{}, err
	}
	return gs.sessionManager.State(sessionID)
}

func (gs *GameService) RemoveSession(sessionID string) error {
	return gs.sessionManager.Remove(sessionID)
}

func (gs *GameService) HandleClick(sessionID, square string) error {
	return gs.sessionManager.Click(sessionID, square)
}

func (gs *GameService) HandleSelect(sessionID, square string) (bool, error) {
	return gs.sessionManager.Select(sessionID, square)
}

func (gs *GameService) HandleMoveTo(sessionID, square string) (bool, error) {
	return gs.sessionManager.MoveTo(sessionID, square)
}

func (gs *GameService) HandlePromotion(sessionID, piece string) error {
	return gs.sessionManager.Promote(sessionID, piece)
}

func (gs *GameService) HandleReset(sessionID string) error {
	return gs.sessionManager.Reset(sessionID)
}

func (gs *GameService) RegisterConnection(sessionID, clientID string, conn Conn) error {
	return gs.sessionManager.RegisterConnection(sessionID, clientID, conn)
}

func (gs *GameService) UnregisterConnection(sessionID, clientID string) {
	gs.sessionManager.UnregisterConnection(sessionID, clientID)
}

func (gs *GameService) ListArchivedGames() ([]storage.GameRecord, error) {
	if gs.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return gs.archive.ListGames()
}

func (gs *GameService) GetArchivedGame(id string) (*storage.GameRecord, error) {
	if gs.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return gs.archive.LoadGame(id)
}
