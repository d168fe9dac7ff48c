package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chess-engine/internal/model"
	"github.com/benbeisheim/chess-engine/internal/storage"
	"github.com/benbeisheim/chess-engine/internal/ws"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSquare   = errors.New("invalid square")
	ErrClientConnected = errors.New("client already connected")
)

// Conn is the part of a websocket connection a session writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// GameArchive persists finished games.
type GameArchive interface {
	SaveGame(rec storage.GameRecord) error
}

// The connections watching a specific session
type SessionConnections struct {
	connections map[string]Conn // clientID -> connection
	mu          sync.RWMutex
}

func NewSessionConnections() *SessionConnections {
	return &SessionConnections{
		connections: make(map[string]Conn),
	}
}

// Session is one hot-seat board: a game, the views attached to it and the
// events the game produced since the last broadcast.
type Session struct {
	ID          string
	CreatedAt   time.Time
	game        *model.Game
	connections *SessionConnections
	archive     GameArchive
	log         logr.Logger

	mu       sync.Mutex
	outbox   []ws.Message
	finished *model.Outcome
}

func newSession(id string, archive GameArchive, log logr.Logger) *Session {
	s := &Session{
		ID:          id,
		CreatedAt:   time.Now(),
		connections: NewSessionConnections(),
		archive:     archive,
		log:         log.WithValues("session", id),
	}
	s.game = model.NewGame(model.WithListener(s), model.WithLogger(s.log.WithName("game")))
	return s
}

// HighlightChanged, MoveCommitted, PromotionPending and GameOver queue the
// game's signals; they run under the game's lock, so nothing is sent here.
func (s *Session) HighlightChanged(squares []model.Square) {
	s.enqueue(ws.MessageTypeHighlight, ws.HighlightPayload{Squares: squareStrings(squares)})
}

func (s *Session) MoveCommitted(record model.MoveRecord) {
	s.enqueue(ws.MessageTypeMoveCommitted, record)
}

func (s *Session) PromotionPending(square model.Square, color model.Color) {
	s.enqueue(ws.MessageTypePromotionPending, ws.PromotionPendingPayload{Square: square.String(), Color: string(color)})
}

func (s *Session) GameOver(outcome model.Outcome) {
	s.enqueue(ws.MessageTypeGameOver, outcome)
	s.mu.Lock()
	s.finished = &outcome
	s.mu.Unlock()
}

func (s *Session) enqueue(t ws.MessageType, payload interface{}) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		s.log.Error(err, "failed to encode event", "type", t)
		return
	}
	s.mu.Lock()
	s.outbox = append(s.outbox, msg)
	s.mu.Unlock()
}

// Click forwards a board click given in algebraic notation.
func (s *Session) Click(coord string) error {
	sq, err := parseSquare(coord)
	if err != nil {
		return err
	}
	s.game.Click(sq)
	s.flush()
	return nil
}

func (s *Session) Select(coord string) (bool, error) {
	sq, err := parseSquare(coord)
	if err != nil {
		return false, err
	}
	ok := s.game.Select(sq)
	s.flush()
	return ok, nil
}

func (s *Session) MoveTo(coord string) (bool, error) {
	sq, err := parseSquare(coord)
	if err != nil {
		return false, err
	}
	ok := s.game.MoveTo(sq)
	s.flush()
	return ok, nil
}

func (s *Session) Promote(piece string) error {
	if err := s.game.SupplyPromotionChoice(model.PieceType(piece)); err != nil {
		return err
	}
	s.flush()
	return nil
}

func (s *Session) Reset() {
	s.mu.Lock()
	s.finished = nil
	s.CreatedAt = time.Now()
	s.mu.Unlock()
	s.game.Reset()
	s.flush()
}

func (s *Session) State() model.GameState {
	return s.game.State()
}

// flush archives a finished game and broadcasts queued events followed by
// the full state.
func (s *Session) flush() {
	s.mu.Lock()
	outbox := s.outbox
	s.outbox = nil
	finished := s.finished
	s.finished = nil
	startedAt := s.CreatedAt
	s.mu.Unlock()

	if finished != nil {
		s.archiveGame(*finished, startedAt)
	}
	if len(outbox) == 0 {
		return
	}
	state, err := ws.NewMessage(ws.MessageTypeGameState, s.game.State())
	if err != nil {
		s.log.Error(err, "failed to encode state")
	} else {
		outbox = append(outbox, state)
	}
	s.broadcast(outbox)
}

func (s *Session) archiveGame(outcome model.Outcome, startedAt time.Time) {
	if s.archive == nil {
		return
	}
	rec := storage.GameRecord{
		ID:         uuid.New().String(),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Result:     outcome.Result,
		Winner:     outcome.Winner,
		Moves:      s.game.History(),
	}
	if err := s.archive.SaveGame(rec); err != nil {
		s.log.Error(err, "failed to archive game")
		return
	}
	s.log.Info("game archived", "id", rec.ID, "result", rec.Result, "moves", len(rec.Moves))
}

func (s *Session) RegisterConnection(clientID string, conn Conn) error {
	s.connections.mu.Lock()
	if _, exists := s.connections.connections[clientID]; exists {
		// Keep the existing connection; the caller owns and closes the new one
		s.connections.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrClientConnected, clientID)
	}
	s.connections.connections[clientID] = conn
	s.connections.mu.Unlock()
	s.log.V(1).Info("registered connection", "client", clientID)

	// Send initial state...
	msg, err := ws.NewMessage(ws.MessageTypeGameState, s.game.State())
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(msg); err != nil {
		s.UnregisterConnection(clientID)
		return fmt.Errorf("send initial state: %w", err)
	}
	return nil
}

func (s *Session) UnregisterConnection(clientID string) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	if _, exists := s.connections.connections[clientID]; exists {
		s.log.V(1).Info("unregistering connection", "client", clientID)
		delete(s.connections.connections, clientID)
	}
}

// ConnectionCount reports how many views are attached.
func (s *Session) ConnectionCount() int {
	s.connections.mu.RLock()
	defer s.connections.mu.RUnlock()
	return len(s.connections.connections)
}

func (s *Session) closeConnections() {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	for clientID, conn := range s.connections.connections {
		conn.Close()
		delete(s.connections.connections, clientID)
	}
}

func (s *Session) broadcast(messages []ws.Message) {
	// Get a snapshot of connections, then write without holding the lock
	s.connections.mu.RLock()
	activeConnections := make(map[string]Conn, len(s.connections.connections))
	for clientID, conn := range s.connections.connections {
		activeConnections[clientID] = conn
	}
	s.connections.mu.RUnlock()

	for clientID, conn := range activeConnections {
		for _, msg := range messages {
			if err := conn.WriteJSON(msg); err != nil {
				s.log.Error(err, "failed to send event, dropping connection", "client", clientID, "type", msg.Type)
				s.UnregisterConnection(clientID)
				break
			}
		}
	}
}

func parseSquare(coord string) (model.Square, error) {
	sq, err := model.ParseSquare(coord)
	if err != nil {
		return model.Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, coord)
	}
	return sq, nil
}

func squareStrings(squares []model.Square) []string {
	out := make([]string, 0, len(squares))
	for _, sq := range squares {
		out = append(out, sq.String())
	}
	return out
}
