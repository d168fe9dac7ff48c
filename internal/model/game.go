package model

import (
	"fmt"
	"sync"

	"github.com/go-logr/logr"
)

type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseSelected          Phase = "selected"
	PhaseAwaitingPromotion Phase = "awaitingPromotion"
)

// Game is the turn controller. It exclusively owns its board and turns
// square clicks into selections, committed moves and status signals.
type Game struct {
	mu         sync.Mutex
	board      *Board
	toMove     Color
	phase      Phase
	selected   *Square
	legalMoves []Square
	pending    *MoveRecord // move suspended until a promotion piece is chosen
	isCheck    bool
	outcome    *Outcome
	history    []MoveRecord
	lastMove   *SimpleMove
	listener   Listener
	log        logr.Logger
}

type GameState struct {
	Board           [8][8]*Piece   `json:"board"`
	ToMove          Color          `json:"toMove"`
	Phase           Phase          `json:"phase"`
	SelectedSquare  *Square        `json:"selectedSquare"`
	LegalMoves      []Square       `json:"legalMoves"`
	IsCheck         bool           `json:"isCheck"`
	Outcome         *Outcome       `json:"outcome"`
	PromotionSquare *Square        `json:"promotionSquare"`
	MoveHistory     []MovePair     `json:"moveHistory"`
	CapturedPieces  CapturedPieces `json:"capturedPieces"`
	LastMove        *SimpleMove    `json:"lastMove"`
}

// CapturedPieces lists material taken by each side.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

type Option func(*Game)

func WithListener(l Listener) Option {
	return func(g *Game) {
		if l != nil {
			g.listener = l
		}
	}
}

func WithLogger(log logr.Logger) Option {
	return func(g *Game) {
		g.log = log
	}
}

// NewGame starts a game from the standard position with White to move.
func NewGame(opts ...Option) *Game {
	return NewGameFromBoard(NewBoard(), White, opts...)
}

// NewGameFromBoard starts a game from an arbitrary position. The game takes
// ownership of board.
func NewGameFromBoard(board *Board, toMove Color, opts ...Option) *Game {
	g := &Game{
		board:    board,
		toMove:   toMove,
		phase:    PhaseIdle,
		listener: ListenerFuncs{},
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.checkKings()
	g.isCheck = g.board.IsKingInCheck(g.toMove)
	g.outcome = g.evaluateOutcome()
	return g
}

// Click routes a square click the way a board cell does: with nothing
// selected it tries to select, otherwise it tries to move there.
func (g *Game) Click(sq Square) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.phase {
	case PhaseIdle:
		g.selectSquare(sq)
	case PhaseSelected:
		g.moveTo(sq)
	}
}

// Select picks up the side-to-move's piece on sq and highlights its legal
// destinations. It is a no-op returning false for an empty square, an
// opponent's piece or a piece with no legal move.
func (g *Game) Select(sq Square) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selectSquare(sq)
}

// MoveTo commits the selected piece's move to sq if sq is highlighted.
// Any other square clears the selection.
func (g *Game) MoveTo(sq Square) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.moveTo(sq)
}

// SupplyPromotionChoice resumes a move suspended on the back rank, replacing
// the pawn with kind and completing the turn.
func (g *Game) SupplyPromotionChoice(kind PieceType) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseAwaitingPromotion || g.pending == nil {
		return ErrNoPendingPromotion
	}
	if !kind.IsPromotionType() {
		return fmt.Errorf("%w: %q", ErrInvalidPromotion, kind)
	}
	record := *g.pending
	g.pending = nil

	pawn := g.board.At(record.To)
	promoted := &Piece{Type: kind, Color: pawn.Color, Square: record.To, HasMoved: true}
	g.board.set(record.To, promoted)
	record.Promotion = kind
	g.log.V(1).Info("pawn promoted", "square", record.To.String(), "piece", kind)

	g.finishTurn(promoted, record)
	return nil
}

// Reset discards the current game and sets up the standard position.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.board = NewBoard()
	g.toMove = White
	g.phase = PhaseIdle
	g.selected = nil
	g.legalMoves = nil
	g.pending = nil
	g.isCheck = false
	g.outcome = nil
	g.history = nil
	g.lastMove = nil
	g.log.V(1).Info("game reset")
	g.listener.HighlightChanged([]Square{})
}

func (g *Game) selectSquare(sq Square) bool {
	if g.phase == PhaseAwaitingPromotion || g.outcome != nil {
		return false
	}
	piece := g.board.At(sq)
	if piece == nil || piece.Color != g.toMove {
		return false
	}
	legal := g.board.LegalMoves(sq, g.toMove)
	if len(legal) == 0 {
		return false
	}
	selected := sq
	g.selected = &selected
	g.legalMoves = legal
	g.phase = PhaseSelected
	g.log.V(2).Info("piece selected", "square", sq.String(), "legalMoves", len(legal))
	g.listener.HighlightChanged(append([]Square{}, legal...))
	return true
}

func (g *Game) moveTo(sq Square) bool {
	if g.phase != PhaseSelected || g.selected == nil {
		return false
	}
	from := *g.selected
	if sq == from || !containsSquare(g.legalMoves, sq) {
		g.clearSelection()
		return false
	}
	g.clearSelection()
	g.commit(from, sq)
	return true
}

func (g *Game) clearSelection() {
	g.selected = nil
	g.legalMoves = nil
	g.phase = PhaseIdle
	g.listener.HighlightChanged([]Square{})
}

func (g *Game) commit(from, to Square) {
	piece := g.board.At(from)
	record := MoveRecord{
		Piece: piece.Type,
		Color: piece.Color,
		From:  from,
		To:    to,
	}
	record.Disambiguation = g.disambiguation(piece, to)
	if captured := g.board.At(to); captured != nil {
		record.Capture = true
		record.CapturedPiece = captured.clone()
	}

	if piece.Type == Pawn {
		g.handleEnPassant(piece, &record)
	}
	if piece.Type == King && abs(to.File-from.File) == 2 {
		g.handleCastle(&record)
	}

	g.board.set(from, nil)
	piece.Square = to
	g.board.set(to, piece)
	g.lastMove = &SimpleMove{From: from, To: to}

	if piece.Type == Pawn && to.Rank == piece.backRank() {
		g.pending = &record
		g.phase = PhaseAwaitingPromotion
		g.log.V(1).Info("awaiting promotion choice", "square", to.String(), "color", piece.Color)
		g.listener.PromotionPending(to, piece.Color)
		return
	}
	g.finishTurn(piece, record)
}

// disambiguation returns the shortest origin qualifier that separates piece
// from other pieces of its kind and color with a legal move to the same square.
func (g *Game) disambiguation(piece *Piece, to Square) string {
	if piece.Type == Pawn || piece.Type == King {
		return ""
	}
	from := piece.Square
	rivals, sharesFile, sharesRank := false, false, false
	for _, other := range g.board.Pieces(piece.Color) {
		if other == piece || other.Type != piece.Type {
			continue
		}
		if !containsSquare(g.board.LegalMoves(other.Square, piece.Color), to) {
			continue
		}
		rivals = true
		sharesFile = sharesFile || other.Square.File == from.File
		sharesRank = sharesRank || other.Square.Rank == from.Rank
	}
	switch {
	case !rivals:
		return ""
	case !sharesFile:
		return from.getFileNotation()
	case !sharesRank:
		return from.getRankNotation()
	default:
		return from.String()
	}
}

func (g *Game) handleEnPassant(pawn *Piece, record *MoveRecord) {
	victim := g.board.enPassantVictim(pawn, record.To)
	if victim == nil {
		return
	}
	square := victim.Square
	g.board.set(square, nil)
	record.Capture = true
	record.CapturedPiece = victim.clone()
	record.EnPassant = &square
}

func (g *Game) handleCastle(record *MoveRecord) {
	rank := record.From.Rank
	rookFrom, rookTo := Square{Rank: rank, File: 7}, Square{Rank: rank, File: 5}
	record.Castle = CastleKingside
	if record.To.File == 2 {
		rookFrom, rookTo = Square{Rank: rank, File: 0}, Square{Rank: rank, File: 3}
		record.Castle = CastleQueenside
	}
	rook := g.board.At(rookFrom)
	g.board.set(rookFrom, nil)
	rook.Square = rookTo
	rook.HasMoved = true
	g.board.set(rookTo, rook)
	record.CastleRookMove = &CastleRookMove{From: rookFrom, To: rookTo}
}

// finishTurn completes the bookkeeping of a move whose piece already stands
// on its destination.
func (g *Game) finishTurn(piece *Piece, record MoveRecord) {
	// only the double step just made stays capturable en passant
	for _, color := range Colors {
		for _, p := range g.board.Pieces(color) {
			if p.Type == Pawn && p != piece {
				p.MovedByTwo = false
			}
		}
	}
	piece.MovedByTwo = piece.Type == Pawn && abs(record.To.Rank-record.From.Rank) == 2
	piece.HasMoved = true

	g.toMove = g.toMove.Opponent()
	g.isCheck = g.board.IsKingInCheck(g.toMove)
	g.outcome = g.evaluateOutcome()
	g.phase = PhaseIdle
	g.checkKings()

	record.Check = g.isCheck
	record.Checkmate = g.outcome != nil && g.outcome.Result == ResultCheckmate
	record.Notation = record.getNotation()
	g.history = append(g.history, record)

	g.log.V(1).Info("move committed", "notation", record.Notation, "color", record.Color, "check", record.Check)
	g.listener.MoveCommitted(record)
	if g.outcome != nil {
		g.log.Info("game over", "result", g.outcome.Result)
		g.listener.GameOver(*g.outcome)
	}
}

func (g *Game) evaluateOutcome() *Outcome {
	if g.board.HasLegalMove(g.toMove) {
		return nil
	}
	if g.isCheck {
		winner := g.toMove.Opponent()
		return &Outcome{Result: ResultCheckmate, Winner: &winner}
	}
	return &Outcome{Result: ResultStalemate}
}

func (g *Game) checkKings() {
	for _, color := range Colors {
		if n := g.board.CountKings(color); n != 1 {
			g.log.Error(ErrKingMissing, "board violates the one-king invariant", "color", color, "kings", n)
		}
	}
}

// State returns a deep copy of everything a renderer needs.
func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := GameState{
		Board:          g.board.Snapshot(),
		ToMove:         g.toMove,
		Phase:          g.phase,
		LegalMoves:     append([]Square{}, g.legalMoves...),
		IsCheck:        g.isCheck,
		MoveHistory:    historyPairs(g.history),
		CapturedPieces: capturedPieces(g.history),
	}
	if g.selected != nil {
		sq := *g.selected
		state.SelectedSquare = &sq
	}
	if g.outcome != nil {
		outcome := *g.outcome
		state.Outcome = &outcome
	}
	if g.pending != nil {
		sq := g.pending.To
		state.PromotionSquare = &sq
	}
	if g.lastMove != nil {
		lastMove := *g.lastMove
		state.LastMove = &lastMove
	}
	return state
}

// Board returns a copy of the current position.
func (g *Game) Board() *Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Clone()
}

func (g *Game) ToMove() Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.toMove
}

func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

func (g *Game) IsCheck() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isCheck
}

// Outcome returns the terminal status, or nil while the game is running.
func (g *Game) Outcome() *Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.outcome == nil {
		return nil
	}
	outcome := *g.outcome
	return &outcome
}

// History returns the committed plies in order.
func (g *Game) History() []MoveRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]MoveRecord{}, g.history...)
}

func capturedPieces(history []MoveRecord) CapturedPieces {
	captured := CapturedPieces{White: []Piece{}, Black: []Piece{}}
	for _, rec := range history {
		if rec.CapturedPiece == nil {
			continue
		}
		switch rec.Color {
		case White:
			captured.White = append(captured.White, *rec.CapturedPiece)
		case Black:
			captured.Black = append(captured.Black, *rec.CapturedPiece)
		}
	}
	return captured
}

func containsSquare(squares []Square, sq Square) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
