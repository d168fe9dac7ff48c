package model

type Result string

const (
	ResultCheckmate Result = "checkmate"
	ResultStalemate Result = "stalemate"
)

// Outcome is the terminal status of a game. Winner is nil for a stalemate.
type Outcome struct {
	Result Result `json:"result"`
	Winner *Color `json:"winner"`
}

// Listener receives the controller's outbound signals. Callbacks run
// synchronously inside the Game call that produced them and must not call
// back into the Game.
type Listener interface {
	HighlightChanged(squares []Square)
	MoveCommitted(record MoveRecord)
	PromotionPending(square Square, color Color)
	GameOver(outcome Outcome)
}

// ListenerFuncs adapts optional functions to a Listener; nil fields are
// ignored.
type ListenerFuncs struct {
	OnHighlightChanged func(squares []Square)
	OnMoveCommitted    func(record MoveRecord)
	OnPromotionPending func(square Square, color Color)
	OnGameOver         func(outcome Outcome)
}

func (l ListenerFuncs) HighlightChanged(squares []Square) {
	if l.OnHighlightChanged != nil {
		l.OnHighlightChanged(squares)
	}
}

func (l ListenerFuncs) MoveCommitted(record MoveRecord) {
	if l.OnMoveCommitted != nil {
		l.OnMoveCommitted(record)
	}
}

func (l ListenerFuncs) PromotionPending(square Square, color Color) {
	if l.OnPromotionPending != nil {
		l.OnPromotionPending(square, color)
	}
}

func (l ListenerFuncs) GameOver(outcome Outcome) {
	if l.OnGameOver != nil {
		l.OnGameOver(outcome)
	}
}
