package model

import "errors"

var (
	// ErrNoPendingPromotion is returned when a promotion choice arrives while
	// no pawn is waiting on the back rank.
	ErrNoPendingPromotion = errors.New("no promotion pending")

	// ErrInvalidPromotion is returned for a promotion choice outside
	// PromotionTypes.
	ErrInvalidPromotion = errors.New("invalid promotion piece")
)

// ErrKingMissing reports a board that lost a king. It indicates a broken
// invariant and is only logged.
var ErrKingMissing = errors.New("king missing from board")
