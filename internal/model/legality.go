package model

// WouldLeaveKingInCheck plays from->to on the board, checks whether the
// mover's king is attacked afterwards and restores the previous occupants.
// Flags and piece squares are never touched, so the board is bit-identical
// after the call. A board without a king for the mover reports false.
func (b *Board) WouldLeaveKingInCheck(from, to Square) bool {
	mover := b.At(from)
	if mover == nil || !to.onBoard() {
		return false
	}
	captured := b.At(to)

	var victim *Piece
	if mover.Type == Pawn {
		victim = b.enPassantVictim(mover, to)
	}

	b.set(to, mover)
	b.set(from, nil)
	if victim != nil {
		b.set(victim.Square, nil)
	}
	defer func() {
		if victim != nil {
			b.set(victim.Square, victim)
		}
		b.set(from, mover)
		b.set(to, captured)
	}()

	kingSquare := to
	if mover.Type != King {
		var ok bool
		kingSquare, ok = b.KingSquare(mover.Color)
		if !ok {
			return false
		}
	}
	return b.IsSquareAttacked(kingSquare, mover.Color)
}

// LegalMoves returns the candidate moves of the piece on sq that do not
// leave its own king in check.
func (b *Board) LegalMoves(sq Square, active Color) []Square {
	legal := []Square{}
	for _, to := range b.CandidateMoves(sq, active, false) {
		if !b.WouldLeaveKingInCheck(sq, to) {
			legal = append(legal, to)
		}
	}
	return legal
}

// HasLegalMove reports whether color has at least one legal move anywhere
// on the board.
func (b *Board) HasLegalMove(color Color) bool {
	for _, piece := range b.Pieces(color) {
		for _, to := range b.CandidateMoves(piece.Square, color, false) {
			if !b.WouldLeaveKingInCheck(piece.Square, to) {
				return true
			}
		}
	}
	return false
}
