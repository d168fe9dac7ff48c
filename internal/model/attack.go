package model

// IsSquareAttacked reports whether any piece of defender's opponent
// threatens sq. Attackers are queried as probes, so turn ownership is
// ignored and castling is never generated.
func (b *Board) IsSquareAttacked(sq Square, defender Color) bool {
	attacker := defender.Opponent()
	for _, piece := range b.squares {
		if piece == nil || piece.Color != attacker {
			continue
		}
		for _, target := range b.CandidateMoves(piece.Square, attacker, true) {
			if target == sq {
				return true
			}
		}
	}
	return false
}

// IsKingInCheck reports whether color's king is attacked. A board with no
// king for color is never in check.
func (b *Board) IsKingInCheck(color Color) bool {
	kingSquare, ok := b.KingSquare(color)
	if !ok {
		return false
	}
	return b.IsSquareAttacked(kingSquare, color)
}
