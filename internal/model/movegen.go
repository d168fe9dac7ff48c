package model

// offset vectors as {rank, file} deltas
var (
	rookDirs   = []Square{{Rank: 1, File: 0}, {Rank: -1, File: 0}, {Rank: 0, File: 1}, {Rank: 0, File: -1}}
	bishopDirs = []Square{{Rank: 1, File: 1}, {Rank: 1, File: -1}, {Rank: -1, File: 1}, {Rank: -1, File: -1}}
	queenDirs  = append(append([]Square{}, rookDirs...), bishopDirs...)
	knightDirs = []Square{
		{Rank: -2, File: -1}, {Rank: -2, File: 1},
		{Rank: -1, File: -2}, {Rank: -1, File: 2},
		{Rank: 1, File: -2}, {Rank: 1, File: 2},
		{Rank: 2, File: -1}, {Rank: 2, File: 1},
	}
)

// CandidateMoves returns the destinations the piece on sq could reach,
// ignoring whether the move would expose its own king.
//
// Outside of a probe, a piece whose color is not active generates nothing.
// A probe asks what the piece threatens regardless of whose turn it is: it
// skips castling, and pawns report their two capture diagonals instead of
// their pushes.
func (b *Board) CandidateMoves(sq Square, active Color, probe bool) []Square {
	piece := b.At(sq)
	if piece == nil {
		return []Square{}
	}
	if piece.Color != active && !probe {
		return []Square{}
	}
	switch piece.Type {
	case Pawn:
		if probe {
			return b.pawnAttacks(piece)
		}
		return b.pawnMoves(piece)
	case Knight:
		return b.stepMoves(piece, knightDirs)
	case Bishop:
		return b.slideMoves(piece, bishopDirs)
	case Rook:
		return b.slideMoves(piece, rookDirs)
	case Queen:
		return b.slideMoves(piece, queenDirs)
	case King:
		moves := b.stepMoves(piece, queenDirs)
		if !piece.HasMoved && !probe {
			moves = append(moves, b.castlingMoves(piece)...)
		}
		return moves
	default:
		return []Square{}
	}
}

func (b *Board) pawnMoves(piece *Piece) []Square {
	moves := []Square{}
	from := piece.Square
	if from.Rank == 0 || from.Rank == 7 {
		return moves
	}
	dir := piece.Forward()
	// forward 1, then forward 2 from the starting rank
	one := from.offset(dir, 0)
	if b.isEmpty(one) {
		moves = append(moves, one)
		two := from.offset(2*dir, 0)
		if from.Rank == piece.startRank() && b.isEmpty(two) {
			moves = append(moves, two)
		}
	}
	for _, side := range []int{-1, 1} {
		target := from.offset(dir, side)
		if !target.onBoard() {
			continue
		}
		if occupant := b.At(target); occupant != nil && occupant.Color != piece.Color {
			moves = append(moves, target)
			continue
		}
		if b.enPassantVictim(piece, target) != nil {
			moves = append(moves, target)
		}
	}
	return moves
}

func (b *Board) pawnAttacks(piece *Piece) []Square {
	attacks := []Square{}
	from := piece.Square
	if from.Rank == 0 || from.Rank == 7 {
		return attacks
	}
	for _, side := range []int{-1, 1} {
		target := from.offset(piece.Forward(), side)
		if target.onBoard() {
			attacks = append(attacks, target)
		}
	}
	return attacks
}

// enPassantVictim returns the enemy pawn a pawn would take by moving
// diagonally onto the empty square to, or nil if that is not an en passant
// capture.
func (b *Board) enPassantVictim(pawn *Piece, to Square) *Piece {
	from := pawn.Square
	if to.File == from.File || to.Rank != from.Rank+pawn.Forward() || !b.isEmpty(to) {
		return nil
	}
	adjacent := b.At(Square{Rank: from.Rank, File: to.File})
	if adjacent == nil || adjacent.Type != Pawn || adjacent.Color == pawn.Color || !adjacent.MovedByTwo {
		return nil
	}
	return adjacent
}

func (b *Board) stepMoves(piece *Piece, dirs []Square) []Square {
	moves := []Square{}
	for _, dir := range dirs {
		target := piece.Square.offset(dir.Rank, dir.File)
		if !target.onBoard() {
			continue
		}
		if occupant := b.At(target); occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func (b *Board) slideMoves(piece *Piece, dirs []Square) []Square {
	moves := []Square{}
	for _, dir := range dirs {
		target := piece.Square.offset(dir.Rank, dir.File)
		for target.onBoard() {
			occupant := b.At(target)
			if occupant == nil {
				moves = append(moves, target)
			} else {
				if occupant.Color != piece.Color {
					moves = append(moves, target)
				}
				break
			}
			target = target.offset(dir.Rank, dir.File)
		}
	}
	return moves
}

func (b *Board) castlingMoves(king *Piece) []Square {
	moves := []Square{}
	if b.canCastle(king, 7, 6) {
		moves = append(moves, Square{Rank: king.Square.Rank, File: 6})
	}
	if b.canCastle(king, 0, 2) {
		moves = append(moves, Square{Rank: king.Square.Rank, File: 2})
	}
	return moves
}

// canCastle checks the rook on rookFile of the king's rank and the squares
// the king crosses on its way to destFile.
func (b *Board) canCastle(king *Piece, rookFile, destFile int) bool {
	rank := king.Square.Rank
	rook := b.At(Square{Rank: rank, File: rookFile})
	if rook == nil || rook.Type != Rook || rook.Color != king.Color || rook.HasMoved {
		return false
	}
	step := 1
	if rookFile < king.Square.File {
		step = -1
	}
	if (destFile-king.Square.File)*step <= 0 || (rookFile-destFile)*step < 0 {
		return false
	}
	for file := king.Square.File + step; file != rookFile; file += step {
		if !b.isEmpty(Square{Rank: rank, File: file}) {
			return false
		}
	}
	// the king's square, every square it passes and the landing square
	for file := king.Square.File; ; file += step {
		if b.IsSquareAttacked(Square{Rank: rank, File: file}, king.Color) {
			return false
		}
		if file == destFile {
			break
		}
	}
	return true
}
