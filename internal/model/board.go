package model

import "fmt"

// Square is a board coordinate. Rank 0 is Black's back rank and rank 7 is
// White's, so the algebraic rank digit is 8-Rank.
type Square struct {
	Rank int `json:"rank"`
	File int `json:"file"`
}

func (s Square) String() string {
	if !s.onBoard() {
		return fmt.Sprintf("(%d,%d)", s.Rank, s.File)
	}
	return fmt.Sprintf("%c%d", 'a'+s.File, 8-s.Rank)
}

func (s Square) getFileNotation() string {
	return fmt.Sprintf("%c", 'a'+s.File)
}

func (s Square) getRankNotation() string {
	return fmt.Sprintf("%d", 8-s.Rank)
}

func (s Square) onBoard() bool {
	return s.Rank >= 0 && s.Rank < 8 && s.File >= 0 && s.File < 8
}

func (s Square) index() int {
	return s.Rank*8 + s.File
}

func (s Square) offset(dRank, dFile int) Square {
	return Square{Rank: s.Rank + dRank, File: s.File + dFile}
}

// ParseSquare converts algebraic coordinates such as "e4" into a Square.
func ParseSquare(coord string) (Square, error) {
	if len(coord) != 2 {
		return Square{}, fmt.Errorf("invalid square %q", coord)
	}
	file := int(coord[0] - 'a')
	rank := 8 - int(coord[1]-'0')
	sq := Square{Rank: rank, File: file}
	if !sq.onBoard() {
		return Square{}, fmt.Errorf("invalid square %q", coord)
	}
	return sq, nil
}

// MustParseSquare is ParseSquare for literals known to be valid.
func MustParseSquare(coord string) Square {
	sq, err := ParseSquare(coord)
	if err != nil {
		panic(err)
	}
	return sq
}

// Board is a flat 64-slot arena of optional occupants indexed by square.
type Board struct {
	squares [64]*Piece
}

var backRankOrder = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	board := NewEmptyBoard()
	for file := 0; file < 8; file++ {
		board.Place(&Piece{Type: backRankOrder[file], Color: Black, Square: Square{Rank: 0, File: file}})
		board.Place(&Piece{Type: Pawn, Color: Black, Square: Square{Rank: 1, File: file}})
		board.Place(&Piece{Type: Pawn, Color: White, Square: Square{Rank: 6, File: file}})
		board.Place(&Piece{Type: backRankOrder[file], Color: White, Square: Square{Rank: 7, File: file}})
	}
	return board
}

func NewEmptyBoard() *Board {
	return &Board{}
}

// Place puts p on p.Square, replacing any previous occupant.
func (b *Board) Place(p *Piece) {
	b.squares[p.Square.index()] = p
}

// At returns the occupant of sq, or nil if it is empty or off the board.
func (b *Board) At(sq Square) *Piece {
	if !sq.onBoard() {
		return nil
	}
	return b.squares[sq.index()]
}

func (b *Board) set(sq Square, p *Piece) {
	b.squares[sq.index()] = p
}

func (b *Board) isEmpty(sq Square) bool {
	return b.At(sq) == nil
}

// Pieces returns every piece of the given color in square order.
func (b *Board) Pieces(color Color) []*Piece {
	pieces := []*Piece{}
	for _, p := range b.squares {
		if p != nil && p.Color == color {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// KingSquare locates the king of color. ok is false only if the board
// violates the one-king-per-side invariant.
func (b *Board) KingSquare(color Color) (Square, bool) {
	for i, p := range b.squares {
		if p != nil && p.Type == King && p.Color == color {
			return Square{Rank: i / 8, File: i % 8}, true
		}
	}
	return Square{}, false
}

// CountKings returns how many kings of color are on the board.
func (b *Board) CountKings(color Color) int {
	n := 0
	for _, p := range b.squares {
		if p != nil && p.Type == King && p.Color == color {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cp := &Board{}
	for i, p := range b.squares {
		cp.squares[i] = p.clone()
	}
	return cp
}

// Snapshot returns a deep-copied rank/file grid suitable for rendering and
// comparison.
func (b *Board) Snapshot() [8][8]*Piece {
	var grid [8][8]*Piece
	for i, p := range b.squares {
		grid[i/8][i%8] = p.clone()
	}
	return grid
}
