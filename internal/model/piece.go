package model

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// PieceTypes lists every piece kind, for renderers that key assets by (type, color).
var PieceTypes = []PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

// PromotionTypes are the kinds a pawn may become on the back rank.
var PromotionTypes = []PieceType{Knight, Bishop, Rook, Queen}

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

// IsPromotionType reports whether a pawn may be promoted to p.
func (p PieceType) IsPromotionType() bool {
	for _, t := range PromotionTypes {
		if t == p {
			return true
		}
	}
	return false
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

var Colors = []Color{White, Black}

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Piece is a single occupant of the board. Square is authoritative and is
// updated on every move.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Square   Square    `json:"square"`
	HasMoved bool      `json:"hasMoved"`
	// MovedByTwo marks a pawn that advanced two squares on the last ply and
	// can therefore be taken en passant.
	MovedByTwo bool `json:"movedByTwo"`
}

// Forward is the rank delta of a pawn step for the piece's color.
func (p *Piece) Forward() int {
	if p.Color == White {
		return -1
	}
	return 1
}

func (p *Piece) startRank() int {
	if p.Color == White {
		return 6
	}
	return 1
}

func (p *Piece) backRank() int {
	if p.Color == White {
		return 0
	}
	return 7
}

func (p *Piece) clone() *Piece {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
