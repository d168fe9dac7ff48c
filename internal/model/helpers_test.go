package model

import (
	"sort"
	"testing"
)

var diagramPieces = map[rune]PieceType{
	'p': Pawn, 'n': Knight, 'b': Bishop, 'r': Rook, 'q': Queen, 'k': King,
}

// boardFromRows builds a position from eight rows, rank 8 first. Uppercase
// letters are White, lowercase Black and '.' an empty square.
func boardFromRows(t *testing.T, rows ...string) *Board {
	t.Helper()
	if len(rows) != 8 {
		t.Fatalf("diagram needs 8 rows, got %d", len(rows))
	}
	board := NewEmptyBoard()
	for rank, row := range rows {
		if len(row) != 8 {
			t.Fatalf("row %d has %d squares", rank, len(row))
		}
		for file, ch := range row {
			if ch == '.' {
				continue
			}
			color := Black
			lower := ch
			if ch >= 'A' && ch <= 'Z' {
				color = White
				lower = ch - 'A' + 'a'
			}
			pieceType, ok := diagramPieces[lower]
			if !ok {
				t.Fatalf("unknown piece %q in row %d", ch, rank)
			}
			board.Place(&Piece{Type: pieceType, Color: color, Square: Square{Rank: rank, File: file}})
		}
	}
	return board
}

func sq(coord string) Square {
	return MustParseSquare(coord)
}

// coords renders squares as sorted algebraic strings for order-free
// comparison.
func coords(squares []Square) []string {
	out := make([]string, 0, len(squares))
	for _, s := range squares {
		out = append(out, s.String())
	}
	sort.Strings(out)
	return out
}

func contains(squares []Square, target Square) bool {
	for _, s := range squares {
		if s == target {
			return true
		}
	}
	return false
}

type recorder struct {
	highlights [][]Square
	moves      []MoveRecord
	promotions []Square
	outcomes   []Outcome
}

func (r *recorder) HighlightChanged(squares []Square) {
	r.highlights = append(r.highlights, squares)
}

func (r *recorder) MoveCommitted(record MoveRecord) {
	r.moves = append(r.moves, record)
}

func (r *recorder) PromotionPending(square Square, color Color) {
	r.promotions = append(r.promotions, square)
}

func (r *recorder) GameOver(outcome Outcome) {
	r.outcomes = append(r.outcomes, outcome)
}

// play selects from and moves to, failing the test if either step is
// rejected.
func play(t *testing.T, g *Game, from, to string) {
	t.Helper()
	if !g.Select(sq(from)) {
		t.Fatalf("select %s rejected (to move: %s)", from, g.ToMove())
	}
	if !g.MoveTo(sq(to)) {
		t.Fatalf("move %s-%s rejected", from, to)
	}
}

func assertKings(t *testing.T, b *Board) {
	t.Helper()
	for _, color := range Colors {
		if n := b.CountKings(color); n != 1 {
			t.Fatalf("expected exactly one %s king, found %d", color, n)
		}
	}
}
