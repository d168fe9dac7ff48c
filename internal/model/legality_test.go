package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWouldLeaveKingInCheckRestoresBoard(t *testing.T) {
	positions := map[string]struct {
		board  *Board
		toMove Color
	}{
		"start": {board: NewBoard(), toMove: White},
		"tactics": {board: boardFromRows(t,
			"r...k..r",
			"ppp..ppp",
			"..n..q..",
			"...pP...",
			"..B.....",
			"....bN..",
			"PPP..PPP",
			"R..QK..R",
		), toMove: White},
	}
	tactics := positions["tactics"].board
	tactics.At(sq("d5")).MovedByTwo = true

	for name, pos := range positions {
		t.Run(name, func(t *testing.T) {
			board := pos.board
			checked := 0
			for _, piece := range board.Pieces(pos.toMove) {
				for _, to := range board.CandidateMoves(piece.Square, pos.toMove, false) {
					before := board.Snapshot()
					board.WouldLeaveKingInCheck(piece.Square, to)
					if diff := cmp.Diff(before, board.Snapshot()); diff != "" {
						t.Fatalf("%s-%s changed the board (-before +after):\n%s", piece.Square, to, diff)
					}
					checked++
				}
			}
			if checked == 0 {
				t.Fatal("no candidate moves exercised")
			}
		})
	}
}

func TestPinnedPieceHasNoLegalMoves(t *testing.T) {
	board := boardFromRows(t,
		"k...r...",
		"........",
		"........",
		"........",
		"........",
		"........",
		"....B...",
		"....K...",
	)
	if !board.WouldLeaveKingInCheck(sq("e2"), sq("d3")) {
		t.Fatal("expected moving the pinned bishop to expose the king")
	}
	if moves := board.LegalMoves(sq("e2"), White); len(moves) != 0 {
		t.Fatalf("pinned bishop has legal moves %v", coords(moves))
	}
}

func TestKingCannotStepIntoAttack(t *testing.T) {
	board := boardFromRows(t,
		"k.......",
		"........",
		"........",
		"........",
		"........",
		"...r....",
		"........",
		"....K...",
	)
	got := coords(board.LegalMoves(sq("e1"), White))
	if diff := cmp.Diff([]string{"e2", "f1", "f2"}, got); diff != "" {
		t.Fatalf("legal king moves mismatch (-want +got):\n%s", diff)
	}
}

func TestKingCannotCaptureDefendedPiece(t *testing.T) {
	board := boardFromRows(t,
		"k..r....",
		"........",
		"........",
		"........",
		"........",
		"........",
		"...q....",
		"....K...",
	)
	if !board.WouldLeaveKingInCheck(sq("e1"), sq("d2")) {
		t.Fatal("king captured a queen defended by the rook")
	}
}

func TestEnPassantCannotExposeKingAlongRank(t *testing.T) {
	board := boardFromRows(t,
		".......k",
		"........",
		"........",
		"KPp....r",
		"........",
		"........",
		"........",
		"........",
	)
	board.At(sq("c5")).MovedByTwo = true

	if !contains(board.CandidateMoves(sq("b5"), White, false), sq("c6")) {
		t.Fatal("expected en passant to be a candidate")
	}
	if !board.WouldLeaveKingInCheck(sq("b5"), sq("c6")) {
		t.Fatal("en passant removing both pawns should expose the king to the rook")
	}
	if board.At(sq("c5")) == nil {
		t.Fatal("captured pawn was not restored")
	}
}

func TestMissingKingIsNeverInCheck(t *testing.T) {
	board := boardFromRows(t,
		"....k...",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"R.......",
	)
	before := board.Snapshot()
	if board.WouldLeaveKingInCheck(sq("a1"), sq("a2")) {
		t.Fatal("board without a white king reported check")
	}
	if diff := cmp.Diff(before, board.Snapshot()); diff != "" {
		t.Fatalf("board changed (-before +after):\n%s", diff)
	}
	if board.IsKingInCheck(White) {
		t.Fatal("missing king reported in check")
	}
}
