package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/go-logr/logr/testr"
	"github.com/google/go-cmp/cmp"
)

func TestOpeningMovesFlipTurn(t *testing.T) {
	rec := &recorder{}
	g := NewGame(WithListener(rec), WithLogger(testr.New(t)))

	play(t, g, "e2", "e4")
	if g.ToMove() != Black {
		t.Fatalf("expected black to move, got %s", g.ToMove())
	}
	play(t, g, "e7", "e5")
	if g.ToMove() != White {
		t.Fatalf("expected white to move, got %s", g.ToMove())
	}
	if g.IsCheck() {
		t.Fatal("unexpected check")
	}
	if g.Outcome() != nil {
		t.Fatalf("unexpected outcome %+v", g.Outcome())
	}

	var notation []string
	for _, m := range rec.moves {
		notation = append(notation, m.Notation)
	}
	if diff := cmp.Diff([]string{"e4", "e5"}, notation); diff != "" {
		t.Fatalf("notation mismatch (-want +got):\n%s", diff)
	}

	state := g.State()
	if len(state.MoveHistory) != 1 || state.MoveHistory[0].BlackPly == nil {
		t.Fatalf("expected one full move in history, got %+v", state.MoveHistory)
	}
	if p := state.Board[4][4]; p == nil || p.Type != Pawn || p.Color != White {
		t.Fatalf("expected white pawn on e4, got %+v", p)
	}
	// white's double step is stale once black has replied
	if state.Board[4][4].MovedByTwo {
		t.Fatal("white pawn still flagged en passant after black's reply")
	}
	if p := state.Board[3][4]; p == nil || !p.MovedByTwo {
		t.Fatalf("expected black pawn on e5 flagged en passant, got %+v", p)
	}
}

func TestSelectionRules(t *testing.T) {
	rec := &recorder{}
	g := NewGame(WithListener(rec))

	if g.Select(sq("e4")) {
		t.Fatal("selected an empty square")
	}
	if g.Select(sq("e7")) {
		t.Fatal("selected an opponent's piece")
	}
	if g.Select(sq("a1")) {
		t.Fatal("selected a rook with no legal moves")
	}
	if g.Phase() != PhaseIdle || len(rec.highlights) != 0 {
		t.Fatal("failed selections must not change state")
	}

	if !g.Select(sq("g1")) {
		t.Fatal("expected knight selection")
	}
	if diff := cmp.Diff([]string{"f3", "h3"}, coords(rec.highlights[0])); diff != "" {
		t.Fatalf("highlight mismatch (-want +got):\n%s", diff)
	}

	if g.MoveTo(sq("g4")) {
		t.Fatal("moved to a square that was not highlighted")
	}
	if g.Phase() != PhaseIdle {
		t.Fatalf("expected idle after invalid destination, got %s", g.Phase())
	}
	if last := rec.highlights[len(rec.highlights)-1]; len(last) != 0 {
		t.Fatalf("expected highlights cleared, got %v", coords(last))
	}
	if g.ToMove() != White || len(rec.moves) != 0 {
		t.Fatal("invalid destination must not commit")
	}
}

func TestClickRoutesSelectionAndMove(t *testing.T) {
	g := NewGame()
	g.Click(sq("d2"))
	if g.Phase() != PhaseSelected {
		t.Fatalf("expected selected, got %s", g.Phase())
	}
	g.Click(sq("d4"))
	if g.ToMove() != Black {
		t.Fatal("click-to-move did not commit")
	}
	board := g.Board()
	if p := board.At(sq("d4")); p == nil || p.Type != Pawn {
		t.Fatal("expected pawn on d4")
	}
	if board.At(sq("d2")) != nil {
		t.Fatal("vacated square still occupied")
	}
}

func TestScholarsMate(t *testing.T) {
	rec := &recorder{}
	g := NewGame(WithListener(rec))
	moves := [][2]string{
		{"e2", "e4"}, {"e7", "e5"},
		{"f1", "c4"}, {"b8", "c6"},
		{"d1", "h5"}, {"g8", "f6"},
		{"h5", "f7"},
	}
	for _, m := range moves {
		play(t, g, m[0], m[1])
		assertKings(t, g.Board())
	}

	out := g.Outcome()
	if out == nil || out.Result != ResultCheckmate {
		t.Fatalf("expected checkmate, got %+v", out)
	}
	if out.Winner == nil || *out.Winner != White {
		t.Fatalf("expected white to win, got %+v", out.Winner)
	}
	last := rec.moves[len(rec.moves)-1]
	if last.Notation != "Qxf7#" {
		t.Fatalf("expected Qxf7#, got %q", last.Notation)
	}
	if len(rec.outcomes) != 1 {
		t.Fatalf("expected one game-over event, got %d", len(rec.outcomes))
	}
	if g.Select(sq("e8")) {
		t.Fatal("selection allowed after checkmate")
	}
}

func TestBackRankMate(t *testing.T) {
	rec := &recorder{}
	board := boardFromRows(t,
		"......k.",
		".....ppp",
		"........",
		"........",
		"........",
		"........",
		"........",
		"...Q..K.",
	)
	g := NewGameFromBoard(board, White, WithListener(rec))

	play(t, g, "d1", "d8")

	state := g.State()
	if state.Outcome == nil || state.Outcome.Result != ResultCheckmate {
		t.Fatalf("expected checkmate, got %+v", state.Outcome)
	}
	if !state.IsCheck {
		t.Fatal("expected in-check flag")
	}
	if state.Outcome.Winner == nil || *state.Outcome.Winner != White {
		t.Fatalf("expected white winner, got %+v", state.Outcome.Winner)
	}
	if got := rec.moves[0]; !got.Check || !got.Checkmate || got.Notation != "Qd8#" {
		t.Fatalf("unexpected move record %+v", got)
	}
	if diff := cmp.Diff([]Outcome{*state.Outcome}, rec.outcomes); diff != "" {
		t.Fatalf("game-over events mismatch (-want +got):\n%s", diff)
	}
}

func TestStalemate(t *testing.T) {
	rec := &recorder{}
	board := boardFromRows(t,
		"k.......",
		"...Q....",
		".K......",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	g := NewGameFromBoard(board, White, WithListener(rec))

	play(t, g, "d7", "c7")

	out := g.Outcome()
	if out == nil || out.Result != ResultStalemate {
		t.Fatalf("expected stalemate, got %+v", out)
	}
	if out.Winner != nil {
		t.Fatalf("stalemate has no winner, got %s", *out.Winner)
	}
	if g.IsCheck() {
		t.Fatal("stalemate must not be check")
	}
	if rec.moves[0].Checkmate || rec.moves[0].Check {
		t.Fatalf("unexpected check flags on %+v", rec.moves[0])
	}
}

func TestConstructedTerminalPosition(t *testing.T) {
	board := boardFromRows(t,
		"k.......",
		"..Q.....",
		".K......",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	g := NewGameFromBoard(board, Black)
	state := g.State()
	if state.Outcome == nil || state.Outcome.Result != ResultStalemate || state.IsCheck {
		t.Fatalf("expected stalemate on construction, got %+v check=%v", state.Outcome, state.IsCheck)
	}
}

func TestPromotionSuspendsTurn(t *testing.T) {
	rec := &recorder{}
	board := boardFromRows(t,
		"........",
		"P.......",
		".......k",
		"........",
		"........",
		"........",
		"........",
		"....K...",
	)
	g := NewGameFromBoard(board, White, WithListener(rec))

	play(t, g, "a7", "a8")

	if g.Phase() != PhaseAwaitingPromotion {
		t.Fatalf("expected awaiting promotion, got %s", g.Phase())
	}
	if g.ToMove() != White {
		t.Fatal("turn flipped before the promotion choice")
	}
	if len(rec.moves) != 0 {
		t.Fatal("move committed before the promotion choice")
	}
	if diff := cmp.Diff([]Square{sq("a8")}, rec.promotions); diff != "" {
		t.Fatalf("promotion events mismatch (-want +got):\n%s", diff)
	}
	if ps := g.State().PromotionSquare; ps == nil || *ps != sq("a8") {
		t.Fatalf("expected promotion square a8, got %v", ps)
	}
	if g.Select(sq("e1")) {
		t.Fatal("selection allowed while awaiting promotion")
	}

	if err := g.SupplyPromotionChoice(King); !errors.Is(err, ErrInvalidPromotion) {
		t.Fatalf("expected ErrInvalidPromotion, got %v", err)
	}
	if err := g.SupplyPromotionChoice(Queen); err != nil {
		t.Fatalf("promotion: %v", err)
	}

	if p := g.Board().At(sq("a8")); p == nil || p.Type != Queen || p.Color != White {
		t.Fatalf("expected white queen on a8, got %+v", p)
	}
	if g.ToMove() != Black || g.Phase() != PhaseIdle {
		t.Fatalf("turn not completed: to move %s, phase %s", g.ToMove(), g.Phase())
	}
	if len(rec.moves) != 1 {
		t.Fatalf("expected one committed move, got %d", len(rec.moves))
	}
	if got := rec.moves[0]; got.Promotion != Queen || got.Notation != "a8=Q" || got.Check {
		t.Fatalf("unexpected record %+v", got)
	}

	if err := g.SupplyPromotionChoice(Queen); !errors.Is(err, ErrNoPendingPromotion) {
		t.Fatalf("expected ErrNoPendingPromotion, got %v", err)
	}
	if len(rec.moves) != 1 {
		t.Fatal("turn completed twice")
	}
}

func TestPromotionCanGiveCheck(t *testing.T) {
	board := boardFromRows(t,
		".......k",
		"P.......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"....K...",
	)
	g := NewGameFromBoard(board, White)
	play(t, g, "a7", "a8")
	if err := g.SupplyPromotionChoice(Rook); err != nil {
		t.Fatalf("promotion: %v", err)
	}
	if !g.IsCheck() {
		t.Fatal("expected check from the new rook")
	}
	history := g.History()
	if got := history[len(history)-1].Notation; got != "a8=R+" {
		t.Fatalf("expected a8=R+, got %q", got)
	}
}

func TestCastlingRelocatesRook(t *testing.T) {
	board := boardFromRows(t,
		"r...k..r",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"R...K..R",
	)
	g := NewGameFromBoard(board, White)

	play(t, g, "e1", "g1")
	b := g.Board()
	if rook := b.At(sq("f1")); rook == nil || rook.Type != Rook || !rook.HasMoved {
		t.Fatalf("expected moved rook on f1, got %+v", rook)
	}
	if b.At(sq("h1")) != nil {
		t.Fatal("h1 should be empty after castling")
	}

	play(t, g, "e8", "c8")
	b = g.Board()
	if rook := b.At(sq("d8")); rook == nil || rook.Type != Rook || rook.Color != Black {
		t.Fatalf("expected black rook on d8, got %+v", rook)
	}

	history := g.History()
	if history[0].Castle != CastleKingside || history[0].Notation != "O-O" {
		t.Fatalf("unexpected kingside record %+v", history[0])
	}
	if history[1].Castle != CastleQueenside || history[1].Notation != "O-O-O" {
		t.Fatalf("unexpected queenside record %+v", history[1])
	}
	want := &CastleRookMove{From: sq("a8"), To: sq("d8")}
	if diff := cmp.Diff(want, history[1].CastleRookMove); diff != "" {
		t.Fatalf("rook move mismatch (-want +got):\n%s", diff)
	}
}

func TestEnPassantWindow(t *testing.T) {
	rows := []string{
		"....k...",
		"...p....",
		"........",
		"....P...",
		"........",
		"........",
		"........",
		"....K...",
	}

	t.Run("immediately after the double step", func(t *testing.T) {
		g := NewGameFromBoard(boardFromRows(t, rows...), Black)
		play(t, g, "d7", "d5")
		play(t, g, "e5", "d6")

		b := g.Board()
		if b.At(sq("d5")) != nil {
			t.Fatal("captured pawn still on d5")
		}
		last := g.History()[1]
		if last.EnPassant == nil || *last.EnPassant != sq("d5") || !last.Capture || last.Notation != "exd6" {
			t.Fatalf("unexpected en passant record %+v", last)
		}
		if got := g.State().CapturedPieces.White; len(got) != 1 || got[0].Type != Pawn {
			t.Fatalf("expected one captured pawn, got %+v", got)
		}
	})

	t.Run("one full turn later", func(t *testing.T) {
		g := NewGameFromBoard(boardFromRows(t, rows...), Black)
		play(t, g, "d7", "d5")
		play(t, g, "e1", "e2")
		play(t, g, "e8", "d8")

		if !g.Select(sq("e5")) {
			t.Fatal("expected e5 selectable")
		}
		if contains(g.State().LegalMoves, sq("d6")) {
			t.Fatal("en passant still offered a turn later")
		}
	})
}

func TestKingsSurviveEveryMove(t *testing.T) {
	g := NewGame()
	moves := [][2]string{
		{"e2", "e4"}, {"d7", "d5"},
		{"e4", "d5"}, {"d8", "d5"},
		{"b1", "c3"}, {"d5", "e5"},
		{"f1", "e2"}, {"e5", "g5"},
		{"g1", "f3"}, {"g5", "g2"},
		{"h1", "g1"}, {"g2", "h2"},
	}
	for _, m := range moves {
		play(t, g, m[0], m[1])
		assertKings(t, g.Board())
	}
}

func TestResetRestoresStartingPosition(t *testing.T) {
	g := NewGame()
	play(t, g, "e2", "e4")
	g.Select(sq("e7"))
	g.Reset()

	if diff := cmp.Diff(NewBoard().Snapshot(), g.Board().Snapshot()); diff != "" {
		t.Fatalf("board not reset (-want +got):\n%s", diff)
	}
	state := g.State()
	if state.ToMove != White || state.Phase != PhaseIdle || len(state.MoveHistory) != 0 || state.SelectedSquare != nil {
		t.Fatalf("state not reset: %+v", state)
	}
}

func TestMissingKingIsLogged(t *testing.T) {
	var logged []string
	log := funcr.New(func(prefix, args string) {
		logged = append(logged, args)
	}, funcr.Options{})

	board := boardFromRows(t,
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"R...K...",
	)
	NewGameFromBoard(board, White, WithLogger(log))

	found := false
	for _, line := range logged {
		if strings.Contains(line, "one-king invariant") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected invariant violation to be logged, got %v", logged)
	}
}

func TestNotationDisambiguatesOrigin(t *testing.T) {
	knights := []string{
		"....k...",
		"........",
		"........",
		"........",
		"........",
		".....N..",
		"........",
		".N..K...",
	}
	rooks := []string{
		"....k...",
		"........",
		"........",
		"........",
		"........",
		"R.......",
		"........",
		"R......K",
	}
	queens := []string{
		"........",
		".......K",
		"........",
		".......k",
		"........",
		"Q.......",
		"........",
		"Q.Q.....",
	}
	pinned := []string{
		"....r..k",
		"........",
		"........",
		"........",
		"........",
		".....N..",
		"....N...",
		"....K...",
	}
	tests := []struct {
		name     string
		rows     []string
		from, to string
		want     string
	}{
		{name: "file from b1", rows: knights, from: "b1", to: "d2", want: "Nbd2"},
		{name: "file from f3", rows: knights, from: "f3", to: "d2", want: "Nfd2"},
		{name: "unique destination", rows: knights, from: "b1", to: "c3", want: "Nc3"},
		{name: "rank from a1", rows: rooks, from: "a1", to: "a2", want: "R1a2"},
		{name: "rank from a3", rows: rooks, from: "a3", to: "a2", want: "R3a2"},
		{name: "full square", rows: queens, from: "a1", to: "b2", want: "Qa1b2"},
		{name: "pinned twin ignored", rows: pinned, from: "f3", to: "g1", want: "Ng1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGameFromBoard(boardFromRows(t, tt.rows...), White)
			play(t, g, tt.from, tt.to)
			history := g.History()
			if got := history[len(history)-1].Notation; got != tt.want {
				t.Fatalf("notation = %q, want %q", got, tt.want)
			}
		})
	}
}
