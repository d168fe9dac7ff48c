package model

import "fmt"

type CastleKind string

const (
	CastleNone      CastleKind = ""
	CastleKingside  CastleKind = "kingside"
	CastleQueenside CastleKind = "queenside"
)

type CastleRookMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// MoveRecord describes one committed ply. It is derived output for
// notation and rendering, not authoritative state.
type MoveRecord struct {
	Piece          PieceType       `json:"piece"`
	Color          Color           `json:"color"`
	From           Square          `json:"from"`
	To             Square          `json:"to"`
	Disambiguation string          `json:"disambiguation,omitempty"` // origin qualifier when a piece of the same kind could also reach To
	Capture        bool            `json:"capture"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	EnPassant      *Square         `json:"enPassant"`
	Castle         CastleKind      `json:"castle"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      PieceType       `json:"promotion"`
	Check          bool            `json:"check"`
	Checkmate      bool            `json:"checkmate"`
	Notation       string          `json:"notation"`
}

// MovePair groups White's ply with Black's reply, the way a score sheet does.
type MovePair struct {
	WhitePly *MoveRecord `json:"whitePly"`
	BlackPly *MoveRecord `json:"blackPly"`
}

type SimpleMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

func (r *MoveRecord) getNotation() string {
	suffix := ""
	switch {
	case r.Checkmate:
		suffix = "#"
	case r.Check:
		suffix = "+"
	}
	switch r.Castle {
	case CastleKingside:
		return "O-O" + suffix
	case CastleQueenside:
		return "O-O-O" + suffix
	}
	prefix := r.Piece.getPieceNotation() + r.Disambiguation
	if r.Piece == Pawn && r.Capture {
		prefix = r.From.getFileNotation()
	}
	capture := ""
	if r.Capture {
		capture = "x"
	}
	promotion := ""
	if r.Promotion != "" {
		promotion = "=" + r.Promotion.getPieceNotation()
	}
	return fmt.Sprintf("%s%s%s%s%s", prefix, capture, r.To, promotion, suffix)
}

func historyPairs(records []MoveRecord) []MovePair {
	pairs := []MovePair{}
	for i := range records {
		rec := records[i]
		if len(pairs) == 0 || rec.Color == White || pairs[len(pairs)-1].BlackPly != nil {
			pairs = append(pairs, MovePair{})
		}
		last := &pairs[len(pairs)-1]
		if rec.Color == White {
			last.WhitePly = &rec
		} else {
			last.BlackPly = &rec
		}
	}
	return pairs
}
