package rules

import "chessrules/internal/core"

// Ply is a fully specified move request
type Ply struct {
	From      core.Square
	To        core.Square
	Promotion core.Kind
}

// String returns the coordinate form, e.g. "e2e4" or "e7e8q"
func (p Ply) String() string {
	s := p.From.String() + p.To.String()
	if p.Promotion != core.KindNone {
		s += string(p.Promotion.Letter())
	}
	return s
}

// Move describes an applied move and its side effects
type Move struct {
	From       core.Square
	To         core.Square
	Piece      core.Piece  // the piece as it stood on From
	Captured   core.Piece  // zero when nothing was taken
	CapturedOn core.Square // differs from To for en passant
	Promotion  core.Kind   // KindNone unless a pawn promoted
	Castle     Castling    // the right exercised, NoCastling otherwise
	EnPassant  bool
}

func (m Move) Ply() Ply {
	return Ply{From: m.From, To: m.To, Promotion: m.Promotion}
}

func (m Move) String() string {
	return m.Ply().String()
}

// Apply performs the move on pos with every side effect: captured piece
// removal (en passant included), rook relocation when castling, promotion
// substitution, castling right revocation, en passant target update and the
// turn switch. It does not check legality; callers validate first.
// A promotion kind that is not promotable falls back to a queen.
func Apply(pos *Position, from, to core.Square, promotion core.Kind) Move {
	piece, _ := pos.Board.Remove(from)
	m := Move{From: from, To: to, Piece: piece, CapturedOn: core.NoSquare}

	if piece.Kind == core.Pawn && to == pos.EnPassant && from.File() != to.File() && pos.Board.IsEmpty(to) {
		victim := core.NewSquare(to.File(), from.Rank())
		m.Captured, _ = pos.Board.Remove(victim)
		m.CapturedOn = victim
		m.EnPassant = true
	} else if captured, ok := pos.Board.Remove(to); ok {
		m.Captured = captured
		m.CapturedOn = to
	}

	if piece.Kind == core.King {
		if cs, ok := castleFor(from, to, piece.Color); ok {
			rook, _ := pos.Board.Remove(cs.rookFrom)
			pos.Board.Place(cs.rookTo, rook)
			m.Castle = cs.right
		}
	}

	placed := piece
	if piece.Kind == core.Pawn && to.Rank() == lastRank(piece.Color) {
		if !promotion.Promotable() {
			promotion = core.Queen
		}
		placed.Kind = promotion
		m.Promotion = promotion
	}
	pos.Board.Place(to, placed)

	pos.Castling &^= rightsTouching(from) | rightsTouching(to)

	pos.EnPassant = core.NoSquare
	if piece.Kind == core.Pawn && abs(to.Rank()-from.Rank()) == 2 {
		pos.EnPassant = core.NewSquare(from.File(), (from.Rank()+to.Rank())/2)
	}

	pos.Turn = piece.Color.Opposite()
	return m
}

// IsPromotion reports whether moving the piece on from to to would promote
func IsPromotion(pos *Position, from, to core.Square) bool {
	p, ok := pos.Board.Get(from)
	return ok && p.Kind == core.Pawn && to.Rank() == lastRank(p.Color)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
