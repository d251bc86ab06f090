package rules

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
)

// Attacked reports whether any piece of color by could capture on sq.
// The patterns are the capturing moves of Pseudo; pawn pushes and castling
// never capture and so never attack.
func Attacked(b *board.Board, sq core.Square, by core.Color) bool {
	for _, df := range [2]int{-1, 1} {
		if from, ok := sq.Offset(df, -by.Forward()); ok && holds(b, from, core.Pawn, by) {
			return true
		}
	}
	for _, o := range knightOffsets {
		if from, ok := sq.Offset(o[0], o[1]); ok && holds(b, from, core.Knight, by) {
			return true
		}
	}
	for _, o := range kingOffsets {
		if from, ok := sq.Offset(o[0], o[1]); ok && holds(b, from, core.King, by) {
			return true
		}
	}
	for _, d := range rookDirections {
		if p, ok := firstAlong(b, sq, d); ok && p.Color == by && (p.Kind == core.Rook || p.Kind == core.Queen) {
			return true
		}
	}
	for _, d := range bishopDirections {
		if p, ok := firstAlong(b, sq, d); ok && p.Color == by && (p.Kind == core.Bishop || p.Kind == core.Queen) {
			return true
		}
	}
	return false
}

// InCheck reports whether the king of color c is attacked. A board without
// that king is never in check.
func InCheck(b *board.Board, c core.Color) bool {
	k, ok := b.KingSquare(c)
	if !ok {
		return false
	}
	return Attacked(b, k, c.Opposite())
}

func holds(b *board.Board, sq core.Square, k core.Kind, c core.Color) bool {
	p, ok := b.Get(sq)
	return ok && p.Kind == k && p.Color == c
}

// firstAlong returns the first piece met walking from sq in direction d
func firstAlong(b *board.Board, sq core.Square, d [2]int) (core.Piece, bool) {
	for {
		next, ok := sq.Offset(d[0], d[1])
		if !ok {
			return core.Piece{}, false
		}
		sq = next
		if p, occupied := b.Get(sq); occupied {
			return p, true
		}
	}
}
