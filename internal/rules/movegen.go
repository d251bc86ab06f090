package rules

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
)

// Offsets are (file, rank) deltas
var (
	knightOffsets = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}

	rookDirections   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirections = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirections  = kingOffsets
)

// Pseudo returns the geometrically reachable destinations of the piece on
// from, ignoring whether the move leaves the mover in check. An empty square
// or a piece of another color yields nothing.
func Pseudo(pos *Position, from core.Square, c core.Color) []core.Square {
	p, ok := pos.Board.Get(from)
	if !ok || p.Color != c {
		return nil
	}

	switch p.Kind {
	case core.Pawn:
		return pawnMoves(pos, from, c)
	case core.Knight:
		return leaperMoves(&pos.Board, from, c, knightOffsets[:])
	case core.Bishop:
		return sliderMoves(&pos.Board, from, c, bishopDirections[:])
	case core.Rook:
		return sliderMoves(&pos.Board, from, c, rookDirections[:])
	case core.Queen:
		return sliderMoves(&pos.Board, from, c, queenDirections[:])
	case core.King:
		moves := leaperMoves(&pos.Board, from, c, kingOffsets[:])
		return append(moves, castleCandidates(pos, from, c)...)
	}
	return nil
}

func pawnMoves(pos *Position, from core.Square, c core.Color) []core.Square {
	var moves []core.Square
	dir := c.Forward()

	if one, ok := from.Offset(0, dir); ok && pos.Board.IsEmpty(one) {
		moves = append(moves, one)
		if from.Rank() == pawnStartRank(c) {
			if two, ok := from.Offset(0, 2*dir); ok && pos.Board.IsEmpty(two) {
				moves = append(moves, two)
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to, ok := from.Offset(df, dir)
		if !ok {
			continue
		}
		if target, occupied := pos.Board.Get(to); occupied {
			if target.Color != c {
				moves = append(moves, to)
			}
			continue
		}
		if to == pos.EnPassant && enPassantVictim(&pos.Board, from, to, c) {
			moves = append(moves, to)
		}
	}
	return moves
}

// enPassantVictim reports whether an enemy pawn stands beside from on the
// file of the target square, i.e. the pawn that just double-stepped.
func enPassantVictim(b *board.Board, from, to core.Square, c core.Color) bool {
	victim, ok := b.Get(core.NewSquare(to.File(), from.Rank()))
	return ok && victim == core.NewPiece(core.Pawn, c.Opposite())
}

func leaperMoves(b *board.Board, from core.Square, c core.Color, offsets [][2]int) []core.Square {
	var moves []core.Square
	for _, o := range offsets {
		to, ok := from.Offset(o[0], o[1])
		if ok && !b.IsOccupiedBy(to, c) {
			moves = append(moves, to)
		}
	}
	return moves
}

func sliderMoves(b *board.Board, from core.Square, c core.Color, directions [][2]int) []core.Square {
	var moves []core.Square
	for _, d := range directions {
		to := from
		for {
			next, ok := to.Offset(d[0], d[1])
			if !ok {
				break
			}
			to = next
			if p, occupied := b.Get(to); occupied {
				if p.Color != c {
					moves = append(moves, to)
				}
				break
			}
			moves = append(moves, to)
		}
	}
	return moves
}
