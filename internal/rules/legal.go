package rules

import (
	"slices"

	"chessrules/internal/core"
)

// Legal filters the pseudo-legal destinations of the piece on from down to
// those that do not leave the mover's king in check. Each candidate is
// played on a copy of the position, so pins, check evasions and king walks
// into attacked squares need no special handling. Castling further requires
// the king's start and transit squares to be unattacked; its destination is
// covered by the simulation. Squares holding a king are never destinations.
func Legal(pos *Position, from core.Square, c core.Color) []core.Square {
	candidates := Pseudo(pos, from, c)
	if len(candidates) == 0 {
		return nil
	}
	piece, _ := pos.Board.Get(from)
	enemy := c.Opposite()

	legal := make([]core.Square, 0, len(candidates))
	for _, to := range candidates {
		if target, ok := pos.Board.Get(to); ok && target.Kind == core.King {
			continue
		}
		if piece.Kind == core.King {
			if cs, ok := castleFor(from, to, c); ok {
				if Attacked(&pos.Board, from, enemy) || Attacked(&pos.Board, cs.transit, enemy) {
					continue
				}
			}
		}

		next := *pos
		Apply(&next, from, to, core.Queen)
		if !InCheck(&next.Board, c) {
			legal = append(legal, to)
		}
	}
	return legal
}

// IsLegal reports whether from->to is a legal move for color c
func IsLegal(pos *Position, from, to core.Square, c core.Color) bool {
	return slices.Contains(Legal(pos, from, c), to)
}

// HasLegalMove reports whether color c can move at all
func HasLegalMove(pos *Position, c core.Color) bool {
	for i := 0; i < 64; i++ {
		sq := core.Square(i)
		if pos.Board.IsOccupiedBy(sq, c) && len(Legal(pos, sq, c)) > 0 {
			return true
		}
	}
	return false
}

// Plies lists every legal move of the side to move. Promotions are expanded
// into one ply per promotable kind.
func Plies(pos *Position) []Ply {
	var plies []Ply
	c := pos.Turn
	for i := 0; i < 64; i++ {
		from := core.Square(i)
		if !pos.Board.IsOccupiedBy(from, c) {
			continue
		}
		for _, to := range Legal(pos, from, c) {
			if IsPromotion(pos, from, to) {
				for _, k := range []core.Kind{core.Queen, core.Rook, core.Bishop, core.Knight} {
					plies = append(plies, Ply{From: from, To: to, Promotion: k})
				}
				continue
			}
			plies = append(plies, Ply{From: from, To: to})
		}
	}
	return plies
}

// Perft counts the leaf positions reachable in exactly depth plies
func Perft(pos Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	plies := Plies(&pos)
	if depth == 1 {
		return uint64(len(plies))
	}
	var nodes uint64
	for _, p := range plies {
		next := pos
		Apply(&next, p.From, p.To, p.Promotion)
		nodes += Perft(next, depth-1)
	}
	return nodes
}
