package rules

import "chessrules/internal/core"

// castleSide describes one of the four castling moves
type castleSide struct {
	right    Castling
	color    core.Color
	kingFrom core.Square
	kingTo   core.Square
	rookFrom core.Square
	rookTo   core.Square
	transit  core.Square   // square the king crosses
	between  []core.Square // must be empty
}

var castleSides = [4]castleSide{
	{
		right: WhiteKingside, color: core.ColorWhite,
		kingFrom: core.MustSquare("e1"), kingTo: core.MustSquare("g1"),
		rookFrom: core.MustSquare("h1"), rookTo: core.MustSquare("f1"),
		transit: core.MustSquare("f1"),
		between: []core.Square{core.MustSquare("f1"), core.MustSquare("g1")},
	},
	{
		right: WhiteQueenside, color: core.ColorWhite,
		kingFrom: core.MustSquare("e1"), kingTo: core.MustSquare("c1"),
		rookFrom: core.MustSquare("a1"), rookTo: core.MustSquare("d1"),
		transit: core.MustSquare("d1"),
		between: []core.Square{core.MustSquare("b1"), core.MustSquare("c1"), core.MustSquare("d1")},
	},
	{
		right: BlackKingside, color: core.ColorBlack,
		kingFrom: core.MustSquare("e8"), kingTo: core.MustSquare("g8"),
		rookFrom: core.MustSquare("h8"), rookTo: core.MustSquare("f8"),
		transit: core.MustSquare("f8"),
		between: []core.Square{core.MustSquare("f8"), core.MustSquare("g8")},
	},
	{
		right: BlackQueenside, color: core.ColorBlack,
		kingFrom: core.MustSquare("e8"), kingTo: core.MustSquare("c8"),
		rookFrom: core.MustSquare("a8"), rookTo: core.MustSquare("d8"),
		transit: core.MustSquare("d8"),
		between: []core.Square{core.MustSquare("b8"), core.MustSquare("c8"), core.MustSquare("d8")},
	},
}

// castleFor identifies a king move as castling
func castleFor(from, to core.Square, c core.Color) (castleSide, bool) {
	for _, cs := range castleSides {
		if cs.color == c && cs.kingFrom == from && cs.kingTo == to {
			return cs, true
		}
	}
	return castleSide{}, false
}

// rightsTouching returns the rights lost when a piece leaves or lands on sq.
// The king's home square clears both rights of that color; a rook corner
// clears the right of its side, which covers the rook moving away as well as
// being captured at home.
func rightsTouching(sq core.Square) Castling {
	var lost Castling
	for _, cs := range castleSides {
		if sq == cs.kingFrom || sq == cs.rookFrom {
			lost |= cs.right
		}
	}
	return lost
}

// castleCandidates returns the king destinations for castling moves whose
// rights remain and whose path is clear. Attack conditions are checked by
// the legality filter.
func castleCandidates(pos *Position, from core.Square, c core.Color) []core.Square {
	var moves []core.Square
	rook := core.NewPiece(core.Rook, c)
	for _, cs := range castleSides {
		if cs.color != c || cs.kingFrom != from || !pos.Castling.Has(cs.right) {
			continue
		}
		if p, ok := pos.Board.Get(cs.rookFrom); !ok || p != rook {
			continue
		}
		clear := true
		for _, sq := range cs.between {
			if !pos.Board.IsEmpty(sq) {
				clear = false
				break
			}
		}
		if clear {
			moves = append(moves, cs.kingTo)
		}
	}
	return moves
}

// ConsistentCastling drops rights whose king or rook is not on its home square
func ConsistentCastling(pos *Position) Castling {
	rights := pos.Castling
	for _, cs := range castleSides {
		king, _ := pos.Board.Get(cs.kingFrom)
		rook, _ := pos.Board.Get(cs.rookFrom)
		if king != core.NewPiece(core.King, cs.color) || rook != core.NewPiece(core.Rook, cs.color) {
			rights &^= cs.right
		}
	}
	return rights
}
