// Package rules implements chess move generation, legality checking, special
// moves and game status evaluation on top of the board store.
package rules

import (
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

// Castling holds the still-available castling rights as bit flags
type Castling uint8

const (
	WhiteKingside Castling = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  Castling = 0
	AllCastling          = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

func (c Castling) Has(r Castling) bool {
	return c&r == r
}

// String uses the FEN letters, "-" when no right remains
func (c Castling) String() string {
	var sb strings.Builder
	for _, r := range []struct {
		right  Castling
		letter byte
	}{
		{WhiteKingside, 'K'}, {WhiteQueenside, 'Q'}, {BlackKingside, 'k'}, {BlackQueenside, 'q'},
	} {
		if c.Has(r.right) {
			sb.WriteByte(r.letter)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// Position is everything the rules need to decide legality: the board,
// the side to move, castling rights and the en passant target.
// It is a value type; copying it is how moves are simulated.
type Position struct {
	Board     board.Board
	Turn      core.Color
	Castling  Castling
	EnPassant core.Square
}

// Start returns the standard initial position with white to move
func Start() Position {
	return Position{
		Board:     board.Standard(),
		Turn:      core.ColorWhite,
		Castling:  AllCastling,
		EnPassant: core.NoSquare,
	}
}

func lastRank(c core.Color) int {
	if c == core.ColorBlack {
		return 0
	}
	return 7
}

func pawnStartRank(c core.Color) int {
	if c == core.ColorBlack {
		return 6
	}
	return 1
}
