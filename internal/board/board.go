// Package board stores pieces on an 8x8 grid. It knows nothing about chess rules.
package board

import (
	"strings"

	"chessrules/internal/core"
)

// backRank is the standard piece order from the a-file to the h-file
var backRank = [8]core.Kind{
	core.Rook, core.Knight, core.Bishop, core.Queen,
	core.King, core.Bishop, core.Knight, core.Rook,
}

// Board is a value type; assigning it copies every square.
type Board struct {
	squares [64]core.Piece
}

// Standard returns the initial arrangement of a chess game
func Standard() Board {
	var b Board
	for f := 0; f < 8; f++ {
		b.Place(core.NewSquare(f, 0), core.NewPiece(backRank[f], core.ColorWhite))
		b.Place(core.NewSquare(f, 1), core.NewPiece(core.Pawn, core.ColorWhite))
		b.Place(core.NewSquare(f, 6), core.NewPiece(core.Pawn, core.ColorBlack))
		b.Place(core.NewSquare(f, 7), core.NewPiece(backRank[f], core.ColorBlack))
	}
	return b
}

// Place puts a piece on the square, replacing whatever was there.
// Invalid squares are ignored.
func (b *Board) Place(sq core.Square, p core.Piece) {
	if !sq.Valid() {
		return
	}
	b.squares[sq] = p
}

// Remove clears the square and returns the piece that stood on it
func (b *Board) Remove(sq core.Square) (core.Piece, bool) {
	p, ok := b.Get(sq)
	if ok {
		b.squares[sq] = core.Piece{}
	}
	return p, ok
}

func (b *Board) Get(sq core.Square) (core.Piece, bool) {
	if !sq.Valid() {
		return core.Piece{}, false
	}
	p := b.squares[sq]
	return p, !p.IsZero()
}

func (b *Board) IsEmpty(sq core.Square) bool {
	_, ok := b.Get(sq)
	return sq.Valid() && !ok
}

func (b *Board) IsOccupiedBy(sq core.Square, c core.Color) bool {
	p, ok := b.Get(sq)
	return ok && p.Color == c
}

// KingSquare finds the king of the given color
func (b *Board) KingSquare(c core.Color) (core.Square, bool) {
	king := core.NewPiece(core.King, c)
	for i, p := range b.squares {
		if p == king {
			return core.Square(i), true
		}
	}
	return core.NoSquare, false
}

// Each calls fn for every occupied square, a1 first
func (b *Board) Each(fn func(sq core.Square, p core.Piece)) {
	for i, p := range b.squares {
		if !p.IsZero() {
			fn(core.Square(i), p)
		}
	}
}

// Count returns the number of pieces of the given color
func (b *Board) Count(c core.Color) int {
	n := 0
	b.Each(func(_ core.Square, p core.Piece) {
		if p.Color == c {
			n++
		}
	})
	return n
}

// ToASCII creates an ASCII representation of the board, white at the bottom
func (b *Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 7; r >= 0; r-- {
		sb.WriteByte(byte('1' + r))
		sb.WriteByte(' ')
		for f := 0; f < 8; f++ {
			p, _ := b.Get(core.NewSquare(f, r))
			sb.WriteByte(p.Symbol())
			sb.WriteByte(' ')
		}
		sb.WriteByte(' ')
		sb.WriteByte(byte('1' + r))
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
