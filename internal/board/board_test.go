package board

import (
	"strings"
	"testing"

	"chessrules/internal/core"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandard(t *testing.T) {
	b := Standard()

	assert.Equal(t, 16, b.Count(core.ColorWhite))
	assert.Equal(t, 16, b.Count(core.ColorBlack))

	tests := []struct {
		square string
		want   core.Piece
	}{
		{"a1", core.NewPiece(core.Rook, core.ColorWhite)},
		{"b1", core.NewPiece(core.Knight, core.ColorWhite)},
		{"c1", core.NewPiece(core.Bishop, core.ColorWhite)},
		{"d1", core.NewPiece(core.Queen, core.ColorWhite)},
		{"e1", core.NewPiece(core.King, core.ColorWhite)},
		{"h1", core.NewPiece(core.Rook, core.ColorWhite)},
		{"e2", core.NewPiece(core.Pawn, core.ColorWhite)},
		{"e7", core.NewPiece(core.Pawn, core.ColorBlack)},
		{"d8", core.NewPiece(core.Queen, core.ColorBlack)},
		{"e8", core.NewPiece(core.King, core.ColorBlack)},
		{"g8", core.NewPiece(core.Knight, core.ColorBlack)},
	}
	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			got, ok := b.Get(core.MustSquare(tt.square))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for r := 2; r <= 5; r++ {
		for f := 0; f < 8; f++ {
			assert.True(t, b.IsEmpty(core.NewSquare(f, r)), "square %s", core.NewSquare(f, r))
		}
	}
}

func TestPlaceRemove(t *testing.T) {
	var b Board
	sq := core.MustSquare("d4")
	knight := core.NewPiece(core.Knight, core.ColorBlack)

	_, ok := b.Get(sq)
	assert.False(t, ok)

	b.Place(sq, knight)
	assert.True(t, b.IsOccupiedBy(sq, core.ColorBlack))
	assert.False(t, b.IsOccupiedBy(sq, core.ColorWhite))

	got, ok := b.Remove(sq)
	require.True(t, ok)
	assert.Equal(t, knight, got)
	assert.True(t, b.IsEmpty(sq))

	_, ok = b.Remove(sq)
	assert.False(t, ok)

	// Invalid squares are neither stored nor reported
	b.Place(core.NoSquare, knight)
	_, ok = b.Get(core.NoSquare)
	assert.False(t, ok)
	assert.Zero(t, b.Count(core.ColorBlack))
}

func TestValueCopy(t *testing.T) {
	b := Standard()
	c := b
	c.Remove(core.MustSquare("e2"))

	assert.True(t, b.IsOccupiedBy(core.MustSquare("e2"), core.ColorWhite), "copy must not alias the original")
	assert.False(t, c.IsOccupiedBy(core.MustSquare("e2"), core.ColorWhite))
}

func TestKingSquare(t *testing.T) {
	b := Standard()
	sq, ok := b.KingSquare(core.ColorBlack)
	require.True(t, ok)
	assert.Equal(t, "e8", sq.String())

	var empty Board
	_, ok = empty.KingSquare(core.ColorWhite)
	assert.False(t, ok)
}

func TestToASCII(t *testing.T) {
	b := Standard()
	lines := strings.Split(b.ToASCII(), "\n")
	require.Len(t, lines, 10)

	want := []string{
		"  a b c d e f g h",
		"8 r n b q k b n r  8",
		"7 p p p p p p p p  7",
	}
	if diff := cmp.Diff(want, lines[:3]); diff != "" {
		t.Errorf("ToASCII mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "1 R N B Q K B N R  1", lines[8])
}
