package rules

import (
	"sort"
	"strings"
	"testing"

	"chessrules/internal/core"

	"github.com/stretchr/testify/require"
)

var letterKinds = map[rune]core.Kind{
	'p': core.Pawn, 'n': core.Knight, 'b': core.Bishop,
	'r': core.Rook, 'q': core.Queen, 'k': core.King,
}

// setup builds a position from a piece-placement string (rank 8 first,
// digits for empty runs) plus the side to move, castling rights and an
// optional en passant square.
func setup(t *testing.T, placement string, turn core.Color, castling Castling, ep string) Position {
	t.Helper()
	pos := Position{Turn: turn, Castling: castling, EnPassant: core.NoSquare}

	ranks := strings.Split(placement, "/")
	require.Len(t, ranks, 8, "placement %q", placement)
	for i, rank := range ranks {
		r := 7 - i
		f := 0
		for _, ch := range rank {
			if ch >= '1' && ch <= '8' {
				f += int(ch - '0')
				continue
			}
			lower := ch
			color := core.ColorBlack
			if ch >= 'A' && ch <= 'Z' {
				lower = ch - 'A' + 'a'
				color = core.ColorWhite
			}
			k, ok := letterKinds[lower]
			require.True(t, ok, "bad piece letter %q", ch)
			pos.Board.Place(core.NewSquare(f, r), core.NewPiece(k, color))
			f++
		}
		require.Equal(t, 8, f, "rank %d of %q", r+1, placement)
	}

	if ep != "" {
		pos.EnPassant = core.MustSquare(ep)
	}
	return pos
}

func squares(list ...string) []string {
	sort.Strings(list)
	return list
}

func names(sqs []core.Square) []string {
	out := make([]string, 0, len(sqs))
	for _, sq := range sqs {
		out = append(out, sq.String())
	}
	sort.Strings(out)
	return out
}

func plyNames(plies []Ply) []string {
	out := make([]string, 0, len(plies))
	for _, p := range plies {
		out = append(out, p.String())
	}
	sort.Strings(out)
	return out
}
