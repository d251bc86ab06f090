package game

import (
	"math/rand"
	"sort"
	"testing"

	"chessrules/internal/core"
	"chessrules/internal/rules"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shortKinds = map[byte]string{
	'P': "pawn", 'N': "knight", 'B': "bishop", 'R': "rook", 'Q': "queen", 'K': "king",
}

// restore builds a game from pieces written as square -> "wK", "bP", ...
func restore(t *testing.T, active, castling, ep string, pieces map[string]string) *Game {
	t.Helper()
	r := Record{ActiveColor: active, State: "in_progress", Castling: castling, EnPassant: ep}
	squares := make([]string, 0, len(pieces))
	for sq := range pieces {
		squares = append(squares, sq)
	}
	sort.Strings(squares)
	for _, sq := range squares {
		code := pieces[sq]
		color := "white"
		if code[0] == 'b' {
			color = "black"
		}
		r.Board = append(r.Board, PieceRecord{Square: sq, Kind: shortKinds[code[1]], Color: color})
	}
	g, err := FromRecord(r)
	require.NoError(t, err)
	return g
}

func play(t *testing.T, g *Game, moves ...[2]string) {
	t.Helper()
	for _, m := range moves {
		_, err := g.MakeMove(m[0], m[1])
		require.NoError(t, err, "%s-%s", m[0], m[1])
	}
}

func TestNewGame(t *testing.T) {
	g := New()
	b := g.Board()

	assert.Equal(t, 16, b.Count(core.ColorWhite))
	assert.Equal(t, 16, b.Count(core.ColorBlack))
	assert.Equal(t, core.ColorWhite, g.ActiveColor())
	assert.Equal(t, core.InProgress(), g.State())
	assert.Equal(t, 0, g.MoveCount())
	assert.Equal(t, rules.AllCastling, g.Castling())
	assert.Equal(t, core.NoSquare, g.EnPassant())
	assert.Empty(t, g.History())

	p, ok := b.Get(core.MustSquare("e1"))
	require.True(t, ok)
	assert.Equal(t, core.NewPiece(core.King, core.ColorWhite), p)
	p, _ = b.Get(core.MustSquare("d8"))
	assert.Equal(t, core.NewPiece(core.Queen, core.ColorBlack), p)
}

func TestOpeningMove(t *testing.T) {
	g := New()

	moves, ok := g.PossibleMoves("e2")
	require.True(t, ok)
	assert.Equal(t, []string{"e3", "e4"}, moves)

	captured, err := g.MakeMove("e2", "e4")
	require.NoError(t, err)
	assert.True(t, captured.IsZero())

	b := g.Board()
	assert.True(t, b.IsEmpty(core.MustSquare("e2")))
	assert.True(t, b.IsOccupiedBy(core.MustSquare("e4"), core.ColorWhite))
	assert.Equal(t, core.ColorBlack, g.ActiveColor())
	assert.Equal(t, 1, g.MoveCount())
	assert.Equal(t, "e3", g.EnPassant().String())

	last, ok := g.LastMove()
	require.True(t, ok)
	assert.Equal(t, "e2e4", last.String())
}

func TestPossibleMovesPolicy(t *testing.T) {
	g := New()

	tests := []struct {
		square string
		ok     bool
	}{
		{"e2", true},
		{"E2", true},
		{"e7", false}, // black piece, white to move
		{"e4", false}, // empty
		{"z9", false},
		{"e", false},
	}
	for _, tt := range tests {
		t.Run(tt.square, func(t *testing.T) {
			_, ok := g.PossibleMoves(tt.square)
			assert.Equal(t, tt.ok, ok)
		})
	}

	preview, ok := g.PreviewMoves("e7")
	require.True(t, ok)
	assert.Equal(t, []string{"e5", "e6"}, preview)

	_, ok = g.PreviewMoves("e4")
	assert.False(t, ok)
}

func TestTurnAlternation(t *testing.T) {
	g := New()
	play(t, g, [2]string{"e2", "e4"})

	_, err := g.MakeMove("d2", "d4")
	assert.ErrorIs(t, err, core.ErrWrongColor)

	play(t, g, [2]string{"e7", "e5"})
	assert.Equal(t, core.ColorWhite, g.ActiveColor())
	assert.Equal(t, 2, g.MoveCount())
}

func TestFailedMoveLeavesGameUntouched(t *testing.T) {
	g := New()
	play(t, g, [2]string{"e2", "e4"}, [2]string{"e7", "e5"})
	before := g.Record()
	history := g.History()

	tests := []struct {
		name     string
		from, to string
		want     error
	}{
		{"malformed from", "e", "e4", core.ErrInputFormat},
		{"malformed to", "g1", "x3", core.ErrInputFormat},
		{"empty square", "e3", "e4", core.ErrNoPiece},
		{"inactive color", "d7", "d5", core.ErrWrongColor},
		{"illegal destination", "g1", "g3", core.ErrIllegalDestination},
		{"onto own piece", "d1", "d2", core.ErrIllegalDestination},
		{"blocked pawn", "e4", "e5", core.ErrIllegalDestination},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured, err := g.MakeMove(tt.from, tt.to)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, captured.IsZero())
			if diff := cmp.Diff(before, g.Record()); diff != "" {
				t.Errorf("record changed after failed move (-before +after):\n%s", diff)
			}
			assert.Equal(t, history, g.History())
		})
	}

	assert.ErrorIs(t, g.SetPromotion("king"), core.ErrInputFormat)
	assert.Empty(t, cmp.Diff(before, g.Record()))
}

func TestFoolsMate(t *testing.T) {
	g := New()
	play(t, g,
		[2]string{"f2", "f3"},
		[2]string{"e7", "e5"},
		[2]string{"g2", "g4"},
		[2]string{"d8", "h4"},
	)

	assert.Equal(t, core.Checkmate(core.ColorWhite), g.State())
	assert.True(t, g.State().Terminal())

	before := g.Record()
	_, err := g.MakeMove("a2", "a3")
	assert.ErrorIs(t, err, core.ErrGameOver)
	assert.Empty(t, cmp.Diff(before, g.Record()))

	moves, ok := g.PossibleMoves("e1")
	assert.True(t, ok)
	assert.Empty(t, moves)
}

func TestCheckStatus(t *testing.T) {
	g := New()
	play(t, g,
		[2]string{"e2", "e4"},
		[2]string{"f7", "f6"},
		[2]string{"d1", "h5"},
	)
	assert.Equal(t, core.Check(core.ColorBlack), g.State())

	// Only g6 blocks; f7 is covered by the queen
	legal := map[string][]string{}
	for _, sq := range []string{"g7", "e8", "b8"} {
		m, ok := g.PossibleMoves(sq)
		require.True(t, ok)
		legal[sq] = m
	}
	assert.Equal(t, []string{"g6"}, legal["g7"])
	assert.Empty(t, legal["e8"])
	assert.Empty(t, legal["b8"])

	play(t, g, [2]string{"g7", "g6"})
	assert.Equal(t, core.InProgress(), g.State())
}

func TestPinnedPiece(t *testing.T) {
	g := restore(t, "white", "-", "", map[string]string{
		"e1": "wK", "e3": "wB", "e8": "bR", "a8": "bK",
	})

	moves, ok := g.PossibleMoves("e3")
	require.True(t, ok)
	assert.Empty(t, moves)

	_, err := g.MakeMove("e3", "d4")
	assert.ErrorIs(t, err, core.ErrIllegalDestination)
}

func TestEnPassantWindow(t *testing.T) {
	g := New()
	play(t, g,
		[2]string{"e2", "e4"},
		[2]string{"a7", "a6"},
		[2]string{"e4", "e5"},
		[2]string{"d7", "d5"},
	)

	moves, ok := g.PossibleMoves("e5")
	require.True(t, ok)
	assert.Contains(t, moves, "d6")

	// Taking it captures the pawn on d5
	taker := g.Clone()
	captured, err := taker.MakeMove("e5", "d6")
	require.NoError(t, err)
	assert.Equal(t, core.NewPiece(core.Pawn, core.ColorBlack), captured)
	b := taker.Board()
	assert.True(t, b.IsEmpty(core.MustSquare("d5")))

	// Declining it closes the window for good
	play(t, g, [2]string{"h2", "h3"}, [2]string{"h7", "h6"})
	moves, _ = g.PossibleMoves("e5")
	assert.NotContains(t, moves, "d6")
	_, err = g.MakeMove("e5", "d6")
	assert.ErrorIs(t, err, core.ErrIllegalDestination)
}

func TestCastlingRightsRevoked(t *testing.T) {
	pieces := map[string]string{
		"e1": "wK", "a1": "wR", "h1": "wR",
		"e8": "bK", "a8": "bR", "h8": "bR",
	}

	t.Run("king move", func(t *testing.T) {
		g := restore(t, "white", "KQkq", "", pieces)
		play(t, g, [2]string{"e1", "f1"}, [2]string{"e8", "d8"}, [2]string{"f1", "e1"}, [2]string{"d8", "e8"})
		moves, _ := g.PossibleMoves("e1")
		assert.NotContains(t, moves, "g1")
		assert.NotContains(t, moves, "c1")
		assert.Equal(t, rules.NoCastling, g.Castling())
	})

	t.Run("rook move", func(t *testing.T) {
		g := restore(t, "white", "KQkq", "", pieces)
		play(t, g, [2]string{"a1", "a2"}, [2]string{"h8", "h7"}, [2]string{"a2", "a1"}, [2]string{"h7", "h8"})
		moves, _ := g.PossibleMoves("e1")
		assert.Contains(t, moves, "g1")
		assert.NotContains(t, moves, "c1")
	})

	t.Run("rook captured on its corner", func(t *testing.T) {
		g := restore(t, "white", "KQkq", "", pieces)
		captured, err := g.MakeMove("h1", "h8")
		require.NoError(t, err)
		assert.Equal(t, core.NewPiece(core.Rook, core.ColorBlack), captured)
		assert.False(t, g.Castling().Has(rules.BlackKingside))
		assert.False(t, g.Castling().Has(rules.WhiteKingside))
		assert.True(t, g.Castling().Has(rules.BlackQueenside))
	})

	t.Run("castle moves the rook", func(t *testing.T) {
		g := restore(t, "white", "KQkq", "", pieces)
		play(t, g, [2]string{"e1", "c1"})
		b := g.Board()
		p, _ := b.Get(core.MustSquare("d1"))
		assert.Equal(t, core.NewPiece(core.Rook, core.ColorWhite), p)
		assert.True(t, b.IsEmpty(core.MustSquare("a1")))
	})
}

func TestPromotion(t *testing.T) {
	pieces := map[string]string{"a7": "wP", "h1": "wK", "h8": "bK", "b2": "bP"}

	t.Run("knight", func(t *testing.T) {
		g := restore(t, "white", "-", "", pieces)
		require.NoError(t, g.SetPromotion("Knight"))
		play(t, g, [2]string{"a7", "a8"})

		b := g.Board()
		p, _ := b.Get(core.MustSquare("a8"))
		assert.Equal(t, core.NewPiece(core.Knight, core.ColorWhite), p)
		assert.Equal(t, core.Queen, g.Promotion(core.ColorWhite), "choice is consumed")
	})

	t.Run("queen by default", func(t *testing.T) {
		g := restore(t, "white", "-", "", pieces)
		play(t, g, [2]string{"a7", "a8"})
		b := g.Board()
		p, _ := b.Get(core.MustSquare("a8"))
		assert.Equal(t, core.NewPiece(core.Queen, core.ColorWhite), p)
		assert.Equal(t, core.Check(core.ColorBlack), g.State())
	})

	t.Run("choice belongs to the side that set it", func(t *testing.T) {
		g := restore(t, "white", "-", "", pieces)
		require.NoError(t, g.SetPromotion("rook"))
		play(t, g, [2]string{"h1", "g1"}, [2]string{"b2", "b1"})

		b := g.Board()
		p, _ := b.Get(core.MustSquare("b1"))
		assert.Equal(t, core.NewPiece(core.Queen, core.ColorBlack), p)
		assert.Equal(t, core.Rook, g.Promotion(core.ColorWhite))
	})
}

func TestStalemate(t *testing.T) {
	g := restore(t, "white", "-", "", map[string]string{
		"a8": "bK", "c7": "wQ", "c1": "wK",
	})
	play(t, g, [2]string{"c7", "b6"})
	assert.Equal(t, core.Stalemate(), g.State())

	_, err := g.MakeMove("a8", "b8")
	assert.ErrorIs(t, err, core.ErrGameOver)
}

func TestUndoMoves(t *testing.T) {
	g := New()
	start := g.Record()
	play(t, g, [2]string{"e2", "e4"}, [2]string{"d7", "d5"})
	afterOne := New()
	play(t, afterOne, [2]string{"e2", "e4"})

	require.NoError(t, g.UndoMoves(1))
	assert.Empty(t, cmp.Diff(afterOne.Record(), g.Record()))
	assert.Len(t, g.History(), 1)

	require.NoError(t, g.UndoMoves(1))
	assert.Empty(t, cmp.Diff(start, g.Record()))

	assert.ErrorIs(t, g.UndoMoves(1), core.ErrInputFormat)
	assert.ErrorIs(t, g.UndoMoves(0), core.ErrInputFormat)
}

func TestCloneIsIndependent(t *testing.T) {
	g := New()
	play(t, g, [2]string{"e2", "e4"})
	c := g.Clone()
	play(t, c, [2]string{"e7", "e5"})

	assert.Equal(t, 1, g.MoveCount())
	assert.Len(t, g.History(), 1)
	assert.Equal(t, 2, c.MoveCount())
	assert.Equal(t, core.ColorBlack, g.ActiveColor())
}

// TestRandomPlayoutLegality plays seeded random games and re-checks every
// reported destination by simulation.
func TestRandomPlayoutLegality(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	games := 30
	if testing.Short() {
		games = 3
	}

	for n := 0; n < games; n++ {
		g := New()
		for ply := 0; ply < 150 && !g.State().Terminal(); ply++ {
			type option struct{ from, to string }
			var options []option

			b := g.Board()
			b.Each(func(sq core.Square, p core.Piece) {
				if p.Color != g.ActiveColor() {
					return
				}
				moves, ok := g.PossibleMoves(sq.String())
				require.True(t, ok)
				for _, to := range moves {
					pos := g.Position()
					rules.Apply(&pos, sq, core.MustSquare(to), core.Queen)
					require.False(t, rules.InCheck(&pos.Board, p.Color), "game %d ply %d: %s%s leaves king in check", n, ply, sq, to)
					options = append(options, option{sq.String(), to})
				}
			})
			require.NotEmpty(t, options, "non-terminal game must have a move")

			pick := options[rng.Intn(len(options))]
			mover := g.ActiveColor()
			_, err := g.MakeMove(pick.from, pick.to)
			require.NoError(t, err)
			assert.Equal(t, mover.Opposite(), g.ActiveColor())
			after := g.Board()
			assert.False(t, rules.InCheck(&after, mover))
		}
	}
}
