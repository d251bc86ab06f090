// Package game is the facade over the rules engine: it owns one game's
// position, status, pending promotions and move history.
package game

import (
	"fmt"
	"sort"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/rules"
)

// snapshot is the state before a move, kept so moves can be taken back
type snapshot struct {
	pos       rules.Position
	status    core.Status
	promotion [2]core.Kind
}

type Game struct {
	pos       rules.Position
	status    core.Status
	promotion [2]core.Kind // pending choice per color, KindNone when unset
	moveCount int
	history   []rules.Move
	snapshots []snapshot
}

// New starts a standard game with white to move
func New() *Game {
	return &Game{
		pos:    rules.Start(),
		status: core.InProgress(),
	}
}

func colorIndex(c core.Color) int {
	if c == core.ColorBlack {
		return 1
	}
	return 0
}

// PossibleMoves lists the sorted legal destinations of the piece on square.
// ok is false when the square is malformed, empty, or holds a piece of the
// color not on move.
func (g *Game) PossibleMoves(square string) ([]string, bool) {
	sq, err := core.ParseSquare(square)
	if err != nil {
		return nil, false
	}
	if !g.pos.Board.IsOccupiedBy(sq, g.pos.Turn) {
		return nil, false
	}
	return g.destinations(sq, g.pos.Turn), true
}

// PreviewMoves is PossibleMoves for whichever color occupies the square,
// as if it were that color's turn.
func (g *Game) PreviewMoves(square string) ([]string, bool) {
	sq, err := core.ParseSquare(square)
	if err != nil {
		return nil, false
	}
	p, ok := g.pos.Board.Get(sq)
	if !ok {
		return nil, false
	}
	return g.destinations(sq, p.Color), true
}

func (g *Game) destinations(sq core.Square, c core.Color) []string {
	if g.status.Terminal() {
		return []string{}
	}
	pos := g.pos
	if c != pos.Turn {
		// The other side's en passant window has already closed
		pos.Turn = c
		pos.EnPassant = core.NoSquare
	}
	legal := rules.Legal(&pos, sq, c)
	out := make([]string, 0, len(legal))
	for _, to := range legal {
		out = append(out, to.String())
	}
	sort.Strings(out)
	return out
}

// MakeMove validates and plays from->to for the active color. It returns the
// captured piece, the zero Piece when nothing was taken. On error the game is
// left untouched.
func (g *Game) MakeMove(from, to string) (core.Piece, error) {
	if g.status.Terminal() {
		return core.Piece{}, fmt.Errorf("%w: %s", core.ErrGameOver, g.status)
	}
	fromSq, err := core.ParseSquare(from)
	if err != nil {
		return core.Piece{}, err
	}
	toSq, err := core.ParseSquare(to)
	if err != nil {
		return core.Piece{}, err
	}

	turn := g.pos.Turn
	piece, ok := g.pos.Board.Get(fromSq)
	if !ok {
		return core.Piece{}, fmt.Errorf("%w: %s", core.ErrNoPiece, fromSq)
	}
	if piece.Color != turn {
		return core.Piece{}, fmt.Errorf("%w: %s belongs to %s, %s to move", core.ErrWrongColor, fromSq, piece.Color, turn)
	}
	if !rules.IsLegal(&g.pos, fromSq, toSq, turn) {
		return core.Piece{}, fmt.Errorf("%w: %s cannot move from %s to %s", core.ErrIllegalDestination, piece, fromSq, toSq)
	}

	next := g.pos
	m := rules.Apply(&next, fromSq, toSq, g.pendingPromotion(turn))

	g.snapshots = append(g.snapshots, snapshot{pos: g.pos, status: g.status, promotion: g.promotion})
	if m.Promotion != core.KindNone {
		g.promotion[colorIndex(turn)] = core.KindNone
	}
	g.pos = next
	g.moveCount++
	g.history = append(g.history, m)
	g.status = rules.Evaluate(&g.pos)
	return m.Captured, nil
}

func (g *Game) pendingPromotion(c core.Color) core.Kind {
	if k := g.promotion[colorIndex(c)]; k != core.KindNone {
		return k
	}
	return core.Queen
}

// SetPromotion records the piece the active color's next promotion becomes
func (g *Game) SetPromotion(kind string) error {
	k, err := core.ParsePromotion(kind)
	if err != nil {
		return err
	}
	g.promotion[colorIndex(g.pos.Turn)] = k
	return nil
}

// Promotion returns the kind the color's next promotion will produce
func (g *Game) Promotion(c core.Color) core.Kind {
	return g.pendingPromotion(c)
}

// UndoMoves takes back the last count moves
func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("%w: invalid undo count %d", core.ErrInputFormat, count)
	}
	if count > len(g.snapshots) {
		return fmt.Errorf("%w: cannot undo %d moves, only %d available", core.ErrInputFormat, count, len(g.snapshots))
	}

	keep := len(g.snapshots) - count
	s := g.snapshots[keep]
	g.pos = s.pos
	g.status = s.status
	g.promotion = s.promotion
	g.snapshots = g.snapshots[:keep]
	g.history = g.history[:keep]
	g.moveCount -= count
	return nil
}

func (g *Game) State() core.Status {
	return g.status
}

func (g *Game) ActiveColor() core.Color {
	return g.pos.Turn
}

func (g *Game) MoveCount() int {
	return g.moveCount
}

// Board returns a copy of the current board
func (g *Game) Board() board.Board {
	return g.pos.Board
}

func (g *Game) Castling() rules.Castling {
	return g.pos.Castling
}

// EnPassant returns the current en passant target, NoSquare when closed
func (g *Game) EnPassant() core.Square {
	return g.pos.EnPassant
}

// Position returns a copy of the full rules position
func (g *Game) Position() rules.Position {
	return g.pos
}

// History returns the moves played since the game was created or restored
func (g *Game) History() []rules.Move {
	return append([]rules.Move(nil), g.history...)
}

// LastMove returns the most recent move, ok is false before the first one
func (g *Game) LastMove() (rules.Move, bool) {
	if len(g.history) == 0 {
		return rules.Move{}, false
	}
	return g.history[len(g.history)-1], true
}

// Clone returns an independent deep copy
func (g *Game) Clone() *Game {
	c := *g
	c.history = append([]rules.Move(nil), g.history...)
	c.snapshots = append([]snapshot(nil), g.snapshots...)
	return &c
}
