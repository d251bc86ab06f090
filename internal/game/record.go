package game

import (
	"errors"
	"fmt"
	"strings"

	"chessrules/internal/core"
	"chessrules/internal/rules"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// PieceRecord is one occupied square
type PieceRecord struct {
	Square string `json:"square" validate:"required,len=2"`
	Kind   string `json:"kind" validate:"required,oneof=pawn knight bishop rook queen king"`
	Color  string `json:"color" validate:"required,oneof=white black"`
}

// Record is the structured, JSON-encodable form of a game. It carries
// everything needed to continue play; move history is not part of it.
type Record struct {
	Board       []PieceRecord     `json:"board" validate:"required,min=2,max=32,dive"`
	ActiveColor string            `json:"activeColor" validate:"required,oneof=white black"`
	State       string            `json:"state" validate:"required,oneof=in_progress check checkmate stalemate draw"`
	StateColor  string            `json:"stateColor,omitempty" validate:"omitempty,oneof=white black"`
	Castling    string            `json:"castling" validate:"required,max=4"`
	EnPassant   string            `json:"enPassant,omitempty" validate:"omitempty,len=2"`
	Promotion   map[string]string `json:"promotion,omitempty" validate:"omitempty,dive,keys,oneof=white black,endkeys,oneof=queen rook bishop knight"`
	MoveCount   int               `json:"moveCount" validate:"gte=0"`
}

// Record exports the game. Pieces are listed from a1 to h8.
func (g *Game) Record() Record {
	r := Record{
		ActiveColor: g.pos.Turn.String(),
		State:       g.status.State.String(),
		Castling:    g.pos.Castling.String(),
		MoveCount:   g.moveCount,
	}
	if g.status.State == core.StateCheck || g.status.State == core.StateCheckmate {
		r.StateColor = g.status.Color.String()
	}
	if g.pos.EnPassant != core.NoSquare {
		r.EnPassant = g.pos.EnPassant.String()
	}
	g.pos.Board.Each(func(sq core.Square, p core.Piece) {
		r.Board = append(r.Board, PieceRecord{Square: sq.String(), Kind: p.Kind.String(), Color: p.Color.String()})
	})
	for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
		if k := g.promotion[colorIndex(c)]; k != core.KindNone {
			if r.Promotion == nil {
				r.Promotion = make(map[string]string, 2)
			}
			r.Promotion[c.String()] = k.String()
		}
	}
	return r
}

// FromRecord rebuilds a game after checking that the position is one play
// could continue from. Status is recomputed from the position; a recorded
// draw is kept since the rules cannot derive one.
func FromRecord(r Record) (*Game, error) {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("%w: field %s failed %q", core.ErrInvalidRecord, verrs[0].Namespace(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidRecord, err)
	}

	g := &Game{moveCount: r.MoveCount}
	g.pos.EnPassant = core.NoSquare

	var err error
	if g.pos.Turn, err = core.ParseColor(r.ActiveColor); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidRecord, err)
	}

	kings := map[core.Color]int{}
	for _, pr := range r.Board {
		sq, err := core.ParseSquare(pr.Square)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidRecord, err)
		}
		if !g.pos.Board.IsEmpty(sq) {
			return nil, fmt.Errorf("%w: square %s listed twice", core.ErrInvalidRecord, sq)
		}
		kind, _ := core.ParseKind(pr.Kind)
		color, _ := core.ParseColor(pr.Color)
		if kind == core.Pawn && (sq.Rank() == 0 || sq.Rank() == 7) {
			return nil, fmt.Errorf("%w: pawn on %s", core.ErrInvalidRecord, sq)
		}
		if kind == core.King {
			kings[color]++
		}
		g.pos.Board.Place(sq, core.NewPiece(kind, color))
	}
	if kings[core.ColorWhite] != 1 || kings[core.ColorBlack] != 1 {
		return nil, fmt.Errorf("%w: each side needs exactly one king", core.ErrInvalidRecord)
	}

	castling, err := parseCastling(r.Castling)
	if err != nil {
		return nil, err
	}
	g.pos.Castling = castling
	if rules.ConsistentCastling(&g.pos) != castling {
		return nil, fmt.Errorf("%w: castling rights %s without king and rook at home", core.ErrInvalidRecord, r.Castling)
	}

	if r.EnPassant != "" {
		ep, err := core.ParseSquare(r.EnPassant)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidRecord, err)
		}
		if !validEnPassant(&g.pos, ep) {
			return nil, fmt.Errorf("%w: en passant square %s does not follow a double step", core.ErrInvalidRecord, ep)
		}
		g.pos.EnPassant = ep
	}

	for colorName, kindName := range r.Promotion {
		c, _ := core.ParseColor(colorName)
		k, _ := core.ParsePromotion(kindName)
		g.promotion[colorIndex(c)] = k
	}

	if rules.InCheck(&g.pos.Board, g.pos.Turn.Opposite()) {
		return nil, fmt.Errorf("%w: %s is in check but not on move", core.ErrInvalidRecord, g.pos.Turn.Opposite())
	}

	g.status = rules.Evaluate(&g.pos)
	if r.State == core.StateDraw.String() && !g.status.Terminal() {
		g.status = core.Draw()
	}
	return g, nil
}

func parseCastling(s string) (rules.Castling, error) {
	if s == "-" {
		return rules.NoCastling, nil
	}
	var c rules.Castling
	for _, ch := range s {
		var r rules.Castling
		switch ch {
		case 'K':
			r = rules.WhiteKingside
		case 'Q':
			r = rules.WhiteQueenside
		case 'k':
			r = rules.BlackKingside
		case 'q':
			r = rules.BlackQueenside
		default:
			return 0, fmt.Errorf("%w: castling %q", core.ErrInvalidRecord, s)
		}
		if c.Has(r) {
			return 0, fmt.Errorf("%w: castling %q repeats a right", core.ErrInvalidRecord, s)
		}
		c |= r
	}
	return c, nil
}

// validEnPassant checks that ep is the empty square just behind an enemy
// pawn that could have double-stepped last move.
func validEnPassant(pos *rules.Position, ep core.Square) bool {
	mover := pos.Turn.Opposite()
	wantRank := 2
	if mover == core.ColorBlack {
		wantRank = 5
	}
	if ep.Rank() != wantRank || !pos.Board.IsEmpty(ep) {
		return false
	}
	pawnSq, ok := ep.Offset(0, mover.Forward())
	if !ok {
		return false
	}
	p, _ := pos.Board.Get(pawnSq)
	start, _ := ep.Offset(0, -mover.Forward())
	return p == core.NewPiece(core.Pawn, mover) && pos.Board.IsEmpty(start)
}

// String summarizes the record for logs
func (r Record) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s to move, %s", r.ActiveColor, r.State)
	if r.StateColor != "" {
		fmt.Fprintf(&sb, " (%s)", r.StateColor)
	}
	fmt.Fprintf(&sb, ", castling %s, %d pieces, move %d", r.Castling, len(r.Board), r.MoveCount)
	return sb.String()
}
