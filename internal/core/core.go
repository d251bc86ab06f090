package core

import (
	"fmt"
	"strings"
)

type Color byte

const (
	ColorWhite Color = 'w'
	ColorBlack Color = 'b'
)

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "white"
	case ColorBlack:
		return "black"
	default:
		return "-"
	}
}

// Opposite returns the other side. Unknown colors map to white.
func (c Color) Opposite() Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// Forward is the rank direction pawns of this color advance in
func (c Color) Forward() int {
	if c == ColorBlack {
		return -1
	}
	return 1
}

func OppositeColor(c Color) Color {
	return c.Opposite()
}

// ParseColor accepts "white"/"black" and the short "w"/"b" forms
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return ColorWhite, nil
	case "black", "b":
		return ColorBlack, nil
	}
	return 0, fmt.Errorf("%w: unknown color %q", ErrInputFormat, s)
}

// Kind is the closed set of chess piece kinds. KindNone marks an empty square.
type Kind uint8

const (
	KindNone Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindNames = [...]string{
	KindNone: "none",
	Pawn:     "pawn",
	Knight:   "knight",
	Bishop:   "bishop",
	Rook:     "rook",
	Queen:    "queen",
	King:     "king",
}

var kindLetters = [...]byte{
	KindNone: '.',
	Pawn:     'p',
	Knight:   'n',
	Bishop:   'b',
	Rook:     'r',
	Queen:    'q',
	King:     'k',
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Letter is the lower-case algebraic letter of the kind
func (k Kind) Letter() byte {
	if int(k) < len(kindLetters) {
		return kindLetters[k]
	}
	return '?'
}

// ParseKind accepts any piece kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(s)
	for k := Pawn; k <= King; k++ {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("%w: unknown piece kind %q", ErrInputFormat, s)
}

// ParsePromotion accepts exactly "queen", "rook", "bishop" or "knight",
// matched case-insensitively.
func ParsePromotion(s string) (Kind, error) {
	k, err := ParseKind(s)
	if err != nil || !k.Promotable() {
		return KindNone, fmt.Errorf("%w: invalid promotion piece %q (use queen, rook, bishop or knight)", ErrInputFormat, s)
	}
	return k, nil
}

// Promotable reports whether a pawn may turn into this kind
func (k Kind) Promotable() bool {
	return k == Queen || k == Rook || k == Bishop || k == Knight
}

// Piece is a (kind, color) pair. The zero Piece means "no piece".
type Piece struct {
	Kind  Kind
	Color Color
}

func NewPiece(k Kind, c Color) Piece {
	return Piece{Kind: k, Color: c}
}

func (p Piece) IsZero() bool {
	return p.Kind == KindNone
}

// Symbol returns the FEN-style letter: upper case for white, lower case for black.
func (p Piece) Symbol() byte {
	if p.IsZero() {
		return '.'
	}
	l := p.Kind.Letter()
	if p.Color == ColorWhite {
		return l - 'a' + 'A'
	}
	return l
}

var glyphs = map[Piece]rune{
	{King, ColorWhite}:   '♔',
	{Queen, ColorWhite}:  '♕',
	{Rook, ColorWhite}:   '♖',
	{Bishop, ColorWhite}: '♗',
	{Knight, ColorWhite}: '♘',
	{Pawn, ColorWhite}:   '♙',
	{King, ColorBlack}:   '♚',
	{Queen, ColorBlack}:  '♛',
	{Rook, ColorBlack}:   '♜',
	{Bishop, ColorBlack}: '♝',
	{Knight, ColorBlack}: '♞',
	{Pawn, ColorBlack}:   '♟',
}

// Glyph returns the unicode chess symbol of the piece
func (p Piece) Glyph() rune {
	if g, ok := glyphs[p]; ok {
		return g
	}
	return ' '
}

func (p Piece) String() string {
	if p.IsZero() {
		return "none"
	}
	return p.Color.String() + " " + p.Kind.String()
}

type State int

const (
	StateInProgress State = iota
	StateCheck
	StateCheckmate
	StateStalemate
	StateDraw
)

// String returns the wire identifier of the state
func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateCheck:
		return "check"
	case StateCheckmate:
		return "checkmate"
	case StateStalemate:
		return "stalemate"
	case StateDraw:
		return "draw"
	default:
		return "unknown"
	}
}

func ParseState(s string) (State, error) {
	for st := StateInProgress; st <= StateDraw; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown game state %q", ErrInputFormat, s)
}

// Status is the game state together with the side it applies to.
// Color is set only for check and checkmate and names the attacked side.
type Status struct {
	State State
	Color Color
}

func InProgress() Status { return Status{State: StateInProgress} }

func Check(c Color) Status { return Status{State: StateCheck, Color: c} }

func Checkmate(c Color) Status { return Status{State: StateCheckmate, Color: c} }

func Stalemate() Status { return Status{State: StateStalemate} }

func Draw() Status { return Status{State: StateDraw} }

// Terminal reports whether no further moves may be made
func (s Status) Terminal() bool {
	return s.State == StateCheckmate || s.State == StateStalemate || s.State == StateDraw
}

func (s Status) String() string {
	switch s.State {
	case StateCheck, StateCheckmate:
		return fmt.Sprintf("%s (%s)", s.State, s.Color)
	default:
		return s.State.String()
	}
}
