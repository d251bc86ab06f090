package core

import "fmt"

// Square indexes the board from a1=0 to h8=63, rank-major.
type Square int8

const NoSquare Square = -1

// NewSquare builds a square from zero-based file and rank. Out-of-range
// coordinates yield NoSquare.
func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

// ParseSquare reads a two-character coordinate such as "e2". The file letter
// may be upper case; anything else fails with ErrInputFormat.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: square %q must be a file (a-h) followed by a rank (1-8)", ErrInputFormat, s)
	}
	f := s[0]
	if f >= 'A' && f <= 'H' {
		f += 'a' - 'A'
	}
	if f < 'a' || f > 'h' {
		return NoSquare, fmt.Errorf("%w: invalid file in %q, should be in range [a, h]", ErrInputFormat, s)
	}
	if s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("%w: invalid rank in %q, should be in range [1, 8]", ErrInputFormat, s)
	}
	return NewSquare(int(f-'a'), int(s[1]-'1')), nil
}

// MustSquare is ParseSquare for compile-time constants; it panics on bad input.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

func (sq Square) Valid() bool {
	return sq >= 0 && sq < 64
}

// File returns 0 for the a-file through 7 for the h-file
func (sq Square) File() int {
	return int(sq) % 8
}

// Rank returns 0 for the first rank through 7 for the eighth
func (sq Square) Rank() int {
	return int(sq) / 8
}

// Offset moves the square by file and rank deltas. ok is false when the
// result falls off the board.
func (sq Square) Offset(df, dr int) (Square, bool) {
	to := NewSquare(sq.File()+df, sq.Rank()+dr)
	return to, to != NoSquare
}

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// IsLight reports the square color used by renderers
func (sq Square) IsLight() bool {
	return (sq.File()+sq.Rank())%2 == 1
}
