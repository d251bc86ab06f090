// Package display renders boards for the front ends: themed terminal text
// and SVG images.
package display

import (
	"fmt"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg     string
	darkBg      string
	highlightBg string
	white       string
	black       string
	reset       string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg:     "\033[48;5;230m", // Beige
		darkBg:      "\033[48;5;94m",  // Brown
		highlightBg: "\033[48;5;179m",
		white:       "\033[97m",
		black:       "\033[30m",
		reset:       "\033[0m",
	},
	ThemeGreen: {
		lightBg:     "\033[48;5;157m", // Light green
		darkBg:      "\033[48;5;22m",  // Dark green
		highlightBg: "\033[48;5;185m",
		white:       "\033[97m",
		black:       "\033[30m",
		reset:       "\033[0m",
	},
	ThemeGray: {
		lightBg:     "\033[48;5;251m", // Light gray
		darkBg:      "\033[48;5;240m", // Dark gray
		highlightBg: "\033[48;5;110m",
		white:       "\033[97m",
		black:       "\033[30m",
		reset:       "\033[0m",
	},
}

// ParseTheme validates a theme name
func ParseTheme(name string) (ColorTheme, error) {
	theme := ColorTheme(strings.ToLower(name))
	if _, ok := themes[theme]; !ok {
		return ThemeOff, fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", name)
	}
	return theme, nil
}

// Options controls text rendering
type Options struct {
	Theme     ColorTheme
	Fancy     bool          // unicode glyphs instead of letters
	Turn      core.Color    // shown in the corner, omitted when zero
	Highlight []core.Square // e.g. the destinations of a selected piece
}

// Text renders the board with rank 8 at the top. Highlighted squares get
// the theme's highlight background, or a '*' marker when colors are off.
func Text(b board.Board, opts Options) string {
	theme, ok := themes[opts.Theme]
	if !ok {
		theme = themes[ThemeOff]
	}
	plain := theme == themeColors{}

	marked := make(map[core.Square]bool, len(opts.Highlight))
	for _, sq := range opts.Highlight {
		marked[sq] = true
	}

	var sb strings.Builder
	corner := " "
	switch opts.Turn {
	case core.ColorWhite:
		corner = "W"
	case core.ColorBlack:
		corner = "B"
	}
	sb.WriteString(corner + " a b c d e f g h\n")

	for r := 7; r >= 0; r-- {
		fmt.Fprintf(&sb, "%d ", r+1)
		for f := 0; f < 8; f++ {
			sq := core.NewSquare(f, r)
			p, occupied := b.Get(sq)

			symbol := " "
			if occupied {
				symbol = string(p.Symbol())
				if opts.Fancy {
					symbol = string(p.Glyph())
				}
			} else if plain {
				symbol = "."
			}

			if plain {
				marker := " "
				if marked[sq] {
					marker = "*"
				}
				sb.WriteString(symbol + marker)
				continue
			}

			bg := theme.darkBg
			if sq.IsLight() {
				bg = theme.lightBg
			}
			if marked[sq] {
				bg = theme.highlightBg
			}
			fg := theme.black
			if occupied && p.Color == core.ColorWhite {
				fg = theme.white
			}
			fmt.Fprintf(&sb, "%s%s%s %s", bg, fg, symbol, theme.reset)
		}
		fmt.Fprintf(&sb, " %d\n", r+1)
	}
	sb.WriteString("  a b c d e f g h\n")

	return sb.String()
}
