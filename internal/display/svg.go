package display

import (
	"fmt"
	"io"

	"chessrules/internal/board"
	"chessrules/internal/core"

	svg "github.com/ajstarks/svgo"
)

const (
	squareSize = 60
	margin     = 20
)

// SVGOptions controls image rendering
type SVGOptions struct {
	Title     string
	Highlight []core.Square
	LastMove  []core.Square // from and to of the previous move
}

// SVG writes the board as a standalone SVG document, white at the bottom
func SVG(w io.Writer, b board.Board, opts SVGOptions) {
	size := 8*squareSize + 2*margin
	canvas := svg.New(w)
	canvas.Start(size, size)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	canvas.Rect(0, 0, size, size, "fill:#312e2b")

	tint := make(map[core.Square]string)
	for _, sq := range opts.LastMove {
		tint[sq] = "#cdd26a"
	}
	for _, sq := range opts.Highlight {
		tint[sq] = "#7fa650"
	}

	canvas.Group("font-family:sans-serif")
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			sq := core.NewSquare(f, r)
			x, y := margin+f*squareSize, margin+(7-r)*squareSize

			fill := "#b58863"
			if sq.IsLight() {
				fill = "#f0d9b5"
			}
			if c, ok := tint[sq]; ok {
				fill = c
			}
			canvas.Rect(x, y, squareSize, squareSize, fmt.Sprintf("fill:%s", fill), fmt.Sprintf(`id="%s"`, sq))

			if p, ok := b.Get(sq); ok {
				style := "text-anchor:middle;font-size:44px;fill:#000"
				canvas.Text(x+squareSize/2, y+squareSize-14, string(p.Glyph()), style)
			}
		}
	}

	labels := "font-size:12px;fill:#ddd;text-anchor:middle"
	for f := 0; f < 8; f++ {
		canvas.Text(margin+f*squareSize+squareSize/2, size-5, string(rune('a'+f)), labels)
	}
	for r := 0; r < 8; r++ {
		canvas.Text(margin/2, margin+(7-r)*squareSize+squareSize/2+4, string(rune('1'+r)), labels)
	}
	canvas.Gend()
	canvas.End()
}
