// Package cli holds the daemon's offline subcommands for checking the rules
// engine against a position.
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"chessrules/internal/display"
	"chessrules/internal/game"
	"chessrules/internal/rules"
)

// Run is the entry point for the CLI mini-app
func Run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: perft or board")
	}

	switch args[0] {
	case "perft":
		return runPerft(args[1:], out)
	case "board":
		return runBoard(args[1:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// loadGame reads a JSON game record, or returns a new game when path is empty
func loadGame(path string) (*game.Game, error) {
	if path == "" {
		return game.New(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	var r game.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}
	return game.FromRecord(r)
}

func runPerft(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("perft", flag.ContinueOnError)
	fs.SetOutput(out)
	depth := fs.Int("depth", 3, "Search depth in plies")
	record := fs.String("record", "", "Game record JSON file (optional, start position if empty)")
	divide := fs.Bool("divide", false, "Print the node count below each root move")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *depth < 1 || *depth > 6 {
		return fmt.Errorf("depth must be between 1 and 6")
	}

	g, err := loadGame(*record)
	if err != nil {
		return err
	}
	pos := g.Position()

	start := time.Now()
	var total uint64
	if *divide {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Move\tNodes")
		fmt.Fprintln(w, strings.Repeat("-", 20))
		for _, p := range rules.Plies(&pos) {
			next := pos
			rules.Apply(&next, p.From, p.To, p.Promotion)
			n := rules.Perft(next, *depth-1)
			total += n
			fmt.Fprintf(w, "%s\t%d\n", p, n)
		}
		w.Flush()
	} else {
		total = rules.Perft(pos, *depth)
	}

	fmt.Fprintf(out, "\nperft(%d) = %d (%s)\n", *depth, total, time.Since(start).Round(time.Millisecond))
	return nil
}

func runBoard(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("board", flag.ContinueOnError)
	fs.SetOutput(out)
	record := fs.String("record", "", "Game record JSON file (optional, start position if empty)")
	svgPath := fs.String("svg", "", "Write an SVG image to this path instead of printing text")
	fancy := fs.Bool("fancy", false, "Use unicode pieces in text output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	g, err := loadGame(*record)
	if err != nil {
		return err
	}

	if *svgPath == "" {
		fmt.Fprint(out, display.Text(g.Board(), display.Options{Fancy: *fancy, Turn: g.ActiveColor()}))
		fmt.Fprintf(out, "%s\n", g.Record())
		return nil
	}

	f, err := os.Create(*svgPath)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	defer f.Close()

	display.SVG(f, g.Board(), display.SVGOptions{Title: g.State().String()})
	fmt.Fprintf(out, "Board written to: %s\n", *svgPath)
	return nil
}
