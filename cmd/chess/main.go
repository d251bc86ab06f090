// Package main runs an interactive chess game in the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"chessrules/internal/cli"
	"chessrules/internal/display"
	"chessrules/internal/service"
	clitransport "chessrules/internal/transport/cli"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

func main() {
	var (
		theme = flag.String("theme", "", "Board color theme: off, brown, green, gray (default brown on a terminal, off otherwise)")
		fancy = flag.Bool("fancy", false, "Draw pieces with unicode glyphs and clear the screen between boards")
	)
	flag.Parse()

	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

	boardTheme := display.ThemeOff
	if interactive {
		boardTheme = display.ThemeBrown
	}
	if *theme != "" {
		t, err := display.ParseTheme(*theme)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		boardTheme = t
	}

	var (
		input  cli.LineReader
		output io.Writer = os.Stdout
	)
	if interactive {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "> ",
			HistoryFile:     ".chess_history",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start line editor: %v\n", err)
			os.Exit(1)
		}
		defer rl.Close()
		input = rl
		output = rl.Stdout()
	} else {
		input = cli.NewScannerReader(os.Stdin)
	}

	view := cli.New(input, output)
	_ = view.SetTheme(string(boardTheme))
	view.SetFancy(*fancy)

	svc := service.New(nil)
	defer svc.Shutdown(time.Second)

	handler := clitransport.New(svc, view)

	view.ShowWelcome()
	if err := handler.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Input error: %v\n", err)
	}
}
