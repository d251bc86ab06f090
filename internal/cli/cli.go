// Package cli is the terminal view: it reads commands and renders boards,
// moves and messages.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/display"
	"chessrules/internal/game"

	"github.com/chzyer/readline"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdSelect
	CmdMove
	CmdPromotion
	CmdState
	CmdColor
	CmdRestart
	CmdUndo
	CmdHistory
	CmdTheme
	CmdFancy
	CmdHelp
	CmdQuit
	CmdUnknown
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// LineReader supplies input lines. *readline.Instance satisfies it; io.EOF
// ends the session.
type LineReader interface {
	Readline() (string, error)
}

type scannerReader struct {
	s *bufio.Scanner
}

// NewScannerReader reads lines from a plain stream such as a pipe
func NewScannerReader(r io.Reader) LineReader {
	return scannerReader{s: bufio.NewScanner(r)}
}

func (r scannerReader) Readline() (string, error) {
	if r.s.Scan() {
		return r.s.Text(), nil
	}
	if err := r.s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

type CLI struct {
	input  LineReader
	output io.Writer
	theme  display.ColorTheme
	fancy  bool
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  display.ThemeOff,
	}
}

// GetCommand reads a command synchronously. End of input becomes CmdQuit
// and an interrupted line becomes CmdNone.
func (c *CLI) GetCommand() (*Command, error) {
	line, err := c.input.Readline()
	switch {
	case errors.Is(err, io.EOF):
		return &Command{Type: CmdQuit}, nil
	case errors.Is(err, readline.ErrInterrupt):
		return &Command{Type: CmdNone}, nil
	case err != nil:
		return nil, err
	}
	return ParseCommand(line), nil
}

// ParseCommand maps an input line to a command. One square selects a piece
// and two squares move it.
func ParseCommand(input string) *Command {
	raw := strings.TrimSpace(input)
	parts := strings.Fields(strings.ToLower(raw))
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "q", "quit", "exit", "\u0004":
		return &Command{Type: CmdQuit}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "restart":
		return &Command{Type: CmdRestart}
	case "state":
		return &Command{Type: CmdState}
	case "color":
		return &Command{Type: CmdColor}
	case "queen", "rook", "bishop", "knight":
		return &Command{Type: CmdPromotion, Args: []string{cmd}}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "history":
		return &Command{Type: CmdHistory}
	case "theme":
		return &Command{Type: CmdTheme, Args: args}
	case "fancy":
		return &Command{Type: CmdFancy}
	}

	for _, p := range parts {
		if _, err := core.ParseSquare(p); err != nil {
			return &Command{Type: CmdUnknown, Raw: raw}
		}
	}
	switch len(parts) {
	case 1:
		return &Command{Type: CmdSelect, Args: parts, Raw: raw}
	case 2:
		return &Command{Type: CmdMove, Args: parts, Raw: raw}
	}
	return &Command{Type: CmdUnknown, Raw: raw}
}

// UndoCount reads the optional count argument of an undo command
func UndoCount(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: undo count %q", core.ErrInputFormat, args[0])
	}
	return n, nil
}

func (c *CLI) SetTheme(name string) error {
	theme, err := display.ParseTheme(name)
	if err != nil {
		return err
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() display.ColorTheme {
	return c.theme
}

func (c *CLI) ToggleFancy() bool {
	c.fancy = !c.fancy
	return c.fancy
}

func (c *CLI) SetFancy(fancy bool) {
	c.fancy = fancy
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// ShowPrompt hands the prompt to readline when it drives input, otherwise
// prints it
func (c *CLI) ShowPrompt(prompt string) {
	if p, ok := c.input.(interface{ SetPrompt(string) }); ok {
		p.SetPrompt(prompt)
		return
	}
	fmt.Fprint(c.output, prompt)
}

// DisplayBoard renders the board; fancy mode clears the screen first
func (c *CLI) DisplayBoard(b board.Board, turn core.Color, highlight []core.Square) {
	if c.fancy {
		fmt.Fprint(c.output, "\033[2J\033[1;1H")
	}
	fmt.Fprint(c.output, display.Text(b, display.Options{
		Theme:     c.theme,
		Fancy:     c.fancy,
		Turn:      turn,
		Highlight: highlight,
	}))
}

// ShowMoves reports the destinations of a selected piece. ok is false when
// the square holds no piece of the side to move.
func (c *CLI) ShowMoves(square string, moves []string, ok bool) {
	switch {
	case !ok:
		c.ShowMessage(fmt.Sprintf("There is no piece to move on %s", square))
	case len(moves) == 0:
		c.ShowMessage(fmt.Sprintf("No valid moves for %s", square))
	default:
		c.ShowMessage(fmt.Sprintf("Moves for %s: [%s]", square, strings.Join(moves, ", ")))
	}
}

func (c *CLI) ShowMoved(from, to string, captured core.Piece, status core.Status) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Moved piece from %s to %s", from, to)
	if !captured.IsZero() {
		fmt.Fprintf(&sb, ", captured %s", captured.Kind)
	}
	if status.State != core.StateInProgress {
		fmt.Fprintf(&sb, ", new game state: %s", status)
	}
	c.ShowMessage(sb.String())
}

func (c *CLI) ShowGameOver(status core.Status) {
	c.ShowMessage(fmt.Sprintf("Game over: %s", status))
	c.ShowMessage("Type 'undo' to take back moves or 'restart' for a new game.")
}

func (c *CLI) ShowGameHistory(g *game.Game) {
	history := g.History()
	if len(history) == 0 {
		c.ShowMessage("No moves yet")
	}
	for i := 0; i < len(history); i += 2 {
		moveNum := i/2 + 1
		white := history[i].String()
		if i+1 < len(history) {
			c.ShowMessage(fmt.Sprintf("%d. %s | %s", moveNum, white, history[i+1]))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...", moveNum, white))
		}
	}
	c.ShowMessage(fmt.Sprintf("Game state: %s", g.State()))
}

const helpText = `Commands:
  <square>         - Show possible moves of a piece (e.g., e2)
  <from> <to>      - Move a piece (e.g., e2 e4)
  queen|rook|bishop|knight
                   - Set the promotion piece for the side to move
  state            - Show the game state
  color            - Show whose turn it is (also in the board corner)
  undo [count]     - Undo last move(s), default 1
  history          - Show the moves played
  theme <name>     - Set board color theme (off|brown|green|gray)
  fancy            - Toggle unicode pieces
  restart          - Start a new game
  quit/exit/q      - Exit the program
  help/?           - Show this help message
Press ENTER to redraw the board.`

func (c *CLI) ShowHelp() {
	c.ShowMessage(helpText)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage(helpText)
	c.ShowMessage("")
}
