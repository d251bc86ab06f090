// Package cli drives a single game session from terminal commands.
package cli

import (
	"fmt"

	"chessrules/internal/cli"
	"chessrules/internal/core"
	"chessrules/internal/service"
)

type CLIHandler struct {
	svc    *service.Service
	view   *cli.CLI
	gameID string
}

func New(svc *service.Service, view *cli.CLI) *CLIHandler {
	return &CLIHandler{
		svc:  svc,
		view: view,
	}
}

// GameID returns the session being played, empty before Start
func (h *CLIHandler) GameID() string {
	return h.gameID
}

// Start opens a fresh game, replacing any current one
func (h *CLIHandler) Start() error {
	if h.gameID != "" {
		_ = h.svc.DeleteGame(h.gameID)
		h.gameID = ""
	}
	id, err := h.svc.CreateGame()
	if err != nil {
		return err
	}
	h.gameID = id
	return nil
}

// Run is the main loop; it returns when input ends or the user quits
func (h *CLIHandler) Run() error {
	if h.gameID == "" {
		if err := h.Start(); err != nil {
			return err
		}
	}
	h.showBoard(nil)

	for {
		h.view.ShowPrompt(h.getPrompt())

		cmd, err := h.view.GetCommand()
		if err != nil {
			return err
		}

		if !h.ProcessCommand(cmd) {
			return nil
		}
	}
}

func (h *CLIHandler) getPrompt() string {
	g, err := h.svc.GetGame(h.gameID)
	if err != nil {
		return "> "
	}
	if g.State().Terminal() {
		return "[game over]> "
	}
	return fmt.Sprintf("[%s]> ", g.ActiveColor())
}

// ProcessCommand handles one command; it returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		h.showBoard(nil)

	case cli.CmdHelp:
		h.view.ShowHelp()

	case cli.CmdRestart:
		if err := h.Start(); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage("New game started.")
		h.showBoard(nil)

	case cli.CmdState:
		if g, err := h.svc.GetGame(h.gameID); err != nil {
			h.view.ShowError(err)
		} else {
			h.view.ShowMessage(g.State().String())
		}

	case cli.CmdColor:
		if g, err := h.svc.GetGame(h.gameID); err != nil {
			h.view.ShowError(err)
		} else {
			h.view.ShowMessage(g.ActiveColor().String())
		}

	case cli.CmdPromotion:
		rec, err := h.svc.SetPromotion(h.gameID, cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Promotion piece for %s set to %s",
			rec.ActiveColor, rec.Promotion[rec.ActiveColor]))

	case cli.CmdSelect:
		h.handleSelect(cmd.Args[0])

	case cli.CmdMove:
		h.handleMove(cmd.Args[0], cmd.Args[1])

	case cli.CmdUndo:
		count, err := cli.UndoCount(cmd.Args)
		if err != nil {
			h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
			return true
		}
		if _, err := h.svc.UndoMoves(h.gameID, count); err != nil {
			h.view.ShowError(err)
			return true
		}
		if count == 1 {
			h.view.ShowMessage("Move undone")
		} else {
			h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
		}
		h.showBoard(nil)

	case cli.CmdHistory:
		if g, err := h.svc.GetGame(h.gameID); err != nil {
			h.view.ShowError(err)
		} else {
			h.view.ShowGameHistory(g)
		}

	case cli.CmdTheme:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: theme <off|brown|green|gray>")
			return true
		}
		if err := h.view.SetTheme(cmd.Args[0]); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", h.view.Theme()))
		h.showBoard(nil)

	case cli.CmdFancy:
		fancy := h.view.ToggleFancy()
		h.showBoard(nil)
		h.view.ShowMessage(fmt.Sprintf("Fancy pieces: %t", fancy))

	case cli.CmdUnknown:
		h.view.ShowMessage(fmt.Sprintf("Unknown command: %s. Type 'help' for commands.", cmd.Raw))
	}

	return true
}

func (h *CLIHandler) handleSelect(square string) {
	moves, ok, err := h.svc.PossibleMoves(h.gameID, square)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	if ok && len(moves) > 0 {
		highlight := make([]core.Square, 0, len(moves))
		for _, m := range moves {
			highlight = append(highlight, core.MustSquare(m))
		}
		h.showBoard(highlight)
	}
	h.view.ShowMoves(square, moves, ok)
}

func (h *CLIHandler) handleMove(from, to string) {
	result, err := h.svc.MakeMove(h.gameID, from, to)
	if err != nil {
		h.view.ShowMessage(fmt.Sprintf("Illegal move: %v", err))
		return
	}

	h.showBoard(nil)
	h.view.ShowMoved(from, to, result.Captured, result.State)
	if result.State.Terminal() {
		h.view.ShowGameOver(result.State)
	}
}

func (h *CLIHandler) showBoard(highlight []core.Square) {
	g, err := h.svc.GetGame(h.gameID)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.DisplayBoard(g.Board(), g.ActiveColor(), highlight)
}
