package http

import (
	"bytes"
	"strconv"

	"chessrules/internal/core"
	"chessrules/internal/display"
	"chessrules/internal/game"
	"chessrules/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateGame starts a game, from the initial position or from a posted record
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, err := validatedBody[CreateGameRequest](c)
	if req == nil {
		return err
	}

	var gameID string
	if req.Record != nil {
		gameID, err = h.svc.RestoreGame(*req.Record)
	} else {
		gameID, err = h.svc.CreateGame()
	}
	if err != nil {
		return sendError(c, err)
	}

	g, err := h.svc.GetGame(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(buildGameResponse(gameID, g))
}

// ListGames returns the IDs of all live sessions
func (h *HTTPHandler) ListGames(c *fiber.Ctx) error {
	return c.JSON(GameListResponse{Games: h.svc.ListGames()})
}

// GetGame returns the game. With wait=true it long-polls until the move
// count differs from the moveCount query parameter.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	var (
		g   *game.Game
		err error
	)
	if c.Query("wait") == "true" {
		moveCount, convErr := strconv.Atoi(c.Query("moveCount", "-1"))
		if convErr != nil || moveCount < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid moveCount",
				Code:    core.CodeInvalidRequest,
				Details: "moveCount must be a non-negative integer when wait=true",
			})
		}
		g, err = h.svc.WaitForChange(c.Context(), gameID, moveCount)
	} else {
		g, err = h.svc.GetGame(gameID)
	}
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(buildGameResponse(gameID, g))
}

// DeleteGame ends and cleans up a game
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	if err := h.svc.DeleteGame(gameID); err != nil {
		return sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PossibleMoves lists the legal destinations of the piece on a square
func (h *HTTPHandler) PossibleMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}
	square := c.Params("square")
	if _, err := core.ParseSquare(square); err != nil {
		return sendError(c, err)
	}

	moves, ok, err := h.svc.PossibleMoves(gameID, square)
	if err != nil {
		return sendError(c, err)
	}
	if moves == nil {
		moves = []string{}
	}
	return c.JSON(PossibleMovesResponse{Square: square, Selectable: ok, Moves: moves})
}

// MakeMove plays a move for the side to move
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}
	req, err := validatedBody[MoveRequest](c)
	if req == nil {
		return err
	}

	result, err := h.svc.MakeMove(gameID, req.From, req.To)
	if err != nil {
		return sendError(c, err)
	}

	g, err := h.svc.GetGame(gameID)
	if err != nil {
		return sendError(c, err)
	}
	response := buildGameResponse(gameID, g)
	response.LastMove = moveInfo(result)
	return c.JSON(response)
}

// SetPromotion records the side to move's promotion choice
func (h *HTTPHandler) SetPromotion(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}
	req, err := validatedBody[PromotionRequest](c)
	if req == nil {
		return err
	}

	if _, err := h.svc.SetPromotion(gameID, req.Kind); err != nil {
		return sendError(c, err)
	}

	g, err := h.svc.GetGame(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(buildGameResponse(gameID, g))
}

// UndoMove undoes one or more moves
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}
	req, err := validatedBody[UndoRequest](c)
	if req == nil {
		return err
	}

	count := req.Count
	if count == 0 {
		count = 1
	}
	if _, err := h.svc.UndoMoves(gameID, count); err != nil {
		return sendError(c, err)
	}

	g, err := h.svc.GetGame(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(buildGameResponse(gameID, g))
}

// GetBoard returns ASCII representation of the board
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	g, err := h.svc.GetGame(gameID)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(BoardResponse{
		Board: display.Text(g.Board(), display.Options{Theme: display.ThemeOff, Turn: g.ActiveColor()}),
	})
}

// GetBoardSVG renders the board as an image, tinting the last move
func (h *HTTPHandler) GetBoardSVG(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	g, err := h.svc.GetGame(gameID)
	if err != nil {
		return sendError(c, err)
	}

	opts := display.SVGOptions{Title: g.State().String()}
	if last, ok := g.LastMove(); ok {
		opts.LastMove = []core.Square{last.From, last.To}
	}

	var buf bytes.Buffer
	display.SVG(&buf, g.Board(), opts)
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.Send(buf.Bytes())
}

// GetJournal returns the moves stored for a game
func (h *HTTPHandler) GetJournal(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		return invalidGameID(c)
	}

	journal, err := h.svc.Journal(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(JournalResponse{GameID: gameID, Moves: journal.Moves})
}

func invalidGameID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid game ID",
		Code:    core.CodeInvalidRequest,
		Details: "game ID must be a UUID",
	})
}

// buildGameResponse assembles the standard game payload
func buildGameResponse(gameID string, g *game.Game) GameResponse {
	history := g.History()
	moves := make([]string, len(history))
	for i, m := range history {
		moves[i] = m.String()
	}

	response := GameResponse{
		GameID: gameID,
		Game:   g.Record(),
		Moves:  moves,
	}
	if last, ok := g.LastMove(); ok {
		response.LastMove = &MoveInfo{
			Move:   last.String(),
			Player: last.Piece.Color.String(),
		}
	}
	return response
}

func moveInfo(result service.MoveResult) *MoveInfo {
	info := &MoveInfo{
		Move:   result.Move,
		Player: result.Player.String(),
	}
	if !result.Captured.IsZero() {
		info.Captured = result.Captured.Kind.String()
	}
	return info
}
