// Package http serves game sessions as a JSON API for browser front ends.
package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"chessrules/internal/core"
	"chessrules/internal/service"
	"chessrules/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type HTTPHandler struct {
	svc *service.Service
}

func NewHTTPHandler(svc *service.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// NewFiberApp wires middleware and routes. rateLimit is the number of API
// requests allowed per second and IP; zero or less disables limiting.
func NewFiberApp(svc *service.Service, rateLimit int) *fiber.App {
	h := NewHTTPHandler(svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  10 * time.Second,
		// Long-polling reads may block up to the wait timeout
		WriteTimeout: service.WaitTimeout + 5*time.Second,
		IdleTimeout:  30 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	if rateLimit > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        rateLimit,
			Expiration: 1 * time.Second,
			KeyGenerator: func(c *fiber.Ctx) string {
				// Check X-Forwarded-For first, then RemoteIP
				if xff := c.Get("X-Forwarded-For"); xff != "" {
					if idx := strings.Index(xff, ","); idx != -1 {
						return strings.TrimSpace(xff[:idx])
					}
					return xff
				}
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
					Error:   "rate limit exceeded",
					Code:    core.CodeRateLimit,
					Details: fmt.Sprintf("%d requests per second allowed", rateLimit),
				})
			},
		}))
	}

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/games", h.CreateGame)
	api.Get("/games", h.ListGames)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Get("/games/:gameId/moves/:square", h.PossibleMoves)
	api.Post("/games/:gameId/moves", h.MakeMove)
	api.Put("/games/:gameId/promotion", h.SetPromotion)
	api.Post("/games/:gameId/undo", h.UndoMove)
	api.Get("/games/:gameId/board", h.GetBoard)
	api.Get("/games/:gameId/board.svg", h.GetBoardSVG)
	api.Get("/games/:gameId/journal", h.GetJournal)

	return app
}

// contentTypeValidator ensures requests with a body are JSON
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost || c.Method() == fiber.MethodPut {
		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.CodeInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := ErrorResponse{
		Error: "internal server error",
		Code:  core.CodeInternalError,
	}

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		response.Error = e.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.CodeGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.CodeInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.CodeRateLimit
		}
	}

	return c.Status(code).JSON(response)
}

// sendError maps a service or engine error to a status and error code
func sendError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	response := ErrorResponse{Code: core.ErrorCode(err), Details: err.Error()}

	switch {
	case errors.Is(err, core.ErrGameNotFound):
		status = fiber.StatusNotFound
		response.Error = "game not found"
	case errors.Is(err, core.ErrGameOver):
		status = fiber.StatusConflict
		response.Error = "game is over"
	case errors.Is(err, core.ErrInputFormat), errors.Is(err, core.ErrInvalidRecord):
		response.Error = "invalid input"
	case errors.Is(err, core.ErrNoPiece), errors.Is(err, core.ErrWrongColor), errors.Is(err, core.ErrIllegalDestination):
		response.Error = "invalid move"
	case errors.Is(err, service.ErrStorageDisabled):
		status = fiber.StatusServiceUnavailable
		response.Error = "journal disabled"
		response.Code = core.CodeStorageDisabled
	case errors.Is(err, storage.ErrNotJournaled):
		status = fiber.StatusNotFound
		response.Error = "game not journaled yet"
		response.Code = core.CodeGameNotFound
	default:
		status = fiber.StatusInternalServerError
		response.Error = "internal server error"
	}
	return c.Status(status).JSON(response)
}

// Health check endpoint
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
	})
}
