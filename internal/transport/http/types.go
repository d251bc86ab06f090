package http

import (
	"chessrules/internal/game"
	"chessrules/internal/storage"
)

// Request types

type CreateGameRequest struct {
	// Record resumes play from an exported game instead of the start position
	Record *game.Record `json:"record,omitempty"`
}

type MoveRequest struct {
	From string `json:"from" validate:"required,len=2"`
	To   string `json:"to" validate:"required,len=2"`
}

type PromotionRequest struct {
	Kind string `json:"kind" validate:"required,min=4,max=6"` // queen, rook, bishop or knight
}

type UndoRequest struct {
	Count int `json:"count,omitempty" validate:"omitempty,min=1,max=500"` // default: 1
}

// Response types

type GameResponse struct {
	GameID   string      `json:"gameId"`
	Game     game.Record `json:"game"`
	Moves    []string    `json:"moves"` // coordinate form since creation
	LastMove *MoveInfo   `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	Move     string `json:"move"`
	Player   string `json:"player"` // "white" or "black"
	Captured string `json:"captured,omitempty"`
}

type GameListResponse struct {
	Games []string `json:"games"`
}

type PossibleMovesResponse struct {
	Square     string   `json:"square"`
	Selectable bool     `json:"selectable"` // false when no piece of the side to move stands there
	Moves      []string `json:"moves"`
}

type BoardResponse struct {
	Board string `json:"board"` // ASCII representation
}

type JournalResponse struct {
	GameID string               `json:"gameId"`
	Moves  []storage.MoveRecord `json:"moves"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
