// Package binding exposes the game facade as stateless string functions for
// JavaScript hosts. The whole game travels as a JSON record on every call.
package binding

import (
	"encoding/json"
	"fmt"

	"chessrules/internal/core"
	"chessrules/internal/game"
)

// MoveResponse is returned by MakeMove
type MoveResponse struct {
	Game     game.Record `json:"game"`
	Captured string      `json:"captured,omitempty"` // kind name of the taken piece
}

func decode(state string) (*game.Game, error) {
	var r game.Record
	if err := json.Unmarshal([]byte(state), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidRecord, err)
	}
	return game.FromRecord(r)
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewGame returns the record of a fresh game
func NewGame() string {
	s, _ := encode(game.New().Record())
	return s
}

// PossibleMoves returns a JSON array of destinations; "[]" when the square
// has no piece of the side to move or the state cannot be read.
func PossibleMoves(state, square string) string {
	g, err := decode(state)
	if err != nil {
		return "[]"
	}
	moves, ok := g.PossibleMoves(square)
	if !ok {
		return "[]"
	}
	s, _ := encode(moves)
	return s
}

// MakeMove plays from->to and returns the updated record
func MakeMove(state, from, to string) (string, error) {
	g, err := decode(state)
	if err != nil {
		return "", err
	}
	captured, err := g.MakeMove(from, to)
	if err != nil {
		return "", err
	}
	resp := MoveResponse{Game: g.Record()}
	if !captured.IsZero() {
		resp.Captured = captured.Kind.String()
	}
	return encode(resp)
}

// SetPromotion stores the side to move's promotion choice in the record
func SetPromotion(state, kind string) (string, error) {
	g, err := decode(state)
	if err != nil {
		return "", err
	}
	if err := g.SetPromotion(kind); err != nil {
		return "", err
	}
	return encode(g.Record())
}
