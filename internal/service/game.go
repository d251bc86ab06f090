package service

import (
	"errors"
	"fmt"
	"time"

	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/storage"
)

// ErrStorageDisabled is returned for journal queries when no store is attached
var ErrStorageDisabled = errors.New("journal storage disabled")

// MoveResult is the outcome of a move applied through the service
type MoveResult struct {
	Move      string // coordinate form, e.g. "e7e8q"
	Player    core.Color
	Captured  core.Piece
	State     core.Status
	MoveCount int
	Record    game.Record
}

// CreateGame starts a new standard game and returns its ID
func (s *Service) CreateGame() (string, error) {
	s.mu.Lock()
	id := s.generateGameID()
	s.games[id] = &session{game: game.New()}
	s.mu.Unlock()

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{GameID: id, CreatedUTC: time.Now().UTC()})
	}
	return id, nil
}

// RestoreGame registers a game rebuilt from a record and returns its ID
func (s *Service) RestoreGame(r game.Record) (string, error) {
	g, err := game.FromRecord(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	id := s.generateGameID()
	s.games[id] = &session{game: g}
	s.mu.Unlock()

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{GameID: id, CreatedUTC: time.Now().UTC()})
	}
	return id, nil
}

// GetGame returns a snapshot of the game; mutating it does not affect the session
func (s *Service) GetGame(gameID string) (*game.Game, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.game.Clone(), nil
}

// PossibleMoves lists the legal destinations of the active color's piece on square
func (s *Service) PossibleMoves(gameID, square string) ([]string, bool, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return nil, false, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	moves, ok := sess.game.PossibleMoves(square)
	return moves, ok, nil
}

// MakeMove applies from->to, journals it and notifies waiters
func (s *Service) MakeMove(gameID, from, to string) (MoveResult, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return MoveResult{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	g := sess.game
	mover := g.ActiveColor()
	captured, err := g.MakeMove(from, to)
	if err != nil {
		return MoveResult{}, err
	}
	last, _ := g.LastMove()

	result := MoveResult{
		Move:      last.String(),
		Player:    mover,
		Captured:  captured,
		State:     g.State(),
		MoveCount: g.MoveCount(),
		Record:    g.Record(),
	}

	s.waiter.NotifyGame(gameID, g.MoveCount())

	if s.store != nil {
		rec := storage.MoveRecord{
			GameID:      gameID,
			Ply:         g.MoveCount(),
			Color:       mover.String(),
			Piece:       last.Piece.Kind.String(),
			From:        last.From.String(),
			To:          last.To.String(),
			State:       g.State().State.String(),
			MoveTimeUTC: time.Now().UTC(),
		}
		if !captured.IsZero() {
			rec.Captured = captured.Kind.String()
		}
		if last.Promotion != core.KindNone {
			rec.Promotion = last.Promotion.String()
		}
		s.store.RecordMove(rec)
	}

	return result, nil
}

// SetPromotion stores the active color's promotion choice
func (s *Service) SetPromotion(gameID, kind string) (game.Record, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return game.Record{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.game.SetPromotion(kind); err != nil {
		return game.Record{}, err
	}
	return sess.game.Record(), nil
}

// UndoMoves takes back the last count moves
func (s *Service) UndoMoves(gameID string, count int) (game.Record, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return game.Record{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	g := sess.game
	if err := g.UndoMoves(count); err != nil {
		return game.Record{}, err
	}

	// Notify waiting clients about the undo
	s.waiter.NotifyGame(gameID, g.MoveCount())

	if s.store != nil {
		s.store.DeleteUndoneMoves(gameID, g.MoveCount())
	}
	return g.Record(), nil
}

// DeleteGame removes a game from memory
func (s *Service) DeleteGame(gameID string) error {
	s.mu.Lock()
	if _, ok := s.games[gameID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	delete(s.games, gameID)
	s.mu.Unlock()

	s.waiter.RemoveGame(gameID)

	if s.store != nil {
		s.store.DeleteGame(gameID)
	}
	return nil
}
