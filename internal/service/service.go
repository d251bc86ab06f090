// Package service keeps concurrent game sessions keyed by UUID, journals
// their moves and wakes long-polling readers when a game changes.
package service

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
)

// session is one game plus the lock serializing its query-then-mutate
// sequences
type session struct {
	mu   sync.Mutex
	game *game.Game
}

// Service is a pure state manager for chess games with optional journaling
type Service struct {
	games  map[string]*session
	mu     sync.RWMutex
	store  *storage.Store // nil if journaling disabled
	waiter *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store) *Service {
	return &Service{
		games:  make(map[string]*session),
		store:  store,
		waiter: NewWaitRegistry(),
	}
}

// generateGameID creates a new unique game ID; callers hold s.mu
func (s *Service) generateGameID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// session looks up a game by ID
func (s *Service) session(gameID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrGameNotFound, gameID)
	}
	return sess, nil
}

// ListGames returns the IDs of all live games, sorted
func (s *Service) ListGames() []string {
	s.mu.RLock()
	ids := maps.Keys(s.games)
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Journal returns the journaled moves of a game
func (s *Service) Journal(gameID string) (storage.Journal, error) {
	if _, err := s.session(gameID); err != nil {
		return storage.Journal{}, err
	}
	if s.store == nil {
		return storage.Journal{}, ErrStorageDisabled
	}
	return s.store.QueryJournal(gameID)
}

// Shutdown releases long-poll waiters, then drops all games and closes
// storage
func (s *Service) Shutdown(timeout time.Duration) error {
	var firstErr error
	if err := s.waiter.Shutdown(timeout); err != nil {
		log.Printf("Wait registry shutdown: %v", err)
		firstErr = err
	}

	s.mu.Lock()
	s.games = make(map[string]*session)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
