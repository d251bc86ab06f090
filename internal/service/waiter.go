package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chessrules/internal/game"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second
)

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*WaitRequest // gameID → waiting clients
	timeout  time.Duration
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// WaitRequest represents a single client waiting for game updates
type WaitRequest struct {
	MoveCount int    // Last known move count
	GameID    string // Game being watched
	done      chan struct{}
	once      sync.Once
	timer     *time.Timer
}

// release wakes the client; safe to call more than once
func (r *WaitRequest) release() {
	r.once.Do(func() { close(r.done) })
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		timeout:  WaitTimeout,
		shutdown: make(chan struct{}),
	}
}

// RegisterWait registers a client to wait for game state changes. The
// returned channel is closed on change, game removal, timeout or shutdown.
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	req := &WaitRequest{
		MoveCount: moveCount,
		GameID:    gameID,
		done:      make(chan struct{}),
	}
	req.timer = time.AfterFunc(w.timeout, req.release)

	w.waiters[gameID] = append(w.waiters[gameID], req)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			// Client disconnected
		case <-req.done:
		case <-w.shutdown:
			req.release()
		}
		w.removeWaiter(gameID, req)
	}()

	return req.done
}

// NotifyGame wakes all clients whose known move count differs from the current one
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, req := range w.waiters[gameID] {
		if req.MoveCount != currentMoveCount {
			req.release()
		}
	}
}

// RemoveGame wakes all waiters for a game (called on game deletion)
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.release()
	}
}

// Waiting returns the number of clients currently waiting on a game
func (w *WaitRegistry) Waiting(gameID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.waiters[gameID])
}

// Shutdown gracefully shuts down the wait registry
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

// removeWaiter removes a specific waiter from the registry
func (w *WaitRegistry) removeWaiter(gameID string, req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}

	req.timer.Stop()
}

// WaitForChange blocks until the game's move count differs from moveCount,
// the game is deleted, the wait times out or ctx ends, then returns the game
// as it stands. A deleted game yields ErrGameNotFound.
func (s *Service) WaitForChange(ctx context.Context, gameID string, moveCount int) (*game.Game, error) {
	sess, err := s.session(gameID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.game.MoveCount() != moveCount {
		g := sess.game.Clone()
		sess.mu.Unlock()
		return g, nil
	}
	// Registered under the session lock so a concurrent move cannot slip by
	notify := s.waiter.RegisterWait(ctx, gameID, moveCount)
	sess.mu.Unlock()

	select {
	case <-notify:
	case <-ctx.Done():
	}
	return s.GetGame(gameID)
}
