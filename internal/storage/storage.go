// Package storage journals games and moves to SQLite through a single
// asynchronous writer. Writes never block callers; a failed write marks the
// store degraded and later writes are dropped.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotJournaled is returned by queries for a game the journal never saw
var ErrNotJournaled = errors.New("game not journaled")

// Store handles SQLite database operations with async writes
type Store struct {
	db           *sql.DB
	dsn          string
	writeChan    chan func(*sql.Tx) error
	healthStatus atomic.Bool
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// MemoryDSN names a shared-cache in-memory database. It lives as long as
// the store keeps a connection open.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
}

// NewStore creates a new storage instance with async writer
func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// A memory database disappears with its last connection, and shared
	// cache locks whole tables, so keep exactly one connection open.
	if strings.Contains(dataSourceName, "mode=memory") || dataSourceName == ":memory:" {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		db:        db,
		dsn:       dataSourceName,
		writeChan: make(chan func(*sql.Tx) error, 1000),
		ctx:       ctx,
		cancel:    cancel,
	}

	s.healthStatus.Store(true)

	s.wg.Add(1)
	go s.writerLoop()

	return s, nil
}

// writerLoop processes async write operations
func (s *Store) writerLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			// Drain remaining writes
			for {
				select {
				case fn := <-s.writeChan:
					if s.healthStatus.Load() {
						s.executeWrite(fn)
					}
				default:
					return
				}
			}

		case fn := <-s.writeChan:
			if !s.healthStatus.Load() {
				continue
			}
			s.executeWrite(fn)
		}
	}
}

// executeWrite runs a transactional write operation
func (s *Store) executeWrite(fn func(*sql.Tx) error) {
	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("Storage degraded: failed to begin transaction: %v", err)
		s.healthStatus.Store(false)
		return
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		log.Printf("Storage degraded: write operation failed: %v", err)
		s.healthStatus.Store(false)
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Storage degraded: failed to commit: %v", err)
		s.healthStatus.Store(false)
	}
}

// enqueue hands a write to the writer loop, dropping it when degraded or
// when the queue is full
func (s *Store) enqueue(what string, fn func(*sql.Tx) error) {
	if !s.healthStatus.Load() {
		return
	}
	select {
	case s.writeChan <- fn:
	default:
		log.Printf("Storage write queue full, dropping %s", what)
	}
}

// RecordNewGame asynchronously records a new game
func (s *Store) RecordNewGame(record GameRecord) {
	s.enqueue("game record", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO games (game_id, created_utc) VALUES (?, ?)`,
			record.GameID, record.CreatedUTC)
		return err
	})
}

// RecordMove asynchronously records a move
func (s *Store) RecordMove(record MoveRecord) {
	s.enqueue("move record", func(tx *sql.Tx) error {
		query := `INSERT INTO moves (
			game_id, ply, color, piece, from_sq, to_sq, captured, promotion, state, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			record.GameID, record.Ply, record.Color, record.Piece,
			record.From, record.To, record.Captured, record.Promotion,
			record.State, record.MoveTimeUTC,
		)
		return err
	})
}

// DeleteUndoneMoves asynchronously deletes moves after undo
func (s *Store) DeleteUndoneMoves(gameID string, afterPly int) {
	s.enqueue("undo operation", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM moves WHERE game_id = ? AND ply > ?`, gameID, afterPly)
		return err
	})
}

// DeleteGame asynchronously removes a game and its moves
func (s *Store) DeleteGame(gameID string) {
	s.enqueue("game deletion", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM moves WHERE game_id = ?`, gameID); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM games WHERE game_id = ?`, gameID)
		return err
	})
}

// IsHealthy returns the current health status
func (s *Store) IsHealthy() bool {
	return s.healthStatus.Load()
}

// Close drains pending writes and closes the database connection
func (s *Store) Close() error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Printf("Warning: storage writer shutdown timeout, some writes may be lost")
	}

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitDB creates the database schema
func (s *Store) InitDB() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return tx.Commit()
}

// QueryMoves returns the journaled moves of a game in ply order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT
		move_id, game_id, ply, color, piece, from_sq, to_sq, captured, promotion, state, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY ply`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	moves := []MoveRecord{}
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(
			&m.MoveID, &m.GameID, &m.Ply, &m.Color, &m.Piece,
			&m.From, &m.To, &m.Captured, &m.Promotion, &m.State, &m.MoveTimeUTC,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return moves, nil
}

// QueryJournal returns the game row together with its moves
func (s *Store) QueryJournal(gameID string) (Journal, error) {
	var j Journal
	err := s.db.QueryRow(`SELECT game_id, created_utc FROM games WHERE game_id = ?`, gameID).
		Scan(&j.Game.GameID, &j.Game.CreatedUTC)
	if errors.Is(err, sql.ErrNoRows) {
		return j, fmt.Errorf("%w: %s", ErrNotJournaled, gameID)
	}
	if err != nil {
		return j, fmt.Errorf("query failed: %w", err)
	}

	j.Moves, err = s.QueryMoves(gameID)
	return j, err
}
