package storage

import "time"

// GameRecord represents a row in the games table
type GameRecord struct {
	GameID     string    `db:"game_id" json:"gameId"`
	CreatedUTC time.Time `db:"created_utc" json:"createdUtc"`
}

// MoveRecord represents a row in the moves table
type MoveRecord struct {
	MoveID      int64     `db:"move_id" json:"-"`
	GameID      string    `db:"game_id" json:"-"`
	Ply         int       `db:"ply" json:"ply"`
	Color       string    `db:"color" json:"color"` // "white" or "black"
	Piece       string    `db:"piece" json:"piece"`
	From        string    `db:"from_sq" json:"from"`
	To          string    `db:"to_sq" json:"to"`
	Captured    string    `db:"captured" json:"captured,omitempty"`
	Promotion   string    `db:"promotion" json:"promotion,omitempty"`
	State       string    `db:"state" json:"state"` // game state after the move
	MoveTimeUTC time.Time `db:"move_time_utc" json:"moveTimeUtc"`
}

// Journal is a game row with its moves in play order
type Journal struct {
	Game  GameRecord   `json:"game"`
	Moves []MoveRecord `json:"moves"`
}

// Schema defines the SQLite database structure
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	game_id TEXT PRIMARY KEY,
	created_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS moves (
	move_id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	ply INTEGER NOT NULL,
	color TEXT NOT NULL CHECK(color IN ('white', 'black')),
	piece TEXT NOT NULL,
	from_sq TEXT NOT NULL,
	to_sq TEXT NOT NULL,
	captured TEXT NOT NULL DEFAULT '',
	promotion TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL,
	move_time_utc DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (game_id) REFERENCES games(game_id) ON DELETE CASCADE,
	UNIQUE(game_id, ply)
);

CREATE INDEX IF NOT EXISTS idx_moves_game_id ON moves(game_id);
`
