package main

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// GameArchive stores finished games in SQLite, one row per game with the
// final counts and the full move list in the save-file format.
type GameArchive struct {
	db *sql.DB
}

type ArchivedGame struct {
	ID         string    `json:"id"`
	FinishedAt time.Time `json:"finished_at"`
	DarkCount  int       `json:"dark_count"`
	LightCount int       `json:"light_count"`
	Result     string    `json:"result"`
	Moves      string    `json:"moves"`
}

func OpenGameArchive(path string) (*GameArchive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create database directory")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		finished_at DATETIME,
		dark_count INTEGER,
		light_count INTEGER,
		result TEXT,
		moves TEXT
	);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create games table")
	}
	return &GameArchive{db: db}, nil
}

func (a *GameArchive) SaveFinishedGame(game ArchivedGame) error {
	_, err := a.db.Exec(
		`INSERT OR REPLACE INTO games (id, finished_at, dark_count, light_count, result, moves)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		game.ID, game.FinishedAt, game.DarkCount, game.LightCount, game.Result, game.Moves,
	)
	return errors.Wrap(err, "insert game")
}

// ListArchivedGames returns the most recent finished games, newest first.
func (a *GameArchive) ListArchivedGames(limit int) ([]ArchivedGame, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.Query(
		`SELECT id, finished_at, dark_count, light_count, result, moves
		 FROM games ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query games")
	}
	defer rows.Close()
	var games []ArchivedGame
	for rows.Next() {
		var game ArchivedGame
		if err := rows.Scan(&game.ID, &game.FinishedAt, &game.DarkCount, &game.LightCount, &game.Result, &game.Moves); err != nil {
			return nil, errors.Wrap(err, "scan game row")
		}
		games = append(games, game)
	}
	return games, errors.Wrap(rows.Err(), "iterate game rows")
}

func (a *GameArchive) Close() error {
	return a.db.Close()
}
