package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/lox/headsup/internal/game"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// SQL stores games and hands as JSON documents in sqlite or postgres.
type SQL struct {
	db      *sql.DB
	dialect dialect
}

var _ Store = (*SQL)(nil)

// OpenSQLite opens (and creates if needed) a sqlite database at path.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQL, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if path != ":memory:" {
		if parent := filepath.Dir(path); parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection: sqlite allows a single writer, and each connection to
	// :memory: would otherwise see its own database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return open(ctx, db, dialectSQLite)
}

// OpenPostgres connects to postgres using a lib/pq DSN.
func OpenPostgres(ctx context.Context, dsn string) (*SQL, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("empty postgres dsn")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return open(ctx, db, dialectPostgres)
}

func open(ctx context.Context, db *sql.DB, d dialect) (*SQL, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	s := &SQL{db: db, dialect: d}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *SQL) ensureSchema(ctx context.Context) error {
	bigint := "INTEGER"
	if s.dialect == dialectPostgres {
		bigint = "BIGINT"
	}
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS games (
    id TEXT PRIMARY KEY,
    version ` + bigint + ` NOT NULL,
    data TEXT NOT NULL,
    updated_at_ms ` + bigint + ` NOT NULL
)`,
		`
CREATE TABLE IF NOT EXISTS hands (
    id TEXT PRIMARY KEY,
    game_id TEXT NOT NULL REFERENCES games(id),
    number ` + bigint + ` NOT NULL,
    data TEXT NOT NULL,
    UNIQUE (game_id, number)
)`,
		`CREATE INDEX IF NOT EXISTS idx_hands_game_number ON hands(game_id, number)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQL) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQL) CreateGame(ctx context.Context, g game.Game) error {
	g.Version = 0
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	res, err := s.db.ExecContext(ctx, s.rebind(`
INSERT INTO games (id, version, data, updated_at_ms)
VALUES (?, 0, ?, ?)
ON CONFLICT (id) DO NOTHING
`), g.ID, string(data), g.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert game %s: %w", g.ID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("game %s already exists: %w", g.ID, ErrConflict)
	}
	return nil
}

func (s *SQL) Load(ctx context.Context, gameID string) (Snapshot, error) {
	var snap Snapshot
	var data string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT data FROM games WHERE id = ?`), gameID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load game %s: %w", gameID, err)
	}
	if err := json.Unmarshal([]byte(data), &snap.Game); err != nil {
		return Snapshot{}, fmt.Errorf("decode game %s: %w", gameID, err)
	}

	var row *sql.Row
	if snap.Game.ActiveHandID != "" {
		row = s.db.QueryRowContext(ctx, s.rebind(`SELECT data FROM hands WHERE game_id = ? AND id = ?`),
			gameID, snap.Game.ActiveHandID)
	} else {
		row = s.db.QueryRowContext(ctx, s.rebind(`
SELECT data FROM hands WHERE game_id = ? ORDER BY number DESC LIMIT 1`), gameID)
	}
	err = row.Scan(&data)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if snap.Game.ActiveHandID != "" {
			return Snapshot{}, fmt.Errorf("active hand %s of game %s: %w", snap.Game.ActiveHandID, gameID, ErrNotFound)
		}
		return snap, nil
	case err != nil:
		return Snapshot{}, fmt.Errorf("load hand of game %s: %w", gameID, err)
	}
	var h game.Hand
	if err := json.Unmarshal([]byte(data), &h); err != nil {
		return Snapshot{}, fmt.Errorf("decode hand of game %s: %w", gameID, err)
	}
	snap.Hand = &h
	return snap, nil
}

func (s *SQL) Commit(ctx context.Context, snap Snapshot, expectedVersion int64) (game.Game, error) {
	g := snap.Game.Clone()
	g.Version = expectedVersion + 1
	gameData, err := json.Marshal(g)
	if err != nil {
		return game.Game{}, fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	var handData []byte
	if snap.Hand != nil {
		if handData, err = json.Marshal(snap.Hand); err != nil {
			return game.Game{}, fmt.Errorf("encode hand %s: %w", snap.Hand.ID, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return game.Game{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, s.rebind(`
UPDATE games SET version = ?, data = ?, updated_at_ms = ?
WHERE id = ? AND version = ?
`), g.Version, string(gameData), g.UpdatedAt.UnixMilli(), g.ID, expectedVersion)
	if err != nil {
		return game.Game{}, fmt.Errorf("update game %s: %w", g.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return game.Game{}, err
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM games WHERE id = ?`), g.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return game.Game{}, fmt.Errorf("game %s: %w", g.ID, ErrNotFound)
		}
		return game.Game{}, fmt.Errorf("game %s moved past version %d: %w", g.ID, expectedVersion, ErrConflict)
	}

	if snap.Hand != nil {
		_, err := tx.ExecContext(ctx, s.rebind(`
INSERT INTO hands (id, game_id, number, data)
VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET data = excluded.data
`), snap.Hand.ID, g.ID, snap.Hand.Number, string(handData))
		if err != nil {
			if isUniqueViolation(err) {
				return game.Game{}, fmt.Errorf("hand %d of game %s already dealt: %w", snap.Hand.Number, g.ID, ErrConflict)
			}
			return game.Game{}, fmt.Errorf("write hand %s: %w", snap.Hand.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return game.Game{}, err
	}
	return g, nil
}

func (s *SQL) Hands(ctx context.Context, gameID string) ([]game.Hand, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM games WHERE id = ?`), gameID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(`
SELECT data FROM hands WHERE game_id = ? ORDER BY number ASC`), gameID)
	if err != nil {
		return nil, fmt.Errorf("list hands of game %s: %w", gameID, err)
	}
	defer rows.Close()

	hands := []game.Hand{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var h game.Hand
		if err := json.Unmarshal([]byte(data), &h); err != nil {
			return nil, fmt.Errorf("decode hand of game %s: %w", gameID, err)
		}
		hands = append(hands, h)
	}
	return hands, rows.Err()
}

func (s *SQL) Hand(ctx context.Context, gameID, handID string) (game.Hand, error) {
	var data string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT data FROM hands WHERE game_id = ? AND id = ?`),
		gameID, handID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Hand{}, fmt.Errorf("hand %s of game %s: %w", handID, gameID, ErrNotFound)
	}
	if err != nil {
		return game.Hand{}, err
	}
	var h game.Hand
	if err := json.Unmarshal([]byte(data), &h); err != nil {
		return game.Hand{}, fmt.Errorf("decode hand %s: %w", handID, err)
	}
	return h, nil
}

func (s *SQL) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// isUniqueViolation reports a unique constraint failure from either driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
