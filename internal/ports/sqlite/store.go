package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"barbu/internal/ports"
)

// GameStore implements ports.GameStore on a local SQLite file. Each game is
// one row whose integer version increases on every save.
type GameStore struct {
	db *sql.DB
}

func Open(path string) (*GameStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &GameStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			owner_id TEXT NOT NULL,
			game_id TEXT NOT NULL,
			state TEXT NOT NULL,
			version INTEGER NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (owner_id, game_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_owner_updated ON games(owner_id, updated_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *GameStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *GameStore) Load(ctx context.Context, ownerID, gameID string) (ports.StoredGame, error) {
	var (
		state   string
		version int64
	)
	row := s.db.QueryRowContext(ctx, `SELECT state, version FROM games WHERE owner_id=? AND game_id=?`, ownerID, gameID)
	if err := row.Scan(&state, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.StoredGame{}, ports.ErrGameNotFound
		}
		return ports.StoredGame{}, fmt.Errorf("load game %s: %w", gameID, err)
	}
	return ports.StoredGame{
		ID:      gameID,
		OwnerID: ownerID,
		Data:    []byte(state),
		Version: strconv.FormatInt(version, 10),
	}, nil
}

func (s *GameStore) Save(ctx context.Context, ownerID, gameID string, data []byte, version string) (string, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	if version == "" {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO games(owner_id, game_id, state, version, updated_at) VALUES(?,?,?,1,?) ON CONFLICT(owner_id, game_id) DO NOTHING`,
			ownerID, gameID, string(data), now)
		if err != nil {
			return "", fmt.Errorf("create game %s: %w", gameID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return "", ports.ErrVersionConflict
		}
		return "1", nil
	}

	want, err := strconv.ParseInt(version, 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: bad version %q", ports.ErrVersionConflict, version)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET state=?, version=version+1, updated_at=? WHERE owner_id=? AND game_id=? AND version=?`,
		string(data), now, ownerID, gameID, want)
	if err != nil {
		return "", fmt.Errorf("save game %s: %w", gameID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.Load(ctx, ownerID, gameID); err != nil {
			return "", err
		}
		return "", ports.ErrVersionConflict
	}
	return strconv.FormatInt(want+1, 10), nil
}

func (s *GameStore) Delete(ctx context.Context, ownerID, gameID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE owner_id=? AND game_id=?`, ownerID, gameID); err != nil {
		return fmt.Errorf("delete game %s: %w", gameID, err)
	}
	return nil
}

// List returns the owner's games, most recently saved first.
func (s *GameStore) List(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT game_id FROM games WHERE owner_id=? ORDER BY updated_at DESC, game_id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ ports.GameStore = (*GameStore)(nil)
