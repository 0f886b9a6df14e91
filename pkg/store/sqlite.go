package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sipeed/walletbot/pkg/logger"
)

var sqliteSchema = []string{`
CREATE TABLE IF NOT EXISTS wallets (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT    NOT NULL UNIQUE,
	chat_id     INTEGER NOT NULL,
	name        TEXT    NOT NULL,
	eth_address TEXT    NOT NULL,
	bsc_address TEXT    NOT NULL,
	created_at  INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS wallets_chat_name ON wallets (chat_id, name)`,
}

// SQLiteStore keeps one row per wallet; insertion order is the seq column.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: migrate: %v", ErrUnavailable, err)
		}
	}

	logger.InfoCF("store", "SQLite wallet store ready", map[string]any{
		"path": path,
	})
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) UpsertWallet(ctx context.Context, chatID int64, record Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO wallets (id, chat_id, name, eth_address, bsc_address, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, chatID, record.Name, record.EthAddress, record.BscAddress, record.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListWallets(ctx context.Context, chatID int64) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, eth_address, bsc_address, created_at FROM wallets WHERE chat_id = ? ORDER BY seq`,
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) FindWallet(ctx context.Context, chatID int64, name string) (Record, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, eth_address, bsc_address, created_at FROM wallets WHERE chat_id = ? AND name = ? ORDER BY seq LIMIT 1`,
		chatID, name,
	)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return r, true, nil
}

func (s *SQLiteStore) DeleteWallet(ctx context.Context, chatID int64, name string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM wallets WHERE seq = (SELECT seq FROM wallets WHERE chat_id = ? AND name = ? ORDER BY seq LIMIT 1)`,
		chatID, name,
	)
	if err != nil {
		return false, fmt.Errorf("delete wallet: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete wallet: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		r         Record
		createdAt int64
	)
	if err := row.Scan(&r.ID, &r.Name, &r.EthAddress, &r.BscAddress, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan wallet: %w", err)
	}
	r.CreatedAt = time.UnixMilli(createdAt).UTC()
	return r, nil
}
