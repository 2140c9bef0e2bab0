package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rl1809/savdo-pos/internal/core/domain"
	"github.com/rl1809/savdo-pos/internal/port"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS pending_transactions (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	txn_id TEXT NOT NULL UNIQUE,
	payload TEXT NOT NULL,
	enqueued_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS app_settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	payload TEXT NOT NULL
);`

// SQLiteStore is the terminal's durable local store. It backs both the
// pending queue and the app settings, and survives process restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the local database. WAL mode allows reads
// during the enqueue write; a single-connection pool avoids SQLITE_BUSY
// between the checkout writer and the sync reader.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping local store: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply local schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Enqueue appends a transaction to the pending queue. The insert commits
// before returning, so a crash right after a confirmed offline checkout
// cannot lose the sale. Re-enqueueing the same transaction is a no-op.
func (s *SQLiteStore) Enqueue(ctx context.Context, txn domain.Transaction) error {
	payload, err := json.Marshal(txn)
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pending_transactions (txn_id, payload, enqueued_at)
		VALUES (?, ?, ?)
		ON CONFLICT(txn_id) DO NOTHING`,
		txn.ID, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("enqueue transaction: %w", err)
	}
	return nil
}

// Entries returns the queue snapshot in FIFO insertion order.
func (s *SQLiteStore) Entries(ctx context.Context) ([]port.QueueEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, payload, enqueued_at
		FROM pending_transactions
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("read pending transactions: %w", err)
	}
	defer rows.Close()

	var entries []port.QueueEntry
	for rows.Next() {
		var (
			entry   port.QueueEntry
			payload string
		)
		if err := rows.Scan(&entry.Seq, &payload, &entry.EnqueuedAt); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &entry.Transaction); err != nil {
			return nil, fmt.Errorf("unmarshal pending transaction seq %d: %w", entry.Seq, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) RemoveAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pending_transactions`); err != nil {
		return fmt.Errorf("clear pending transactions: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_transactions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending transactions: %w", err)
	}
	return n, nil
}

// Load returns the stored settings, or defaults when nothing was saved yet.
func (s *SQLiteStore) Load(ctx context.Context) (domain.AppSettings, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM app_settings WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("read settings: %w", err)
	}
	var cfg domain.AppSettings
	if err := json.Unmarshal([]byte(payload), &cfg); err != nil {
		return domain.AppSettings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return cfg, nil
}

func (s *SQLiteStore) Save(ctx context.Context, cfg domain.AppSettings) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_settings (id, payload) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload`,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
