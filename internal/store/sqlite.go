package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maiya-app/maiya/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		niche TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chats (
		user_id TEXT NOT NULL,
		date_key TEXT NOT NULL,
		messages TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, date_key)
	);

	CREATE TABLE IF NOT EXISTS summaries (
		user_id TEXT NOT NULL,
		date_key TEXT NOT NULL,
		summary TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (user_id, date_key)
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadHistory returns the message sequence for the session, or nil if absent.
func (s *SQLiteStore) LoadHistory(ctx context.Context, key domain.SessionKey) ([]domain.Message, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT messages FROM chats WHERE user_id = ? AND date_key = ?`,
		key.UserID, key.DateKey,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	var messages []domain.Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return messages, nil
}

// SaveHistory overwrites the session's message sequence (last-writer-wins).
func (s *SQLiteStore) SaveHistory(ctx context.Context, key domain.SessionKey, messages []domain.Message) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := domain.ValidateMessages(messages); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	query := `
	INSERT INTO chats (user_id, date_key, messages, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id, date_key) DO UPDATE SET
		messages = excluded.messages,
		updated_at = excluded.updated_at`

	return s.execRetryBusy(ctx, query, key.UserID, key.DateKey, string(raw), time.Now().Unix())
}

// DeleteHistory removes the keyed chat record.
func (s *SQLiteStore) DeleteHistory(ctx context.Context, key domain.SessionKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	return s.execRetryBusy(ctx,
		`DELETE FROM chats WHERE user_id = ? AND date_key = ?`,
		key.UserID, key.DateKey,
	)
}

// GetProfile returns the user's profile, or nil if none exists.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}

	var p domain.Profile
	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, name, niche, created_at, updated_at FROM profiles WHERE user_id = ?`,
		userID,
	).Scan(&p.UserID, &p.Name, &p.Niche, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile row: %w", err)
	}

	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}

// UpsertProfile creates or updates a profile record. Creation time is
// preserved on update.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	now := time.Now()
	query := `
	INSERT INTO profiles (user_id, name, niche, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		name = excluded.name,
		niche = excluded.niche,
		updated_at = excluded.updated_at`

	return s.execRetryBusy(ctx, query,
		profile.UserID, profile.Name, profile.Niche, now.Unix(), now.Unix())
}

// GetSummary returns the stored session recap, or nil if none exists.
func (s *SQLiteStore) GetSummary(ctx context.Context, key domain.SessionKey) (*domain.Summary, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	var sum domain.Summary
	var updatedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, date_key, summary, updated_at FROM summaries WHERE user_id = ? AND date_key = ?`,
		key.UserID, key.DateKey,
	).Scan(&sum.UserID, &sum.DateKey, &sum.Summary, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan summary row: %w", err)
	}

	sum.UpdatedAt = time.Unix(updatedAt, 0)
	return &sum, nil
}

// SaveSummary overwrites the session recap.
func (s *SQLiteStore) SaveSummary(ctx context.Context, key domain.SessionKey, text string) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("summary text cannot be empty")
	}

	query := `
	INSERT INTO summaries (user_id, date_key, summary, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id, date_key) DO UPDATE SET
		summary = excluded.summary,
		updated_at = excluded.updated_at`

	return s.execRetryBusy(ctx, query, key.UserID, key.DateKey, text, time.Now().Unix())
}

// execRetryBusy executes a mutating statement, retrying once on SQLite
// concurrency errors (SQLITE_BUSY / "database is locked").
func (s *SQLiteStore) execRetryBusy(ctx context.Context, query string, args ...any) error {
	_, err := s.db.ExecContext(ctx, query, args...)
	if err != nil && isSQLiteBusy(err) {
		time.Sleep(50 * time.Millisecond)
		_, err = s.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
