// Package sqlite persists repository→destination mappings in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"gitcord/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS destinations (
	repo_key    TEXT PRIMARY KEY,
	webhook_url TEXT NOT NULL,
	guild_id    TEXT NOT NULL,
	created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Store is the SQLite-backed destination repository.
type Store struct {
	db *sql.DB
}

// New opens the database at path and ensures the schema exists.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open destination store: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping destination store: %w", err)
	}

	if err := configure(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create destination schema: %w", err)
	}

	return &Store{db: db}, nil
}

func configure(db *sql.DB) error {
	pragmas := []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,
		`PRAGMA foreign_keys = ON`,
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// FindByRepo returns the destination record for repoKey, or nil when the
// repository is not registered.
func (s *Store) FindByRepo(ctx context.Context, repoKey string) (*model.DestinationRecord, error) {
	var record model.DestinationRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT repo_key, webhook_url, guild_id
		FROM destinations
		WHERE repo_key = ?
	`, repoKey).Scan(&record.RepoKey, &record.WebhookURL, &record.GuildID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query destination for %s: %w", repoKey, err)
	}
	return &record, nil
}

// Insert registers or replaces the destination for a repository. Upsert on
// repo_key keeps the at-most-one-record invariant.
func (s *Store) Insert(ctx context.Context, record model.DestinationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO destinations (repo_key, webhook_url, guild_id)
		VALUES (?, ?, ?)
		ON CONFLICT(repo_key) DO UPDATE SET
			webhook_url = excluded.webhook_url,
			guild_id = excluded.guild_id
	`, record.RepoKey, record.WebhookURL, record.GuildID)
	if err != nil {
		return fmt.Errorf("failed to insert destination for %s: %w", record.RepoKey, err)
	}
	return nil
}

// DeleteByRepo removes the destination for a repository. Deleting an
// unregistered repository is not an error.
func (s *Store) DeleteByRepo(ctx context.Context, repoKey string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM destinations WHERE repo_key = ?`, repoKey)
	if err != nil {
		return fmt.Errorf("failed to delete destination for %s: %w", repoKey, err)
	}
	return nil
}

// List returns all registered destinations ordered by repository.
func (s *Store) List(ctx context.Context) ([]model.DestinationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT repo_key, webhook_url, guild_id
		FROM destinations
		ORDER BY repo_key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.DestinationRecord
	for rows.Next() {
		var record model.DestinationRecord
		if err := rows.Scan(&record.RepoKey, &record.WebhookURL, &record.GuildID); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
