package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/telhawk-systems/authhawk/internal/event"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS failed_logins (
	id          TEXT PRIMARY KEY,
	ts          TEXT NOT NULL,
	username    TEXT NOT NULL,
	address     TEXT NOT NULL,
	source_file TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS accepted_logins (
	id          TEXT PRIMARY KEY,
	ts          TEXT NOT NULL,
	username    TEXT NOT NULL,
	address     TEXT NOT NULL,
	source_file TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_failed_address  ON failed_logins(address);
CREATE INDEX IF NOT EXISTS idx_failed_username ON failed_logins(username);
`

// SQLiteStore is the default backend: a local file, durable across runs,
// with no infrastructure to stand up.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and applies
// the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}

	// Single-writer sequential access; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply store schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AppendFailed(ctx context.Context, ev event.LoginEvent) error {
	return s.append(ctx, "failed_logins", ev)
}

func (s *SQLiteStore) AppendAccepted(ctx context.Context, ev event.LoginEvent) error {
	return s.append(ctx, "accepted_logins", ev)
}

func (s *SQLiteStore) append(ctx context.Context, table string, ev event.LoginEvent) error {
	id := ev.ID
	if id == "" {
		id = newEventID()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, ts, username, address, source_file)
		VALUES (?, ?, ?, ?, ?)
	`, table)

	_, err := s.db.ExecContext(ctx, query, id, ev.Timestamp, ev.Username, ev.Address, ev.SourceFile)
	if err != nil {
		return fmt.Errorf("failed to append login event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) TopFailedSources(ctx context.Context, limit int) ([]SourceCount, error) {
	query := `
		SELECT address, COUNT(*) AS attempts
		FROM failed_logins
		GROUP BY address
		ORDER BY attempts DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top failed sources: %w", err)
	}
	defer rows.Close()

	var out []SourceCount
	for rows.Next() {
		var sc SourceCount
		if err := rows.Scan(&sc.Address, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) TopTargetedUsers(ctx context.Context, limit int) ([]UserCount, error) {
	query := `
		SELECT username, COUNT(*) AS attempts
		FROM failed_logins
		GROUP BY username
		ORDER BY attempts DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query targeted users: %w", err)
	}
	defer rows.Close()

	var out []UserCount
	for rows.Next() {
		var uc UserCount
		if err := rows.Scan(&uc.Username, &uc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		out = append(out, uc)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) FailuresByHour(ctx context.Context) ([]HourCount, error) {
	// substr offsets match event.LoginEvent.Hour on the syslog layout.
	query := `
		SELECT substr(ts, 8, 2) AS hour, COUNT(*) AS attempts
		FROM failed_logins
		GROUP BY hour
		ORDER BY attempts DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly failures: %w", err)
	}
	defer rows.Close()

	var out []HourCount
	for rows.Next() {
		var hc HourCount
		if err := rows.Scan(&hc.Hour, &hc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan hour row: %w", err)
		}
		out = append(out, hc)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) IdentityScans(ctx context.Context) ([]IdentityScan, error) {
	query := `
		SELECT address, COUNT(DISTINCT username) AS usernames, COUNT(*) AS attempts
		FROM failed_logins
		GROUP BY address
		HAVING COUNT(DISTINCT username) > 1
		ORDER BY usernames DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query identity scans: %w", err)
	}
	defer rows.Close()

	var out []IdentityScan
	for rows.Next() {
		var is IdentityScan
		if err := rows.Scan(&is.Address, &is.Usernames, &is.Attempts); err != nil {
			return nil, fmt.Errorf("failed to scan identity-scan row: %w", err)
		}
		out = append(out, is)
	}
	return out, rows.Err()
}
