package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/telhawk-systems/authhawk/internal/event"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore backs the event store with PostgreSQL for deployments where
// several analysts share one store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to connString, runs the embedded migrations and
// verifies connectivity.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	if err := runMigrations(connString); err != nil {
		return nil, err
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// A batch CLI needs only a small pool.
	config.MaxConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func runMigrations(connString string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, connString)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) AppendFailed(ctx context.Context, ev event.LoginEvent) error {
	return s.append(ctx, "failed_logins", ev)
}

func (s *PostgresStore) AppendAccepted(ctx context.Context, ev event.LoginEvent) error {
	return s.append(ctx, "accepted_logins", ev)
}

func (s *PostgresStore) append(ctx context.Context, table string, ev event.LoginEvent) error {
	id := ev.ID
	if id == "" {
		id = newEventID()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, ts, username, address, source_file)
		VALUES ($1, $2, $3, $4, $5)
	`, table)

	_, err := s.pool.Exec(ctx, query, id, ev.Timestamp, ev.Username, ev.Address, ev.SourceFile)
	if err != nil {
		return fmt.Errorf("failed to append login event: %w", err)
	}
	return nil
}

func (s *PostgresStore) TopFailedSources(ctx context.Context, limit int) ([]SourceCount, error) {
	query := `
		SELECT address, COUNT(*) AS attempts
		FROM failed_logins
		GROUP BY address
		ORDER BY attempts DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
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

func (s *PostgresStore) TopTargetedUsers(ctx context.Context, limit int) ([]UserCount, error) {
	query := `
		SELECT username, COUNT(*) AS attempts
		FROM failed_logins
		GROUP BY username
		ORDER BY attempts DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
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

func (s *PostgresStore) FailuresByHour(ctx context.Context) ([]HourCount, error) {
	query := `
		SELECT substring(ts FROM 8 FOR 2) AS hour, COUNT(*) AS attempts
		FROM failed_logins
		GROUP BY hour
		ORDER BY attempts DESC
	`

	rows, err := s.pool.Query(ctx, query)
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

func (s *PostgresStore) IdentityScans(ctx context.Context) ([]IdentityScan, error) {
	query := `
		SELECT address, COUNT(DISTINCT username) AS usernames, COUNT(*) AS attempts
		FROM failed_logins
		GROUP BY address
		HAVING COUNT(DISTINCT username) > 1
		ORDER BY usernames DESC
	`

	rows, err := s.pool.Query(ctx, query)
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
