package store

import (
	"context"
	"fmt"
)

// Options selects and configures a store backend.
type Options struct {
	Type        string // "sqlite" or "postgres"
	SQLitePath  string
	PostgresURL string
}

// Open returns the configured backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Type {
	case "sqlite", "":
		return NewSQLiteStore(opts.SQLitePath)
	case "postgres":
		return NewPostgresStore(ctx, opts.PostgresURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Type)
	}
}
