// Package store is the durable, append-only record of classified login
// events. Every classified line becomes exactly one row, tagged with the
// originating file, so multiple log files can share one store without losing
// provenance. Ingestion is strictly additive: re-running the same file
// appends fresh rows (each with its own UUIDv7), it never deduplicates.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/telhawk-systems/authhawk/internal/event"
)

var ErrUnknownBackend = errors.New("unknown store backend")

// SourceCount is one address grouped with its failed-attempt count.
type SourceCount struct {
	Address string `json:"address"`
	Count   int    `json:"count"`
}

// UserCount is one username grouped with its failed-attempt count.
type UserCount struct {
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// HourCount is one hour-of-day bucket with its failed-attempt count. Hour is
// the two-digit substring of the syslog timestamp, as extracted by
// event.LoginEvent.Hour.
type HourCount struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// IdentityScan is one address that attempted more than one distinct
// username.
type IdentityScan struct {
	Address   string `json:"address"`
	Usernames int    `json:"usernames"`
	Attempts  int    `json:"attempts"`
}

// Store persists login events and serves the threat-hunting aggregations.
// Implementations are safe for single-writer sequential use; concurrent
// multi-process writers are out of scope.
type Store interface {
	AppendFailed(ctx context.Context, ev event.LoginEvent) error
	AppendAccepted(ctx context.Context, ev event.LoginEvent) error

	// TopFailedSources groups failed events by address, top limit by count
	// descending.
	TopFailedSources(ctx context.Context, limit int) ([]SourceCount, error)
	// TopTargetedUsers groups failed events by username, top limit by count
	// descending.
	TopTargetedUsers(ctx context.Context, limit int) ([]UserCount, error)
	// FailuresByHour groups failed events by hour of day, all buckets,
	// count descending.
	FailuresByHour(ctx context.Context) ([]HourCount, error)
	// IdentityScans returns addresses that tried more than one distinct
	// username, ordered by distinct-username count descending.
	IdentityScans(ctx context.Context) ([]IdentityScan, error)

	Close() error
}

func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
