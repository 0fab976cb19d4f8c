// Package hunt runs the threat-hunting aggregations over the event store.
// All four queries are read-only, so re-running them against an unchanged
// store yields identical results.
package hunt

import (
	"context"
	"fmt"
	"time"

	"github.com/telhawk-systems/authhawk/internal/store"
)

// TopLimit caps the ranked findings lists.
const TopLimit = 10

const queryTimeout = 5 * time.Second

// Findings collects the outputs of one hunt pass. Empty slices mean "nothing
// detected", never an error.
type Findings struct {
	// BruteForce ranks source addresses by failed-attempt volume.
	BruteForce []store.SourceCount `json:"brute_force"`
	// TargetedUsers ranks usernames by failed-attempt volume.
	TargetedUsers []store.UserCount `json:"targeted_users"`
	// ByHour is the hour-of-day distribution of failures.
	ByHour []store.HourCount `json:"by_hour"`
	// IdentityScans lists addresses that tried multiple distinct usernames.
	IdentityScans []store.IdentityScan `json:"identity_scans"`
}

// Engine executes the fixed query set against a Store.
type Engine struct {
	store store.Store
}

func NewEngine(s store.Store) *Engine {
	return &Engine{store: s}
}

// Run executes all four queries and returns the combined findings.
func (e *Engine) Run(ctx context.Context) (*Findings, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	brute, err := e.store.TopFailedSources(ctx, TopLimit)
	if err != nil {
		return nil, fmt.Errorf("brute-force ranking failed: %w", err)
	}

	users, err := e.store.TopTargetedUsers(ctx, TopLimit)
	if err != nil {
		return nil, fmt.Errorf("targeted-user ranking failed: %w", err)
	}

	hours, err := e.store.FailuresByHour(ctx)
	if err != nil {
		return nil, fmt.Errorf("hourly distribution failed: %w", err)
	}

	scans, err := e.store.IdentityScans(ctx)
	if err != nil {
		return nil, fmt.Errorf("identity-scan detection failed: %w", err)
	}

	return &Findings{
		BruteForce:    brute,
		TargetedUsers: users,
		ByHour:        hours,
		IdentityScans: scans,
	}, nil
}
