package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telhawk-systems/authhawk/internal/event"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func failedEvent(ts, user, addr, file string) event.LoginEvent {
	return event.LoginEvent{
		Timestamp:  ts,
		Username:   user,
		Address:    addr,
		SourceFile: file,
		Outcome:    event.OutcomeFailed,
	}
}

func TestAppendAndTopFailedSources(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 03:12:45", "root", "203.0.113.5", "auth.log")))
	}
	require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 04:00:00", "root", "198.51.100.1", "auth.log")))

	top, err := s.TopFailedSources(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, SourceCount{Address: "203.0.113.5", Count: 3}, top[0])
	assert.Equal(t, SourceCount{Address: "198.51.100.1", Count: 1}, top[1])
}

func TestTopFailedSourcesLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		addr := fmt.Sprintf("10.0.0.%d", i)
		require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 03:00:00", "root", addr, "a.log")))
	}

	top, err := s.TopFailedSources(ctx, 10)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(top), 10)
}

func TestTopTargetedUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 03:00:00", "admin", "203.0.113.5", "a.log")))
	require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 03:00:10", "admin", "203.0.113.6", "a.log")))
	require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 03:00:20", "guest", "203.0.113.5", "a.log")))

	users, err := s.TopTargetedUsers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, UserCount{Username: "admin", Count: 2}, users[0])
	assert.Equal(t, UserCount{Username: "guest", Count: 1}, users[1])
}

func TestFailuresByHour(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 03:12:45", "root", "203.0.113.5", "a.log")))
	require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 03:59:01", "root", "203.0.113.6", "a.log")))
	require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 22:00:00", "root", "203.0.113.7", "a.log")))

	hours, err := s.FailuresByHour(ctx)
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Equal(t, HourCount{Hour: "03", Count: 2}, hours[0])
	assert.Equal(t, HourCount{Hour: "22", Count: 1}, hours[1])
}

func TestIdentityScans(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// one source, three distinct usernames
	for _, user := range []string{"admin", "root", "guest"} {
		require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 03:00:00", user, "203.0.113.5", "a.log")))
	}
	// single-username source must not appear
	require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 03:00:00", "root", "198.51.100.1", "a.log")))

	scans, err := s.IdentityScans(ctx)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, IdentityScan{Address: "203.0.113.5", Usernames: 3, Attempts: 3}, scans[0])
}

func TestQueriesIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 03:00:00", "admin", "203.0.113.5", "a.log")))
	require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 04:00:00", "root", "203.0.113.5", "a.log")))

	first, err := s.TopFailedSources(ctx, 10)
	require.NoError(t, err)
	second, err := s.TopFailedSources(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, first, second, "unchanged store must yield identical results")
}

func TestEmptyStoreQueriesReturnEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sources, err := s.TopFailedSources(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, sources)

	users, err := s.TopTargetedUsers(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, users)

	hours, err := s.FailuresByHour(ctx)
	require.NoError(t, err)
	assert.Empty(t, hours)

	scans, err := s.IdentityScans(ctx)
	require.NoError(t, err)
	assert.Empty(t, scans)
}

func TestAcceptedRowsDoNotFeedThreatQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ev := event.LoginEvent{
		Timestamp:  "Sep 14 07:00:00",
		Username:   "deploy",
		Address:    "198.51.100.7",
		SourceFile: "auth.log",
		Outcome:    event.OutcomeAccepted,
	}
	require.NoError(t, s.AppendAccepted(ctx, ev))

	sources, err := s.TopFailedSources(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, sources, "threat queries read the failed collection only")
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.AppendFailed(ctx, failedEvent("Sep 14 03:00:00", "root", "203.0.113.5", "a.log")))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	top, err := reopened.TopFailedSources(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 1, top[0].Count)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Type: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
