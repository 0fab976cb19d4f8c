// Package aggregator keeps the in-run view of classified events: failure
// tallies by source address and username, and a bounded buffer of recent
// successful logins. It is a cheap shadow of the event store, valid for one
// analysis run; the store remains the source of truth across runs.
package aggregator

import (
	"sort"

	"github.com/telhawk-systems/authhawk/internal/event"
)

// DefaultRecentCapacity bounds the recent-successes buffer.
const DefaultRecentCapacity = 10

// Count pairs a tally key with its occurrence count.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Aggregator consumes classified events in arrival order. It is owned by a
// single ingestion pass and needs no locking.
type Aggregator struct {
	byAddress map[string]int
	byUser    map[string]int

	// first-seen order, used as the tie-break for equal counts
	addrOrder []string
	userOrder []string

	recent   []string
	capacity int
}

func New() *Aggregator {
	return NewWithCapacity(DefaultRecentCapacity)
}

func NewWithCapacity(recentCapacity int) *Aggregator {
	if recentCapacity <= 0 {
		recentCapacity = DefaultRecentCapacity
	}
	return &Aggregator{
		byAddress: make(map[string]int),
		byUser:    make(map[string]int),
		capacity:  recentCapacity,
	}
}

// Observe consumes one classified event. Failed events bump the username
// tally always and the address tally only when the address passes the
// plausibility check; accepted events land in the recent-successes buffer,
// evicting the oldest entry at capacity.
func (a *Aggregator) Observe(ev event.LoginEvent) {
	switch ev.Outcome {
	case event.OutcomeFailed:
		if ev.RoutableAddress() {
			if _, seen := a.byAddress[ev.Address]; !seen {
				a.addrOrder = append(a.addrOrder, ev.Address)
			}
			a.byAddress[ev.Address]++
		}
		if _, seen := a.byUser[ev.Username]; !seen {
			a.userOrder = append(a.userOrder, ev.Username)
		}
		a.byUser[ev.Username]++
	case event.OutcomeAccepted:
		a.recent = append(a.recent, ev.Raw)
		if len(a.recent) > a.capacity {
			a.recent = a.recent[len(a.recent)-a.capacity:]
		}
	}
}

// TopSources returns up to n addresses by failure count, descending,
// first-seen order breaking ties.
func (a *Aggregator) TopSources(n int) []Count {
	return topN(a.byAddress, a.addrOrder, n)
}

// TopUsers returns up to n usernames by failure count, descending,
// first-seen order breaking ties.
func (a *Aggregator) TopUsers(n int) []Count {
	return topN(a.byUser, a.userOrder, n)
}

// Suspicious returns every address whose failure count meets or exceeds
// threshold, in first-seen order.
func (a *Aggregator) Suspicious(threshold int) []Count {
	var out []Count
	for _, addr := range a.addrOrder {
		if c := a.byAddress[addr]; c >= threshold {
			out = append(out, Count{Key: addr, Count: c})
		}
	}
	return out
}

// RecentSuccesses returns the buffered successful-login lines, oldest first.
func (a *Aggregator) RecentSuccesses() []string {
	out := make([]string, len(a.recent))
	copy(out, a.recent)
	return out
}

func topN(tally map[string]int, order []string, n int) []Count {
	out := make([]Count, 0, len(order))
	for _, k := range order {
		out = append(out, Count{Key: k, Count: tally[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
