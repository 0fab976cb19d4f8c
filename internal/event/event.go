package event

import "strings"

// Outcome is the result of an authentication attempt.
type Outcome string

const (
	OutcomeFailed   Outcome = "failed"
	OutcomeAccepted Outcome = "accepted"
)

// timestampLen is the width of the syslog "MMM dd HH:MM:SS" prefix.
const timestampLen = 15

// LoginEvent is one classified authentication attempt extracted from a log
// line. Events are immutable once created and append-only in the store.
type LoginEvent struct {
	ID         string  `json:"id,omitempty"`
	Timestamp  string  `json:"timestamp"`
	Username   string  `json:"username"`
	Address    string  `json:"address"`
	SourceFile string  `json:"source_file"`
	Outcome    Outcome `json:"outcome"`

	// Raw is the originating log line, trimmed. Not persisted.
	Raw string `json:"-"`
}

// Timestamp extracts the fixed-width syslog timestamp prefix from a raw log
// line. The layout assumed is "MMM dd HH:MM:SS" (e.g. "Jan  2 15:04:05");
// shorter lines yield whatever prefix exists.
func Timestamp(line string) string {
	if len(line) < timestampLen {
		return line
	}
	return line[:timestampLen]
}

// Hour returns the two-digit hour component of the event timestamp, or ""
// when the timestamp is too short to carry one. Assumes the syslog layout
// above, where the hour occupies characters 7-8.
func (e LoginEvent) Hour() string {
	if len(e.Timestamp) < timestampLen {
		return ""
	}
	return e.Timestamp[7:9]
}

// RoutableAddress reports whether the extracted address looks like a real
// network address. The heuristic is deliberately weak: any token containing
// a '.' (IPv4, hostname) or ':' (IPv6) passes. Addresses failing the check
// are still stored and tallied by username, just excluded from the
// by-address failure tally.
func (e LoginEvent) RoutableAddress() bool {
	return strings.ContainsAny(e.Address, ".:")
}
