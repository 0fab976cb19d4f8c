// Package classifier turns raw auth-log lines into classified login events.
package classifier

import (
	"regexp"
	"strings"

	"github.com/telhawk-systems/authhawk/internal/event"
)

var (
	failedRe   = regexp.MustCompile(`(?i)Failed\s+\S+\s+for\s+(?:invalid user\s+)?(\S+)\s+from\s+(\S+)`)
	acceptedRe = regexp.MustCompile(`(?i)Accepted\s+\S+\s+for\s+(\S+)\s+from\s+(\S+)`)
)

// Classify matches a single log line against the failed and accepted
// patterns, in that order, and returns the extracted event. A line that
// matches the failed pattern is never also tried as accepted. The second
// return is false when the line matches neither pattern; such lines are
// skipped, not errors.
func Classify(line, sourceFile string) (event.LoginEvent, bool) {
	line = strings.TrimSpace(line)

	if m := failedRe.FindStringSubmatch(line); m != nil {
		return newEvent(line, sourceFile, m[1], m[2], event.OutcomeFailed), true
	}
	if m := acceptedRe.FindStringSubmatch(line); m != nil {
		return newEvent(line, sourceFile, m[1], m[2], event.OutcomeAccepted), true
	}
	return event.LoginEvent{}, false
}

func newEvent(line, sourceFile, username, address string, outcome event.Outcome) event.LoginEvent {
	return event.LoginEvent{
		Timestamp:  event.Timestamp(line),
		Username:   username,
		Address:    address,
		SourceFile: sourceFile,
		Outcome:    outcome,
		Raw:        line,
	}
}
