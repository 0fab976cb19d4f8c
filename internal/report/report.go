// Package report renders aggregator and hunt outputs as the plain-text
// report. Section order is fixed; every section prints its own sentinel when
// it has nothing to show.
package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/telhawk-systems/authhawk/internal/aggregator"
	"github.com/telhawk-systems/authhawk/internal/hunt"
)

var headerColor = color.New(color.FgCyan, color.Bold)

// Renderer writes report sections to w.
type Renderer struct {
	w io.Writer
}

func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Summary renders the in-run aggregate sections: top failed sources,
// threshold-flagged suspicious sources, top targeted users and the recent
// successful logins. top caps the ranked lists; zero means hunt.TopLimit.
func (r *Renderer) Summary(agg *aggregator.Aggregator, threshold, top int) {
	if top <= 0 {
		top = hunt.TopLimit
	}

	r.header("Top Failed Login Sources")
	r.counts(agg.TopSources(top), "none")

	r.header(fmt.Sprintf("Suspicious Sources (>= %d failures)", threshold))
	r.counts(agg.Suspicious(threshold), "none")

	r.header("Users Targeted in Failures")
	r.counts(agg.TopUsers(top), "none")

	r.header("Recent Successful Logins")
	recent := agg.RecentSuccesses()
	if len(recent) == 0 {
		fmt.Fprintln(r.w, "none")
	}
	for _, line := range recent {
		fmt.Fprintln(r.w, line)
	}
}

// Findings renders the threat-hunting sections in their fixed order.
func (r *Renderer) Findings(f *hunt.Findings) {
	r.header("Brute Force Ranking")
	if len(f.BruteForce) == 0 {
		fmt.Fprintln(r.w, "no failed login activity recorded")
	}
	for _, sc := range f.BruteForce {
		fmt.Fprintf(r.w, "%s: %d\n", sc.Address, sc.Count)
	}

	r.header("Targeted Users")
	if len(f.TargetedUsers) == 0 {
		fmt.Fprintln(r.w, "no targeted users recorded")
	}
	for _, uc := range f.TargetedUsers {
		fmt.Fprintf(r.w, "%s: %d\n", uc.Username, uc.Count)
	}

	r.header("Failures by Hour")
	if len(f.ByHour) == 0 {
		fmt.Fprintln(r.w, "no hourly activity recorded")
	}
	for _, hc := range f.ByHour {
		fmt.Fprintf(r.w, "%s: %d\n", hc.Hour, hc.Count)
	}

	r.header("Multi-Identity Scans")
	if len(f.IdentityScans) == 0 {
		fmt.Fprintln(r.w, "no scanning behavior detected")
	}
	for _, is := range f.IdentityScans {
		fmt.Fprintf(r.w, "%s: %d usernames across %d attempts\n", is.Address, is.Usernames, is.Attempts)
	}
}

func (r *Renderer) header(title string) {
	headerColor.Fprintf(r.w, "\n=== %s ===\n", title)
}

func (r *Renderer) counts(cs []aggregator.Count, sentinel string) {
	if len(cs) == 0 {
		fmt.Fprintln(r.w, sentinel)
		return
	}
	for _, c := range cs {
		fmt.Fprintf(r.w, "%s: %d\n", c.Key, c.Count)
	}
}
