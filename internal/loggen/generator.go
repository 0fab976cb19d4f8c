// Package loggen emits synthetic sshd auth-log lines for exercising the
// analyzer: a brute-force burst from a handful of sources, a
// credential-stuffing scan walking many usernames, background noise and a
// sprinkling of successful logins.
package loggen

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Options shape the generated traffic.
type Options struct {
	Lines int // total lines to emit
	Seed  int64
	Host  string
	Start time.Time
}

// Generator writes synthetic log lines.
type Generator struct {
	opts Options
	rng  *rand.Rand
	fake *gofakeit.Faker
}

func New(opts Options) *Generator {
	if opts.Lines <= 0 {
		opts.Lines = 200
	}
	if opts.Host == "" {
		opts.Host = "bastion"
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now().Add(-24 * time.Hour)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		opts: opts,
		rng:  rand.New(rand.NewSource(seed)),
		fake: gofakeit.New(seed),
	}
}

// Lines reports how many lines Write will emit, after defaulting.
func (g *Generator) Lines() int {
	return g.opts.Lines
}

// Write emits opts.Lines log lines to w, timestamps ascending.
func (g *Generator) Write(w io.Writer) error {
	bruteSource := g.fake.IPv4Address()
	scanSource := g.fake.IPv4Address()
	targetUser := g.fake.Username()

	ts := g.opts.Start
	for i := 0; i < g.opts.Lines; i++ {
		ts = ts.Add(time.Duration(1+g.rng.Intn(120)) * time.Second)

		var line string
		switch roll := g.rng.Intn(100); {
		case roll < 35:
			// brute force: one source hammering one account
			line = g.failedLine(ts, targetUser, bruteSource, false)
		case roll < 60:
			// identity scan: one source walking usernames
			line = g.failedLine(ts, g.fake.Username(), scanSource, true)
		case roll < 85:
			// background failures from scattered sources
			line = g.failedLine(ts, g.fake.Username(), g.fake.IPv4Address(), g.rng.Intn(2) == 0)
		default:
			line = g.acceptedLine(ts, g.fake.Username(), g.fake.IPv4Address())
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write log line: %w", err)
		}
	}
	return nil
}

func (g *Generator) failedLine(ts time.Time, user, source string, invalid bool) string {
	prefix := ""
	if invalid {
		prefix = "invalid user "
	}
	return fmt.Sprintf("%s %s sshd[%d]: Failed password for %s%s from %s port %d ssh2",
		ts.Format(time.Stamp), g.opts.Host, g.pid(), prefix, user, source, g.port())
}

func (g *Generator) acceptedLine(ts time.Time, user, source string) string {
	method := "password"
	if g.rng.Intn(2) == 0 {
		method = "publickey"
	}
	return fmt.Sprintf("%s %s sshd[%d]: Accepted %s for %s from %s port %d ssh2",
		ts.Format(time.Stamp), g.opts.Host, g.pid(), method, user, source, g.port())
}

func (g *Generator) pid() int {
	return 1000 + g.rng.Intn(60000)
}

func (g *Generator) port() int {
	return 1024 + g.rng.Intn(65535-1024)
}
