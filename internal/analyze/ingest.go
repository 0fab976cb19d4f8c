// Package analyze drives one ingestion pass: read lines, classify, feed the
// in-run aggregator and append to the durable store.
package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/telhawk-systems/authhawk/internal/aggregator"
	"github.com/telhawk-systems/authhawk/internal/classifier"
	"github.com/telhawk-systems/authhawk/internal/event"
	"github.com/telhawk-systems/authhawk/internal/logfile"
	"github.com/telhawk-systems/authhawk/internal/store"
)

// Stats summarize one ingested file.
type Stats struct {
	Lines    int
	Failed   int
	Accepted int
}

// Ingestor pushes classified events into both sinks. One Ingestor owns one
// store handle; several files ingested in sequence share it.
type Ingestor struct {
	store store.Store
	agg   *aggregator.Aggregator
	log   *slog.Logger
}

func NewIngestor(s store.Store, agg *aggregator.Aggregator, log *slog.Logger) *Ingestor {
	return &Ingestor{store: s, agg: agg, log: log}
}

// File ingests one log file. Unmatched lines are skipped; store write
// failures abort the pass so a run never reports success after a lost write.
func (i *Ingestor) File(ctx context.Context, path string) (Stats, error) {
	r, err := logfile.Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer r.Close()

	sourceFile := filepath.Base(path)

	var stats Stats
	for r.Scan() {
		stats.Lines++

		ev, ok := classifier.Classify(r.Text(), sourceFile)
		if !ok {
			continue
		}

		i.agg.Observe(ev)

		switch ev.Outcome {
		case event.OutcomeFailed:
			stats.Failed++
			err = i.store.AppendFailed(ctx, ev)
		case event.OutcomeAccepted:
			stats.Accepted++
			err = i.store.AppendAccepted(ctx, ev)
		}
		if err != nil {
			return stats, fmt.Errorf("failed to persist event from %s: %w", sourceFile, err)
		}
	}
	if err := r.Err(); err != nil {
		return stats, fmt.Errorf("failed reading %s: %w", sourceFile, err)
	}

	i.log.Info("ingested log file",
		slog.String("file", sourceFile),
		slog.Int("lines", stats.Lines),
		slog.Int("failed", stats.Failed),
		slog.Int("accepted", stats.Accepted),
	)

	return stats, nil
}
