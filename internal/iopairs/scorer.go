// Package iopairs precomputes the pairwise compatibility cache. Every
// unordered pair of profiled plants is scored with the same model the
// online commands use and cached in pair_scores, so pair lookups read
// one row instead of recomputing.
package iopairs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/permaguild/guilddb/internal/ioplants"
	"github.com/permaguild/guilddb/pkg/biocontrol"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/db"
	"github.com/permaguild/guilddb/pkg/lifecycle"
)

// scorer implements the PairScorer interface.
type scorer struct {
	operator db.Operator
	store    ioplants.Store
}

// NewScorer creates a new PairScorer.
func NewScorer(op db.Operator) lifecycle.PairScorer {
	return &scorer{operator: op, store: ioplants.New(op)}
}

// ScorePairs rebuilds the pair_scores cache for all profiled plants.
// Earlier entries are replaced wholesale.
func (s *scorer) ScorePairs(ctx context.Context, cfg *config.Config) error {
	pool := s.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	slog.Info("Starting pair scoring", "jobs", cfg.JobsNumber)
	start := time.Now()

	gn.Info("(1/2) Loading scoring inputs...")
	roster, err := s.store.Roster(ctx)
	if err != nil {
		return LoadError("the candidate roster", err)
	}
	if len(roster) == 0 {
		return LoadError("the candidate roster",
			fmt.Errorf("no plants carry organism profiles"))
	}
	members, err := s.store.Members(ctx, roster)
	if err != nil {
		return LoadError("scorer members", err)
	}
	benefits, err := s.store.Benefits(ctx, roster)
	if err != nil {
		return LoadError("plant benefits", err)
	}
	gn.Message("<em>Loaded %s members and %s benefit entries</em>",
		humanize.Comma(int64(len(members))),
		humanize.Comma(int64(countBenefits(benefits))))

	gn.Info("(2/2) Scoring and saving pairs...")
	if _, err := pool.Exec(ctx, "TRUNCATE pair_scores"); err != nil {
		return SaveError(err)
	}

	batchSize := cfg.Database.BatchSize
	if batchSize <= 0 {
		batchSize = 50_000
	}
	total, err := scorePairs(
		ctx, pool, members, benefits,
		cfg.JobsNumber, batchSize, time.Now(),
	)
	if err != nil {
		return SaveError(err)
	}

	gn.Info(`Pair scoring complete
  Candidates: %s plants
  Cached pairs: %s
  Time: %s`,
		humanize.Comma(int64(len(members))),
		humanize.Comma(int64(total)),
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	slog.Info("Pair scoring finished", "pairs", total)
	return nil
}

func countBenefits(benefits map[string]map[string]biocontrol.Benefit) int {
	var n int
	for _, helped := range benefits {
		n += len(helped)
	}
	return n
}
