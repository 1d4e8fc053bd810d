// Package iobenefit implements the benefit mining phase. It joins
// each plant's flower visitors against every other plant's herbivores
// through the predation index and caches the resulting biocontrol
// benefits in the plant_benefits table.
//
// The pairwise join is the heaviest computation in the pipeline, so
// it runs once over the candidate universe and the scorer reads the
// cached rows afterwards.
package iobenefit

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/permaguild/guilddb/pkg/biocontrol"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/db"
	"github.com/permaguild/guilddb/pkg/lifecycle"
)

// miner implements the BenefitMiner interface.
type miner struct {
	operator db.Operator
}

// NewMiner creates a new BenefitMiner.
func NewMiner(op db.Operator) lifecycle.BenefitMiner {
	return &miner{operator: op}
}

// MineBenefits rebuilds the plant_benefits table from the current
// organism profiles and enemy index. Earlier rows are replaced
// wholesale.
func (m *miner) MineBenefits(ctx context.Context, cfg *config.Config) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	slog.Info("Starting benefit mining", "jobs", cfg.JobsNumber)
	start := time.Now()

	gn.Info("(1/2) Loading profiles and predation edges...")
	profiles, err := loadProfiles(ctx, pool)
	if err != nil {
		return LoadError("organism profiles", err)
	}
	preyEdges, err := loadPreyEdges(ctx, pool)
	if err != nil {
		return LoadError("predation edges", err)
	}
	gn.Message("<em>Loaded %s plant profiles and %s predators</em>",
		humanize.Comma(int64(len(profiles))),
		humanize.Comma(int64(len(preyEdges))))

	gn.Info("(2/2) Mining and saving pair benefits...")
	if _, err := pool.Exec(ctx, "TRUNCATE plant_benefits"); err != nil {
		return SaveError(err)
	}

	batchSize := cfg.Database.BatchSize
	if batchSize <= 0 {
		batchSize = 50_000
	}
	total, err := minePairs(
		ctx, pool, biocontrol.NewMiner(preyEdges), profiles,
		cfg.JobsNumber, batchSize,
	)
	if err != nil {
		return MineError(err)
	}

	gn.Info(`Benefit mining complete
  Benefit pairs: %s
  Time: %s`,
		humanize.Comma(int64(total)),
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	slog.Info("Benefit mining finished", "pairs", total)
	return nil
}
