// Package ioprofile implements the profile build phase. It mines the
// imported interaction edges into per-plant organism profiles, fungal
// guild memberships and the natural-enemy index, then rebuilds the
// plant summary view.
//
// The build runs two streaming passes over the interactions table.
// The first pass classifies organism-on-plant edges into roles and
// collects fungal observations; the second pass indexes enemies of
// the herbivores and pathogens the first pass found. Both passes
// canonicalize names with gnparser so records of the same organism
// aggregate under one spelling.
package ioprofile

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/db"
	"github.com/permaguild/guilddb/pkg/lifecycle"
	"github.com/permaguild/guilddb/pkg/organism"
	"github.com/permaguild/guilddb/pkg/parserpool"
)

// profiler implements the Profiler interface.
type profiler struct {
	operator db.Operator
}

// NewProfiler creates a new Profiler.
func NewProfiler(op db.Operator) lifecycle.Profiler {
	return &profiler{operator: op}
}

// BuildProfiles rebuilds the derived profile tables from the current
// interactions and fungal traits. Earlier derived rows are replaced
// wholesale; the build is deterministic for a given import.
func (p *profiler) BuildProfiles(ctx context.Context, cfg *config.Config) error {
	pool := p.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	slog.Info("Starting profile build", "jobs", cfg.JobsNumber)
	start := time.Now()

	pools := parserpool.NewPool(cfg.JobsNumber)
	defer pools.Close()

	gn.Info("(1/4) Loading fungal trait lookup...")
	traits, err := loadTraits(ctx, pool)
	if err != nil {
		return ClassifyError(err)
	}
	gn.Message("<em>Loaded %s fungal genera</em>",
		humanize.Comma(int64(len(traits))))

	gn.Info("(2/4) Mining organism profiles and fungal guilds...")
	profiles := organism.NewBuilder()
	fungal := organism.NewGuildBuilder(traits)
	err = streamEdges(ctx, pool, pools, cfg.JobsNumber, profileRelations(), false,
		func(e organism.Edge) {
			profiles.Add(e)
			fungal.Add(e)
		})
	if err != nil {
		return ExtractError(err)
	}
	recs := profiles.Finalize()
	guilds := fungal.Finalize()
	gn.Message("<em>Mined %s profile records and %s guild records</em>",
		humanize.Comma(int64(len(recs))), humanize.Comma(int64(len(guilds))))

	gn.Info("(3/4) Indexing natural enemies...")
	enemies := organism.NewEnemyBuilder(
		victimNames(recs, organism.RoleHerbivore),
		victimNames(recs, organism.RolePathogen),
	)
	err = streamEdges(ctx, pool, pools, cfg.JobsNumber, enemyRelations(), true,
		func(e organism.Edge) {
			enemies.Add(e)
		})
	if err != nil {
		return EnemiesError(err)
	}
	index := enemies.Finalize()
	gn.Message("<em>Indexed %s enemy relations</em>",
		humanize.Comma(int64(len(index))))

	gn.Info("(4/4) Saving derived tables...")
	batchSize := cfg.Database.BatchSize
	if batchSize <= 0 {
		batchSize = 50_000
	}
	if err := saveProfiles(ctx, pool, recs, batchSize); err != nil {
		return err
	}
	if err := saveGuilds(ctx, pool, guilds, batchSize); err != nil {
		return err
	}
	if err := saveEnemies(ctx, pool, index, batchSize); err != nil {
		return err
	}
	if err := p.rebuildSummary(ctx); err != nil {
		return err
	}

	gn.Info(`Profile build complete
  Profiles: %s
  Guilds: %s
  Enemies: %s
  Time: %s`,
		humanize.Comma(int64(len(recs))),
		humanize.Comma(int64(len(guilds))),
		humanize.Comma(int64(len(index))),
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	slog.Info("Profile build finished",
		"profiles", len(recs),
		"guilds", len(guilds),
		"enemies", len(index),
	)
	return nil
}

// victimNames collects the distinct organism names holding a role in
// the finished profiles. The enemy pass matches its targets against
// these sets, so both passes must canonicalize names the same way.
func victimNames(recs []organism.Record, role organism.Role) []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range recs {
		if rec.Role != role || seen[rec.OrganismName] {
			continue
		}
		seen[rec.OrganismName] = true
		names = append(names, rec.OrganismName)
	}
	return names
}
