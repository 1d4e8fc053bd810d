// Package iodistance builds the exact pairwise phylogenetic distance
// matrix over the reference roster. Work splits into row-block shards
// so an interrupted build resumes where it stopped, and the merged
// artifact is bit-identical however often the build restarts.
package iodistance

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
	"github.com/permaguild/guilddb/internal/ioartifact"
	"github.com/permaguild/guilddb/internal/iotree"
	"github.com/permaguild/guilddb/pkg/artifact"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/db"
	"github.com/permaguild/guilddb/pkg/lifecycle"
	"github.com/permaguild/guilddb/pkg/phylo"
)

// builder implements the DistanceBuilder interface.
type builder struct {
	operator db.Operator
}

// NewBuilder creates a new DistanceBuilder.
func NewBuilder(op db.Operator) lifecycle.DistanceBuilder {
	return &builder{operator: op}
}

// BuildDistances computes the Faith's PD distance matrix for every
// plant with a resolvable tree tip and writes the matrix artifact.
func (b *builder) BuildDistances(
	ctx context.Context,
	cfg *config.Config,
) error {
	pool := b.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	slog.Info("Starting distance build", "jobs", cfg.JobsNumber)
	start := time.Now()

	gn.Info("(1/3) Loading the phylogeny and resolving tips...")
	tree, fingerprint, err := iotree.Load(cfg)
	if err != nil {
		return err
	}
	resolver, err := iotree.ResolverFromDB(ctx, pool, tree)
	if err != nil {
		return err
	}
	roster := resolver.Roster()
	if len(roster) == 0 {
		return RosterError(fmt.Errorf("no plants resolve to tree tips"))
	}

	ids := make([]string, len(roster))
	leaves := make([]*phylo.Node, len(roster))
	for i, res := range roster {
		ids[i] = res.PlantID
		leaves[i] = res.Leaf
	}
	gn.Message("<em>Roster has %s plants with tree tips</em>",
		humanize.Comma(int64(len(ids))))

	gn.Info("(2/3) Computing row shards...")
	dir := config.ShardsDir(cfg.HomeDir)
	if err = gnsys.MakeDir(dir); err != nil {
		return ShardError(dir, err)
	}
	shards := planShards(len(ids), cfg.Database.BatchSize)
	computed, err := buildShards(ctx, leaves, shards, dir, cfg.JobsNumber)
	if err != nil {
		return BuildError(err)
	}
	if reused := len(shards) - computed; reused > 0 {
		gn.Message("<em>Reused %s complete shards from an earlier run</em>",
			humanize.Comma(int64(reused)))
	}

	gn.Info("(3/3) Merging shards into the matrix artifact...")
	data, err := mergeShards(dir, shards, len(ids))
	if err != nil {
		return MergeError(err)
	}
	m, err := artifact.NewMatrix(ids, fingerprint, data)
	if err != nil {
		return MergeError(err)
	}
	if err = ioartifact.SaveMatrix(cfg.HomeDir, m); err != nil {
		return err
	}
	if err = os.RemoveAll(dir); err != nil {
		slog.Warn("Cannot remove shard directory", "dir", dir, "error", err)
	}

	gn.Info(`Distance build complete
  Plants: %s
  Cells: %s
  Artifact: %s
  Time: %s`,
		humanize.Comma(int64(len(ids))),
		humanize.Comma(int64(len(data))),
		config.MatrixPath(cfg.HomeDir),
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	slog.Info("Distance build finished",
		"plants", len(ids),
		"shards", len(shards),
	)
	return nil
}
