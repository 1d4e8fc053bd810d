// Package ioembed projects the distance matrix artifact into a
// compact Euclidean space and measures how faithfully the projection
// stands in for the exact phylogeny. The embedding is what keeps
// guild scoring and recommendation interactive at flora scale.
package ioembed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/permaguild/guilddb/internal/ioartifact"
	"github.com/permaguild/guilddb/internal/iotree"
	"github.com/permaguild/guilddb/pkg/artifact"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/db"
	"github.com/permaguild/guilddb/pkg/lifecycle"
	"github.com/permaguild/guilddb/pkg/mds"
	"github.com/permaguild/guilddb/pkg/recommend"
)

// Tuning targets for the benchmark report. They describe what a
// healthy embedding reaches on the reference flora and are printed
// next to the measurements, never enforced.
const (
	targetOverlapPct = 60.0
	targetSpeedup    = 50.0
)

// embedder implements the Embedder interface.
type embedder struct {
	operator db.Operator
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(op db.Operator) lifecycle.Embedder {
	return &embedder{operator: op}
}

// Embed runs stress majorization over the distance artifact and
// writes the embedding artifact with its quality figures. The
// database is not touched; everything comes from the matrix file.
func (e *embedder) Embed(ctx context.Context, cfg *config.Config) error {
	slog.Info("Starting embedding build",
		"dims", cfg.Embed.Dims,
		"maxIter", cfg.Embed.MaxIter,
	)
	start := time.Now()

	gn.Info("(1/3) Loading the distance matrix...")
	m, err := ioartifact.LoadMatrix(cfg.HomeDir)
	if err != nil {
		return err
	}
	if m.N() <= cfg.Embed.Dims {
		return MatrixError(fmt.Errorf(
			"%d plants cannot span %d dimensions", m.N(), cfg.Embed.Dims,
		))
	}
	gn.Message("<em>Matrix covers %s plants</em>",
		humanize.Comma(int64(m.N())))

	if err = ctx.Err(); err != nil {
		return err
	}

	gn.Info("(2/3) Running stress majorization...")
	opts := mds.Options{
		MaxIter: cfg.Embed.MaxIter,
		Seed:    int64(cfg.Embed.Seed),
	}
	coords, stress, err := mds.Embed(distances{m: m}, cfg.Embed.Dims, opts)
	if err != nil {
		return ConvergenceError(err)
	}

	gn.Info("(3/3) Evaluating quality and saving the artifact...")
	data := flatten(coords)
	q := mds.EvaluateQuality(
		m.N(),
		m.At,
		embeddedDistance(data, cfg.Embed.Dims),
		cfg.Embed.SamplePairs,
		int64(cfg.Embed.Seed),
	)
	emb, err := artifact.NewEmbedding(
		m.Meta.RosterIDs, m.Fingerprint(), data,
		cfg.Embed.Dims, stress, q.PearsonR, q.Pairs,
	)
	if err != nil {
		return SaveError(err)
	}
	if err = ioartifact.SaveEmbedding(cfg.HomeDir, emb); err != nil {
		return err
	}
	reportQuality(q, cfg.Embed.MinCorrelation)

	gn.Info(`Embedding build complete
  Plants: %s
  Dimensions: %d
  Stress: %.4f
  Correlation: %.4f (%s)
  Artifact: %s
  Time: %s`,
		humanize.Comma(int64(m.N())),
		cfg.Embed.Dims,
		stress,
		q.PearsonR,
		q.Band(),
		config.EmbeddingPath(cfg.HomeDir),
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	slog.Info("Embedding build finished",
		"plants", m.N(),
		"stress", stress,
		"pearsonR", q.PearsonR,
	)
	return nil
}

// Benchmark replays recommendation queries against both the exact
// tree oracle and the embedding and reports how often the shortcut
// agrees with the truth, and how much faster it answers.
func (e *embedder) Benchmark(
	ctx context.Context,
	cfg *config.Config,
) error {
	pool := e.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	slog.Info("Starting recommender benchmark", "seed", cfg.Embed.Seed)
	start := time.Now()

	gn.Info("(1/2) Loading the embedding and the exact oracle...")
	emb, err := ioartifact.LoadEmbedding(cfg.HomeDir)
	if err != nil {
		return err
	}
	tree, _, err := iotree.Load(cfg)
	if err != nil {
		return err
	}
	resolver, err := iotree.ResolverFromDB(ctx, pool, tree)
	if err != nil {
		return err
	}
	exact := recommend.NewTreeOracle(resolver.Roster())
	approx := recommend.NewEmbeddingOracle(emb)
	roster := benchmarkRoster(exact, approx.Roster())
	gn.Message("<em>Both oracles cover %s plants</em>",
		humanize.Comma(int64(len(roster))))

	gn.Info("(2/2) Ranking sampled guilds with both oracles...")
	res, err := recommend.Benchmark(exact, approx, roster,
		recommend.BenchmarkConfig{Seed: int64(cfg.Embed.Seed)})
	if err != nil {
		return QualityError(err)
	}

	gn.Info(`Recommender benchmark complete
  Guilds: %d of size %d
  Pool: %d candidates, top %d by %s
  Mean overlap: %.1f%% (median %.1f%%, target %.0f%%)
  Top-1 accuracy: %.1f%%
  Mean query: %.3f ms exact, %.4f ms approximate
  Speedup: %.0fx (target %.0fx)
  Time: %s`,
		res.Guilds,
		res.GuildSize,
		res.CandidatePool,
		res.TopK,
		res.Strategy,
		res.MeanOverlapPct,
		res.MedianOverlapPct,
		targetOverlapPct,
		res.Top1AccuracyPct,
		res.MeanExactMs,
		res.MeanApproxMs,
		res.Speedup,
		targetSpeedup,
		gnfmt.TimeString(time.Since(start).Seconds()),
	)
	slog.Info("Recommender benchmark finished",
		"meanOverlapPct", res.MeanOverlapPct,
		"speedup", res.Speedup,
	)
	return nil
}

// reportQuality prints the sampled-correlation verdict. A weak
// correlation marks the artifact stale instead of failing the build;
// the operator decides between serving it and rerunning with more
// dimensions.
func reportQuality(q mds.Quality, minCorrelation float64) {
	gn.Message("<em>Sampled correlation %.4f over %s pairs: %s</em>",
		q.PearsonR, humanize.Comma(int64(q.Pairs)), q.Band())
	if q.PearsonR >= minCorrelation {
		return
	}
	gn.Warn(`Warning: correlation %.4f is below the acceptance threshold %.2f.
The artifact is saved, and <em>guilddb verify</em> will report it
stale. Rerun <em>guilddb embed</em> with more dimensions.`,
		q.PearsonR, minCorrelation)
	slog.Warn("Embedding quality below acceptance threshold",
		"pearsonR", q.PearsonR,
		"minCorrelation", minCorrelation,
	)
}

// benchmarkRoster keeps the embedded plants the exact oracle can also
// place. After a reimport the embedding may carry ids that no longer
// resolve, and those cannot be compared.
func benchmarkRoster(
	exact *recommend.TreeOracle,
	embedded []string,
) []string {
	roster := make([]string, 0, len(embedded))
	for _, id := range embedded {
		if exact.Has(id) {
			roster = append(roster, id)
		}
	}
	return roster
}
