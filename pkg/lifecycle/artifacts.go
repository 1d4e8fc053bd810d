package lifecycle

import (
	"context"

	"github.com/permaguild/guilddb/pkg/config"
)

// DistanceBuilder defines the interface for building the exact pairwise
// phylogenetic distance matrix over the reference roster.
//
// The build is resumable:
// - Work is split into row-block shards computed concurrently
// - Completed shards are kept on disk and skipped on restart
// - Shards are merged into a single flat float32 artifact at the end
type DistanceBuilder interface {
	// BuildDistances computes the Faith's PD distance matrix and writes
	// the distance artifact with its metadata sidecar.
	BuildDistances(ctx context.Context, cfg *config.Config) error
}

// Embedder defines the interface for producing the low-dimensional metric
// embedding of the distance matrix and for benchmarking the approximate
// recommender it enables against the exact oracle.
type Embedder interface {
	// Embed runs stress-minimizing MDS over the distance artifact and
	// writes the embedding artifact together with a sampled-correlation
	// quality report.
	Embed(ctx context.Context, cfg *config.Config) error

	// Benchmark compares recommendations from the embedding against the
	// exact distance oracle and reports overlap statistics.
	Benchmark(ctx context.Context, cfg *config.Config) error
}

// Verifier defines the interface for artifact integrity checks. It compares
// artifact fingerprints and dimensions against the current database state
// and the quality thresholds recorded at build time.
type Verifier interface {
	// Verify reports whether the distance and embedding artifacts are
	// present, well-formed and built from the current roster.
	Verify(ctx context.Context, cfg *config.Config) error
}
