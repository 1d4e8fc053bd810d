package lifecycle

import (
	"context"

	"github.com/permaguild/guilddb/pkg/config"
)

// Importer defines the interface for loading dataset snapshots into the
// database. Snapshots are SQLite archives (plants, interactions, fungal
// traits) fetched from a local directory or a URL; the phylogeny dataset is
// a Newick file whose location is registered but not loaded into tables.
//
// Import always replaces data:
// - Rows belonging to the imported dataset are deleted first
// - Fresh rows are streamed in via pgx CopyFrom
// - The datasets registry row is updated with version and record count
type Importer interface {
	// Import loads the datasets selected by cfg.Import.DatasetIDs. An
	// empty selection means all datasets from the registry.
	Import(ctx context.Context, cfg *config.Config) error
}

// Profiler defines the interface for mining raw interaction rows into
// per-plant organism profiles, fungal guild memberships, and the organism
// enemy indexes used by the benefit miner.
//
// Profile building always rebuilds from scratch:
// - Derived tables are truncated first
// - Profiles are recomputed from the current interactions and fungal traits
// - The plant summary materialized view is refreshed afterwards
type Profiler interface {
	// BuildProfiles derives organism profiles, fungal guilds and enemy
	// indexes from the imported interaction data.
	BuildProfiles(ctx context.Context, cfg *config.Config) error
}

// BenefitMiner defines the interface for cross-plant biocontrol mining.
// For every ordered plant pair it counts the distinct predators plant A
// supplies against plant B's herbivores, keeping a few example chains,
// and the analogous antagonist counts against plant B's pathogens.
type BenefitMiner interface {
	// MineBenefits rebuilds the plant_benefits table from organism
	// profiles and enemy indexes.
	MineBenefits(ctx context.Context, cfg *config.Config) error
}

// PairScorer defines the interface for precomputing pairwise compatibility
// entries. Scores for a bounded candidate set are computed with the same
// scorer the online commands use and cached in PostgreSQL for fast lookup.
type PairScorer interface {
	// ScorePairs rebuilds the pair_scores cache for the candidate roster.
	ScorePairs(ctx context.Context, cfg *config.Config) error
}
