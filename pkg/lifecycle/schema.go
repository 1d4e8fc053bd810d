package lifecycle

import (
	"context"

	"github.com/permaguild/guilddb/pkg/config"
)

// SchemaManager creates and evolves the guild database schema. Both
// operations run GORM AutoMigrate over the models in pkg/schema and are
// idempotent, so re-running them on an up-to-date database is a no-op.
type SchemaManager interface {
	// Create builds the schema on an empty database and pins "C"
	// collation on the id and name columns, keeping roster order
	// independent of the server locale. The create command decides
	// beforehand whether existing tables get dropped.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate brings an existing schema up to the current models
	// without touching data. Columns AutoMigrate cannot change in
	// place surface as errors rather than silent drops.
	Migrate(ctx context.Context, cfg *config.Config) error
}
