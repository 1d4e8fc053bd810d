package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/pkg/config"
)

// Operator manages the PostgreSQL connection shared by every lifecycle
// phase. The pipeline packages (schema manager, importer, profiler,
// miner, pair scorer) get the pool through it and run their own SQL;
// the operator itself only covers the connection and the operations the
// create and migrate commands need before any schema exists.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool. Pipeline components use
	// it for transactions, bulk loads with CopyFrom, and their own
	// queries. Nil until Connect succeeds.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the public schema.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables reports whether the public schema holds any tables at
	// all. The create command prompts before dropping when it does, and
	// the pipeline commands refuse to run when it does not.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables in the public schema. Used by
	// forced re-creation.
	DropAllTables(ctx context.Context) error

	// DropMaterializedViews drops all materialized views in the public
	// schema. Views block ALTER TABLE on the tables they read, so
	// migration drops them first and rebuilds afterwards.
	DropMaterializedViews(ctx context.Context) error

	// CreateMaterializedViews creates the materialized views. The
	// plant_summary view backs name search and the serving API; it is
	// rebuilt after profiles change.
	CreateMaterializedViews(ctx context.Context) error
}
