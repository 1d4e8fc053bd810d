// Package iodb implements the db.Operator contract on top of
// pgxpool. Every lifecycle phase and the serving API share one
// operator, and through it one connection pool.
package iodb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/db"
)

// pgxOperator implements db.Operator interface using
// pgxpool for connection pooling.
type pgxOperator struct {
	pool *pgxpool.Pool
}

// NewPgxOperator creates a new database operator
// (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// Connect establishes a connection pool to PostgreSQL and
// verifies it with a ping.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// The profile and pair pipelines run jobs_number workers
	// against this pool; workers beyond MaxConns queue in
	// Acquire rather than fail.
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2        // keep 2 connections warm
	poolConfig.MaxConnLifetime = 0 // no lifetime limit
	poolConfig.MaxConnIdleTime = 0 // no idle timeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	p.pool = pool
	return nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// Pool returns the underlying pgxpool.Pool. Nil until Connect
// succeeds.
func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// TableExists reports whether the named table exists in the
// public schema.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := p.pool.QueryRow(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}

	return exists, nil
}

// HasTables reports whether the public schema holds any
// tables. The create command uses it to decide whether a
// rebuild needs confirmation, the pipeline commands refuse to
// run on an empty database.
func (p *pgxOperator) HasTables(
	ctx context.Context,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
		)
	`

	var hasTables bool
	err := p.pool.QueryRow(ctx, query).Scan(&hasTables)
	if err != nil {
		return false, TableCheckError(err)
	}

	return hasTables, nil
}

// DropAllTables drops every table in the public schema with
// CASCADE. Backs the create command's forced rebuild.
func (p *pgxOperator) DropAllTables(ctx context.Context) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	query := `
		SELECT tablename
		FROM pg_tables
		WHERE schemaname = 'public'
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return QueryTablesError(err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return ScanTableError(err)
		}
		tables = append(tables, tableName)
	}

	if err := rows.Err(); err != nil {
		return ScanTableError(err)
	}

	for _, table := range tables {
		dropSQL := fmt.Sprintf(
			"DROP TABLE IF EXISTS %s CASCADE", table)
		if _, err := p.pool.Exec(ctx, dropSQL); err != nil {
			return DropTableError(table, err)
		}
	}

	return nil
}

// DropMaterializedViews drops every materialized view in the
// public schema. The profiles pipeline drops plant_summary
// before rewriting organism profiles and recreates it after,
// views block ALTER TABLE on the tables they read.
func (p *pgxOperator) DropMaterializedViews(
	ctx context.Context,
) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	query := `
		SELECT matviewname
		FROM pg_matviews
		WHERE schemaname = 'public'
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return QueryViewsError(err)
	}
	defer rows.Close()

	var views []string
	for rows.Next() {
		var viewName string
		if err := rows.Scan(&viewName); err != nil {
			return ScanViewError(err)
		}
		views = append(views, viewName)
	}

	if err := rows.Err(); err != nil {
		return ScanViewError(err)
	}

	for _, view := range views {
		dropSQL := fmt.Sprintf(
			"DROP MATERIALIZED VIEW IF EXISTS %s CASCADE", view)
		if _, err := p.pool.Exec(ctx, dropSQL); err != nil {
			return DropViewError(view, err)
		}
	}

	return nil
}

// CreateMaterializedViews creates all materialized views for
// the database. Currently creates the plant_summary view used
// by name search and the serving API.
func (p *pgxOperator) CreateMaterializedViews(
	ctx context.Context,
) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	// Create plant_summary materialized view
	viewSQL := `CREATE MATERIALIZED VIEW plant_summary AS
WITH role_counts AS (
	SELECT plant_id,
		COUNT(*) FILTER (WHERE role = 'pollinator') AS pollinators,
		COUNT(*) FILTER (WHERE role = 'visitor') AS visitors,
		COUNT(*) FILTER (WHERE role = 'herbivore') AS herbivores,
		COUNT(*) FILTER (WHERE role = 'pathogen') AS pathogens
	FROM organism_profiles
	GROUP BY plant_id
), guild_counts AS (
	SELECT plant_id,
		COUNT(*) FILTER (WHERE pathogenic) AS pathogenic_fungi,
		COUNT(*) FILTER (WHERE amf OR emf) AS mycorrhizal_fungi
	FROM fungal_guilds
	GROUP BY plant_id
)
SELECT p.id, p.scientific_name, p.family, p.genus,
	p.growth_form, p.height_m, p.csr_c, p.csr_s, p.csr_r,
	p.temp_q05, p.temp_q95, p.precip_q05, p.precip_q95,
	p.hardiness_q05, p.hardiness_q95,
	p.drought_days, p.frost_days,
	p.eive_light, p.soil_ph, p.nitrogen_rating,
	p.tip_label,
	COALESCE(rc.pollinators, 0) AS pollinators,
	COALESCE(rc.visitors, 0) AS visitors,
	COALESCE(rc.herbivores, 0) AS herbivores,
	COALESCE(rc.pathogens, 0) AS pathogens,
	COALESCE(gc.pathogenic_fungi, 0) AS pathogenic_fungi,
	COALESCE(gc.mycorrhizal_fungi, 0) AS mycorrhizal_fungi
FROM plants p
LEFT JOIN role_counts rc ON rc.plant_id = p.id
LEFT JOIN guild_counts gc ON gc.plant_id = p.id`

	if _, err := p.pool.Exec(ctx, viewSQL); err != nil {
		return CreateViewError("plant_summary", err)
	}

	// Create indexes on plant_summary view
	indexes := []string{
		"CREATE UNIQUE INDEX ON plant_summary (id)",
		"CREATE INDEX ON plant_summary (genus)",
		"CREATE INDEX ON plant_summary (family)",
		"CREATE INDEX ON plant_summary (LOWER(scientific_name))",
	}

	for _, idx := range indexes {
		if _, err := p.pool.Exec(ctx, idx); err != nil {
			return CreateViewIndexError("plant_summary", err)
		}
	}

	return nil
}
