// Package ioimport implements the dataset import phase. It reads the
// SQLite snapshots named by the dataset registry and bulk-loads their
// tables into PostgreSQL.
// This is an impure I/O package that fetches snapshot files and
// performs COPY-based inserts.
package ioimport

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/internal/iodatasets"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/datasets"
	"github.com/permaguild/guilddb/pkg/db"
	"github.com/permaguild/guilddb/pkg/lifecycle"
)

// importer implements the Importer interface.
type importer struct {
	operator db.Operator
}

// NewImporter creates a new Importer.
func NewImporter(op db.Operator) lifecycle.Importer {
	return &importer{operator: op}
}

// Import loads the registered dataset snapshots into the database.
// Each dataset runs through three steps: locate and fetch the
// snapshot, bulk-load its table, record its metadata. A failing
// dataset is logged and skipped so one bad snapshot does not block
// the rest.
func (imp *importer) Import(ctx context.Context, cfg *config.Config) error {
	pool := imp.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	start := time.Now()
	slog.Info("Starting dataset import")

	registry, err := iodatasets.New(cfg).Load()
	if err != nil {
		return err
	}

	toImport, err := collectDatasets(registry, cfg.Import.DatasetIDs)
	if err != nil {
		return err
	}

	if err = imp.importDatasets(ctx, cfg, toImport, start); err != nil {
		return err
	}

	if p := registry.Phylogeny.Parent; p != "" {
		if err = upsertPhylogeny(ctx, pool, p); err != nil {
			return MetadataError(datasets.PhylogenyID, err)
		}
	}

	return nil
}

// collectDatasets filters the registry to the requested dataset ids.
// An empty filter selects everything.
func collectDatasets(
	registry *datasets.RegistryConfig,
	ids []int,
) ([]datasets.DatasetConfig, error) {
	if len(ids) == 0 {
		slog.Info("Importing all registered datasets",
			"count", len(registry.Datasets))
		return registry.Datasets, nil
	}

	wanted := make(map[int]bool)
	for _, id := range ids {
		wanted[id] = true
	}

	var toImport []datasets.DatasetConfig
	for _, ds := range registry.Datasets {
		if wanted[ds.ID] {
			toImport = append(toImport, ds)
		}
	}

	if len(toImport) == 0 {
		return nil, NoDatasetsError(ids)
	}

	word := "dataset"
	if len(toImport) > 1 {
		word += "s"
	}
	gn.Info("Importing %d %s", len(toImport), word)

	return toImport, nil
}

func (imp *importer) importDatasets(
	ctx context.Context,
	cfg *config.Config,
	toImport []datasets.DatasetConfig,
	start time.Time,
) error {
	successCount := 0
	errorCount := 0

	for i, ds := range toImport {
		dsStart := time.Now()

		fmt.Println() // Blank line between datasets
		fmt.Println(strings.Repeat("─", 60))
		gn.Info("Dataset [%d]: %s", ds.ID, ds.TitleShort)
		fmt.Println(strings.Repeat("─", 60))

		slog.Info("Importing dataset",
			"index", i+1,
			"total", len(toImport),
			"dataset_id", ds.ID,
			"kind", ds.Kind,
			"title", ds.TitleShort,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := imp.importDataset(ctx, cfg, ds)
		if err != nil {
			errorCount++
			slog.Error("Failed to import dataset",
				"dataset_id", ds.ID,
				"title", ds.TitleShort,
				"error", err,
			)
			// Continue with the next dataset instead of failing
			continue
		}

		successCount++
		dsDuration := time.Since(dsStart)
		slog.Info("Dataset imported",
			"dataset_id", ds.ID,
			"title", ds.TitleShort,
			"duration", gnfmt.TimeString(dsDuration.Seconds()),
		)
		gn.Info("Completed in %s", gnfmt.TimeString(dsDuration.Seconds()))
	}

	totalDuration := time.Since(start)
	slog.Info("Import complete",
		"success", successCount,
		"errors", errorCount,
		"total", len(toImport),
		"duration", gnfmt.TimeString(totalDuration.Seconds()),
	)
	gn.Info(`Import complete
Datasets succeeded: %d, failed: %d, total: %d.
Elapsed time: <em>%s</em>
`,
		successCount,
		errorCount,
		len(toImport),
		gnfmt.TimeString(totalDuration.Seconds()),
	)

	if errorCount > 0 && successCount == 0 {
		return AllDatasetsFailedError(errorCount)
	}

	if errorCount > 0 {
		slog.Warn("Some datasets failed to import",
			"failed", errorCount,
			"succeeded", successCount)
	}

	return nil
}

// importDataset runs a single dataset through all import steps.
func (imp *importer) importDataset(
	ctx context.Context,
	cfg *config.Config,
	ds datasets.DatasetConfig,
) error {
	location, warning, err := resolveSnapshot(ds.Parent, ds.ID)
	if err != nil {
		return ResolveError(ds.ID, ds.Parent, err)
	}
	if warning != "" {
		slog.Warn(warning)
	}

	meta := datasets.ParseFilename(location)
	gn.Info("(1/3) Fetching snapshot <em>%s</em>", filepath.Base(location))
	slog.Info("Resolved snapshot",
		"dataset_id", ds.ID,
		"location", location,
		"version", meta.Version,
		"date", meta.RevisionDate)

	sqlitePath, err := fetchSnapshot(location, config.CacheDir(cfg.HomeDir))
	if err != nil {
		return FetchError(location, err)
	}

	snap, err := openSnapshot(sqlitePath)
	if err != nil {
		return OpenError(sqlitePath, err)
	}
	defer snap.Close()
	gn.Message("<em>Prepared snapshot for import</em>")

	pool := imp.operator.Pool()
	batchSize := cfg.Database.BatchSize

	gn.Info("(2/3) Importing %s...", ds.Kind)
	var records int
	switch ds.Kind {
	case datasets.KindPlants:
		records, err = importPlants(ctx, pool, snap, batchSize)
		if err != nil {
			return PlantsError(ds.ID, err)
		}
	case datasets.KindInteractions:
		records, err = importInteractions(ctx, pool, snap, batchSize)
		if err != nil {
			return InteractionsError(ds.ID, err)
		}
	case datasets.KindFungalTraits:
		records, err = importFungalTraits(ctx, pool, snap, batchSize)
		if err != nil {
			return FungalTraitsError(ds.ID, err)
		}
	default:
		// Load validates kinds, this is unreachable with a loaded registry.
		return fmt.Errorf("dataset %d has unknown kind %q", ds.ID, ds.Kind)
	}
	gn.Message("<em>Imported %s records</em>", humanize.Comma(int64(records)))

	gn.Info("(3/3) Recording dataset metadata...")
	info, err := readSnapshotInfo(snap)
	if err != nil {
		return MetadataError(ds.ID, err)
	}
	if err = upsertDataset(ctx, pool, ds, meta, info, location, records); err != nil {
		return MetadataError(ds.ID, err)
	}

	slog.Info("Dataset import complete", "dataset_id", ds.ID)

	return nil
}

// snapshotCount returns the row count of a snapshot table, used to
// size the progress bars.
func snapshotCount(snap *sql.DB, table string) (int, error) {
	var count int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := snap.QueryRow(q).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count snapshot %s: %w", table, err)
	}
	return count, nil
}

// copyRows bulk-inserts one batch of rows using pgx CopyFrom.
func copyRows(
	ctx context.Context,
	pool *pgxpool.Pool,
	table string,
	columns []string,
	rows [][]any,
) error {
	_, err := pool.CopyFrom(
		ctx,
		pgx.Identifier{table},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return CopyError(table, err)
	}

	return nil
}
