// subset-snapshot extracts a representative subset from full-size
// dataset snapshots.
//
// This tool creates smaller test snapshots that preserve:
//   - Edge cases (plants without interactions, missing climate
//     quantiles, unresolved phylogeny tips)
//   - Cross-file consistency (interactions point at kept plants,
//     fungal traits cover the kept fungal partners)
//   - Representative sampling across the interaction-rich plants
//
// The outputs keep the snapshot schema and naming convention, so they
// drop into testdata and import like the real files.
//
// Usage:
//
//	go run . <plants.sqlite> <interactions.sqlite> <fungal-traits.sqlite> <output-dir>
//
// Examples:
//
//	go run . ~/snapshots/0001_plants_2025-06-01.sqlite ~/snapshots/0002_interactions_2025-06-01.sqlite ~/snapshots/0003_fungal-traits_2025-06-01.sqlite ../../internal/ioimport/testdata
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// Configuration constants
const (
	// Target number of plants to keep
	targetPlants = 300

	// Minimum records to include from each edge case category
	minEdgeCaseRecords = 25

	// SQLite has a ~999 variable limit, stay under it
	batchSize = 900
)

func main() {
	if len(os.Args) != 5 {
		fmt.Fprintf(os.Stderr,
			"Usage: %s <plants.sqlite> <interactions.sqlite> <fungal-traits.sqlite> <output-dir>\n\n",
			os.Args[0])
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  plants.sqlite         full plants snapshot\n")
		fmt.Fprintf(os.Stderr, "  interactions.sqlite   full interactions snapshot\n")
		fmt.Fprintf(os.Stderr, "  fungal-traits.sqlite  full fungal traits snapshot\n")
		fmt.Fprintf(os.Stderr, "  output-dir            directory for the subset files\n")
		os.Exit(1)
	}

	plantsPath := os.Args[1]
	interactionsPath := os.Args[2]
	fungiPath := os.Args[3]
	outDir := os.Args[4]

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()

	logger.Info("starting snapshot subset extraction",
		"plants", plantsPath,
		"interactions", interactionsPath,
		"fungal_traits", fungiPath,
		"target_plants", targetPlants,
		"output", outDir,
	)

	err := createSubset(ctx, logger, plantsPath, interactionsPath, fungiPath, outDir)
	if err != nil {
		logger.Error("subset extraction failed", "error", err)
		os.Exit(1)
	}

	logger.Info("subset extraction complete", "output", outDir)
}

// createSubset selects a representative plant set and copies the
// matching rows of all three snapshots into new files.
//
//  1. Pick the most connected plants from the interaction edge list
//  2. Add edge-case plants: no interactions, missing climate, fungal
//     partners, unresolved phylogeny tips
//  3. Complete genera so the tip-label genus fallback stays exercised
//  4. Copy plants, then the interactions pointing at them, then the
//     fungal traits their interactions reference
func createSubset(
	ctx context.Context,
	logger *slog.Logger,
	plantsPath, interactionsPath, fungiPath, outDir string,
) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	plantsDB, err := sql.Open("sqlite", plantsPath)
	if err != nil {
		return fmt.Errorf("failed to open plants snapshot: %w", err)
	}
	defer plantsDB.Close()

	interDB, err := sql.Open("sqlite", interactionsPath)
	if err != nil {
		return fmt.Errorf("failed to open interactions snapshot: %w", err)
	}
	defer interDB.Close()

	// Phase 1: most connected plants carry the interesting guild
	// structure, take them first
	connected, err := queryConnectedPlants(ctx, logger, interDB, targetPlants)
	if err != nil {
		return fmt.Errorf("failed to query connected plants: %w", err)
	}

	plantSet := make(map[string]bool)
	for _, id := range connected {
		plantSet[id] = true
	}

	// Phase 2: edge cases. Each query may come back short on small
	// sources, that's fine.
	fungalHosts, err := queryFungalHosts(ctx, logger, interDB, minEdgeCaseRecords)
	if err != nil {
		logger.Warn("could not query fungal hosts", "error", err)
	}
	for _, id := range fungalHosts {
		plantSet[id] = true
	}

	lonely, err := queryUnconnectedPlants(
		ctx, logger, plantsDB, interDB, minEdgeCaseRecords,
	)
	if err != nil {
		logger.Warn("could not query unconnected plants", "error", err)
	}
	for _, id := range lonely {
		plantSet[id] = true
	}

	noClimate, err := queryMissingClimate(ctx, logger, plantsDB, minEdgeCaseRecords)
	if err != nil {
		logger.Warn("could not query plants without climate", "error", err)
	}
	for _, id := range noClimate {
		plantSet[id] = true
	}

	unlabeled, err := queryUnlabeledPlants(ctx, logger, plantsDB, minEdgeCaseRecords)
	if err != nil {
		logger.Warn("could not query unlabeled plants", "error", err)
	}
	for _, id := range unlabeled {
		plantSet[id] = true
	}

	logger.Info("initial plant selection", "count", len(plantSet))

	// Phase 3: for every selected plant without a tip label, keep one
	// congener that has one, so the genus fallback resolves in tests
	if err := addCongeners(ctx, logger, plantsDB, plantSet); err != nil {
		logger.Warn("could not complete genera", "error", err)
	}

	plantIDs := make([]string, 0, len(plantSet))
	for id := range plantSet {
		plantIDs = append(plantIDs, id)
	}
	logger.Info("total plants selected", "count", len(plantIDs))

	// Phase 4: copy rows into the three output snapshots
	plantsOut := filepath.Join(outDir, "0001_plants-subset.sqlite")
	count, err := copyByColumn(
		ctx, logger, plantsPath, plantsOut, "plants", "id", plantIDs,
	)
	if err != nil {
		return fmt.Errorf("failed to copy plants: %w", err)
	}
	logger.Info("plants copied", "count", count, "output", plantsOut)

	interOut := filepath.Join(outDir, "0002_interactions-subset.sqlite")
	count, err = copyByColumn(
		ctx, logger, interactionsPath, interOut,
		"interactions", "target_plant_id", plantIDs,
	)
	if err != nil {
		return fmt.Errorf("failed to copy interactions: %w", err)
	}
	logger.Info("interactions copied", "count", count, "output", interOut)

	// The fungal lookup only needs the genera the kept interactions
	// mention
	genera, err := queryKeptFungalGenera(ctx, logger, interOut)
	if err != nil {
		return fmt.Errorf("failed to collect fungal genera: %w", err)
	}

	fungiOut := filepath.Join(outDir, "0003_fungal-traits-subset.sqlite")
	count, err = copyByColumn(
		ctx, logger, fungiPath, fungiOut,
		"fungal_traits", "lower(genus)", genera,
	)
	if err != nil {
		return fmt.Errorf("failed to copy fungal traits: %w", err)
	}
	logger.Info("fungal traits copied", "count", count, "output", fungiOut)

	return nil
}

// queryConnectedPlants returns the plant ids with the most interaction
// rows, the plants whose profiles carry real signal.
func queryConnectedPlants(
	ctx context.Context,
	logger *slog.Logger,
	db *sql.DB,
	limit int,
) ([]string, error) {
	query := `
		SELECT target_plant_id
		FROM interactions
		WHERE target_plant_id IS NOT NULL AND target_plant_id != ''
		GROUP BY target_plant_id
		ORDER BY COUNT(*) DESC
		LIMIT ?
	`

	ids, err := collectIDs(ctx, db, query, limit)
	if err != nil {
		return nil, err
	}

	logger.Info("queried connected plants", "requested", limit, "found", len(ids))
	return ids, nil
}

// queryFungalHosts returns plants with fungal interaction partners, so
// the subset exercises the fungal guild classification.
func queryFungalHosts(
	ctx context.Context,
	logger *slog.Logger,
	db *sql.DB,
	limit int,
) ([]string, error) {
	query := `
		SELECT DISTINCT target_plant_id
		FROM interactions
		WHERE source_kingdom = 'Fungi'
		  AND target_plant_id IS NOT NULL AND target_plant_id != ''
		LIMIT ?
	`

	ids, err := collectIDs(ctx, db, query, limit)
	if err != nil {
		return nil, err
	}

	logger.Info("queried fungal hosts", "requested", limit, "found", len(ids))
	return ids, nil
}

// queryUnconnectedPlants returns plants that appear in no interaction
// row at all. Scoring such plants triggers the sparse-data warnings,
// so tests need a few.
func queryUnconnectedPlants(
	ctx context.Context,
	logger *slog.Logger,
	plantsDB, interDB *sql.DB,
	limit int,
) ([]string, error) {
	// The two tables live in different snapshot files, subtract the
	// connected set in memory.
	all, err := collectIDs(ctx, plantsDB, `SELECT id FROM plants`, -1)
	if err != nil {
		return nil, err
	}

	connected, err := collectIDs(ctx, interDB, `
		SELECT DISTINCT target_plant_id
		FROM interactions
		WHERE target_plant_id IS NOT NULL AND target_plant_id != ''
	`, -1)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(connected))
	for _, id := range connected {
		seen[id] = true
	}

	var ids []string
	for _, id := range all {
		if seen[id] {
			continue
		}
		ids = append(ids, id)
		if len(ids) == limit {
			break
		}
	}

	logger.Info("queried unconnected plants", "requested", limit, "found", len(ids))
	return ids, nil
}

// queryMissingClimate returns plants without climate quantiles. They
// exercise the incomplete-climate path of the compatibility gate.
func queryMissingClimate(
	ctx context.Context,
	logger *slog.Logger,
	db *sql.DB,
	limit int,
) ([]string, error) {
	query := `
		SELECT id
		FROM plants
		WHERE temp_q05 IS NULL OR precip_q05 IS NULL
		LIMIT ?
	`

	ids, err := collectIDs(ctx, db, query, limit)
	if err != nil {
		return nil, err
	}

	logger.Info("queried plants without climate", "requested", limit, "found", len(ids))
	return ids, nil
}

// queryUnlabeledPlants returns plants without a phylogeny tip label.
// They exercise the genus fallback of the tree resolver.
func queryUnlabeledPlants(
	ctx context.Context,
	logger *slog.Logger,
	db *sql.DB,
	limit int,
) ([]string, error) {
	query := `
		SELECT id
		FROM plants
		WHERE tip_label IS NULL OR tip_label = ''
		LIMIT ?
	`

	ids, err := collectIDs(ctx, db, query, limit)
	if err != nil {
		return nil, err
	}

	logger.Info("queried unlabeled plants", "requested", limit, "found", len(ids))
	return ids, nil
}

// addCongeners adds, for every selected plant without a tip label, one
// plant of the same genus that has one. The genus fallback can only
// resolve when a labeled congener is present.
func addCongeners(
	ctx context.Context,
	logger *slog.Logger,
	db *sql.DB,
	plantSet map[string]bool,
) error {
	initial := make([]string, 0, len(plantSet))
	for id := range plantSet {
		initial = append(initial, id)
	}

	added := 0
	for _, id := range initial {
		var genus sql.NullString
		err := db.QueryRowContext(ctx, `
			SELECT genus FROM plants
			WHERE id = ? AND (tip_label IS NULL OR tip_label = '')
		`, id).Scan(&genus)
		if err == sql.ErrNoRows {
			// Labeled plant, nothing to complete
			continue
		}
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		if !genus.Valid || genus.String == "" {
			continue
		}

		var congener string
		err = db.QueryRowContext(ctx, `
			SELECT id FROM plants
			WHERE genus = ? AND tip_label IS NOT NULL AND tip_label != ''
			LIMIT 1
		`, genus.String).Scan(&congener)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}

		if !plantSet[congener] {
			plantSet[congener] = true
			added++
		}
	}

	logger.Info("genera completed", "congeners_added", added)
	return nil
}

// queryKeptFungalGenera collects the lowercase fungal genera the kept
// interactions mention, the keys the fungal traits lookup joins on.
func queryKeptFungalGenera(
	ctx context.Context,
	logger *slog.Logger,
	subsetPath string,
) ([]string, error) {
	db, err := sql.Open("sqlite", subsetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open subset: %w", err)
	}
	defer db.Close()

	genera, err := collectIDs(ctx, db, `
		SELECT DISTINCT lower(source_genus)
		FROM interactions
		WHERE source_kingdom = 'Fungi'
		  AND source_genus IS NOT NULL AND source_genus != ''
	`, -1)
	if err != nil {
		return nil, err
	}

	logger.Info("collected fungal genera", "count", len(genera))
	return genera, nil
}

// collectIDs runs a single-column query and returns the non-empty
// values. A negative limit means the query takes no limit argument.
func collectIDs(
	ctx context.Context,
	db *sql.DB,
	query string,
	limit int,
) ([]string, error) {
	var rows *sql.Rows
	var err error
	if limit < 0 {
		rows, err = db.QueryContext(ctx, query)
	} else {
		rows, err = db.QueryContext(ctx, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id sql.NullString
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if id.Valid && id.String != "" {
			ids = append(ids, id.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return ids, nil
}

// copyByColumn creates the output snapshot and copies the rows of
// table whose keyExpr value is in keys. The source file is attached to
// the output database, the table schema is replayed from its
// sqlite_master row, and rows are inserted in batches to stay under
// the SQLite variable limit.
func copyByColumn(
	ctx context.Context,
	logger *slog.Logger,
	sourcePath, outPath, table, keyExpr string,
	keys []string,
) (int, error) {
	// Remove output from a previous run
	if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("failed to remove existing output: %w", err)
	}

	outDB, err := sql.Open("sqlite", outPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output database: %w", err)
	}
	defer outDB.Close()

	_, err = outDB.ExecContext(ctx,
		fmt.Sprintf("ATTACH DATABASE '%s' AS source", sourcePath))
	if err != nil {
		return 0, fmt.Errorf("failed to attach source database: %w", err)
	}
	defer outDB.ExecContext(ctx, "DETACH DATABASE source")

	if err := replaySchema(ctx, outDB, table); err != nil {
		return 0, err
	}

	totalCount := 0
	for i := 0; i < len(keys); i += batchSize {
		end := i + batchSize
		if end > len(keys) {
			end = len(keys)
		}
		batch := keys[i:end]

		query := fmt.Sprintf(
			"INSERT OR IGNORE INTO %s SELECT * FROM source.%s WHERE %s IN (%s)",
			table, table, keyExpr, buildPlaceholders(len(batch)),
		)

		args := make([]interface{}, len(batch))
		for j, key := range batch {
			args[j] = key
		}

		result, err := outDB.ExecContext(ctx, query, args...)
		if err != nil {
			return totalCount, fmt.Errorf("failed to copy %s records: %w",
				table, err)
		}

		count, _ := result.RowsAffected()
		totalCount += int(count)
	}

	if err := copySnapshotInfo(ctx, outDB, totalCount); err != nil {
		logger.Warn("could not copy snapshot metadata",
			"table", table, "error", err)
	}

	return totalCount, nil
}

// replaySchema executes the CREATE statements of the table and its
// indexes from the attached source. Auto-indexes carry no SQL and are
// skipped.
func replaySchema(ctx context.Context, db *sql.DB, table string) error {
	rows, err := db.QueryContext(ctx, `
		SELECT sql FROM source.sqlite_master
		WHERE tbl_name = ? AND sql IS NOT NULL
		ORDER BY CASE type WHEN 'table' THEN 0 ELSE 1 END
	`, table)
	if err != nil {
		return fmt.Errorf("failed to read source schema: %w", err)
	}
	defer rows.Close()

	var stmts []string
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return fmt.Errorf("failed to scan schema row: %w", err)
		}
		stmts = append(stmts, stmt)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("schema rows iteration failed: %w", err)
	}
	if len(stmts) == 0 {
		return fmt.Errorf("table %s not found in source", table)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to replay schema: %w", err)
		}
	}
	return nil
}

// copySnapshotInfo copies the snapshot metadata row, marking the title
// as a subset. Sources without a snapshot_info table are left alone.
func copySnapshotInfo(ctx context.Context, db *sql.DB, kept int) error {
	var name string
	err := db.QueryRowContext(ctx, `
		SELECT name FROM source.sqlite_master
		WHERE type = 'table' AND name = 'snapshot_info'
	`).Scan(&name)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check snapshot_info: %w", err)
	}

	if err := replaySchema(ctx, db, "snapshot_info"); err != nil {
		return err
	}

	note := fmt.Sprintf("Subset of %d records extracted for testing. ", kept)
	_, err = db.ExecContext(ctx, `
		INSERT INTO snapshot_info
			(title, description, version, revision_date, home_url)
		SELECT title || ' (Subset)', ? || description,
			version, revision_date, home_url
		FROM source.snapshot_info
	`, note)
	if err != nil {
		return fmt.Errorf("failed to copy snapshot_info: %w", err)
	}
	return nil
}

// buildPlaceholders creates a comma-separated string of '?'
// placeholders for an SQL IN clause.
func buildPlaceholders(n int) string {
	if n == 0 {
		return ""
	}
	placeholders := make([]string, n)
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return strings.Join(placeholders, ",")
}
