package ioimport

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cheggaaa/pb/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/pkg/schema"
)

var fungalTraitColumns = []string{
	"genus", "primary_lifestyle", "secondary_lifestyle", "host_specificity",
}

// importFungalTraits replaces the fungal_traits lookup with the rows
// of a fungal-traits snapshot.
// Returns the number of imported records.
func importFungalTraits(
	ctx context.Context,
	pool *pgxpool.Pool,
	snap *sql.DB,
	batchSize int,
) (int, error) {
	count, err := snapshotCount(snap, "fungal_traits")
	if err != nil {
		return 0, err
	}

	if _, err = pool.Exec(ctx, "TRUNCATE fungal_traits"); err != nil {
		return 0, fmt.Errorf("failed to truncate fungal_traits: %w", err)
	}

	q := `
SELECT
  genus,
  COALESCE(primary_lifestyle, ''), COALESCE(secondary_lifestyle, ''),
  COALESCE(host_specificity, '')
FROM fungal_traits`

	rows, err := snap.QueryContext(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to query snapshot fungal_traits: %w", err)
	}
	defer rows.Close()

	bar := pb.Full.Start(count)
	bar.Set("prefix", "Importing fungal traits: ")
	bar.Set(pb.CleanOnFinish, true)

	var total int
	batch := make([][]any, 0, batchSize)
	for rows.Next() {
		var ft schema.FungalTrait
		err = rows.Scan(
			&ft.Genus, &ft.PrimaryLifestyle, &ft.SecondaryLifestyle,
			&ft.HostSpecificity,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to scan snapshot fungal trait row: %w", err)
		}

		batch = append(batch, []any{
			ft.Genus, ft.PrimaryLifestyle, ft.SecondaryLifestyle,
			ft.HostSpecificity,
		})

		if len(batch) == batchSize {
			err = copyRows(ctx, pool, "fungal_traits", fungalTraitColumns, batch)
			if err != nil {
				return 0, err
			}
			total += len(batch)
			bar.Add(len(batch))
			batch = batch[:0]
		}
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating snapshot fungal_traits: %w", err)
	}

	if len(batch) > 0 {
		err = copyRows(ctx, pool, "fungal_traits", fungalTraitColumns, batch)
		if err != nil {
			return 0, err
		}
		total += len(batch)
		bar.Add(len(batch))
	}

	bar.Finish()

	return total, nil
}
