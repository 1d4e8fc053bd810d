package ioimport

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cheggaaa/pb/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/pkg/schema"
)

var interactionColumns = []string{
	"source_name", "source_kingdom", "source_phylum", "source_genus",
	"interaction_type", "target_name", "target_kingdom", "target_class",
	"target_plant_id",
}

// importInteractions replaces the interactions table with the rows of
// an interactions snapshot. The table holds tens of millions of rows,
// so rows stream from the snapshot straight into COPY batches instead
// of being collected first.
// Returns the number of imported records.
func importInteractions(
	ctx context.Context,
	pool *pgxpool.Pool,
	snap *sql.DB,
	batchSize int,
) (int, error) {
	count, err := snapshotCount(snap, "interactions")
	if err != nil {
		return 0, err
	}

	if _, err = pool.Exec(ctx, "TRUNCATE interactions"); err != nil {
		return 0, fmt.Errorf("failed to truncate interactions: %w", err)
	}

	q := `
SELECT
  source_name,
  COALESCE(source_kingdom, ''), COALESCE(source_phylum, ''),
  COALESCE(source_genus, ''),
  interaction_type,
  target_name,
  COALESCE(target_kingdom, ''), COALESCE(target_class, ''),
  target_plant_id
FROM interactions`

	rows, err := snap.QueryContext(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to query snapshot interactions: %w", err)
	}
	defer rows.Close()

	bar := pb.Full.Start(count)
	bar.Set("prefix", "Importing interactions: ")
	bar.Set(pb.CleanOnFinish, true)

	var total int
	batch := make([][]any, 0, batchSize)
	for rows.Next() {
		var in schema.Interaction
		err = rows.Scan(
			&in.SourceName, &in.SourceKingdom, &in.SourcePhylum, &in.SourceGenus,
			&in.InteractionType, &in.TargetName, &in.TargetKingdom,
			&in.TargetClass, &in.TargetPlantID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to scan snapshot interaction row: %w", err)
		}

		batch = append(batch, []any{
			in.SourceName, in.SourceKingdom, in.SourcePhylum, in.SourceGenus,
			in.InteractionType, in.TargetName, in.TargetKingdom,
			in.TargetClass, in.TargetPlantID,
		})

		if len(batch) == batchSize {
			err = copyRows(ctx, pool, "interactions", interactionColumns, batch)
			if err != nil {
				return 0, err
			}
			total += len(batch)
			bar.Add(len(batch))
			batch = batch[:0]
		}
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating snapshot interactions: %w", err)
	}

	if len(batch) > 0 {
		err = copyRows(ctx, pool, "interactions", interactionColumns, batch)
		if err != nil {
			return 0, err
		}
		total += len(batch)
		bar.Add(len(batch))
	}

	bar.Finish()

	return total, nil
}
