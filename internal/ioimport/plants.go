package ioimport

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cheggaaa/pb/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/pkg/schema"
)

var plantColumns = []string{
	"id", "scientific_name", "family", "genus", "growth_form",
	"height_m", "csr_c", "csr_s", "csr_r",
	"temp_q05", "temp_q95", "precip_q05", "precip_q95",
	"hardiness_q05", "hardiness_q95", "drought_days", "frost_days",
	"eive_light", "soil_ph", "nitrogen_rating", "tip_label",
}

// importPlants replaces the plants table with the rows of a plants
// snapshot. Numeric trait columns keep their NULLs, scoring treats a
// missing value as unknown rather than zero.
// Returns the number of imported records.
func importPlants(
	ctx context.Context,
	pool *pgxpool.Pool,
	snap *sql.DB,
	batchSize int,
) (int, error) {
	count, err := snapshotCount(snap, "plants")
	if err != nil {
		return 0, err
	}

	if _, err = pool.Exec(ctx, "TRUNCATE plants"); err != nil {
		return 0, fmt.Errorf("failed to truncate plants: %w", err)
	}

	q := `
SELECT
  id, scientific_name,
  COALESCE(family, ''), COALESCE(genus, ''), COALESCE(growth_form, ''),
  height_m, csr_c, csr_s, csr_r,
  temp_q05, temp_q95, precip_q05, precip_q95,
  hardiness_q05, hardiness_q95, drought_days, frost_days,
  eive_light, soil_ph, nitrogen_rating, tip_label
FROM plants`

	rows, err := snap.QueryContext(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("failed to query snapshot plants: %w", err)
	}
	defer rows.Close()

	bar := pb.Full.Start(count)
	bar.Set("prefix", "Importing plants: ")
	bar.Set(pb.CleanOnFinish, true)

	var total int
	batch := make([][]any, 0, batchSize)
	for rows.Next() {
		var p schema.Plant
		err = rows.Scan(
			&p.ID, &p.ScientificName, &p.Family, &p.Genus, &p.GrowthForm,
			&p.HeightM, &p.CSRC, &p.CSRS, &p.CSRR,
			&p.TempQ05, &p.TempQ95, &p.PrecipQ05, &p.PrecipQ95,
			&p.HardinessQ05, &p.HardinessQ95, &p.DroughtDays, &p.FrostDays,
			&p.EiveLight, &p.SoilPH, &p.NitrogenRating, &p.TipLabel,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to scan snapshot plant row: %w", err)
		}

		batch = append(batch, []any{
			p.ID, p.ScientificName, p.Family, p.Genus, p.GrowthForm,
			p.HeightM, p.CSRC, p.CSRS, p.CSRR,
			p.TempQ05, p.TempQ95, p.PrecipQ05, p.PrecipQ95,
			p.HardinessQ05, p.HardinessQ95, p.DroughtDays, p.FrostDays,
			p.EiveLight, p.SoilPH, p.NitrogenRating, p.TipLabel,
		})

		if len(batch) == batchSize {
			if err = copyRows(ctx, pool, "plants", plantColumns, batch); err != nil {
				return 0, err
			}
			total += len(batch)
			bar.Add(len(batch))
			batch = batch[:0]
		}
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating snapshot plants: %w", err)
	}

	if len(batch) > 0 {
		if err = copyRows(ctx, pool, "plants", plantColumns, batch); err != nil {
			return 0, err
		}
		total += len(batch)
		bar.Add(len(batch))
	}

	bar.Finish()

	return total, nil
}
