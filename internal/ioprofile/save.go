package ioprofile

import (
	"context"
	"fmt"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/pkg/organism"
)

var profileColumns = []string{
	"plant_id", "organism_uuid", "organism_name", "role", "kingdom",
	"pathogen_class", "records",
}

var guildColumns = []string{
	"plant_id", "genus", "pathogenic", "host_specific", "amf", "emf",
	"mycoparasite", "entomopathogenic", "endophytic", "saprotrophic",
	"records",
}

var enemyColumns = []string{
	"organism_uuid", "organism_name", "enemy_name", "relation_class",
}

// saveProfiles replaces the organism_profiles table with the finished
// records.
func saveProfiles(
	ctx context.Context,
	pool *pgxpool.Pool,
	recs []organism.Record,
	batchSize int,
) error {
	if _, err := pool.Exec(ctx, "TRUNCATE organism_profiles"); err != nil {
		return SaveError("organism_profiles", err)
	}

	bar := pb.Full.Start(len(recs))
	bar.Set("prefix", "Profiles: ")
	bar.Set(pb.CleanOnFinish, true)

	batch := make([][]any, 0, batchSize)
	for _, rec := range recs {
		batch = append(batch, []any{
			rec.PlantID,
			organism.ID(rec.OrganismName),
			rec.OrganismName,
			string(rec.Role),
			rec.Kingdom,
			string(rec.PathogenClass),
			rec.Records,
		})
		if len(batch) >= batchSize {
			err := copyRows(ctx, pool, "organism_profiles", profileColumns, batch)
			if err != nil {
				return err
			}
			bar.Add(len(batch))
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		err := copyRows(ctx, pool, "organism_profiles", profileColumns, batch)
		if err != nil {
			return err
		}
		bar.Add(len(batch))
	}
	bar.Finish()
	return nil
}

// saveGuilds replaces the fungal_guilds table with the finished guild
// rows.
func saveGuilds(
	ctx context.Context,
	pool *pgxpool.Pool,
	guilds []organism.Guild,
	batchSize int,
) error {
	if _, err := pool.Exec(ctx, "TRUNCATE fungal_guilds"); err != nil {
		return SaveError("fungal_guilds", err)
	}

	bar := pb.Full.Start(len(guilds))
	bar.Set("prefix", "Guilds: ")
	bar.Set(pb.CleanOnFinish, true)

	batch := make([][]any, 0, batchSize)
	for _, g := range guilds {
		batch = append(batch, []any{
			g.PlantID,
			g.Genus,
			g.Flags.Pathogenic,
			g.Flags.HostSpecific,
			g.Flags.AMF,
			g.Flags.EMF,
			g.Flags.Mycoparasite,
			g.Flags.Entomopathogenic,
			g.Flags.Endophytic,
			g.Flags.Saprotrophic,
			g.Records,
		})
		if len(batch) >= batchSize {
			err := copyRows(ctx, pool, "fungal_guilds", guildColumns, batch)
			if err != nil {
				return err
			}
			bar.Add(len(batch))
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		err := copyRows(ctx, pool, "fungal_guilds", guildColumns, batch)
		if err != nil {
			return err
		}
		bar.Add(len(batch))
	}
	bar.Finish()
	return nil
}

// saveEnemies replaces the organism_enemies table with the finished
// enemy index.
func saveEnemies(
	ctx context.Context,
	pool *pgxpool.Pool,
	enemies []organism.Enemy,
	batchSize int,
) error {
	if _, err := pool.Exec(ctx, "TRUNCATE organism_enemies"); err != nil {
		return SaveError("organism_enemies", err)
	}

	bar := pb.Full.Start(len(enemies))
	bar.Set("prefix", "Enemies: ")
	bar.Set(pb.CleanOnFinish, true)

	batch := make([][]any, 0, batchSize)
	for _, en := range enemies {
		batch = append(batch, []any{
			organism.ID(en.OrganismName),
			en.OrganismName,
			en.EnemyName,
			en.RelationClass,
		})
		if len(batch) >= batchSize {
			err := copyRows(ctx, pool, "organism_enemies", enemyColumns, batch)
			if err != nil {
				return err
			}
			bar.Add(len(batch))
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		err := copyRows(ctx, pool, "organism_enemies", enemyColumns, batch)
		if err != nil {
			return err
		}
		bar.Add(len(batch))
	}
	bar.Finish()
	return nil
}

// copyRows bulk-inserts rows with pgx CopyFrom.
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
		return SaveError(table, err)
	}
	return nil
}

// rebuildSummary drops and recreates the plant_summary materialized
// view so name search and the serving API see the fresh profiles.
func (p *profiler) rebuildSummary(ctx context.Context) error {
	if err := p.operator.DropMaterializedViews(ctx); err != nil {
		return err
	}
	if err := p.operator.CreateMaterializedViews(ctx); err != nil {
		return err
	}

	var count int64
	q := "SELECT COUNT(*) FROM plant_summary"
	err := p.operator.Pool().QueryRow(ctx, q).Scan(&count)
	if err != nil {
		return SaveError("plant_summary", fmt.Errorf("count query: %w", err))
	}

	gn.Info("<em>Rebuilt plant_summary with %s plants</em>", humanize.Comma(count))
	return nil
}
