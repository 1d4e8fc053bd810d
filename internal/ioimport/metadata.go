package ioimport

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gnames/gnuuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/pkg/datasets"
)

// snapshotInfo is the optional single-row metadata table a snapshot
// may carry.
type snapshotInfo struct {
	title        string
	description  string
	version      string
	revisionDate string
	homeURL      string
}

// readSnapshotInfo reads the snapshot_info table when present. A
// snapshot without one is fine, the registry and the filename cover
// the same fields.
func readSnapshotInfo(snap *sql.DB) (snapshotInfo, error) {
	var info snapshotInfo

	var name string
	err := snap.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'snapshot_info'`,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return info, nil
	}
	if err != nil {
		return info, fmt.Errorf("failed to check for snapshot_info table: %w", err)
	}

	var title, description, version, revisionDate, homeURL sql.NullString
	err = snap.QueryRow(`
SELECT title, description, version, revision_date, home_url
FROM snapshot_info
LIMIT 1`).
		Scan(&title, &description, &version, &revisionDate, &homeURL)
	if err == sql.ErrNoRows {
		return info, nil
	}
	if err != nil {
		return info, fmt.Errorf("failed to read snapshot_info: %w", err)
	}

	info.title = title.String
	info.description = description.String
	info.version = version.String
	info.revisionDate = revisionDate.String
	info.homeURL = homeURL.String

	return info, nil
}

const upsertDatasetQuery = `
INSERT INTO datasets (
  id, uuid, kind, title, title_short, version, revision_date,
  description, home_url, data_url, record_count, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET
  uuid = EXCLUDED.uuid,
  kind = EXCLUDED.kind,
  title = EXCLUDED.title,
  title_short = EXCLUDED.title_short,
  version = EXCLUDED.version,
  revision_date = EXCLUDED.revision_date,
  description = EXCLUDED.description,
  home_url = EXCLUDED.home_url,
  data_url = EXCLUDED.data_url,
  record_count = EXCLUDED.record_count,
  updated_at = EXCLUDED.updated_at`

// upsertDataset records an imported dataset in the datasets table.
// Registry fields take precedence, the snapshot's own metadata fills
// the gaps. Version and revision date never come from the registry,
// only from the snapshot or its filename.
func upsertDataset(
	ctx context.Context,
	pool *pgxpool.Pool,
	ds datasets.DatasetConfig,
	meta datasets.FileMetadata,
	info snapshotInfo,
	location string,
	records int,
) error {
	title := firstNonEmpty(ds.Title, info.title)

	_, err := pool.Exec(ctx, upsertDatasetQuery,
		ds.ID,
		gnuuid.New(title).String(),
		ds.Kind,
		title,
		ds.TitleShort,
		firstNonEmpty(info.version, meta.Version),
		firstNonEmpty(info.revisionDate, meta.RevisionDate),
		firstNonEmpty(ds.Description, info.description),
		firstNonEmpty(ds.HomeURL, info.homeURL),
		firstNonEmpty(ds.DataURL, location),
		records,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert dataset %d: %w", ds.ID, err)
	}

	return nil
}

// upsertPhylogeny records the registered phylogeny location under the
// reserved id, so verify can report what the distance artifacts were
// built from.
func upsertPhylogeny(
	ctx context.Context,
	pool *pgxpool.Pool,
	parent string,
) error {
	meta := datasets.ParseFilename(parent)

	_, err := pool.Exec(ctx, upsertDatasetQuery,
		datasets.PhylogenyID,
		gnuuid.New(parent).String(),
		datasets.KindPhylogeny,
		"Phylogeny",
		"phylogeny",
		meta.Version,
		meta.RevisionDate,
		"",
		"",
		parent,
		0,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert phylogeny dataset: %w", err)
	}

	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
