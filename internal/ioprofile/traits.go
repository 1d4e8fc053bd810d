package ioprofile

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/pkg/organism"
)

// loadTraits loads the fungal trait dataset into a genus-keyed
// lifestyle lookup. Keys are lowercased to match the genus form the
// guild builder derives from observation edges.
func loadTraits(
	ctx context.Context,
	pool *pgxpool.Pool,
) (map[string]organism.Lifestyle, error) {
	q := `
SELECT genus, primary_lifestyle, secondary_lifestyle, host_specificity
FROM fungal_traits
`
	rows, err := pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query fungal_traits: %w", err)
	}
	defer rows.Close()

	traits := make(map[string]organism.Lifestyle)
	for rows.Next() {
		var genus string
		var l organism.Lifestyle
		err = rows.Scan(&genus, &l.Primary, &l.Secondary, &l.HostSpecificity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fungal_traits row: %w", err)
		}
		traits[strings.ToLower(genus)] = l
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fungal_traits rows: %w", err)
	}

	if len(traits) == 0 {
		return nil, fmt.Errorf("fungal_traits table is empty")
	}
	return traits, nil
}
