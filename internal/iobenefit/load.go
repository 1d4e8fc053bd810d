package iobenefit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/pkg/biocontrol"
	"github.com/permaguild/guilddb/pkg/organism"
)

// loadProfiles loads the visitor and herbivore sets of every plant
// that has either. Rows arrive ordered by plant, so profiles build up
// in a single pass without a map.
func loadProfiles(
	ctx context.Context,
	pool *pgxpool.Pool,
) ([]biocontrol.Profile, error) {
	q := `
SELECT plant_id, organism_name, role
FROM organism_profiles
WHERE role = ANY($1)
ORDER BY plant_id, organism_name
`
	roles := []string{
		string(organism.RoleVisitor), string(organism.RoleHerbivore),
	}
	rows, err := pool.Query(ctx, q, roles)
	if err != nil {
		return nil, fmt.Errorf("failed to query organism_profiles: %w", err)
	}
	defer rows.Close()

	var res []biocontrol.Profile
	var cur *biocontrol.Profile
	for rows.Next() {
		var plantID, name, role string
		if err := rows.Scan(&plantID, &name, &role); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}

		if cur == nil || cur.PlantID != plantID {
			res = append(res, biocontrol.Profile{PlantID: plantID})
			cur = &res[len(res)-1]
		}
		switch role {
		case string(organism.RoleVisitor):
			cur.Visitors = append(cur.Visitors, name)
		case string(organism.RoleHerbivore):
			cur.Herbivores = append(cur.Herbivores, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profile rows: %w", err)
	}

	if len(res) == 0 {
		return nil, fmt.Errorf("organism_profiles has no visitor or herbivore rows")
	}
	return res, nil
}

// loadPreyEdges loads the predation index from the enemy table,
// keyed by predator name. The enemy pass already canonicalized both
// names, so they match the profile names exactly.
func loadPreyEdges(
	ctx context.Context,
	pool *pgxpool.Pool,
) (map[string][]string, error) {
	q := `
SELECT enemy_name, organism_name
FROM organism_enemies
WHERE relation_class = $1
`
	rows, err := pool.Query(ctx, q, organism.RelationPredator)
	if err != nil {
		return nil, fmt.Errorf("failed to query organism_enemies: %w", err)
	}
	defer rows.Close()

	edges := make(map[string][]string)
	for rows.Next() {
		var predator, prey string
		if err := rows.Scan(&predator, &prey); err != nil {
			return nil, fmt.Errorf("failed to scan enemy row: %w", err)
		}
		edges[predator] = append(edges[predator], prey)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read enemy rows: %w", err)
	}

	if len(edges) == 0 {
		return nil, fmt.Errorf("organism_enemies has no predator rows")
	}
	return edges, nil
}
