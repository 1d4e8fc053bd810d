package ioplants

import (
	"context"
	"errors"
	"fmt"

	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"

	"github.com/permaguild/guilddb/pkg/biocontrol"
	"github.com/permaguild/guilddb/pkg/organism"
	"github.com/permaguild/guilddb/pkg/score"
)

// Web loads the natural-enemy web mined by the profile build.
func (s *store) Web(ctx context.Context) (score.Web, error) {
	web := score.Web{
		HerbivorePredators:  make(map[string][]string),
		InsectParasites:     make(map[string][]string),
		PathogenAntagonists: make(map[string][]string),
	}

	pool, err := s.pool()
	if err != nil {
		return web, err
	}

	q := `
SELECT organism_name, enemy_name, relation_class
FROM organism_enemies
`
	rows, err := pool.Query(ctx, q)
	if err != nil {
		return web, fmt.Errorf("cannot query organism enemies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var victim, enemy, class string
		if err = rows.Scan(&victim, &enemy, &class); err != nil {
			return web, fmt.Errorf("cannot scan enemy row: %w", err)
		}
		addEnemy(&web, victim, enemy, class)
	}
	if err = rows.Err(); err != nil {
		return web, fmt.Errorf("cannot read enemy rows: %w", err)
	}
	return web, nil
}

// addEnemy sorts one enemy relation into the web bucket the scorer
// matches it from. Fungal parties reduce to lowercase genus so they
// line up with the fungal guild lists of the members.
func addEnemy(web *score.Web, victim, enemy, class string) {
	switch class {
	case organism.RelationPredator:
		web.HerbivorePredators[victim] = append(
			web.HerbivorePredators[victim], enemy,
		)
	case organism.RelationParasite:
		web.InsectParasites[victim] = append(
			web.InsectParasites[victim], organism.GenusOf("", enemy),
		)
	case organism.RelationAntagonist:
		genus := organism.GenusOf("", victim)
		web.PathogenAntagonists[genus] = append(
			web.PathogenAntagonists[genus], organism.GenusOf("", enemy),
		)
	}
}

// Benefits loads mined biological-control entries, keyed helper then
// helped. Filtering happens on both sides, so passing a guild's ids
// returns exactly the entries between its members.
func (s *store) Benefits(
	ctx context.Context,
	ids []string,
) (map[string]map[string]biocontrol.Benefit, error) {
	pool, err := s.pool()
	if err != nil {
		return nil, err
	}

	q := `
SELECT plant_a_id, plant_b_id, predator_count, example_chains
FROM plant_benefits
`
	var rows pgx.Rows
	if len(ids) > 0 {
		q += "WHERE plant_a_id = ANY($1) AND plant_b_id = ANY($1)\n"
		rows, err = pool.Query(ctx, q, ids)
	} else {
		rows, err = pool.Query(ctx, q)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot query plant benefits: %w", err)
	}
	defer rows.Close()

	enc := gnfmt.GNjson{}
	res := make(map[string]map[string]biocontrol.Benefit)
	for rows.Next() {
		var (
			a, b, chains string
			predators    int
		)
		if err = rows.Scan(&a, &b, &predators, &chains); err != nil {
			return nil, fmt.Errorf("cannot scan benefit row: %w", err)
		}
		var examples []string
		if err = enc.Decode([]byte(chains), &examples); err != nil {
			return nil, fmt.Errorf(
				"cannot decode example chains for %s helping %s: %w",
				a, b, err,
			)
		}
		if res[a] == nil {
			res[a] = make(map[string]biocontrol.Benefit)
		}
		res[a][b] = biocontrol.Benefit{
			PlantA:        a,
			PlantB:        b,
			PredatorCount: predators,
			Examples:      examples,
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("cannot read benefit rows: %w", err)
	}
	return res, nil
}

// CachedPair reads one pair_scores entry. The cache stores each pair
// once with the lexicographically smaller id first, so the lookup
// normalizes the order.
func (s *store) CachedPair(
	ctx context.Context,
	a, b string,
) (*score.PairResult, bool, error) {
	pool, err := s.pool()
	if err != nil {
		return nil, false, err
	}

	if a > b {
		a, b = b, a
	}

	q := `
SELECT detail
FROM pair_scores
WHERE plant_a_id = $1 AND plant_b_id = $2
`
	var detail string
	err = pool.QueryRow(ctx, q, a, b).Scan(&detail)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf(
			"cannot query pair score for %s and %s: %w", a, b, err,
		)
	}

	var res score.PairResult
	enc := gnfmt.GNjson{}
	if err = enc.Decode([]byte(detail), &res); err != nil {
		return nil, false, fmt.Errorf(
			"cannot decode pair score for %s and %s: %w", a, b, err,
		)
	}
	return &res, true, nil
}
