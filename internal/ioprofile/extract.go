package ioprofile

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/pkg/organism"
	"github.com/permaguild/guilddb/pkg/parserpool"
	"golang.org/x/sync/errgroup"
)

// profileRelations returns the relation strings of the profile pass:
// everything that classifies into a role plus the broad fungal
// relations the guild builder mines.
func profileRelations() []string {
	seen := make(map[string]bool)
	roles := []organism.Role{
		organism.RolePollinator, organism.RoleVisitor,
		organism.RoleHerbivore, organism.RolePathogen,
	}
	for _, role := range roles {
		for _, r := range organism.RelationsFor(role) {
			seen[r] = true
		}
	}
	for _, r := range organism.FungalRelations() {
		seen[r] = true
	}
	return sortedKeys(seen)
}

// enemyRelations returns the relation strings of the enemy pass.
func enemyRelations() []string {
	seen := make(map[string]bool)
	for _, r := range organism.PredatorRelations() {
		seen[r] = true
	}
	for _, r := range organism.AntagonistRelations() {
		seen[r] = true
	}
	for _, r := range organism.ParasiteRelations() {
		seen[r] = true
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]bool) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// streamEdges runs one extraction pass as a three-stage pipeline:
// a loader streams interaction rows matching the relation set, jobs
// workers canonicalize names through the parser pool, and a single
// accumulator applies add. The builders behind add are not safe for
// concurrent use, which is why accumulation stays on one goroutine.
//
// With organisms false the pass mines organism-on-plant edges and
// skips rows without a resolved plant. With organisms true the pass
// mines organism-on-organism edges: every row with a matching
// relation streams, and target names are canonicalized so they match
// the victim sets by name.
func streamEdges(
	ctx context.Context,
	pool *pgxpool.Pool,
	pools parserpool.Pool,
	jobs int,
	relations []string,
	organisms bool,
	add func(organism.Edge),
) error {
	chIn := make(chan organism.Edge)
	chOut := make(chan organism.Edge)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		return loadEdges(gCtx, pool, relations, organisms, chIn)
	})

	if jobs <= 0 {
		jobs = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return canonicalizeEdges(gCtx, pools, organisms, chIn, chOut)
		})
	}

	g.Go(func() error {
		return accumulate(gCtx, chOut, add)
	})

	// Close chOut once all workers finish, so the accumulator
	// knows no more edges are coming.
	go func() {
		wg.Wait()
		close(chOut)
	}()

	return g.Wait()
}

// loadEdges streams interaction rows with the given relations into
// the input channel. Progress is logged every 100,000 edges.
func loadEdges(
	ctx context.Context,
	pool *pgxpool.Pool,
	relations []string,
	organisms bool,
	chIn chan<- organism.Edge,
) error {
	q := `
SELECT
	source_name, source_kingdom, source_phylum, source_genus,
	interaction_type, target_name, target_kingdom, target_class,
	target_plant_id
FROM interactions
WHERE interaction_type = ANY($1)
`
	if !organisms {
		q += "AND target_plant_id IS NOT NULL\n"
	}
	rows, err := pool.Query(ctx, q, relations)
	if err != nil {
		return fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var count int
	timeStart := time.Now().UnixNano()

	for rows.Next() {
		count++
		var e organism.Edge
		var plantID sql.NullString
		err = rows.Scan(
			&e.SourceName, &e.SourceKingdom, &e.SourcePhylum,
			&e.SourceGenus, &e.Relation, &e.TargetName,
			&e.TargetKingdom, &e.TargetClass, &plantID,
		)
		if err != nil {
			return fmt.Errorf("failed to scan interaction row: %w", err)
		}
		e.TargetPlantID = plantID.String

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			chIn <- e
		}

		if count%100_000 == 0 {
			timeSpent := float64(time.Now().UnixNano()-timeStart) / 1_000_000_000
			speed := int64(float64(count) / timeSpent)
			fmt.Fprintf(os.Stderr, "\r%s", strings.Repeat(" ", 45))
			fmt.Fprintf(os.Stderr, "\rStreamed %s edges, %s edges/sec",
				humanize.Comma(int64(count)), humanize.Comma(speed))
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read interaction rows: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", 45))
	return nil
}

// canonicalizeEdges is a concurrent worker that rewrites edge names
// to their canonical form. Source names are always canonicalized;
// target names only on organism-target passes, where the target must
// match the victim sets by name.
func canonicalizeEdges(
	ctx context.Context,
	pools parserpool.Pool,
	organisms bool,
	chIn <-chan organism.Edge,
	chOut chan<- organism.Edge,
) error {
	for e := range chIn {
		select {
		case <-ctx.Done():
			// Drain the channel on cancellation
			for range chIn {
			}
			return ctx.Err()
		default:
		}

		e.SourceName = canonicalName(pools, e.SourceName, e.SourceKingdom)
		if organisms {
			e.TargetName = canonicalName(pools, e.TargetName, e.TargetKingdom)
		}

		// The send must also watch the context, or a worker could
		// block forever once the accumulator has stopped reading.
		select {
		case chOut <- e:
		case <-ctx.Done():
			for range chIn {
			}
			return ctx.Err()
		}
	}
	return nil
}

// canonicalName returns the canonical simple form of name, or the
// trimmed verbatim name when it does not parse. Keeping unparsed
// names verbatim lets common-name records still aggregate.
func canonicalName(pools parserpool.Pool, name, kingdom string) string {
	if canonical, ok := pools.Canonical(name, kingdom); ok {
		return canonical
	}
	return strings.TrimSpace(name)
}

// accumulate drains the output channel into the builder callback.
func accumulate(
	ctx context.Context,
	chOut <-chan organism.Edge,
	add func(organism.Edge),
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-chOut:
			if !ok {
				return nil
			}
			add(e)
		}
	}
}
