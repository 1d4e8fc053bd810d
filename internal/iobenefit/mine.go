package iobenefit

import (
	"context"
	"fmt"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/pkg/biocontrol"
	"golang.org/x/sync/errgroup"
)

var benefitColumns = []string{
	"plant_a_id", "plant_b_id", "predator_count", "example_chains",
}

// benefitRow is one plant_benefits row ready for bulk insert.
type benefitRow struct {
	plantA    string
	plantB    string
	predators int
	examples  string
}

// minePairs runs the pair mining as a three-stage pipeline: a loader
// streams plant profiles, jobs workers pair each one against the full
// roster, and a saver batches the resulting rows into plant_benefits.
// It returns the number of rows written.
func minePairs(
	ctx context.Context,
	pool *pgxpool.Pool,
	m *biocontrol.Miner,
	profiles []biocontrol.Profile,
	jobs, batchSize int,
) (int, error) {
	chIn := make(chan biocontrol.Profile)
	chOut := make(chan benefitRow)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		return loadPairs(gCtx, profiles, chIn)
	})

	if jobs <= 0 {
		jobs = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return minePairRows(gCtx, m, profiles, chIn, chOut)
		})
	}

	var total int
	g.Go(func() error {
		n, err := saveBenefits(gCtx, pool, chOut, batchSize)
		total = n
		return err
	})

	// Close chOut once all workers finish, so the saver knows no
	// more rows are coming.
	go func() {
		wg.Wait()
		close(chOut)
	}()

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total, nil
}

// loadPairs feeds every profile into the input channel. Each profile
// is one unit of work: the worker holding it pairs it against the
// whole roster.
func loadPairs(
	ctx context.Context,
	profiles []biocontrol.Profile,
	chIn chan<- biocontrol.Profile,
) error {
	bar := pb.Full.Start(len(profiles))
	bar.Set("prefix", "Plants: ")
	bar.Set(pb.CleanOnFinish, true)

	for _, p := range profiles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chIn <- p:
		}
		bar.Increment()
	}

	bar.Finish()
	return nil
}

// minePairRows is a concurrent worker that pairs each received
// profile against the full roster and sends only pairs with a benefit
// to the save channel.
func minePairRows(
	ctx context.Context,
	m *biocontrol.Miner,
	profiles []biocontrol.Profile,
	chIn <-chan biocontrol.Profile,
	chOut chan<- benefitRow,
) error {
	enc := gnfmt.GNjson{}
	for a := range chIn {
		select {
		case <-ctx.Done():
			// Drain the channel on cancellation
			for range chIn {
			}
			return ctx.Err()
		default:
		}

		for _, b := range profiles {
			benefit, ok := m.Pair(a, b)
			if !ok {
				continue
			}

			examples, err := enc.Encode(benefit.Examples)
			if err != nil {
				return fmt.Errorf("failed to encode example chains: %w", err)
			}

			row := benefitRow{
				plantA:    benefit.PlantA,
				plantB:    benefit.PlantB,
				predators: benefit.PredatorCount,
				examples:  string(examples),
			}
			select {
			case chOut <- row:
			case <-ctx.Done():
				for range chIn {
				}
				return ctx.Err()
			}
		}
	}
	return nil
}

// saveBenefits batches rows from the mining workers into
// plant_benefits with pgx CopyFrom.
func saveBenefits(
	ctx context.Context,
	pool *pgxpool.Pool,
	chOut <-chan benefitRow,
	batchSize int,
) (int, error) {
	batch := make([][]any, 0, batchSize)
	var total int

	flushBatch := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := pool.CopyFrom(
			ctx,
			pgx.Identifier{"plant_benefits"},
			benefitColumns,
			pgx.CopyFromRows(batch),
		)
		if err != nil {
			return SaveError(err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case row, ok := <-chOut:
			if !ok {
				if err := flushBatch(); err != nil {
					return total, err
				}
				return total, nil
			}

			batch = append(batch, []any{
				row.plantA, row.plantB, row.predators, row.examples,
			})
			if len(batch) >= batchSize {
				if err := flushBatch(); err != nil {
					return total, err
				}
			}
		}
	}
}
