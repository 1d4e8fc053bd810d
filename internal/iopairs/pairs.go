package iopairs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/permaguild/guilddb/pkg/biocontrol"
	"github.com/permaguild/guilddb/pkg/score"
	"golang.org/x/sync/errgroup"
)

var pairColumns = []string{
	"plant_a_id", "plant_b_id", "score", "detail", "updated_at",
}

// pairRow is one pair_scores row ready for bulk insert.
type pairRow struct {
	plantA string
	plantB string
	score  float64
	detail string
}

// scorePairs runs pair scoring as a three-stage pipeline: a loader
// streams member indexes, jobs workers score each member against the
// rest of the roster, and a saver batches the entries into
// pair_scores. Members must be sorted by id, so every entry lands
// with the smaller id first. It returns the number of rows written.
func scorePairs(
	ctx context.Context,
	pool *pgxpool.Pool,
	members []score.Member,
	benefits map[string]map[string]biocontrol.Benefit,
	jobs, batchSize int,
	now time.Time,
) (int, error) {
	chIn := make(chan int)
	chOut := make(chan pairRow)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		return loadIndexes(gCtx, len(members), chIn)
	})

	if jobs <= 0 {
		jobs = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return scoreRows(gCtx, members, benefits, chIn, chOut)
		})
	}

	var total int
	g.Go(func() error {
		n, err := savePairs(gCtx, pool, chOut, batchSize, now)
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

// loadIndexes feeds every member index into the input channel. Each
// index is one unit of work: the worker holding it scores the member
// against every later one.
func loadIndexes(ctx context.Context, n int, chIn chan<- int) error {
	bar := pb.Full.Start(n)
	bar.Set("prefix", "Plants: ")
	bar.Set(pb.CleanOnFinish, true)

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chIn <- i:
		}
		bar.Increment()
	}

	bar.Finish()
	return nil
}

// scoreRows is a concurrent worker that scores each received member
// against every member after it and sends the entries to the save
// channel.
func scoreRows(
	ctx context.Context,
	members []score.Member,
	benefits map[string]map[string]biocontrol.Benefit,
	chIn <-chan int,
	chOut chan<- pairRow,
) error {
	enc := gnfmt.GNjson{}
	for i := range chIn {
		select {
		case <-ctx.Done():
			// Drain the channel on cancellation
			for range chIn {
			}
			return ctx.Err()
		default:
		}

		a := members[i]
		for j := i + 1; j < len(members); j++ {
			b := members[j]
			res := score.PairScore(
				a, b,
				helpBetween(benefits, a.Traits.ID, b.Traits.ID),
				helpBetween(benefits, b.Traits.ID, a.Traits.ID),
			)

			detail, err := enc.Encode(res)
			if err != nil {
				return fmt.Errorf("failed to encode pair detail: %w", err)
			}

			row := pairRow{
				plantA: res.PlantA,
				plantB: res.PlantB,
				score:  res.Score,
				detail: string(detail),
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

// helpBetween looks up the mined benefit helper supplies to helped,
// zero when the miner found none.
func helpBetween(
	benefits map[string]map[string]biocontrol.Benefit,
	helper, helped string,
) biocontrol.Benefit {
	return benefits[helper][helped]
}

// savePairs batches entries from the scoring workers into pair_scores
// with pgx CopyFrom. Every row of the run shares one timestamp.
func savePairs(
	ctx context.Context,
	pool *pgxpool.Pool,
	chOut <-chan pairRow,
	batchSize int,
	now time.Time,
) (int, error) {
	batch := make([][]any, 0, batchSize)
	var total int

	flushBatch := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := pool.CopyFrom(
			ctx,
			pgx.Identifier{"pair_scores"},
			pairColumns,
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
				row.plantA, row.plantB, row.score, row.detail, now,
			})
			if len(batch) >= batchSize {
				if err := flushBatch(); err != nil {
					return total, err
				}
			}
		}
	}
}
