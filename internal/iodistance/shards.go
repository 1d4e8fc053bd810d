package iodistance

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/cheggaaa/pb/v3"
	"github.com/permaguild/guilddb/pkg/artifact"
	"github.com/permaguild/guilddb/pkg/phylo"
	"golang.org/x/sync/errgroup"
)

// minShardRows keeps shards large enough that the work directory stays
// manageable for big rosters.
const minShardRows = 64

// shard is one contiguous block of matrix rows [start, end).
type shard struct {
	start, end int
}

// planShards splits n matrix rows into contiguous blocks. The batch
// size acts as a cell budget per block, floored so big rosters do not
// explode into thousands of files. The plan depends only on n and the
// batch size, so a rerun lines up with the shards of an earlier run.
func planShards(n, batchSize int) []shard {
	if n == 0 {
		return nil
	}

	rows := 1
	if batchSize > 0 {
		rows = batchSize / n
	}
	if rows < minShardRows {
		rows = minShardRows
	}
	if rows > n {
		rows = n
	}

	var res []shard
	for start := 0; start < n; start += rows {
		end := start + rows
		if end > n {
			end = n
		}
		res = append(res, shard{start: start, end: end})
	}
	return res
}

func shardPath(dir string, s shard) string {
	return filepath.Join(dir, fmt.Sprintf("pd-rows-%d-%d.bin", s.start, s.end))
}

// shardComplete reports whether a shard file holds exactly the bytes
// its block needs. Partial files from an interrupted run fail the
// check and are recomputed.
func shardComplete(path string, s shard, n int) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() == int64(4*(s.end-s.start)*n)
}

// computeShard fills rows [start, end) against the full roster. The
// patristic walk stays in float64 and drops to float32 only here, so
// reruns reproduce identical bytes.
func computeShard(leaves []*phylo.Node, s shard) []float32 {
	n := len(leaves)
	vals := make([]float32, 0, (s.end-s.start)*n)
	for i := s.start; i < s.end; i++ {
		for j := 0; j < n; j++ {
			vals = append(
				vals,
				float32(phylo.DistanceNodes(leaves[i], leaves[j])),
			)
		}
	}
	return vals
}

// writeShard writes the block payload through a temporary file and a
// rename, so the size check never sees a half-written shard.
func writeShard(path string, vals []float32) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriterSize(f, 1<<20)
	err = artifact.WriteFloats(w, vals)
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}

	if err = f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// buildShards computes the planned shards with jobs workers, skipping
// every shard that is already complete on disk. It returns the number
// of shards actually computed in this run.
func buildShards(
	ctx context.Context,
	leaves []*phylo.Node,
	shards []shard,
	dir string,
	jobs int,
) (int, error) {
	n := len(leaves)

	bar := pb.Full.Start(len(shards))
	bar.Set("prefix", "Shards: ")
	bar.Set(pb.CleanOnFinish, true)

	chIn := make(chan shard)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, s := range shards {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- s:
			}
		}
		return nil
	})

	if jobs <= 0 {
		jobs = 1
	}
	var computed atomic.Int32
	for i := 0; i < jobs; i++ {
		g.Go(func() error {
			for s := range chIn {
				select {
				case <-gCtx.Done():
					// Drain the channel on cancellation
					for range chIn {
					}
					return gCtx.Err()
				default:
				}

				path := shardPath(dir, s)
				if shardComplete(path, s, n) {
					bar.Increment()
					continue
				}
				if err := writeShard(path, computeShard(leaves, s)); err != nil {
					return ShardError(path, err)
				}
				computed.Add(1)
				bar.Increment()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	bar.Finish()
	return int(computed.Load()), nil
}

// mergeShards concatenates the shard payloads, in row order, into the
// full matrix payload.
func mergeShards(dir string, shards []shard, n int) ([]float32, error) {
	data := make([]float32, 0, n*n)
	for _, s := range shards {
		path := shardPath(dir, s)
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf(
				"cannot open shard %s: %w", filepath.Base(path), err,
			)
		}
		vals, err := artifact.ReadFloats(
			bufio.NewReaderSize(f, 1<<20), (s.end-s.start)*n,
		)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf(
				"cannot read shard %s: %w", filepath.Base(path), err,
			)
		}
		data = append(data, vals...)
	}
	return data, nil
}
