package iodistance

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// NotConnectedError creates an error for a distance build attempted
// before Connect.
func NotConnectedError() error {
	msg := "Distance build attempted without a database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// RosterError creates an error for a roster that cannot anchor the
// matrix.
func RosterError(err error) error {
	msg := `Cannot build the distance roster

The matrix covers plants whose tip label resolves to a leaf of the
registered phylogeny.

<em>How to fix:</em>
  1. Import the flora first: <em>guilddb import</em>
  2. Check that the phylogeny matches the flora:
     <em>guilddb verify</em>`

	return &gn.Error{
		Code: errcode.MatrixRosterError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to build distance roster: %w", err),
	}
}

// ShardError creates an error for a row shard that cannot be written.
func ShardError(path string, err error) error {
	msg := `Cannot write distance shard

<em>File:</em> %s

<em>How to fix:</em>
  1. Check free disk space
  2. Clear the shard directory and rerun <em>guilddb distances</em>`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.MatrixShardError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to write shard %s: %w", path, err),
	}
}

// BuildError creates an error for a failed shard pipeline.
func BuildError(err error) error {
	msg := "Failed to compute the pairwise distance matrix"

	return &gn.Error{
		Code: errcode.MatrixBuildError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to compute distances: %w", err),
	}
}

// MergeError creates an error for shards that cannot be merged into
// the final artifact.
func MergeError(err error) error {
	msg := `Cannot merge distance shards

<em>How to fix:</em>
  1. Clear the shard directory
  2. Rerun <em>guilddb distances</em> from scratch`

	return &gn.Error{
		Code: errcode.MatrixMergeError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to merge shards: %w", err),
	}
}
