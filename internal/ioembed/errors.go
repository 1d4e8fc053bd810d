package ioembed

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// NotConnectedError creates an error for a benchmark attempted before
// Connect.
func NotConnectedError() error {
	msg := "Recommender benchmark attempted without a database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// MatrixError creates an error for a distance matrix that cannot
// anchor an embedding.
func MatrixError(err error) error {
	msg := `Cannot embed the distance matrix

<em>How to fix:</em>
  1. Build the matrix first: <em>guilddb distances</em>
  2. Check the embedding dimensions in the config; they must stay
     below the roster size`

	return &gn.Error{
		Code: errcode.EmbedMatrixError,
		Msg:  msg,
		Err:  fmt.Errorf("cannot embed distance matrix: %w", err),
	}
}

// ConvergenceError creates an error for a failed stress majorization.
func ConvergenceError(err error) error {
	msg := `Stress majorization failed to produce an embedding

<em>How to fix:</em>
  1. Rebuild the matrix: <em>guilddb distances</em>
  2. Rerun <em>guilddb embed</em>, raising <em>max_iter</em> if the
     run was cut short`

	return &gn.Error{
		Code: errcode.EmbedConvergenceError,
		Msg:  msg,
		Err:  fmt.Errorf("stress majorization failed: %w", err),
	}
}

// QualityError creates an error for a recommender benchmark that
// cannot run.
func QualityError(err error) error {
	msg := `Cannot benchmark the recommender

The benchmark samples guilds from plants covered by both the
embedding and the phylogeny.

<em>How to fix:</em>
  1. Rebuild the artifacts: <em>guilddb distances</em>, then
     <em>guilddb embed</em>
  2. Check them against the database: <em>guilddb verify</em>`

	return &gn.Error{
		Code: errcode.EmbedQualityError,
		Msg:  msg,
		Err:  fmt.Errorf("recommender benchmark failed: %w", err),
	}
}

// SaveError creates an error for computed coordinates that cannot be
// packed into the embedding artifact.
func SaveError(err error) error {
	msg := "Cannot assemble the embedding artifact"

	return &gn.Error{
		Code: errcode.EmbedSaveError,
		Msg:  msg,
		Err:  fmt.Errorf("cannot assemble embedding artifact: %w", err),
	}
}
