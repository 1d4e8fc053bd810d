package iopairs

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// NotConnectedError creates an error for a pair-score run attempted
// before Connect.
func NotConnectedError() error {
	msg := "Pair scoring attempted without a database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// LoadError creates an error for scoring inputs that cannot be loaded.
func LoadError(what string, err error) error {
	msg := `Cannot load %s for pair scoring

<em>How to fix:</em>
  1. Build the derived layers first:
     <em>guilddb profiles</em> and <em>guilddb benefits</em>
  2. Rerun <em>guilddb pairs</em>`

	vars := []any{what}

	return &gn.Error{
		Code: errcode.PairsLoadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to load %s: %w", what, err),
	}
}

// SaveError creates an error for pair entries that cannot be written.
func SaveError(err error) error {
	msg := "Failed to save <em>pair_scores</em>"

	return &gn.Error{
		Code: errcode.PairsSaveError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to save pair_scores: %w", err),
	}
}
