package ioprofile

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// NotConnectedError creates an error for a profile build attempted
// before Connect.
func NotConnectedError() error {
	msg := "Profile build attempted without a database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// ClassifyError creates an error for a fungal trait lookup that
// cannot be loaded.
func ClassifyError(err error) error {
	msg := `Cannot load the fungal trait lookup

<em>How to fix:</em>
  1. Import the fungal traits dataset:
     <em>guilddb import</em>
  2. Rerun <em>guilddb profiles</em>`

	return &gn.Error{
		Code: errcode.ProfileClassifyError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to load fungal traits: %w", err),
	}
}

// ExtractError creates an error for a failed profile extraction pass.
func ExtractError(err error) error {
	msg := `Failed to mine organism profiles from interactions

<em>How to fix:</em>
  1. Check the log for the failing query:
     <em>~/.local/share/guilddb/logs</em>
  2. Check the interactions dataset imported completely`

	return &gn.Error{
		Code: errcode.ProfileExtractError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to extract profiles: %w", err),
	}
}

// EnemiesError creates an error for a failed enemy indexing pass.
func EnemiesError(err error) error {
	msg := "Failed to index natural enemies from interactions"

	return &gn.Error{
		Code: errcode.ProfileEnemiesError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to index enemies: %w", err),
	}
}

// SaveError creates an error for a derived table that cannot be
// written.
func SaveError(table string, err error) error {
	msg := "Failed to save <em>%s</em>"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.ProfileSaveError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to save %s: %w", table, err),
	}
}
