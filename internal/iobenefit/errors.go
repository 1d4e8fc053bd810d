package iobenefit

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// NotConnectedError creates an error for a benefit run attempted
// before Connect.
func NotConnectedError() error {
	msg := "Benefit mining attempted without a database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// LoadError creates an error for profile or predation data that
// cannot be loaded.
func LoadError(what string, err error) error {
	msg := `Cannot load %s for benefit mining

<em>How to fix:</em>
  1. Build the profiles first:
     <em>guilddb profiles</em>
  2. Rerun <em>guilddb benefits</em>`

	vars := []any{what}

	return &gn.Error{
		Code: errcode.BenefitLoadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to load %s: %w", what, err),
	}
}

// MineError creates an error for a failed mining pipeline.
func MineError(err error) error {
	msg := "Failed to mine plant pair benefits"

	return &gn.Error{
		Code: errcode.BenefitMineError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to mine benefits: %w", err),
	}
}

// SaveError creates an error for benefit rows that cannot be written.
func SaveError(err error) error {
	msg := "Failed to save <em>plant_benefits</em>"

	return &gn.Error{
		Code: errcode.BenefitSaveError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to save plant_benefits: %w", err),
	}
}
