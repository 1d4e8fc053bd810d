package ioimport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// NotConnectedError creates an error for an import attempted before
// Connect.
func NotConnectedError() error {
	msg := "Import attempted without a database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// NoDatasetsError creates an error for a dataset filter that matches
// nothing in the registry.
func NoDatasetsError(ids []int) error {
	msg := `No datasets matched the requested ids: <em>%v</em>

<em>How to fix:</em>
  1. List registered datasets:
     <em>~/.config/guilddb/datasets.yaml</em>

  2. Run without <em>--datasets</em> to import everything`

	vars := []any{ids}

	return &gn.Error{
		Code: errcode.DatasetNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no datasets matched ids %v", ids),
	}
}

// ResolveError creates an error for a snapshot that cannot be located
// under its parent directory or URL.
func ResolveError(id int, parent string, err error) error {
	msg := `Cannot locate snapshot for dataset <em>%d</em>

<em>Parent:</em> %s

Snapshot files are matched by the pattern <em>%04d*.sqlite[.zip]</em>.

<em>How to fix:</em>
  1. Check the parent directory or URL listing
  2. Check the <em>parent</em> entry in the dataset registry:
     <em>~/.config/guilddb/datasets.yaml</em>`

	vars := []any{id, parent, id}

	return &gn.Error{
		Code: errcode.SnapshotResolveError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to locate snapshot for dataset %d under %s: %w",
			id, parent, err),
	}
}

// FetchError creates an error for a snapshot that cannot be copied
// into the cache directory.
func FetchError(location string, err error) error {
	msg := `Cannot fetch snapshot

<em>Location:</em> %s

<em>How to fix:</em>
  1. Check the location is reachable
  2. Check free space in the cache directory:
     <em>~/.cache/guilddb</em>`

	vars := []any{location}

	return &gn.Error{
		Code: errcode.SnapshotFetchError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to fetch snapshot %s: %w", location, err),
	}
}

// OpenError creates an error for a snapshot file that is not a
// readable SQLite database.
func OpenError(path string, err error) error {
	msg := `Snapshot is not a readable SQLite file

<em>File:</em> %s

<em>How to fix:</em>
  1. Inspect the file: <em>file %s</em>
  2. Clear the cache and re-import:
     <em>rm -r ~/.cache/guilddb</em>`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.SnapshotOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to open snapshot %s: %w", path, err),
	}
}

// PlantsError creates an error for a failed plants import.
func PlantsError(id int, err error) error {
	msg := "Failed to import plants from dataset <em>%d</em>"
	vars := []any{id}

	return &gn.Error{
		Code: errcode.ImportPlantsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to import plants from dataset %d: %w", id, err),
	}
}

// InteractionsError creates an error for a failed interactions import.
func InteractionsError(id int, err error) error {
	msg := "Failed to import interactions from dataset <em>%d</em>"
	vars := []any{id}

	return &gn.Error{
		Code: errcode.ImportInteractionsError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to import interactions from dataset %d: %w",
			id, err),
	}
}

// FungalTraitsError creates an error for a failed fungal trait
// import.
func FungalTraitsError(id int, err error) error {
	msg := "Failed to import fungal traits from dataset <em>%d</em>"
	vars := []any{id}

	return &gn.Error{
		Code: errcode.ImportFungalTraitsError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to import fungal traits from dataset %d: %w",
			id, err),
	}
}

// CopyError creates an error for a failed bulk insert.
func CopyError(table string, err error) error {
	msg := "Bulk insert into <em>%s</em> failed"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.ImportCopyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to copy rows into %s: %w", table, err),
	}
}

// MetadataError creates an error for a failed dataset registry update.
func MetadataError(id int, err error) error {
	msg := "Failed to record metadata for dataset <em>%d</em>"
	vars := []any{id}

	return &gn.Error{
		Code: errcode.ImportMetadataError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to record metadata for dataset %d: %w", id, err),
	}
}

// AllDatasetsFailedError creates an error for an import where every
// dataset failed.
func AllDatasetsFailedError(n int) error {
	msg := `All <em>%d</em> datasets failed to import

<em>How to fix:</em>
  1. Check the log for the first failure:
     <em>~/.local/share/guilddb/logs</em>
  2. Fix the dataset registry or the snapshot files and rerun`

	vars := []any{n}

	return &gn.Error{
		Code: errcode.ImportAllDatasetsFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("all %d datasets failed to import", n),
	}
}
