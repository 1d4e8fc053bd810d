package iotree

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// NoPhylogenyError creates an error for a registry without a
// phylogeny entry.
func NoPhylogenyError(registryPath string) error {
	msg := `No phylogeny registered

Tree-based commands (<em>distances</em>, <em>embed</em>, <em>verify</em>,
<em>recommend</em>) need a Newick phylogeny.

<em>How to fix:</em>
  1. Open the dataset registry:
     <em>%s</em>

  2. Set <em>phylogeny.parent</em> to a Newick file path or URL`

	vars := []any{registryPath}

	return &gn.Error{
		Code: errcode.TreeReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no phylogeny registered in %s", registryPath),
	}
}

// ReadError creates an error for an unreadable phylogeny file.
func ReadError(path string, err error) error {
	msg := `Cannot read phylogeny file

<em>File:</em> %s

<em>How to fix:</em>
  1. Check if the file exists: <em>ls -l %s</em>
  2. Check the <em>phylogeny.parent</em> entry in the dataset registry`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.TreeReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to read phylogeny %s: %w", path, err),
	}
}

// ParseError creates an error for a file that is not valid Newick.
func ParseError(path string, err error) error {
	msg := `Phylogeny file is not valid Newick

<em>File:</em> %s

<em>Possible causes:</em>
  - Unbalanced parentheses
  - Missing terminating semicolon
  - Negative or malformed branch lengths

<em>How to fix:</em>
  1. Inspect the file start: <em>head -c 200 %s</em>
  2. Re-export the tree from its source as Newick`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.TreeParseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to parse phylogeny %s: %w", path, err),
	}
}

// FetchError creates an error for a failed phylogeny download.
func FetchError(url string, err error) error {
	msg := `Cannot download phylogeny

<em>URL:</em> %s

<em>How to fix:</em>
  1. Check the URL is reachable: <em>curl -I %s</em>
  2. Check your network connection
  3. Download the file manually and point
     <em>phylogeny.parent</em> at the local copy`

	vars := []any{url, url}

	return &gn.Error{
		Code: errcode.TreeFetchError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to download phylogeny from %s: %w", url, err),
	}
}

// TipQueryError creates an error for a failed plant tip query.
func TipQueryError(err error) error {
	msg := `Cannot read plant tip labels from the database

<em>How to fix:</em>
  1. Check that plants were imported: <em>guilddb import</em>
  2. Check the database connection settings:
     <em>~/.config/guilddb/config.yaml</em>`

	return &gn.Error{
		Code: errcode.TreeTipsError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to query plant tips: %w", err),
	}
}
