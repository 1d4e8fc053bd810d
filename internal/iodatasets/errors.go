package iodatasets

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// RegistryConfigError creates an error for when datasets.yaml
// cannot be loaded.
func RegistryConfigError(path string, err error) error {
	msg := `Cannot load datasets registry

<em>Registry file:</em> %s

<em>Possible causes:</em>
  - File does not exist
  - Invalid YAML format
  - Permission denied

<em>How to fix:</em>
  1. Check if file exists: <em>ls -l %s</em>
  2. Validate YAML syntax
  3. Remove the file to regenerate the default registry on next run`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.DatasetsConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to load datasets registry: %w", err),
	}
}
