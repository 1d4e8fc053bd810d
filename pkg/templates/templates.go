// Package templates provides embedded YAML configuration templates.
package templates

import _ "embed"

// DatasetsYAML contains the default datasets.yaml template describing
// the dataset snapshots and the phylogeny location.
//
//go:embed datasets.yaml
var DatasetsYAML string

// ConfigYAML contains the default config.yaml template for application configuration.
//
//go:embed config.yaml
var ConfigYAML string
