// Package datasets provides configuration and validation for guilddb
// dataset snapshots.
//
// This package defines the schema for datasets.yaml, which users provide to
// specify which dataset snapshots to import. Snapshots are SQLite files,
// optionally zipped, stored in a local directory or behind an HTTP URL. The
// package handles registry validation and metadata extraction from snapshot
// filenames.
//
// The embedded datasets.yaml template in pkg/templates documents the full
// registry format.
package datasets

// Dataset kinds select the importer for a snapshot.
const (
	KindPlants       = "plants"
	KindInteractions = "interactions"
	KindFungalTraits = "fungal-traits"
	KindPhylogeny    = "phylogeny"
)

// PhylogenyID is the reserved registry id under which the phylogeny
// location is recorded in the datasets table.
const PhylogenyID = 999

type Datasets interface {
	Load() (*RegistryConfig, error)
}

// RegistryConfig represents the complete datasets.yaml configuration file.
type RegistryConfig struct {
	// Datasets is the list of snapshot datasets to import.
	Datasets []DatasetConfig `yaml:"datasets"`

	// Phylogeny points at the Newick tree used for phylogenetic
	// distances. Registered alongside the snapshots but never loaded
	// into tables.
	Phylogeny PhylogenyConfig `yaml:"phylogeny"`

	// Warnings holds non-fatal validation warnings (not serialized)
	Warnings []ValidationWarning `yaml:"-"`
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	DatasetID  int    // ID of the dataset
	Field      string // Field name that has the issue
	Message    string // Description of the issue
	Suggestion string // How to fix it
}

// DatasetConfig represents configuration for a single dataset snapshot.
//
// Snapshot metadata tables provide these fields (only override if needed):
//   - title
//   - description
//   - version - NEVER in YAML, always from snapshot metadata or filename
//   - revision_date - NEVER in YAML, always from snapshot metadata or filename
//   - home_url
type DatasetConfig struct {
	// Core identification (required)
	// ID identifies the dataset. Convention: < 1000 = official, >= 1000 = custom
	ID int `yaml:"id"`

	// Kind selects the importer. One of: "plants", "interactions",
	// "fungal-traits".
	Kind string `yaml:"kind"`

	// Parent is the directory or URL containing snapshot files for this
	// dataset.
	// Auto-detected: starts with http:// or https:// = URL, otherwise = directory
	// Snapshot files are matched by pattern: {4-digit-ID}*.sqlite[.zip]
	// Examples:
	//   - http://opendata.permaguild.org/snapshots/latest/
	//   - /home/user/data/snapshots/
	//   - ~/data/snapshots/
	Parent string `yaml:"parent"`

	// Titles and description (override snapshot metadata if needed)
	Title       string `yaml:"title,omitempty"`
	TitleShort  string `yaml:"title_short,omitempty"`
	Description string `yaml:"description,omitempty"`

	// URLs (override snapshot metadata if needed)
	HomeURL string `yaml:"home_url,omitempty"`
	DataURL string `yaml:"data_url,omitempty"`
}

// PhylogenyConfig points at the Newick phylogeny file.
type PhylogenyConfig struct {
	// Parent is the path or URL of the Newick file itself, not a
	// directory.
	Parent string `yaml:"parent"`
}

// FileMetadata contains metadata extracted from a snapshot filename.
type FileMetadata struct {
	ID           int    // Extracted from filename
	Version      string // Extracted from filename (if present)
	RevisionDate string // Extracted from filename in YYYY-MM-DD format (if present)
	IsURL        bool   // True if file is a URL
}
