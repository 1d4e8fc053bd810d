package datasets

import (
	"fmt"
)

// Validate checks the configuration for errors and applies defaults.
func (c *RegistryConfig) Validate() error {
	if len(c.Datasets) == 0 {
		return fmt.Errorf("no datasets specified in configuration")
	}

	// Validate each dataset
	seen := make(map[int]bool)
	for i := range c.Datasets {
		warnings, err := c.Datasets[i].Validate(i + 1)
		if err != nil {
			return fmt.Errorf("dataset %d: %w", i+1, err)
		}
		c.Warnings = append(c.Warnings, warnings...)

		id := c.Datasets[i].ID
		if seen[id] {
			return fmt.Errorf("dataset %d: duplicate id %d", i+1, id)
		}
		seen[id] = true
	}

	// The phylogeny entry is optional at load time. Only the distances
	// command requires it, so a missing entry is a warning here.
	if c.Phylogeny.Parent == "" {
		c.Warnings = append(c.Warnings, ValidationWarning{
			Field:   "phylogeny.parent",
			Message: "phylogeny location is not set",
			Suggestion: "Set 'phylogeny: parent:' to a Newick file path " +
				"or URL; the distances command requires it",
		})
	}

	return nil
}

// Validate checks a single dataset configuration for data structure validity.
// File system validation (directory existence) is deferred to runtime (I/O layer).
// Returns a slice of warnings (non-fatal issues) and an error (fatal issues).
func (d *DatasetConfig) Validate(index int) ([]ValidationWarning, error) {
	var warnings []ValidationWarning

	// ID is required
	if d.ID == 0 {
		return nil, fmt.Errorf("id is required")
	}

	// PhylogenyID is reserved for the phylogeny registry row
	if d.ID == PhylogenyID {
		return nil, fmt.Errorf(
			"id %d is reserved for the phylogeny entry", PhylogenyID,
		)
	}

	// Kind is required and selects the importer
	switch d.Kind {
	case "":
		return nil, fmt.Errorf("kind is required")
	case KindPlants, KindInteractions, KindFungalTraits:
	default:
		return nil, fmt.Errorf(
			"invalid kind '%s': must be '%s', '%s' or '%s'",
			d.Kind, KindPlants, KindInteractions, KindFungalTraits,
		)
	}

	// Parent is required
	if d.Parent == "" {
		return nil, fmt.Errorf("parent directory or URL is required")
	}

	return warnings, nil
}
