// Package iodatasets loads and validates the datasets.yaml registry.
// This is an impure I/O package that reads the registry from the config
// directory and checks that local parent directories exist.
package iodatasets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/datasets"
	"gopkg.in/yaml.v3"
)

type iodatasets struct {
	cfg *config.Config
}

func New(cfg *config.Config) datasets.Datasets {
	res := iodatasets{cfg: cfg}
	return &res
}

func (d *iodatasets) Load() (*datasets.RegistryConfig, error) {
	registryPath := config.DatasetsFilePath(d.cfg.HomeDir)
	registry, err := loadRegistry(registryPath)
	if err != nil {
		return nil, RegistryConfigError(registryPath, err)
	}
	return registry, nil
}

// loadRegistry reads and validates datasets.yaml from disk.
// It performs both data structure validation (via
// datasets.RegistryConfig.Validate) and file system validation
// (directory existence checks).
func loadRegistry(path string) (*datasets.RegistryConfig, error) {
	// Read file from disk
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read datasets registry file: %w", err)
	}

	// Parse YAML
	var registry datasets.RegistryConfig
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse datasets registry: %w", err)
	}

	// Validate data structure (pure validation)
	if err := registry.Validate(); err != nil {
		return nil, err
	}

	// Perform file system validation for local directories
	if err := validateRegistryFileSystem(&registry); err != nil {
		return nil, err
	}

	// Log configuration warnings
	for _, w := range registry.Warnings {
		slog.Warn("Dataset registry warning",
			"dataset_id", w.DatasetID,
			"field", w.Field,
			"message", w.Message,
			"suggestion", w.Suggestion)
	}

	return &registry, nil
}

// validateRegistryFileSystem checks that parent directories exist for local
// paths. URLs are validated at fetch time instead.
func validateRegistryFileSystem(registry *datasets.RegistryConfig) error {
	for i, ds := range registry.Datasets {
		// Skip URLs - they'll be validated at fetch time
		if datasets.IsValidURL(ds.Parent) {
			continue
		}

		// Expand ~ if needed
		parentPath, err := expandHome(ds.Parent)
		if err != nil {
			return fmt.Errorf("dataset %d: %w", i+1, err)
		}

		// Check directory exists
		stat, err := os.Stat(parentPath)
		if os.IsNotExist(err) {
			return fmt.Errorf(
				"dataset %d: parent directory does not exist: %s",
				i+1, ds.Parent,
			)
		}
		if err != nil {
			return fmt.Errorf(
				"dataset %d: failed to check parent directory: %w",
				i+1, err,
			)
		}
		if !stat.IsDir() {
			return fmt.Errorf(
				"dataset %d: parent path is not a directory: %s",
				i+1, ds.Parent,
			)
		}
	}

	// The phylogeny parent is a file, not a directory.
	if p := registry.Phylogeny.Parent; p != "" && !datasets.IsValidURL(p) {
		phyloPath, err := expandHome(p)
		if err != nil {
			return fmt.Errorf("phylogeny: %w", err)
		}
		stat, err := os.Stat(phyloPath)
		if os.IsNotExist(err) {
			return fmt.Errorf(
				"phylogeny: file does not exist: %s", p,
			)
		}
		if err != nil {
			return fmt.Errorf(
				"phylogeny: failed to check file: %w", err,
			)
		}
		if stat.IsDir() {
			return fmt.Errorf(
				"phylogeny: parent must be a Newick file, not a directory: %s", p,
			)
		}
	}

	return nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand ~: %w", err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}
