package iodatasets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_Minimal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	// Create a temporary test directory
	tmpDir, err := os.MkdirTemp("", "datasets-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	// Create parent directory for snapshot files
	parentDir := filepath.Join(tmpDir, "snapshots")
	err = os.MkdirAll(parentDir, 0755)
	require.NoError(t, err)

	// Create minimal datasets.yaml
	yamlContent := `
datasets:
  - id: 1001
    kind: plants
    parent: ` + parentDir + `
`

	registryPath := filepath.Join(tmpDir, "datasets.yaml")
	err = os.WriteFile(registryPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	// Load registry
	registry, err := loadRegistry(registryPath)
	require.NoError(t, err)
	require.Len(t, registry.Datasets, 1)

	// Check first dataset
	ds := registry.Datasets[0]
	assert.Equal(t, 1001, ds.ID)
	assert.Equal(t, "plants", ds.Kind)

	// Missing phylogeny is a warning, not an error
	require.Len(t, registry.Warnings, 1)
	assert.Equal(t, "phylogeny.parent", registry.Warnings[0].Field)
}

func TestLoadRegistry_FileNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	_, err := loadRegistry("nonexistent.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read datasets registry file")
}

func TestLoadRegistry_DirectoryNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	// Create a temporary test directory
	tmpDir, err := os.MkdirTemp("", "datasets-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	// Create datasets.yaml with non-existent parent directory
	yamlContent := `
datasets:
  - id: 1001
    kind: interactions
    parent: /nonexistent/directory/that/does/not/exist
`

	registryPath := filepath.Join(tmpDir, "datasets.yaml")
	err = os.WriteFile(registryPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	// Load registry - should fail with directory not found
	_, err = loadRegistry(registryPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parent directory does not exist")
}

func TestLoadRegistry_URLsSkipFileSystemCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	// Create a temporary test directory
	tmpDir, err := os.MkdirTemp("", "datasets-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	// Create datasets.yaml with URL parents (no file system check)
	yamlContent := `
datasets:
  - id: 1
    kind: plants
    parent: http://opendata.permaguild.org/snapshots/latest/
phylogeny:
  parent: http://opendata.permaguild.org/snapshots/latest/phylogeny.nwk
`

	registryPath := filepath.Join(tmpDir, "datasets.yaml")
	err = os.WriteFile(registryPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	// Load registry - should succeed even though URL doesn't exist locally
	registry, err := loadRegistry(registryPath)
	require.NoError(t, err)
	require.Len(t, registry.Datasets, 1)
	assert.Equal(t, 1, registry.Datasets[0].ID)
	assert.Equal(
		t,
		"http://opendata.permaguild.org/snapshots/latest/",
		registry.Datasets[0].Parent,
	)
	assert.Empty(t, registry.Warnings)
}

func TestLoadRegistry_PhylogenyMustBeFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	tmpDir, err := os.MkdirTemp("", "datasets-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	parentDir := filepath.Join(tmpDir, "snapshots")
	err = os.MkdirAll(parentDir, 0755)
	require.NoError(t, err)

	// Phylogeny parent points at a directory instead of a Newick file
	yamlContent := `
datasets:
  - id: 1
    kind: plants
    parent: ` + parentDir + `
phylogeny:
  parent: ` + parentDir + `
`

	registryPath := filepath.Join(tmpDir, "datasets.yaml")
	err = os.WriteFile(registryPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	_, err = loadRegistry(registryPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be a Newick file")
}

func TestLoadRegistry_EmbeddedTemplate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	// The embedded template must stay loadable. Its parents are URLs,
	// so no file system checks fire.
	tmpDir, err := os.MkdirTemp("", "datasets-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	registryPath := filepath.Join(tmpDir, "datasets.yaml")
	data, err := os.ReadFile(
		filepath.Join("..", "..", "pkg", "templates", "datasets.yaml"))
	require.NoError(t, err)
	err = os.WriteFile(registryPath, data, 0644)
	require.NoError(t, err)

	registry, err := loadRegistry(registryPath)
	require.NoError(t, err)
	assert.Len(t, registry.Datasets, 3)
	assert.NotEmpty(t, registry.Phylogeny.Parent)
	assert.Empty(t, registry.Warnings)
}
