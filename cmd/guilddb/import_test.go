package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetImportCmd_Exists verifies getImportCmd returns
// a valid command.
func TestGetImportCmd_Exists(t *testing.T) {
	cmd := getImportCmd()
	require.NotNil(t, cmd, "Import command should exist")
	assert.Equal(t, "import", cmd.Use,
		"Command name should be import")
}

// TestGetImportCmd_LongDescription verifies long
// description.
func TestGetImportCmd_LongDescription(t *testing.T) {
	cmd := getImportCmd()

	assert.NotEmpty(t, cmd.Long,
		"Long description should not be empty")
	assert.Contains(t, cmd.Long, "datasets.yaml",
		"Long description should mention the registry file")
	assert.Contains(t, cmd.Long, "CopyFrom",
		"Long description should mention bulk loading")
	assert.Contains(t, cmd.Long, "phylogeny",
		"Long description should mention the phylogeny")
}

// TestGetImportCmd_DatasetIDsFlag verifies --dataset-ids
// flag exists.
func TestGetImportCmd_DatasetIDsFlag(t *testing.T) {
	cmd := getImportCmd()

	idsFlag := cmd.Flags().Lookup("dataset-ids")
	require.NotNil(t, idsFlag,
		"--dataset-ids flag should exist")

	assert.Equal(t, "d", idsFlag.Shorthand,
		"Short form should be -d")
	assert.Contains(t, idsFlag.Usage, "all",
		"Usage should explain the empty default")
}

// TestGetImportCmd_HasRunE verifies run function is set.
func TestGetImportCmd_HasRunE(t *testing.T) {
	cmd := getImportCmd()

	assert.NotNil(t, cmd.RunE,
		"RunE should be set")
}
