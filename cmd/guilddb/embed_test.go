package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetEmbedCmd_Exists verifies getEmbedCmd returns
// a valid command.
func TestGetEmbedCmd_Exists(t *testing.T) {
	cmd := getEmbedCmd()
	require.NotNil(t, cmd, "Embed command should exist")
	assert.Equal(t, "embed", cmd.Use,
		"Command name should be embed")
}

// TestGetEmbedCmd_LongDescription verifies long
// description.
func TestGetEmbedCmd_LongDescription(t *testing.T) {
	cmd := getEmbedCmd()

	assert.NotEmpty(t, cmd.Long,
		"Long description should not be empty")
	assert.Contains(t, cmd.Long, "MDS",
		"Long description should mention the projection")
	assert.Contains(t, cmd.Long, "no database connection",
		"Long description should note the artifact-only path")
	assert.Contains(t, cmd.Long, "guilddb distances",
		"Long description should mention the prerequisite")
}

// TestGetEmbedCmd_BenchmarkFlag verifies --benchmark
// flag exists.
func TestGetEmbedCmd_BenchmarkFlag(t *testing.T) {
	cmd := getEmbedCmd()

	benchFlag := cmd.Flags().Lookup("benchmark")
	require.NotNil(t, benchFlag,
		"--benchmark flag should exist")

	assert.Equal(t, "b", benchFlag.Shorthand,
		"Short form should be -b")
	assert.Equal(t, "false", benchFlag.DefValue,
		"Default should be false")
	assert.Contains(t, benchFlag.Usage, "exact oracle",
		"Usage should mention the exact oracle")
}

// TestGetEmbedCmd_HasRunE verifies run function is set.
func TestGetEmbedCmd_HasRunE(t *testing.T) {
	cmd := getEmbedCmd()

	assert.NotNil(t, cmd.RunE,
		"RunE should be set")
}
