package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetDistancesCmd_Exists verifies getDistancesCmd
// returns a valid command.
func TestGetDistancesCmd_Exists(t *testing.T) {
	cmd := getDistancesCmd()
	require.NotNil(t, cmd, "Distances command should exist")
	assert.Equal(t, "distances", cmd.Use,
		"Command name should be distances")
}

// TestGetDistancesCmd_LongDescription verifies long
// description.
func TestGetDistancesCmd_LongDescription(t *testing.T) {
	cmd := getDistancesCmd()

	assert.NotEmpty(t, cmd.Long,
		"Long description should not be empty")
	assert.Contains(t, cmd.Long, "shards",
		"Long description should mention resumable shards")
	assert.Contains(t, cmd.Long, "row block",
		"Long description should mention row blocks")
}

// TestGetDistancesCmd_HasRunE verifies run function is set.
func TestGetDistancesCmd_HasRunE(t *testing.T) {
	cmd := getDistancesCmd()

	assert.NotNil(t, cmd.RunE,
		"RunE should be set")
}
