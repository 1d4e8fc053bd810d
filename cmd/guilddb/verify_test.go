package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetVerifyCmd_Exists verifies getVerifyCmd returns
// a valid command.
func TestGetVerifyCmd_Exists(t *testing.T) {
	cmd := getVerifyCmd()
	require.NotNil(t, cmd, "Verify command should exist")
	assert.Equal(t, "verify", cmd.Use,
		"Command name should be verify")
}

// TestGetVerifyCmd_LongDescription verifies long
// description.
func TestGetVerifyCmd_LongDescription(t *testing.T) {
	cmd := getVerifyCmd()

	assert.NotEmpty(t, cmd.Long,
		"Long description should not be empty")
	assert.Contains(t, cmd.Long, "fingerprint",
		"Long description should mention fingerprints")
	assert.Contains(t, cmd.Long, "stale",
		"Long description should mention staleness")
}

// TestGetVerifyCmd_HasRunE verifies run function is set.
func TestGetVerifyCmd_HasRunE(t *testing.T) {
	cmd := getVerifyCmd()

	assert.NotNil(t, cmd.RunE,
		"RunE should be set")
}
