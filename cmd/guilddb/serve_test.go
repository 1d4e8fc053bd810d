package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetServeCmd_Exists verifies getServeCmd returns
// a valid command.
func TestGetServeCmd_Exists(t *testing.T) {
	cmd := getServeCmd()
	require.NotNil(t, cmd, "Serve command should exist")
	assert.Equal(t, "serve", cmd.Use,
		"Command name should be serve")
}

// TestGetServeCmd_LongDescription verifies long
// description.
func TestGetServeCmd_LongDescription(t *testing.T) {
	cmd := getServeCmd()

	assert.NotEmpty(t, cmd.Long,
		"Long description should not be empty")
	assert.Contains(t, cmd.Long, "/api/score-guild",
		"Long description should list the endpoints")
	assert.Contains(t, cmd.Long, "restart the server",
		"Long description should explain artifact reloads")
}

// TestGetServeCmd_PortFlag verifies --port flag exists.
func TestGetServeCmd_PortFlag(t *testing.T) {
	cmd := getServeCmd()

	portFlag := cmd.Flags().Lookup("port")
	require.NotNil(t, portFlag,
		"--port flag should exist")

	assert.Equal(t, "p", portFlag.Shorthand,
		"Short form should be -p")
	assert.Contains(t, portFlag.Usage, "configuration",
		"Usage should mention the config default")
}
