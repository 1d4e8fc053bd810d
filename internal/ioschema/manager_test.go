package ioschema

import (
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/internal/iodb"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/errcode"
	"github.com/permaguild/guilddb/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestManager_ImplementsInterface verifies manager
// implements lifecycle.SchemaManager interface.
func TestManager_ImplementsInterface(t *testing.T) {
	op := iodb.NewPgxOperator()
	var _ lifecycle.SchemaManager = NewManager(op)
}

// TestNewManager_CreatesManager verifies manager creation.
func TestNewManager_CreatesManager(t *testing.T) {
	op := iodb.NewPgxOperator()
	mgr := NewManager(op)
	require.NotNil(t, mgr)
}

// TestCreate_RequiresConnection verifies Create refuses to
// run before the operator connected.
func TestCreate_RequiresConnection(t *testing.T) {
	op := iodb.NewPgxOperator()
	mgr := NewManager(op)

	err := mgr.Create(context.Background(), &config.Config{})

	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

// TestMigrate_RequiresConnection verifies Migrate refuses to
// run before the operator connected.
func TestMigrate_RequiresConnection(t *testing.T) {
	op := iodb.NewPgxOperator()
	mgr := NewManager(op)

	err := mgr.Migrate(context.Background(), &config.Config{})

	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

// Create and Migrate against a live database, including the
// collation pinning, are covered by E2E tests.
