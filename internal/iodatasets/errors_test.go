package iodatasets_test

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/internal/iodatasets"
	"github.com/permaguild/guilddb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistryConfigError verifies error structure.
func TestRegistryConfigError(t *testing.T) {
	path := "/test/datasets.yaml"
	originalErr := errors.New("file not found")

	err := iodatasets.RegistryConfigError(path, originalErr)

	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DatasetsConfigError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Len(t, gnErr.Vars, 2)
	assert.Equal(t, path, gnErr.Vars[0])
	assert.ErrorIs(t, gnErr.Err, originalErr)
}
