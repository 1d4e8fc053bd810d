package ioimport

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveError(t *testing.T) {
	originalErr := errors.New("no snapshot found")

	err := ResolveError(5, "/data/snapshots", originalErr)

	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.SnapshotResolveError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Equal(t, 5, gnErr.Vars[0])
	assert.Equal(t, "/data/snapshots", gnErr.Vars[1])
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

func TestErrorCodes(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
	}{
		{"not connected", NotConnectedError(), errcode.DBNotConnectedError},
		{"no datasets", NoDatasetsError([]int{7}), errcode.DatasetNotFoundError},
		{"fetch", FetchError("http://x/y.sqlite", cause), errcode.SnapshotFetchError},
		{"open", OpenError("/tmp/y.sqlite", cause), errcode.SnapshotOpenError},
		{"plants", PlantsError(1, cause), errcode.ImportPlantsError},
		{"interactions", InteractionsError(2, cause), errcode.ImportInteractionsError},
		{"fungal traits", FungalTraitsError(3, cause), errcode.ImportFungalTraitsError},
		{"copy", CopyError("plants", cause), errcode.ImportCopyError},
		{"metadata", MetadataError(1, cause), errcode.ImportMetadataError},
		{"all failed", AllDatasetsFailedError(3), errcode.ImportAllDatasetsFailedError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gnErr *gn.Error
			require.True(t, errors.As(tt.err, &gnErr))
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			assert.NotNil(t, gnErr.Err)
		})
	}
}
