package iopairs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadError(t *testing.T) {
	cause := fmt.Errorf("table empty")
	err := LoadError("the candidate roster", cause)

	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.PairsLoadError, gnErr.Code)
	require.Len(t, gnErr.Vars, 1)
	assert.Equal(t, "the candidate roster", gnErr.Vars[0])
	assert.ErrorIs(t, err, cause)
}

func TestErrorCodes(t *testing.T) {
	cause := fmt.Errorf("original error")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
	}{
		{
			name: "NotConnectedError",
			err:  NotConnectedError(),
			code: errcode.DBNotConnectedError,
		},
		{
			name: "SaveError",
			err:  SaveError(cause),
			code: errcode.PairsSaveError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gnErr *gn.Error
			require.True(t, errors.As(tt.err, &gnErr))
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			assert.Error(t, gnErr.Err)
		})
	}
}
