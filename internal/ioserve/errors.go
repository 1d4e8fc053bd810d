package ioserve

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// NotConnectedError creates an error for serving attempted before
// Connect.
func NotConnectedError() error {
	msg := "Serving attempted without a database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// HandleError creates an error for request state that cannot be
// loaded at startup.
func HandleError(what string, err error) error {
	msg := `Cannot load %s for serving

<em>How to fix:</em>
  1. Build the plant profiles first: <em>guilddb profiles</em>
  2. Mine the benefits: <em>guilddb benefits</em>
  3. Check the artifacts: <em>guilddb verify</em>`

	vars := []any{what}

	return &gn.Error{
		Code: errcode.ServeHandleError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot load %s: %w", what, err),
	}
}

// StartError creates an error for an API listener that cannot run.
func StartError(err error) error {
	msg := `Cannot run the API server

<em>How to fix:</em>
  1. Check that the configured port is free
  2. Change <em>serve.port</em> in the config if it is taken`

	return &gn.Error{
		Code: errcode.ServeStartError,
		Msg:  msg,
		Err:  fmt.Errorf("cannot run API server: %w", err),
	}
}
