package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// caller names the function that asked for the error, two
// frames up: past this helper and past the constructor.
func caller() string {
	pc, _, _, _ := runtime.Caller(2)
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.Name()
	}
	return "unknown"
}

func CreateDirError(dir string, err error) error {
	msg := "Cannot create <em>%s</em>"
	vars := []any{dir}
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot create directory: %w",
			caller(), err),
	}
}

func WriteFileError(file string, err error) error {
	msg := "Cannot write the default <em>%s</em>"
	vars := []any{file}
	return &gn.Error{
		Code: errcode.WriteFileError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write default file: %w",
			caller(), err),
	}
}

func ReadFileError(path string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.ReadFileError,
		Err: fmt.Errorf("from %s: cannot read %s: %w",
			caller(), path, err),
		Msg:  msg,
		Vars: vars,
	}
}
