package iologger

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// CreateLogFileError creates an error for when guilddb.log
// cannot be opened in the log directory.
func CreateLogFileError(path string, err error) error {
	msg := `Cannot open log file <em>%s</em>

<em>How to fix:</em>
  1. Check that the log directory exists and is writable
  2. Set log.destination to <em>stderr</em> or <em>stdout</em> to run
     without a log file`
	vars := []any{path}
	fnName := "unknown"
	pc, _, _, _ := runtime.Caller(1)
	if fn := runtime.FuncForPC(pc); fn != nil {
		fnName = fn.Name()
	}
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open log file: %w",
			fnName, err),
	}
}
