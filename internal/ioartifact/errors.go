package ioartifact

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/pkg/errcode"
)

// NotConnectedError creates an error for verification attempted
// before Connect.
func NotConnectedError() error {
	msg := "Artifact verification attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("database not connected"),
	}
}

// ReadError creates an error for an unreadable artifact file.
func ReadError(path string, err error) error {
	msg := `Cannot read artifact

<em>File:</em> %s

<em>Possible causes:</em>
  - The artifact was never built
  - The file was truncated or edited

<em>How to fix:</em>
  1. Rebuild the distance matrix: <em>guilddb distances</em>
  2. Rebuild the embedding: <em>guilddb embed</em>`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ArtifactReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to read artifact %s: %w", path, err),
	}
}

// WriteError creates an error for a failed artifact write.
func WriteError(path string, err error) error {
	msg := `Cannot write artifact

<em>File:</em> %s

<em>How to fix:</em>
  1. Check free disk space: <em>df -h</em>
  2. Check permissions on <em>~/.local/share/guilddb/artifacts</em>`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.ArtifactWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to write artifact %s: %w", path, err),
	}
}

// VerificationError creates an error summarizing non-ok findings.
// Verify returns it so the command exits non-zero, while each finding
// has already been reported on its own.
func VerificationError(findings []Finding) error {
	var lines []string
	for _, f := range findings {
		if f.Status == StatusOK {
			continue
		}
		lines = append(lines, fmt.Sprintf(
			"  - %s: %s (%s)",
			f.Artifact, f.Status, strings.Join(f.Reasons, "; "),
		))
	}

	msg := `Artifacts are out of sync

%s

<em>How to fix:</em>
  1. Rebuild the distance matrix: <em>guilddb distances</em>
  2. Rebuild the embedding: <em>guilddb embed</em>
  3. Run <em>guilddb verify</em> again`

	vars := []any{strings.Join(lines, "\n")}

	return &gn.Error{
		Code: errcode.ArtifactStaleError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("artifact verification found %d problem(s)", len(lines)),
	}
}
