package ioartifact

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/permaguild/guilddb/internal/iotree"
	"github.com/permaguild/guilddb/pkg/artifact"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/db"
	"github.com/permaguild/guilddb/pkg/lifecycle"
)

// Verification outcomes for a single artifact, ordered from best to
// worst.
const (
	StatusOK      = "ok"
	StatusStale   = "stale"
	StatusMissing = "missing"
	StatusCorrupt = "corrupt"
)

// Finding is the verification outcome of one artifact.
type Finding struct {
	Artifact string
	Status   string
	Reasons  []string
}

type verifier struct {
	operator db.Operator
}

// NewVerifier creates a lifecycle.Verifier that checks the artifact
// chain against PostgreSQL and the registered phylogeny.
func NewVerifier(op db.Operator) lifecycle.Verifier {
	return &verifier{operator: op}
}

// Verify walks the artifact chain. The distance matrix is checked
// against the current tree fingerprint and plant roster, the
// embedding against the matrix payload fingerprint, the embedding
// dimensions and quality against the configuration. Each artifact
// gets its own finding; a stale artifact is reported, not treated as
// a failure of the others.
func (v *verifier) Verify(ctx context.Context, cfg *config.Config) error {
	pool := v.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	tree, treeFingerprint, err := iotree.Load(cfg)
	if err != nil {
		return err
	}

	resolver, err := iotree.ResolverFromDB(ctx, pool, tree)
	if err != nil {
		return err
	}

	roster := resolver.Roster()
	rosterIDs := make([]string, len(roster))
	for i, r := range roster {
		rosterIDs[i] = r.PlantID
	}

	matrix, matrixFinding := checkMatrix(
		config.MatrixPath(cfg.HomeDir), treeFingerprint, rosterIDs,
	)
	embedFinding := checkEmbedding(
		config.EmbeddingPath(cfg.HomeDir),
		matrix,
		cfg.Embed.Dims,
		cfg.Embed.MinCorrelation,
	)

	findings := []Finding{matrixFinding, embedFinding}
	for _, f := range findings {
		if f.Status == StatusOK {
			slog.Info("Artifact is up to date", "artifact", f.Artifact)
			continue
		}
		slog.Warn("Artifact needs rebuilding",
			"artifact", f.Artifact,
			"status", f.Status,
			"reasons", strings.Join(f.Reasons, "; "),
		)
	}

	if worstStatus(findings) == StatusOK {
		slog.Info("All artifacts verified", "plants", len(rosterIDs))
		return nil
	}
	return VerificationError(findings)
}

// checkMatrix classifies the distance matrix artifact. The matrix is
// returned when it is readable, even if stale, so the embedding check
// can still compare fingerprints.
func checkMatrix(
	path, treeFingerprint string,
	rosterIDs []string,
) (*artifact.Matrix, Finding) {
	f := Finding{Artifact: artifact.KindMatrix}

	if _, err := os.Stat(path); err != nil {
		f.Status = StatusMissing
		f.Reasons = []string{fmt.Sprintf("no file at %s", path)}
		return nil, f
	}

	m, err := readMatrixFile(path)
	if err != nil {
		f.Status = StatusCorrupt
		f.Reasons = []string{err.Error()}
		return nil, f
	}

	if m.Meta.SourceFingerprint != treeFingerprint {
		f.Reasons = append(f.Reasons, fmt.Sprintf(
			"tree fingerprint changed (matrix %s, current %s)",
			m.Meta.SourceFingerprint, treeFingerprint,
		))
	}
	if !slices.Equal(m.Meta.RosterIDs, rosterIDs) {
		f.Reasons = append(f.Reasons, fmt.Sprintf(
			"plant roster changed (matrix %d plants, database %d)",
			len(m.Meta.RosterIDs), len(rosterIDs),
		))
	}

	if len(f.Reasons) > 0 {
		f.Status = StatusStale
	} else {
		f.Status = StatusOK
	}
	return m, f
}

// checkEmbedding classifies the embedding artifact against the
// matrix it claims to be derived from.
func checkEmbedding(
	path string,
	m *artifact.Matrix,
	dims int,
	minCorrelation float64,
) Finding {
	f := Finding{Artifact: artifact.KindEmbedding}

	if _, err := os.Stat(path); err != nil {
		f.Status = StatusMissing
		f.Reasons = []string{fmt.Sprintf("no file at %s", path)}
		return f
	}

	e, err := readEmbeddingFile(path)
	if err != nil {
		f.Status = StatusCorrupt
		f.Reasons = []string{err.Error()}
		return f
	}

	if m == nil {
		f.Reasons = append(f.Reasons,
			"distance matrix is unavailable for comparison")
	} else {
		if e.Meta.SourceFingerprint != m.Fingerprint() {
			f.Reasons = append(f.Reasons, fmt.Sprintf(
				"matrix fingerprint changed (embedding %s, current %s)",
				e.Meta.SourceFingerprint, m.Fingerprint(),
			))
		}
		if !slices.Equal(e.Meta.RosterIDs, m.Meta.RosterIDs) {
			f.Reasons = append(f.Reasons,
				"embedding roster differs from matrix roster")
		}
	}

	if e.Dims() != dims {
		f.Reasons = append(f.Reasons, fmt.Sprintf(
			"dimensions changed (embedding %d, config %d)",
			e.Dims(), dims,
		))
	}
	if e.Meta.SampledR < minCorrelation {
		f.Reasons = append(f.Reasons, fmt.Sprintf(
			"quality below threshold (r=%.3f, min %.3f)",
			e.Meta.SampledR, minCorrelation,
		))
	}

	if len(f.Reasons) > 0 {
		f.Status = StatusStale
	} else {
		f.Status = StatusOK
	}
	return f
}

func readMatrixFile(path string) (*artifact.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return artifact.ReadMatrix(f)
}

func readEmbeddingFile(path string) (*artifact.Embedding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return artifact.ReadEmbedding(f)
}

// worstStatus returns the worst status across findings.
func worstStatus(findings []Finding) string {
	worst := StatusOK
	for _, f := range findings {
		if statusRank(f.Status) > statusRank(worst) {
			worst = f.Status
		}
	}
	return worst
}

func statusRank(status string) int {
	switch status {
	case StatusOK:
		return 0
	case StatusStale:
		return 1
	case StatusMissing:
		return 2
	default:
		return 3
	}
}
