package artifact

import (
	"bufio"
	"fmt"
	"io"
)

// Matrix is the dense pairwise phylogenetic distance matrix. Data is
// row-major float32, symmetric with a zero diagonal; row and column i
// belong to Meta.RosterIDs[i].
type Matrix struct {
	Meta Meta
	Data []float32

	index map[string]int
}

// NewMatrix builds a matrix artifact from a computed payload. The payload
// must be n×n row-major where n = len(rosterIDs); treeFingerprint is the
// Fingerprint of the Newick file content the distances derive from.
func NewMatrix(
	rosterIDs []string,
	treeFingerprint string,
	data []float32,
) (*Matrix, error) {
	n := len(rosterIDs)
	if len(data) != n*n {
		return nil, fmt.Errorf(
			"payload has %d values, want %d for %d tips",
			len(data), n*n, n,
		)
	}
	m := &Matrix{
		Meta: newMeta(KindMatrix, treeFingerprint, rosterIDs, n, n),
		Data: data,
	}
	m.buildIndex()
	return m, nil
}

// ReadMatrix loads a matrix artifact.
func ReadMatrix(r io.Reader) (*Matrix, error) {
	br := bufio.NewReaderSize(r, 1<<20)

	meta, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	if meta.Kind != KindMatrix {
		return nil, fmt.Errorf(
			"artifact is %q, want %q", meta.Kind, KindMatrix,
		)
	}
	if meta.Rows != meta.Cols {
		return nil, fmt.Errorf(
			"distance matrix must be square, got %dx%d",
			meta.Rows, meta.Cols,
		)
	}

	data, err := ReadFloats(br, meta.Rows*meta.Cols)
	if err != nil {
		return nil, err
	}

	m := &Matrix{Meta: meta, Data: data}
	m.buildIndex()
	return m, nil
}

// Write serializes the matrix artifact.
func (m *Matrix) Write(w io.Writer) error {
	if err := WriteHeader(w, m.Meta); err != nil {
		return err
	}
	return WriteFloats(w, m.Data)
}

func (m *Matrix) buildIndex() {
	m.index = make(map[string]int, len(m.Meta.RosterIDs))
	for i, id := range m.Meta.RosterIDs {
		m.index[id] = i
	}
}

// N returns the roster size.
func (m *Matrix) N() int {
	return m.Meta.Rows
}

// At returns the distance between roster indexes i and j.
func (m *Matrix) At(i, j int) float64 {
	return float64(m.Data[i*m.Meta.Cols+j])
}

// IndexOf returns the roster index of a plant id.
func (m *Matrix) IndexOf(plantID string) (int, bool) {
	i, ok := m.index[plantID]
	return i, ok
}

// Fingerprint returns the payload fingerprint, used as the source
// fingerprint of embeddings built from this matrix.
func (m *Matrix) Fingerprint() string {
	return FloatsFingerprint(m.Data)
}
