package artifact

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

// Embedding is the low-dimensional metric embedding of the distance
// matrix. Data is row-major float32 with one dims-length vector per
// roster id.
type Embedding struct {
	Meta Meta
	Data []float32

	index map[string]int
}

// NewEmbedding builds an embedding artifact from computed coordinates.
// matrixFingerprint is the payload fingerprint of the source matrix;
// stress, sampledR and samplePairs record the quality evaluation.
func NewEmbedding(
	rosterIDs []string,
	matrixFingerprint string,
	data []float32,
	dims int,
	stress, sampledR float64,
	samplePairs int,
) (*Embedding, error) {
	n := len(rosterIDs)
	if dims <= 0 {
		return nil, fmt.Errorf("embedding dims must be positive, got %d", dims)
	}
	if len(data) != n*dims {
		return nil, fmt.Errorf(
			"payload has %d values, want %d for %d tips in %d dims",
			len(data), n*dims, n, dims,
		)
	}
	meta := newMeta(KindEmbedding, matrixFingerprint, rosterIDs, n, dims)
	meta.Stress = stress
	meta.SampledR = sampledR
	meta.SamplePairs = samplePairs

	e := &Embedding{Meta: meta, Data: data}
	e.buildIndex()
	return e, nil
}

// ReadEmbedding loads an embedding artifact.
func ReadEmbedding(r io.Reader) (*Embedding, error) {
	br := bufio.NewReaderSize(r, 1<<20)

	meta, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	if meta.Kind != KindEmbedding {
		return nil, fmt.Errorf(
			"artifact is %q, want %q", meta.Kind, KindEmbedding,
		)
	}

	data, err := ReadFloats(br, meta.Rows*meta.Cols)
	if err != nil {
		return nil, err
	}

	e := &Embedding{Meta: meta, Data: data}
	e.buildIndex()
	return e, nil
}

// Write serializes the embedding artifact.
func (e *Embedding) Write(w io.Writer) error {
	if err := WriteHeader(w, e.Meta); err != nil {
		return err
	}
	return WriteFloats(w, e.Data)
}

func (e *Embedding) buildIndex() {
	e.index = make(map[string]int, len(e.Meta.RosterIDs))
	for i, id := range e.Meta.RosterIDs {
		e.index[id] = i
	}
}

// N returns the roster size.
func (e *Embedding) N() int {
	return e.Meta.Rows
}

// Dims returns the embedding dimensionality.
func (e *Embedding) Dims() int {
	return e.Meta.Cols
}

// Vector returns the coordinates of roster index i as a read-only slice
// view into the payload.
func (e *Embedding) Vector(i int) []float32 {
	d := e.Meta.Cols
	return e.Data[i*d : (i+1)*d]
}

// IndexOf returns the roster index of a plant id.
func (e *Embedding) IndexOf(plantID string) (int, bool) {
	i, ok := e.index[plantID]
	return i, ok
}

// Distance returns the Euclidean distance between the embedded points at
// roster indexes i and j. It approximates the exact patristic distance.
func (e *Embedding) Distance(i, j int) float64 {
	vi, vj := e.Vector(i), e.Vector(j)
	var sum float64
	for k := range vi {
		d := float64(vi[k]) - float64(vj[k])
		sum += d * d
	}
	return math.Sqrt(sum)
}
