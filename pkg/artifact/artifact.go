// Package artifact defines the flat binary artifacts produced by the
// offline pipeline: the pairwise phylogenetic distance matrix and its
// low-dimensional embedding. An artifact is a single-line JSON header
// followed by a dense row-major float32 payload. The header carries enough
// metadata (roster ids in index order, source fingerprint, quality numbers)
// to detect staleness without recomputation.
//
// This package is pure over readers and writers; file placement and
// verification live in internal/ioartifact.
package artifact

import (
	"encoding/binary"
	"hash/fnv"
	"time"
)

// Artifact kinds stored in the header.
const (
	KindMatrix    = "pd-matrix"
	KindEmbedding = "pd-embedding"
)

// QuantizationFloat32 is the only payload quantization in use. The header
// records it so a future format change stays detectable.
const QuantizationFloat32 = "float32"

// Meta is the JSON header written before the binary payload.
type Meta struct {
	// Kind is KindMatrix or KindEmbedding.
	Kind string `json:"kind"`

	// CreatedAt is the build time in UTC.
	CreatedAt time.Time `json:"created_at"`

	// SourceFingerprint chains artifacts to their input: the Newick file
	// content for a matrix, the matrix payload for an embedding.
	SourceFingerprint string `json:"source_fingerprint"`

	// RosterIDs are the plant ids in index order. Row i of the payload
	// belongs to RosterIDs[i].
	RosterIDs []string `json:"roster_ids"`

	// Rows and Cols describe the payload shape. A matrix is square
	// (Rows == Cols == len(RosterIDs)); an embedding has Cols == dims.
	Rows int `json:"rows"`
	Cols int `json:"cols"`

	// Quantization is the payload element encoding.
	Quantization string `json:"quantization"`

	// Embedding quality, zero for matrices. Stress is the final relative
	// SMACOF stress; SampledR is the Pearson correlation between embedded
	// and exact distances over SamplePairs random pairs.
	Stress      float64 `json:"stress,omitempty"`
	SampledR    float64 `json:"sampled_r,omitempty"`
	SamplePairs int     `json:"sample_pairs,omitempty"`
}

// newMeta fills the shared header fields.
func newMeta(kind, fingerprint string, rosterIDs []string, rows, cols int) Meta {
	return Meta{
		Kind:              kind,
		CreatedAt:         time.Now().UTC(),
		SourceFingerprint: fingerprint,
		RosterIDs:         rosterIDs,
		Rows:              rows,
		Cols:              cols,
		Quantization:      QuantizationFloat32,
	}
}

// Fingerprint returns the FNV-1a hash of raw bytes as a fixed-width hex
// string. Used for Newick file content.
func Fingerprint(data []byte) string {
	h := fnv.New64a()
	h.Write(data)
	return fingerprintString(h.Sum64())
}

// FloatsFingerprint returns the FNV-1a hash of a float32 payload in its
// serialized little-endian form, so the fingerprint of a loaded artifact
// matches the fingerprint of the file bytes.
func FloatsFingerprint(vals []float32) string {
	h := fnv.New64a()
	var buf [4]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint32(buf[:], floatBits(v))
		h.Write(buf[:])
	}
	return fingerprintString(h.Sum64())
}

func fingerprintString(sum uint64) string {
	const hexdigits = "0123456789abcdef"
	var out [16]byte
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[sum&0xf]
		sum >>= 4
	}
	return string(out[:])
}
