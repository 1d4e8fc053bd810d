package artifact_test

import (
	"bytes"
	"testing"

	"github.com/permaguild/guilddb/pkg/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	fp1 := artifact.Fingerprint([]byte("((A:1,B:2):3);"))
	fp2 := artifact.Fingerprint([]byte("((A:1,B:2):3);"))
	fp3 := artifact.Fingerprint([]byte("((A:1,B:2):4);"))

	assert.Len(t, fp1, 16)
	assert.Equal(t, fp1, fp2)
	assert.NotEqual(t, fp1, fp3)
}

func TestFloatsFingerprint_MatchesSerializedBytes(t *testing.T) {
	vals := []float32{0, 1.5, 3.25, 14}

	var buf bytes.Buffer
	require.NoError(t, artifact.WriteFloats(&buf, vals))

	assert.Equal(t,
		artifact.Fingerprint(buf.Bytes()),
		artifact.FloatsFingerprint(vals),
	)
}

func TestMatrix_RoundTrip(t *testing.T) {
	roster := []string{"wfo-0001", "wfo-0002", "wfo-0003"}
	data := []float32{
		0, 3, 14,
		3, 0, 15,
		14, 15, 0,
	}

	m, err := artifact.NewMatrix(roster, "abcd1234abcd1234", data)
	require.NoError(t, err)
	assert.Equal(t, artifact.KindMatrix, m.Meta.Kind)
	assert.Equal(t, artifact.QuantizationFloat32, m.Meta.Quantization)
	assert.False(t, m.Meta.CreatedAt.IsZero())

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf))

	loaded, err := artifact.ReadMatrix(&buf)
	require.NoError(t, err)

	assert.Equal(t, 3, loaded.N())
	assert.Equal(t, roster, loaded.Meta.RosterIDs)
	assert.Equal(t, "abcd1234abcd1234", loaded.Meta.SourceFingerprint)
	assert.Equal(t, 14.0, loaded.At(0, 2))
	assert.Equal(t, loaded.At(0, 2), loaded.At(2, 0))
	assert.Equal(t, 0.0, loaded.At(1, 1))

	i, ok := loaded.IndexOf("wfo-0002")
	require.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = loaded.IndexOf("wfo-9999")
	assert.False(t, ok)

	assert.Equal(t, m.Fingerprint(), loaded.Fingerprint())
}

func TestNewMatrix_ShapeMismatch(t *testing.T) {
	_, err := artifact.NewMatrix(
		[]string{"a", "b"}, "fp", []float32{0, 1, 1},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 4")
}

func TestEmbedding_RoundTrip(t *testing.T) {
	roster := []string{"wfo-0001", "wfo-0002"}
	data := []float32{
		0, 0, 1,
		3, 4, 1,
	}

	e, err := artifact.NewEmbedding(
		roster, "ffff0000ffff0000", data, 3, 0.012, 0.93, 10000,
	)
	require.NoError(t, err)
	assert.Equal(t, artifact.KindEmbedding, e.Meta.Kind)
	assert.Equal(t, 0.93, e.Meta.SampledR)
	assert.Equal(t, 10000, e.Meta.SamplePairs)

	var buf bytes.Buffer
	require.NoError(t, e.Write(&buf))

	loaded, err := artifact.ReadEmbedding(&buf)
	require.NoError(t, err)

	assert.Equal(t, 2, loaded.N())
	assert.Equal(t, 3, loaded.Dims())
	assert.Equal(t, 0.012, loaded.Meta.Stress)
	assert.Equal(t, []float32{3, 4, 1}, loaded.Vector(1))

	// 3-4-5 triangle in the first two coordinates.
	assert.InDelta(t, 5.0, loaded.Distance(0, 1), 1e-6)
	assert.Equal(t, 0.0, loaded.Distance(0, 0))
}

func TestReadMatrix_RejectsEmbeddingArtifact(t *testing.T) {
	e, err := artifact.NewEmbedding(
		[]string{"a"}, "fp", []float32{1, 2}, 2, 0, 0.9, 100,
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.Write(&buf))

	_, err = artifact.ReadMatrix(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), artifact.KindMatrix)
}

func TestReadMatrix_TruncatedPayload(t *testing.T) {
	m, err := artifact.NewMatrix(
		[]string{"a", "b"}, "fp", []float32{0, 1, 1, 0},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Write(&buf))

	truncated := buf.Bytes()[:buf.Len()-5]
	_, err = artifact.ReadMatrix(bytes.NewReader(truncated))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload")
}

func TestReadHeader_GarbageInput(t *testing.T) {
	_, err := artifact.ReadMatrix(bytes.NewReader([]byte("not an artifact\n")))
	assert.Error(t, err)
}
