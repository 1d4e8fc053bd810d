package artifact

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/gnames/gnfmt"
)

// payloadChunk is the number of float32 values moved per buffer while
// streaming payloads, keeping memory flat for full-size matrices.
const payloadChunk = 16384

// WriteHeader writes the single-line JSON header.
func WriteHeader(w io.Writer, m Meta) error {
	enc := gnfmt.GNjson{}
	data, err := enc.Encode(m)
	if err != nil {
		return fmt.Errorf("failed to encode artifact header: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write artifact header: %w", err)
	}
	return nil
}

// ReadHeader reads and validates the JSON header line. The reader is left
// positioned at the first payload byte.
func ReadHeader(r *bufio.Reader) (Meta, error) {
	var meta Meta

	line, err := r.ReadBytes('\n')
	if err != nil {
		return meta, fmt.Errorf("failed to read artifact header: %w", err)
	}

	enc := gnfmt.GNjson{}
	if err := enc.Decode(line, &meta); err != nil {
		return meta, fmt.Errorf("failed to decode artifact header: %w", err)
	}

	switch meta.Kind {
	case KindMatrix, KindEmbedding:
	default:
		return meta, fmt.Errorf("unknown artifact kind %q", meta.Kind)
	}
	if meta.Quantization != QuantizationFloat32 {
		return meta, fmt.Errorf(
			"unsupported quantization %q", meta.Quantization,
		)
	}
	if meta.Rows <= 0 || meta.Cols <= 0 {
		return meta, fmt.Errorf(
			"invalid payload shape %dx%d", meta.Rows, meta.Cols,
		)
	}
	if len(meta.RosterIDs) != meta.Rows {
		return meta, fmt.Errorf(
			"roster length %d does not match %d rows",
			len(meta.RosterIDs), meta.Rows,
		)
	}

	return meta, nil
}

// WriteFloats writes values as little-endian float32, in chunks.
func WriteFloats(w io.Writer, vals []float32) error {
	buf := make([]byte, 4*payloadChunk)
	for len(vals) > 0 {
		n := len(vals)
		if n > payloadChunk {
			n = payloadChunk
		}
		for i, v := range vals[:n] {
			binary.LittleEndian.PutUint32(buf[4*i:], floatBits(v))
		}
		if _, err := w.Write(buf[:4*n]); err != nil {
			return fmt.Errorf("failed to write artifact payload: %w", err)
		}
		vals = vals[n:]
	}
	return nil
}

// ReadFloats reads exactly n little-endian float32 values.
func ReadFloats(r io.Reader, n int) ([]float32, error) {
	vals := make([]float32, n)
	buf := make([]byte, 4*payloadChunk)
	for read := 0; read < n; {
		want := n - read
		if want > payloadChunk {
			want = payloadChunk
		}
		if _, err := io.ReadFull(r, buf[:4*want]); err != nil {
			return nil, fmt.Errorf(
				"failed to read artifact payload at value %d of %d: %w",
				read, n, err,
			)
		}
		for i := 0; i < want; i++ {
			bits := binary.LittleEndian.Uint32(buf[4*i:])
			vals[read+i] = math.Float32frombits(bits)
		}
		read += want
	}
	return vals, nil
}

func floatBits(v float32) uint32 {
	return math.Float32bits(v)
}
