package ioembed

import (
	"math"

	"github.com/permaguild/guilddb/pkg/artifact"
	"github.com/permaguild/guilddb/pkg/mds"
	"gonum.org/v1/gonum/mat"
)

// distances adapts the matrix artifact to gonum's symmetric matrix
// interface. The majorizer reads artifact cells in place, so the
// full float64 copy of an N by N matrix never materializes.
type distances struct {
	m *artifact.Matrix
}

func (d distances) Dims() (int, int) {
	n := d.m.N()
	return n, n
}

func (d distances) At(i, j int) float64 {
	return d.m.At(i, j)
}

func (d distances) T() mat.Matrix {
	return d
}

func (d distances) SymmetricDim() int {
	return d.m.N()
}

// flatten converts majorizer output to the row-major float32 payload
// the embedding artifact carries.
func flatten(coords *mat.Dense) []float32 {
	rows, cols := coords.Dims()
	data := make([]float32, rows*cols)
	for i := 0; i < rows; i++ {
		for k := 0; k < cols; k++ {
			data[i*cols+k] = float32(coords.At(i, k))
		}
	}
	return data
}

// embeddedDistance measures Euclidean distances over the float32
// payload, so the reported quality describes the persisted vectors
// rather than the float64 coordinates they were rounded from.
func embeddedDistance(data []float32, dims int) mds.DistanceFunc {
	return func(i, j int) float64 {
		var sum float64
		for k := 0; k < dims; k++ {
			diff := float64(data[i*dims+k]) - float64(data[j*dims+k])
			sum += diff * diff
		}
		return math.Sqrt(sum)
	}
}
