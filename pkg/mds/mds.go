// Package mds embeds a distance matrix into a low-dimensional
// Euclidean space with SMACOF, a stress-majorizing variant of
// multidimensional scaling. The package is pure; reading matrices and
// writing embeddings lives in internal/ioembed.
package mds

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultMaxIter bounds the number of Guttman transform
	// iterations.
	DefaultMaxIter = 300

	// DefaultEps is the relative stress decrease under which the
	// iteration stops.
	DefaultEps = 1e-4
)

// Options control the SMACOF iteration.
type Options struct {
	// MaxIter is the iteration cap. Zero means DefaultMaxIter.
	MaxIter int

	// Eps is the relative stress convergence threshold. Zero means
	// DefaultEps.
	Eps float64

	// Seed makes the random initial configuration reproducible.
	Seed int64
}

// Embed computes a dims-dimensional configuration whose Euclidean
// distances approximate dist. It returns the coordinates and the
// final Kruskal stress-1, the square root of the residual sum of
// squares over the sum of squared dissimilarities. Raw stress never
// increases between iterations, so stress-1 does not either.
func Embed(dist mat.Symmetric, dims int, opts Options) (*mat.Dense, float64, error) {
	n := dist.SymmetricDim()
	if n == 0 {
		return nil, 0, fmt.Errorf("mds: empty distance matrix")
	}
	if dims < 1 {
		return nil, 0, fmt.Errorf("mds: dims must be positive, got %d", dims)
	}

	maxIter := opts.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	eps := opts.Eps
	if eps <= 0 {
		eps = DefaultEps
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	x := mat.NewDense(n, dims, nil)
	for i := 0; i < n; i++ {
		for k := 0; k < dims; k++ {
			x.Set(i, k, rng.Float64())
		}
	}

	var sumD2 float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := dist.At(i, j)
			sumD2 += d * d
		}
	}

	d := mat.NewDense(n, n, nil)
	xnew := mat.NewDense(n, dims, nil)

	embeddedDistances(x, d)
	prev := rawStress(dist, d)
	stress := prev

	for it := 0; it < maxIter; it++ {
		guttmanTransform(dist, d, x, xnew)
		x, xnew = xnew, x

		embeddedDistances(x, d)
		stress = rawStress(dist, d)
		if prev > 0 && (prev-stress)/prev < eps {
			break
		}
		prev = stress
	}

	stress1 := 0.0
	if sumD2 > 0 {
		stress1 = math.Sqrt(stress / sumD2)
	}
	return x, stress1, nil
}

// embeddedDistances fills d with pairwise Euclidean distances of the
// rows of x.
func embeddedDistances(x, d *mat.Dense) {
	n, _ := x.Dims()
	for i := 0; i < n; i++ {
		d.Set(i, i, 0)
		for j := i + 1; j < n; j++ {
			v := floats.Distance(x.RawRowView(i), x.RawRowView(j), 2)
			d.Set(i, j, v)
			d.Set(j, i, v)
		}
	}
}

// rawStress is the residual sum of squares between dissimilarities
// and embedded distances over the upper triangle.
func rawStress(dist mat.Symmetric, d *mat.Dense) float64 {
	n := dist.SymmetricDim()
	var s float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			diff := dist.At(i, j) - d.At(i, j)
			s += diff * diff
		}
	}
	return s
}

// guttmanTransform computes xnew = B(x) x / n, the majorizing update
// that drives raw stress down.
func guttmanTransform(dist mat.Symmetric, d, x, xnew *mat.Dense) {
	n, dims := x.Dims()
	for i := 0; i < n; i++ {
		row := xnew.RawRowView(i)
		for k := range row {
			row[k] = 0
		}

		var diag float64
		xi := x.RawRowView(i)
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			var b float64
			if dij := d.At(i, j); dij > 0 {
				b = -dist.At(i, j) / dij
			}
			diag -= b
			xj := x.RawRowView(j)
			for k := 0; k < dims; k++ {
				row[k] += b * xj[k]
			}
		}
		for k := 0; k < dims; k++ {
			row[k] = (row[k] + diag*xi[k]) / float64(n)
		}
	}
}
