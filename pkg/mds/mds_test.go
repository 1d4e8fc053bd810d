package mds_test

import (
	"math"
	"testing"

	"github.com/permaguild/guilddb/pkg/mds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// unitSquare is a configuration that embeds exactly in two
// dimensions, so SMACOF should drive stress close to zero.
var unitSquare = [][2]float64{
	{0, 0},
	{1, 0},
	{1, 1},
	{0, 1},
}

func squareDistances() *mat.SymDense {
	n := len(unitSquare)
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := unitSquare[i][0] - unitSquare[j][0]
			dy := unitSquare[i][1] - unitSquare[j][1]
			d.SetSym(i, j, math.Hypot(dx, dy))
		}
	}
	return d
}

func pairwise(coords *mat.Dense, i, j int) float64 {
	_, dims := coords.Dims()
	var sum float64
	for k := 0; k < dims; k++ {
		diff := coords.At(i, k) - coords.At(j, k)
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

func TestEmbed_RecoversPlanarConfiguration(t *testing.T) {
	dist := squareDistances()

	coords, stress, err := mds.Embed(dist, 2, mds.Options{Seed: 42})
	require.NoError(t, err)

	rows, cols := coords.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 2, cols)
	assert.Less(t, stress, 0.01)

	// Coordinates recover only up to rotation and translation, so
	// compare pairwise distances instead of positions.
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			assert.InDelta(t, dist.At(i, j), pairwise(coords, i, j), 0.05,
				"distance between points %d and %d", i, j)
		}
	}
}

func TestEmbed_StressNonIncreasing(t *testing.T) {
	dist := squareDistances()

	var prev float64 = math.Inf(1)
	for _, iters := range []int{1, 3, 10, 50} {
		_, stress, err := mds.Embed(dist, 2, mds.Options{
			MaxIter: iters,
			Eps:     1e-12,
			Seed:    7,
		})
		require.NoError(t, err)
		assert.LessOrEqual(t, stress, prev+1e-12,
			"stress after %d iterations", iters)
		prev = stress
	}
}

func TestEmbed_Deterministic(t *testing.T) {
	dist := squareDistances()

	a, stressA, err := mds.Embed(dist, 2, mds.Options{Seed: 42})
	require.NoError(t, err)
	b, stressB, err := mds.Embed(dist, 2, mds.Options{Seed: 42})
	require.NoError(t, err)

	assert.Equal(t, stressA, stressB)
	assert.True(t, mat.Equal(a, b))
}

func TestEmbed_SeedChangesInit(t *testing.T) {
	dist := squareDistances()

	a, _, err := mds.Embed(dist, 2, mds.Options{MaxIter: 1, Seed: 1})
	require.NoError(t, err)
	b, _, err := mds.Embed(dist, 2, mds.Options{MaxIter: 1, Seed: 2})
	require.NoError(t, err)

	assert.False(t, mat.Equal(a, b))
}

func TestEmbed_BadDims(t *testing.T) {
	dist := squareDistances()

	_, _, err := mds.Embed(dist, 0, mds.Options{})
	assert.ErrorContains(t, err, "dims")
}

func TestEvaluateQuality_PerfectPreservation(t *testing.T) {
	dist := squareDistances()
	d := func(i, j int) float64 { return dist.At(i, j) }

	q := mds.EvaluateQuality(4, d, d, 1000, 42)
	assert.Greater(t, q.Pairs, 0)
	assert.InDelta(t, 1.0, q.PearsonR, 1e-9)
	assert.InDelta(t, 0.0, q.RMSE, 1e-9)
	assert.Equal(t, "excellent", q.Band())
}

func TestEvaluateQuality_Deterministic(t *testing.T) {
	dist := squareDistances()
	truth := func(i, j int) float64 { return dist.At(i, j) }
	// A slightly distorted embedding keeps the correlation high but
	// below one.
	emb := func(i, j int) float64 {
		return dist.At(i, j) * (1 + 0.01*float64((i+j)%3))
	}

	a := mds.EvaluateQuality(4, truth, emb, 500, 42)
	b := mds.EvaluateQuality(4, truth, emb, 500, 42)
	assert.Equal(t, a, b)
	assert.Less(t, a.PearsonR, 1.0)
}

func TestEvaluateQuality_DropsDiagonalDraws(t *testing.T) {
	d := func(i, j int) float64 { return 1 }

	q := mds.EvaluateQuality(2, d, d, 1000, 42)
	assert.Greater(t, q.Pairs, 0)
	assert.Less(t, q.Pairs, 1000)
}

func TestQualityBands(t *testing.T) {
	tests := []struct {
		r    float64
		want string
	}{
		{0.95, "excellent"},
		{0.90, "excellent"},
		{0.87, "good"},
		{0.85, "good"},
		{0.80, "moderate"},
		{0.75, "moderate"},
		{0.60, "poor"},
	}

	for _, tt := range tests {
		q := mds.Quality{PearsonR: tt.r}
		assert.Equal(t, tt.want, q.Band(), "r=%v", tt.r)
	}
}
