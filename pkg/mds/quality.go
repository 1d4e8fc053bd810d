package mds

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

// Pearson correlation thresholds for the reporting bands.
const (
	BandExcellent = 0.90
	BandGood      = 0.85
	BandModerate  = 0.75
)

// DistanceFunc returns the distance between indexes i and j.
type DistanceFunc func(i, j int) float64

// Quality reports how well embedded distances preserve the original
// ones over a random sample of index pairs.
type Quality struct {
	PearsonR       float64
	RMSE           float64
	NormalizedRMSE float64
	Pairs          int
}

// Band buckets the Pearson correlation for reporting.
func (q Quality) Band() string {
	switch {
	case q.PearsonR >= BandExcellent:
		return "excellent"
	case q.PearsonR >= BandGood:
		return "good"
	case q.PearsonR >= BandModerate:
		return "moderate"
	default:
		return "poor"
	}
}

// EvaluateQuality draws samplePairs random index pairs from [0, n)
// and compares true distances with embedded ones. Sampling is seeded,
// so a later verification can reproduce the reported figure. Draws
// that land on the diagonal are dropped, which leaves the evaluated
// pair count slightly under samplePairs.
func EvaluateQuality(
	n int,
	truth, embedded DistanceFunc,
	samplePairs int,
	seed int64,
) Quality {
	rng := rand.New(rand.NewSource(seed))

	trueDists := make([]float64, 0, samplePairs)
	embDists := make([]float64, 0, samplePairs)
	for s := 0; s < samplePairs; s++ {
		i := rng.Intn(n)
		j := rng.Intn(n)
		if i == j {
			continue
		}
		trueDists = append(trueDists, truth(i, j))
		embDists = append(embDists, embedded(i, j))
	}

	q := Quality{Pairs: len(trueDists)}
	if q.Pairs < 2 {
		return q
	}

	q.PearsonR = stat.Correlation(trueDists, embDists, nil)

	var sum float64
	for k := range trueDists {
		diff := trueDists[k] - embDists[k]
		sum += diff * diff
	}
	q.RMSE = math.Sqrt(sum / float64(q.Pairs))

	if sd := stat.PopStdDev(trueDists, nil); sd > 0 {
		q.NormalizedRMSE = q.RMSE / sd
	}
	return q
}
