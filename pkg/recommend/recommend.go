// Package recommend ranks candidate plants for a partial guild by
// phylogenetic distance, answering "what should I add next".
//
// Distances come from a DistanceOracle. The embedding oracle reads the
// low-dimensional coordinates produced by the embed phase and is fast
// enough for interactive use; the tree oracle walks the phylogeny for
// exact patristic distances and serves as the reference the embedding
// is benchmarked against. Both strategies prefer candidates far from
// the guild, which approximates the Faith's PD gained by adding them.
//
// The package is pure. Loading artifacts and trees lives in
// internal/ioembed and internal/iotree.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Strategy selects how candidate distance to the guild is summarized.
type Strategy string

const (
	// StrategyCentroid ranks by distance from the guild's center,
	// farthest first.
	StrategyCentroid Strategy = "centroid"

	// StrategyMaximin ranks by the minimum distance to any guild
	// member, farthest-from-nearest first. It tracks the marginal
	// diversity contribution more closely than the centroid, which a
	// guild spread over distant clades can fool.
	StrategyMaximin Strategy = "maximin"
)

// ParseStrategy validates a strategy name from a flag or request body.
// The empty string selects maximin.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyMaximin, "":
		return StrategyMaximin, nil
	case StrategyCentroid:
		return StrategyCentroid, nil
	}
	return "", fmt.Errorf("unknown strategy %q, want centroid or maximin", s)
}

// DistanceOracle answers distance queries over a fixed roster of plant
// ids. Implementations are immutable after construction and safe for
// concurrent use.
type DistanceOracle interface {
	// Has reports whether the oracle can place the plant id.
	Has(id string) bool

	// Distance returns the distance between two known plant ids.
	Distance(a, b string) float64

	// CentroidDistance measures how far a candidate sits from the
	// center of the guild. The embedding oracle measures from the mean
	// embedded vector; the tree oracle, which has no mean point,
	// averages the member distances instead.
	CentroidDistance(guild []string, candidate string) float64
}

// Recommendation is one ranked candidate.
type Recommendation struct {
	PlantID  string  `json:"plant_id"`
	Distance float64 `json:"distance"`
}

// UnknownIDsError lists requested plants the oracle cannot place. The
// embedding covers only the roster it was built from; adding plants
// means rebuilding the artifacts, not interpolating.
type UnknownIDsError struct {
	IDs []string
}

func (e *UnknownIDsError) Error() string {
	return fmt.Sprintf(
		"plants missing from the distance roster: %s",
		strings.Join(e.IDs, ", "),
	)
}

// Recommend ranks candidates for the guild, farthest first, and returns
// at most k of them. Guild members and duplicates are dropped from the
// candidate list. Ids unknown to the oracle, whether in the guild or
// among the candidates, abort with an UnknownIDsError. Ties are broken
// by plant id, so equal inputs always produce equal rankings.
func Recommend(
	o DistanceOracle,
	guild, candidates []string,
	k int,
	strategy Strategy,
) ([]Recommendation, error) {
	if len(guild) == 0 {
		return nil, fmt.Errorf("recommendation needs at least one guild member")
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	switch strategy {
	case StrategyCentroid, StrategyMaximin:
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}

	var unknown []string
	inGuild := make(map[string]bool, len(guild))
	members := make([]string, 0, len(guild))
	for _, id := range guild {
		if inGuild[id] {
			continue
		}
		inGuild[id] = true
		members = append(members, id)
		if !o.Has(id) {
			unknown = append(unknown, id)
		}
	}

	pool := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, id := range candidates {
		if inGuild[id] || seen[id] {
			continue
		}
		seen[id] = true
		if !o.Has(id) {
			unknown = append(unknown, id)
			continue
		}
		pool = append(pool, id)
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnknownIDsError{IDs: unknown}
	}

	res := make([]Recommendation, 0, len(pool))
	for _, id := range pool {
		var d float64
		switch strategy {
		case StrategyCentroid:
			d = o.CentroidDistance(members, id)
		case StrategyMaximin:
			d = math.Inf(1)
			for _, m := range members {
				if v := o.Distance(id, m); v < d {
					d = v
				}
			}
		}
		res = append(res, Recommendation{PlantID: id, Distance: d})
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Distance != res[j].Distance {
			return res[i].Distance > res[j].Distance
		}
		return res[i].PlantID < res[j].PlantID
	})
	if len(res) > k {
		res = res[:k]
	}
	return res, nil
}
