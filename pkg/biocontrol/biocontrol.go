// Package biocontrol mines indirect pest-control benefits between plants.
//
// A plant helps a neighbor when its flower visitors prey on the neighbor's
// herbivores: marigold attracts hoverflies, hoverflies eat the aphids that
// attack lettuce, so marigold protects lettuce. The miner joins per-plant
// visitor and herbivore sets through a predation index and counts, for every
// ordered pair (a, b), the visitors of a known to eat at least one herbivore
// of b.
//
// The package is pure. Streaming profiles out of the database and writing
// benefit rows back lives in internal/iobenefit.
package biocontrol

import (
	"fmt"
	"sort"
)

// MaxExamples caps the example chains stored per plant pair.
const MaxExamples = 3

// Profile carries the organism sets of one plant that the miner reads.
type Profile struct {
	PlantID    string
	Visitors   []string
	Herbivores []string
}

// Benefit is one ordered plant pair with at least one beneficial predator.
// PredatorCount is the number of distinct visitors of PlantA that prey on
// one or more herbivores of PlantB. Examples holds up to MaxExamples chains
// of the form "visitor eats herbivore".
type Benefit struct {
	PlantA        string
	PlantB        string
	PredatorCount int
	Examples      []string
}

// Miner joins visitor sets against herbivore sets through a predation index.
type Miner struct {
	prey map[string]map[string]bool
}

// NewMiner builds a miner from predation edges keyed by predator name, each
// with the prey names it is recorded to eat.
func NewMiner(preyEdges map[string][]string) *Miner {
	prey := make(map[string]map[string]bool, len(preyEdges))
	for predator, victims := range preyEdges {
		set := make(map[string]bool, len(victims))
		for _, v := range victims {
			set[v] = true
		}
		prey[predator] = set
	}
	return &Miner{prey: prey}
}

// Pair counts the visitors of a that prey on at least one herbivore of b.
// Names are scanned in sorted order, so counts and example chains are
// deterministic. The boolean is false for self-pairs and for pairs without
// any benefit.
func (m *Miner) Pair(a, b Profile) (Benefit, bool) {
	if a.PlantID == b.PlantID ||
		len(a.Visitors) == 0 || len(b.Herbivores) == 0 {
		return Benefit{}, false
	}

	visitors := sortedUnique(a.Visitors)
	herbivores := sortedUnique(b.Herbivores)

	res := Benefit{PlantA: a.PlantID, PlantB: b.PlantID}
	for _, visitor := range visitors {
		victims := m.prey[visitor]
		if len(victims) == 0 {
			continue
		}
		preys := false
		for _, herbivore := range herbivores {
			if !victims[herbivore] {
				continue
			}
			preys = true
			if len(res.Examples) < MaxExamples {
				res.Examples = append(res.Examples,
					fmt.Sprintf("%s eats %s", visitor, herbivore))
			}
		}
		if preys {
			res.PredatorCount++
		}
	}

	if res.PredatorCount == 0 {
		return Benefit{}, false
	}
	return res, true
}

// Mine runs Pair over every ordered pair of profiles and returns the pairs
// that carry a benefit, sorted by (PlantA, PlantB).
func (m *Miner) Mine(profiles []Profile) []Benefit {
	var res []Benefit
	for _, a := range profiles {
		for _, b := range profiles {
			if benefit, ok := m.Pair(a, b); ok {
				res = append(res, benefit)
			}
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].PlantA != res[j].PlantA {
			return res[i].PlantA < res[j].PlantA
		}
		return res[i].PlantB < res[j].PlantB
	})
	return res
}

func sortedUnique(names []string) []string {
	seen := make(map[string]bool, len(names))
	res := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		res = append(res, n)
	}
	sort.Strings(res)
	return res
}
