package score

import (
	"math"

	"github.com/permaguild/guilddb/pkg/biocontrol"
)

// Pairwise component weights. The two help directions carry the same
// weight; shared pathogens weigh heaviest among the penalties.
const (
	pairWeightPollinators   = 0.15
	pairWeightHelp          = 0.25
	pairWeightHerbDiversity = 0.10
	pairWeightPathDiversity = 0.20
	pairWeightSharedHerb    = 0.25
	pairWeightSharedPath    = 0.40
	pairWeightCompetition   = 0.05
)

// PairComponents are the mechanism scores of a pair entry, each in
// [0,1] before weighting.
type PairComponents struct {
	SharedPollinators     float64 `json:"shared_pollinators"`
	HelpAToB              float64 `json:"predators_a_helps_b"`
	HelpBToA              float64 `json:"predators_b_helps_a"`
	HerbivoreDiversity    float64 `json:"herbivore_diversity"`
	PathogenDiversity     float64 `json:"pathogen_diversity"`
	SharedHerbivores      float64 `json:"shared_herbivores"`
	SharedPathogens       float64 `json:"shared_pathogens"`
	PollinatorCompetition float64 `json:"pollinator_competition"`
}

// PairCounts are the raw counts behind the components.
type PairCounts struct {
	SharedPollinators int `json:"shared_pollinators"`
	SharedHerbivores  int `json:"shared_herbivores"`
	SharedPathogens   int `json:"shared_pathogens"`
	PredatorsAToB     int `json:"predators_a_to_b"`
	PredatorsBToA     int `json:"predators_b_to_a"`
}

// PairEvidence lists the organisms behind the components, sorted and
// capped at MaxEvidence entries per list.
type PairEvidence struct {
	SharedPollinators []string `json:"shared_pollinators,omitempty"`
	SharedHerbivores  []string `json:"shared_herbivores,omitempty"`
	SharedPathogens   []string `json:"shared_pathogens,omitempty"`
	ChainsAToB        []string `json:"chains_a_to_b,omitempty"`
	ChainsBToA        []string `json:"chains_b_to_a,omitempty"`
}

// PairResult is the compatibility entry of one plant pair.
type PairResult struct {
	PlantA     string         `json:"plant_a"`
	PlantB     string         `json:"plant_b"`
	Score      float64        `json:"score"`
	Components PairComponents `json:"components"`
	Counts     PairCounts     `json:"counts"`
	Evidence   PairEvidence   `json:"evidence"`
}

// PairScore computes the compatibility entry for one plant pair.
// helpAB and helpBA carry the mined biocontrol benefit in each
// direction; zero values are fine when nothing was mined. The score
// blends pollinator sharing, mutual pest control and pest/pathogen
// portfolio diversity against the overlap penalties.
func PairScore(a, b Member, helpAB, helpBA biocontrol.Benefit) PairResult {
	pollA, pollB := sortedUnique(a.Pollinators), sortedUnique(b.Pollinators)
	herbA, herbB := sortedUnique(a.Herbivores), sortedUnique(b.Herbivores)
	pathA, pathB := sortedUnique(a.Pathogens), sortedUnique(b.Pathogens)

	sharedPoll, unionPoll := overlap(pollA, pollB)
	sharedHerb, unionHerb := overlap(herbA, herbB)
	sharedPath, unionPath := overlap(pathA, pathB)

	comp := PairComponents{
		SharedPollinators: jaccard(len(sharedPoll), unionPoll),
		HelpAToB:          helpScore(helpAB.PredatorCount, len(herbB)),
		HelpBToA:          helpScore(helpBA.PredatorCount, len(herbA)),
		SharedHerbivores:  jaccard(len(sharedHerb), unionHerb),
		SharedPathogens:   jaccard(len(sharedPath), unionPath),
	}
	comp.HerbivoreDiversity = 1 - comp.SharedHerbivores
	comp.PathogenDiversity = 1 - comp.SharedPathogens
	comp.PollinatorCompetition = comp.SharedPollinators

	score := pairWeightPollinators*comp.SharedPollinators +
		pairWeightHelp*comp.HelpAToB +
		pairWeightHelp*comp.HelpBToA +
		pairWeightHerbDiversity*comp.HerbivoreDiversity +
		pairWeightPathDiversity*comp.PathogenDiversity -
		pairWeightSharedHerb*comp.SharedHerbivores -
		pairWeightSharedPath*comp.SharedPathogens -
		pairWeightCompetition*comp.PollinatorCompetition

	return PairResult{
		PlantA:     a.Traits.ID,
		PlantB:     b.Traits.ID,
		Score:      score,
		Components: comp,
		Counts: PairCounts{
			SharedPollinators: len(sharedPoll),
			SharedHerbivores:  len(sharedHerb),
			SharedPathogens:   len(sharedPath),
			PredatorsAToB:     helpAB.PredatorCount,
			PredatorsBToA:     helpBA.PredatorCount,
		},
		Evidence: PairEvidence{
			SharedPollinators: capEvidence(sharedPoll),
			SharedHerbivores:  capEvidence(sharedHerb),
			SharedPathogens:   capEvidence(sharedPath),
			ChainsAToB:        capEvidence(helpAB.Examples),
			ChainsBToA:        capEvidence(helpBA.Examples),
		},
	}
}

// overlap returns the sorted intersection and the union size of two
// deduplicated name lists.
func overlap(a, b []string) ([]string, int) {
	setB := toSet(b)
	var shared []string
	for _, n := range a {
		if setB[n] {
			shared = append(shared, n)
		}
	}
	return shared, len(a) + len(b) - len(shared)
}

func jaccard(shared, union int) float64 {
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

// helpScore scales a distinct-predator count by the partner's
// herbivore load, saturating at 1.
func helpScore(predators, herbivores int) float64 {
	if herbivores == 0 {
		herbivores = 1
	}
	return math.Min(float64(predators)/float64(herbivores), 1)
}
