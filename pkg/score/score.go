// Package score implements the guild compatibility model. A guild is
// scored in three stages: a hard climate gate over the members'
// occurrence envelopes, five weighted risk components (shared
// pathogenic fungi, shared herbivores, strategy conflicts, nitrogen
// and pH mismatch) and six weighted benefit components (insect
// biocontrol, disease control, fungal networks, phylogenetic spread,
// stratification, pollinator sharing). The aggregate is benefit minus
// risk in [-1, 1]; a failed climate gate vetoes the guild before any
// component runs.
//
// The package is pure: members arrive fully loaded and the result
// carries per-component evidence, so callers can cache, serve or
// explain a score without touching the database.
package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/permaguild/guilddb/pkg/organism"
)

// MinMembers and MaxMembers bound the guild size the scorer accepts.
const (
	MinMembers = 2
	MaxMembers = 20
)

// MaxEvidence caps the evidence list of a component or pair entry.
const MaxEvidence = 10

// maxMatched caps the enemy names spelled out inside one evidence
// entry.
const maxMatched = 3

// Negative component weights.
const (
	weightSharedFungi      = 0.35
	weightSharedHerbivores = 0.35
	weightCSRConflict      = 0.20
	weightNitrogen         = 0.05
	weightSoilPH           = 0.05
)

// Positive component weights.
const (
	weightBiocontrol        = 0.25
	weightDiseaseControl    = 0.20
	weightBeneficialFungi   = 0.15
	weightPhyloDiversity    = 0.20
	weightStratification    = 0.10
	weightSharedPollinators = 0.10
)

// Component names as they appear in results and cached entries.
const (
	CompSharedFungi       = "shared_pathogenic_fungi"
	CompSharedHerbivores  = "shared_herbivores"
	CompCSRConflict       = "csr_conflict"
	CompNitrogenFixation  = "nitrogen_fixation"
	CompSoilPH            = "soil_ph"
	CompBiocontrol        = "insect_biocontrol"
	CompDiseaseControl    = "disease_control"
	CompBeneficialFungi   = "beneficial_fungi"
	CompPhyloDiversity    = "phylogenetic_diversity"
	CompStratification    = "stratification"
	CompSharedPollinators = "shared_pollinators"
)

// Traits holds the reference traits of one member. Numeric traits use
// NaN for unknown values; NewTraits returns a record with every
// numeric unknown, so loaders only fill what the database carries.
type Traits struct {
	ID         string
	Name       string
	Family     string
	GrowthForm string

	// HeightM is the typical adult height in meters.
	HeightM float64

	// C, S and R are the Grime strategy percentages, summing to 100
	// within rounding error when present.
	C, S, R float64

	// TempQ05 and TempQ95 bound the mean annual temperature envelope
	// (degrees C), PrecipQ05 and PrecipQ95 the annual precipitation
	// envelope (mm), HardinessQ05 and HardinessQ95 the coldest-month
	// temperature envelope (degrees C).
	TempQ05, TempQ95           float64
	PrecipQ05, PrecipQ95       float64
	HardinessQ05, HardinessQ95 float64

	// DroughtDays and FrostDays are mean stress day counts per year.
	DroughtDays, FrostDays float64

	// LightPref is the light preference scaled to -1..1 around the
	// EIVE L midpoint; LightFromEIVE converts the raw 0-10 value.
	LightPref float64

	// SoilPH is the soil reaction optimum.
	SoilPH float64

	// NitrogenRating is the nitrogen-fixation rating in [0,1].
	// Ratings above 0.5 count the species as a fixer.
	NitrogenRating float64

	// Vector holds the member's phylogenetic embedding coordinates,
	// nil when the species is not embedded.
	Vector []float32
}

// NewTraits returns a Traits record for id with every numeric trait
// unknown.
func NewTraits(id string) Traits {
	nan := math.NaN()
	return Traits{
		ID:             id,
		HeightM:        nan,
		C:              nan,
		S:              nan,
		R:              nan,
		TempQ05:        nan,
		TempQ95:        nan,
		PrecipQ05:      nan,
		PrecipQ95:      nan,
		HardinessQ05:   nan,
		HardinessQ95:   nan,
		DroughtDays:    nan,
		FrostDays:      nan,
		LightPref:      nan,
		SoilPH:         nan,
		NitrogenRating: nan,
	}
}

// LightFromEIVE scales a raw EIVE L value (0-10) to the -1..1 range
// the strategy-conflict modulation reads. Values below -0.5 mark
// shade plants, above 0.5 sun plants.
func LightFromEIVE(l float64) float64 {
	return (l - 5) / 5
}

// Fungus is one fungal genus observed on a member, with the guild
// flags derived from the trait lookup. Genera are lowercase.
type Fungus struct {
	Genus string
	Flags organism.GuildFlags
}

// Member is one plant of a guild candidate with its organism and
// fungal context. Name lists come from the plant's organism profile;
// duplicates and empty names are tolerated.
type Member struct {
	Traits      Traits
	Pollinators []string
	Visitors    []string
	Herbivores  []string
	Pathogens   []string
	Fungi       []Fungus
}

// Web is the interaction knowledge the scorer matches members
// against. Keys are victim names, values their known enemies.
// HerbivorePredators and InsectParasites key on herbivore species
// names; PathogenAntagonists keys on pathogen genus. Fungal enemies
// on either side are lowercase genera, so they match the fungal
// guild lists of the members.
type Web struct {
	HerbivorePredators  map[string][]string
	InsectParasites     map[string][]string
	PathogenAntagonists map[string][]string
}

// Scorer scores guilds against a fixed interaction web. Safe for
// concurrent use once built.
type Scorer struct {
	predators   map[string]map[string]bool
	parasites   map[string]map[string]bool
	antagonists map[string]map[string]bool
}

// NewScorer indexes the interaction web for matching.
func NewScorer(web Web) *Scorer {
	return &Scorer{
		predators:   indexEnemies(web.HerbivorePredators),
		parasites:   indexEnemies(web.InsectParasites),
		antagonists: indexEnemies(web.PathogenAntagonists),
	}
}

func indexEnemies(edges map[string][]string) map[string]map[string]bool {
	idx := make(map[string]map[string]bool, len(edges))
	for victim, enemies := range edges {
		set := make(map[string]bool, len(enemies))
		for _, e := range enemies {
			if e == "" {
				continue
			}
			set[e] = true
		}
		if len(set) > 0 {
			idx[victim] = set
		}
	}
	return idx
}

// Component is one scored mechanism of the model. Score is in [0,1]
// before weighting. Evidence lists the strongest concrete findings,
// at most MaxEvidence entries. LowConfidence marks a component whose
// inputs were missing for too many members to trust the score.
type Component struct {
	Name          string   `json:"name"`
	Score         float64  `json:"score"`
	Weight        float64  `json:"weight"`
	Evidence      []string `json:"evidence,omitempty"`
	LowConfidence bool     `json:"low_confidence,omitempty"`
}

// Climate gate dimensions.
const (
	DimTemperature   = "temperature"
	DimHardiness     = "hardiness"
	DimPrecipitation = "precipitation"
)

// VetoReason is one climate dimension with no shared zone, naming
// the members at the incompatible extremes: HighID needs at least
// High, LowID tolerates at most Low.
type VetoReason struct {
	Dimension string  `json:"dimension"`
	Overlap   float64 `json:"overlap"`
	HighID    string  `json:"high_id"`
	High      float64 `json:"high"`
	LowID     string  `json:"low_id"`
	Low       float64 `json:"low"`
}

// Zone is the climate envelope shared by every member. It is only
// reported when all members supplied all three dimensions.
type Zone struct {
	TempMin      float64 `json:"temp_min"`
	TempMax      float64 `json:"temp_max"`
	HardinessMin float64 `json:"hardiness_min"`
	HardinessMax float64 `json:"hardiness_max"`
	PrecipMin    float64 `json:"precip_min"`
	PrecipMax    float64 `json:"precip_max"`
}

// Result is a scored guild. On a climate veto Score is -1 and no
// component is reported.
type Result struct {
	Score       float64      `json:"score"`
	Vetoed      bool         `json:"vetoed"`
	VetoReasons []VetoReason `json:"veto_reasons,omitempty"`
	Zone        *Zone        `json:"zone,omitempty"`
	Warnings    []string     `json:"warnings,omitempty"`
	Members     int          `json:"members"`
	Negative    float64      `json:"negative"`
	Positive    float64      `json:"positive"`
	Negatives   []Component  `json:"negatives,omitempty"`
	Positives   []Component  `json:"positives,omitempty"`
}

// InputError reports a guild roster the scorer cannot accept.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string {
	return e.Msg
}

// Score scores a guild of members. It returns an InputError for an
// unusable roster; every accepted roster produces a result, however
// sparse the member data is.
func (s *Scorer) Score(members []Member) (*Result, error) {
	if err := validate(members); err != nil {
		return nil, err
	}

	res := &Result{Members: len(members)}

	cl := checkClimate(members)
	if len(cl.vetoes) > 0 {
		res.Vetoed = true
		res.VetoReasons = cl.vetoes
		res.Score = -1
		return res, nil
	}
	res.Zone = cl.zone
	res.Warnings = cl.warnings

	res.Negatives = []Component{
		sharedFungi(members),
		sharedHerbivores(members),
		csrConflict(members),
		nitrogenFixation(members),
		soilPHSpread(members),
	}
	res.Positives = []Component{
		s.insectBiocontrol(members),
		s.diseaseControl(members),
		beneficialFungi(members),
		phyloDiversity(members),
		stratification(members),
		sharedPollinators(members),
	}

	for _, c := range res.Negatives {
		res.Negative += c.Weight * c.Score
	}
	for _, c := range res.Positives {
		res.Positive += c.Weight * c.Score
	}
	res.Score = clamp(res.Positive-res.Negative, -1, 1)
	return res, nil
}

func validate(members []Member) error {
	if len(members) < MinMembers {
		return &InputError{Msg: fmt.Sprintf(
			"a guild needs at least %d members, got %d",
			MinMembers, len(members),
		)}
	}
	if len(members) > MaxMembers {
		return &InputError{Msg: fmt.Sprintf(
			"a guild takes at most %d members, got %d",
			MaxMembers, len(members),
		)}
	}
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		id := m.Traits.ID
		if id == "" {
			return &InputError{Msg: "every member needs a plant id"}
		}
		if seen[id] {
			return &InputError{Msg: fmt.Sprintf("duplicate member %s", id)}
		}
		seen[id] = true
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// displayName prefers the scientific name and falls back to the id.
func displayName(t Traits) string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// countAcrossMembers counts, for every name, the members carrying it.
// Each member contributes at most one count per name.
func countAcrossMembers(lists [][]string) map[string]int {
	counts := make(map[string]int)
	for _, names := range lists {
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			counts[name]++
		}
	}
	return counts
}

// sharedNames returns the names carried by at least two members,
// ordered by descending member count, then name.
func sharedNames(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name, c := range counts {
		if c >= 2 {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func capEvidence(ev []string) []string {
	if len(ev) > MaxEvidence {
		ev = ev[:MaxEvidence]
	}
	return ev
}
