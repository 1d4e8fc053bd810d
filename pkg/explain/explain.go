// Package explain turns a scored guild into text a gardener can act on.
//
// The scorer reports components, weights and evidence strings; this package
// groups them into a rating, the shared climate window, the risks worth
// managing and the benefits worth keeping, each with the scorer's own
// evidence. Describe builds the structured form served over the API, Text
// renders it for the terminal.
package explain

import (
	"fmt"
	"math"
	"strings"

	"github.com/gnames/gnfmt"
	"github.com/permaguild/guilddb/pkg/score"
)

// reportMin is the component score below which a finding is not worth
// mentioning.
const reportMin = 0.05

// Rating places the guild score on a five-star scale.
type Rating struct {
	Stars   int    `json:"stars"`
	Label   string `json:"label"`
	Summary string `json:"summary"`
}

// Finding is one scored component selected for the explanation, carrying
// the scorer's evidence and, for risks, a management suggestion.
type Finding struct {
	Name          string   `json:"name"`
	Title         string   `json:"title"`
	Weight        int      `json:"weight_pct"`
	Evidence      []string `json:"evidence,omitempty"`
	Advice        string   `json:"advice,omitempty"`
	LowConfidence bool     `json:"low_confidence,omitempty"`
}

// Explanation is the gardener-facing reading of one scored guild.
type Explanation struct {
	Score     float64   `json:"score"`
	Members   int       `json:"members"`
	Vetoed    bool      `json:"vetoed"`
	Rating    Rating    `json:"rating"`
	Conflicts []string  `json:"conflicts,omitempty"`
	Climate   []string  `json:"climate,omitempty"`
	Risks     []Finding `json:"risks,omitempty"`
	Benefits  []Finding `json:"benefits,omitempty"`
	Advice    []string  `json:"advice,omitempty"`
}

// Describe builds the explanation for a scored guild. names maps plant ids
// to display names for the climate conflict lines; missing entries fall
// back to the id.
func Describe(res *score.Result, names map[string]string) Explanation {
	e := Explanation{
		Score:   res.Score,
		Members: res.Members,
		Vetoed:  res.Vetoed,
		Rating:  rate(res),
	}
	for _, r := range res.VetoReasons {
		e.Conflicts = append(e.Conflicts, conflictLine(r, names))
	}
	e.Climate = climateLines(res)
	e.Risks = findings(res.Negatives, riskMeta)
	e.Benefits = findings(res.Positives, benefitMeta)
	e.Advice = advice(res)
	return e
}

// JSON renders the explanation as a single JSON document.
func (e Explanation) JSON() ([]byte, error) {
	enc := gnfmt.GNjson{}
	res, err := enc.Encode(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode explanation: %w", err)
	}
	return res, nil
}

func rate(res *score.Result) Rating {
	if res.Vetoed {
		return Rating{
			Stars:   0,
			Label:   "Incompatible guild",
			Summary: "No climate zone supports every member.",
		}
	}
	switch s := res.Score; {
	case s >= 0.7:
		return Rating{
			Stars:   5,
			Label:   "Excellent guild",
			Summary: "Strong beneficial interactions with few shared risks.",
		}
	case s >= 0.3:
		return Rating{
			Stars:   4,
			Label:   "Good guild",
			Summary: "Beneficial interactions outweigh the risks.",
		}
	case s >= -0.3:
		return Rating{
			Stars:   3,
			Label:   "Neutral guild",
			Summary: "Risks and benefits are balanced; good practice keeps them manageable.",
		}
	case s >= -0.7:
		return Rating{
			Stars:   2,
			Label:   "Risky guild",
			Summary: "Shared vulnerabilities need active management.",
		}
	default:
		return Rating{
			Stars:   1,
			Label:   "Poor guild",
			Summary: "High outbreak risk; not recommended as planned.",
		}
	}
}

type meta struct {
	title  string
	advice string
}

var riskMeta = map[string]meta{
	score.CompSharedFungi: {
		title:  "Shared disease pressure",
		advice: "space the members out and keep air moving between them",
	},
	score.CompSharedHerbivores: {
		title:  "Shared pest pressure",
		advice: "interplant repellent companions or plan biological control",
	},
	score.CompCSRConflict: {
		title:  "Growth strategy conflict",
		advice: "give the competitive members room or swap in calmer partners",
	},
	score.CompNitrogenFixation: {
		title:  "Nitrogen supply",
		advice: "add a legume or another nitrogen fixer",
	},
	score.CompSoilPH: {
		title:  "Soil pH mismatch",
		advice: "test the soil and group members with similar pH needs",
	},
}

var benefitMeta = map[string]meta{
	score.CompBiocontrol:        {title: "Natural pest control"},
	score.CompDiseaseControl:    {title: "Disease suppression"},
	score.CompBeneficialFungi:   {title: "Shared fungal networks"},
	score.CompPhyloDiversity:    {title: "Evolutionary diversity"},
	score.CompStratification:    {title: "Layered structure"},
	score.CompSharedPollinators: {title: "Pollinator sharing"},
}

func findings(comps []score.Component, metas map[string]meta) []Finding {
	var res []Finding
	for _, c := range comps {
		if c.Score <= reportMin {
			continue
		}
		m := metas[c.Name]
		title := m.title
		if title == "" {
			title = c.Name
		}
		res = append(res, Finding{
			Name:          c.Name,
			Title:         title,
			Weight:        int(math.Round(c.Weight * 100)),
			Evidence:      c.Evidence,
			Advice:        m.advice,
			LowConfidence: c.LowConfidence,
		})
	}
	return res
}

func conflictLine(r score.VetoReason, names map[string]string) string {
	high := plantName(names, r.HighID)
	low := plantName(names, r.LowID)
	switch r.Dimension {
	case score.DimTemperature:
		return fmt.Sprintf(
			"%s needs a mean annual temperature of at least %.1f C, "+
				"but %s tolerates at most %.1f C",
			high, r.High, low, r.Low,
		)
	case score.DimHardiness:
		return fmt.Sprintf(
			"%s needs winters no colder than %.1f C, "+
				"but %s grows where winters reach %.1f C",
			high, r.High, low, r.Low,
		)
	case score.DimPrecipitation:
		return fmt.Sprintf(
			"%s needs at least %.0f mm of rain a year, "+
				"but %s tolerates at most %.0f mm",
			high, r.High, low, r.Low,
		)
	}
	return fmt.Sprintf(
		"%s: %s needs at least %.1f, but %s tolerates at most %.1f",
		r.Dimension, high, r.High, low, r.Low,
	)
}

func climateLines(res *score.Result) []string {
	var lines []string
	if z := res.Zone; z != nil {
		lines = append(lines,
			fmt.Sprintf(
				"mean annual temperature %.1f to %.1f C",
				z.TempMin, z.TempMax,
			),
			fmt.Sprintf(
				"coldest month %.1f to %.1f C",
				z.HardinessMin, z.HardinessMax,
			),
			fmt.Sprintf(
				"annual precipitation %.0f to %.0f mm",
				z.PrecipMin, z.PrecipMax,
			),
		)
	}
	for _, w := range res.Warnings {
		lines = append(lines, "warning: "+w)
	}
	return lines
}

func advice(res *score.Result) []string {
	if res.Vetoed {
		return []string{
			"pick members whose climate ranges overlap; " +
				"no single site suits this guild",
		}
	}
	var lines []string
	for _, w := range res.Warnings {
		switch {
		case strings.Contains(w, "drought-sensitive"):
			lines = append(lines,
				"plan reliable irrigation; most members are drought-sensitive")
		case strings.Contains(w, "frost-sensitive"):
			lines = append(lines,
				"plan frost protection; most members are frost-sensitive")
		}
	}
	return lines
}

func plantName(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id
}
