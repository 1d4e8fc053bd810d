package score

import (
	"fmt"
	"math"
	"strings"
)

// Strategy thresholds: a member is a competitor above 60% C, a
// stress-tolerator above 60% S, a ruderal above 50% R. The light
// cutoffs read the -1..1 scale; a fixer needs a nitrogen rating
// above 0.5.
const (
	competitorMin      = 60.0
	stressToleratorMin = 60.0
	ruderalMin         = 50.0
	shadeBelow         = -0.5
	sunAbove           = 0.5
	fixerMin           = 0.5
)

// evidenceMin drops strategy conflicts too mild to report.
const evidenceMin = 0.2

// sharedFungi scores the overlap of pathogenic fungal genera.
// Genera on two or more members accumulate a quadratic penalty,
// weighted up when any member carries the genus as host-specific.
func sharedFungi(members []Member) Component {
	n := len(members)
	lists := make([][]string, n)
	hostSpecific := make(map[string]bool)
	hasData := false
	for i, m := range members {
		if len(m.Fungi) > 0 {
			hasData = true
		}
		for _, f := range m.Fungi {
			if !f.Flags.Pathogenic {
				continue
			}
			lists[i] = append(lists[i], f.Genus)
			if f.Flags.HostSpecific {
				hostSpecific[f.Genus] = true
			}
		}
	}

	counts := countAcrossMembers(lists)
	raw := 0.0
	var ev []string
	for _, genus := range sharedNames(counts) {
		ratio := float64(counts[genus]) / float64(n)
		severity := 0.6
		tag := ""
		if hostSpecific[genus] {
			severity = 1.0
			tag = ", host-specific"
		}
		raw += ratio * ratio * severity
		ev = append(ev, fmt.Sprintf(
			"%s on %d of %d members%s", genus, counts[genus], n, tag,
		))
	}

	return Component{
		Name:          CompSharedFungi,
		Score:         math.Tanh(raw / 8),
		Weight:        weightSharedFungi,
		Evidence:      capEvidence(ev),
		LowConfidence: !hasData,
	}
}

// sharedHerbivores scores the overlap of herbivores. An organism that
// also visits flowers of any member is a nectar feeder rather than a
// pest and is skipped.
func sharedHerbivores(members []Member) Component {
	n := len(members)
	herbLists := make([][]string, n)
	visitLists := make([][]string, n)
	hasData := false
	for i, m := range members {
		if len(m.Herbivores)+len(m.Visitors)+len(m.Pollinators) > 0 {
			hasData = true
		}
		herbLists[i] = m.Herbivores
		visitLists[i] = append(visitLists[i], m.Visitors...)
		visitLists[i] = append(visitLists[i], m.Pollinators...)
	}

	visitors := countAcrossMembers(visitLists)
	counts := countAcrossMembers(herbLists)
	for name := range counts {
		if visitors[name] > 0 {
			delete(counts, name)
		}
	}

	raw := 0.0
	var ev []string
	for _, name := range sharedNames(counts) {
		ratio := float64(counts[name]) / float64(n)
		raw += ratio * ratio * 0.5
		ev = append(ev, fmt.Sprintf(
			"%s infests %d of %d members", name, counts[name], n,
		))
	}

	return Component{
		Name:          CompSharedHerbivores,
		Score:         math.Tanh(raw / 4),
		Weight:        weightSharedHerbivores,
		Evidence:      capEvidence(ev),
		LowConfidence: !hasData,
	}
}

// csrConflict scores pairwise Grime strategy conflicts among the
// members. Competitor pairs are modulated by growth form and height
// gap, competitor against stress-tolerator by the tolerator's light
// preference, competitor against ruderal by height gap alone.
func csrConflict(members []Member) Component {
	n := len(members)
	var highC, highS, highR []int
	withCSR := 0
	for i, m := range members {
		t := m.Traits
		if !math.IsNaN(t.C) && !math.IsNaN(t.S) && !math.IsNaN(t.R) {
			withCSR++
		}
		if t.C > competitorMin {
			highC = append(highC, i)
		}
		if t.S > stressToleratorMin {
			highS = append(highS, i)
		}
		if t.R > ruderalMin {
			highR = append(highR, i)
		}
	}

	conflicts := 0.0
	var ev []string
	report := func(kind string, a, b Traits, c float64) {
		if c > evidenceMin {
			ev = append(ev, fmt.Sprintf(
				"%s: %s vs %s (severity %.2f)",
				kind, displayName(a), displayName(b), c,
			))
		}
	}

	for x := 0; x < len(highC); x++ {
		for y := x + 1; y < len(highC); y++ {
			a, b := members[highC[x]].Traits, members[highC[y]].Traits
			c := ccConflict(a, b)
			conflicts += c
			report("C-C", a, b, c)
		}
	}
	for _, ci := range highC {
		for _, si := range highS {
			if ci == si {
				continue
			}
			a, b := members[ci].Traits, members[si].Traits
			c := csConflict(a, b)
			conflicts += c
			report("C-S", a, b, c)
		}
	}
	for _, ci := range highC {
		for _, ri := range highR {
			if ci == ri {
				continue
			}
			a, b := members[ci].Traits, members[ri].Traits
			c := crConflict(a, b)
			conflicts += c
			report("C-R", a, b, c)
		}
	}
	// ruderal pairs are short-lived annuals, a mild conflict
	pairsRR := len(highR) * (len(highR) - 1) / 2
	conflicts += 0.3 * float64(pairsRR)

	maxConflicts := float64(n*(n-1)) / 2
	return Component{
		Name:          CompCSRConflict,
		Score:         math.Min(conflicts/maxConflicts, 1),
		Weight:        weightCSRConflict,
		Evidence:      capEvidence(ev),
		LowConfidence: withCSR*2 < n,
	}
}

func climbingForm(form string) bool {
	return strings.Contains(form, "vine") || strings.Contains(form, "liana")
}

// ccConflict rates two competitors. Climbers use trees as support and
// trees clear the herb layer, so those mixes conflict less; equals
// fighting in the same canopy band conflict fully.
func ccConflict(a, b Traits) float64 {
	conflict := 1.0
	formA := strings.ToLower(a.GrowthForm)
	formB := strings.ToLower(b.GrowthForm)
	switch {
	case climbingForm(formA) && strings.Contains(formB, "tree"):
		conflict *= 0.2
	case climbingForm(formB) && strings.Contains(formA, "tree"):
		conflict *= 0.2
	case strings.Contains(formA, "tree") && strings.Contains(formB, "herb"),
		strings.Contains(formB, "tree") && strings.Contains(formA, "herb"):
		conflict *= 0.4
	default:
		gap := math.Abs(a.HeightM - b.HeightM)
		switch {
		case gap < 2:
			// same canopy band
		case gap < 5:
			conflict *= 0.6
		default:
			conflict *= 0.3
		}
	}
	return conflict
}

// csConflict rates a competitor against a stress-tolerator. A shade
// tolerator wants to sit under the competitor; a sun-demanding one
// will be shaded out.
func csConflict(c, s Traits) float64 {
	conflict := 0.6
	switch {
	case s.LightPref < shadeBelow:
		conflict = 0
	case s.LightPref > sunAbove:
		conflict = 0.9
	default:
		if math.Abs(c.HeightM-s.HeightM) > 8 {
			conflict *= 0.3
		}
	}
	return conflict
}

// crConflict rates a competitor against a ruderal.
func crConflict(c, r Traits) float64 {
	conflict := 0.8
	if math.Abs(c.HeightM-r.HeightM) > 5 {
		conflict *= 0.3
	}
	return conflict
}

// nitrogenFixation penalizes guilds without nitrogen fixers. One
// fixer halves the penalty, two or more clear it.
func nitrogenFixation(members []Member) Component {
	n := len(members)
	withRating := 0
	var fixers []string
	for _, m := range members {
		if math.IsNaN(m.Traits.NitrogenRating) {
			continue
		}
		withRating++
		if m.Traits.NitrogenRating > fixerMin {
			fixers = append(fixers, displayName(m.Traits))
		}
	}

	var score float64
	var ev []string
	switch len(fixers) {
	case 0:
		score = 1
		ev = []string{"no nitrogen fixer among the members"}
	case 1:
		score = 0.5
		ev = []string{fmt.Sprintf("single nitrogen fixer %s", fixers[0])}
	default:
		ev = []string{fmt.Sprintf(
			"nitrogen fixers: %s", strings.Join(fixers, ", "),
		)}
	}

	return Component{
		Name:          CompNitrogenFixation,
		Score:         score,
		Weight:        weightNitrogen,
		Evidence:      ev,
		LowConfidence: withRating*2 < n,
	}
}

// soilPHSpread penalizes wide pH optimum spreads. Below two known
// optima there is nothing to compare and the spread reads as zero.
func soilPHSpread(members []Member) Component {
	n := len(members)
	minPH, maxPH := math.Inf(1), math.Inf(-1)
	var minName, maxName string
	withPH := 0
	for _, m := range members {
		v := m.Traits.SoilPH
		if math.IsNaN(v) {
			continue
		}
		withPH++
		if v < minPH {
			minPH, minName = v, displayName(m.Traits)
		}
		if v > maxPH {
			maxPH, maxName = v, displayName(m.Traits)
		}
	}

	var score float64
	var ev []string
	if withPH >= 2 {
		spread := maxPH - minPH
		switch {
		case spread > 2.5:
			score = 1
		case spread > 1.5:
			score = 0.5
		}
		ev = []string{fmt.Sprintf(
			"pH optima from %.1f (%s) to %.1f (%s)",
			minPH, minName, maxPH, maxName,
		)}
	}

	return Component{
		Name:          CompSoilPH,
		Score:         score,
		Weight:        weightSoilPH,
		Evidence:      ev,
		LowConfidence: withPH < 2 || withPH*2 < n,
	}
}
