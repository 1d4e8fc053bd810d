package score

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize/english"
)

// memberIndex caches a member's deduplicated, sorted name sets for
// pairwise matching.
type memberIndex struct {
	name       string
	herbivores []string
	visitors   []string
	entomo     []string
	pathFungi  []string
	myco       []string
}

func indexMember(m Member) memberIndex {
	mi := memberIndex{
		name:       displayName(m.Traits),
		herbivores: sortedUnique(m.Herbivores),
	}
	visits := make([]string, 0, len(m.Visitors)+len(m.Pollinators))
	visits = append(visits, m.Visitors...)
	visits = append(visits, m.Pollinators...)
	mi.visitors = sortedUnique(visits)

	var entomo, path, myco []string
	for _, f := range m.Fungi {
		if f.Flags.Entomopathogenic {
			entomo = append(entomo, f.Genus)
		}
		if f.Flags.Pathogenic {
			path = append(path, f.Genus)
		}
		if f.Flags.Mycoparasite {
			myco = append(myco, f.Genus)
		}
	}
	mi.entomo = sortedUnique(entomo)
	mi.pathFungi = sortedUnique(path)
	mi.myco = sortedUnique(myco)
	return mi
}

// insectBiocontrol scores how well members cover each other's
// herbivores. A member helps a partner when it attracts known
// predators of the partner's herbivores or hosts fungi known to
// parasitize them; hosting any entomopathogenic fungus near a
// troubled partner earns a small general credit.
func (s *Scorer) insectBiocontrol(members []Member) Component {
	n := len(members)
	idx := make([]memberIndex, n)
	hasData := false
	for i, m := range members {
		idx[i] = indexMember(m)
		if len(idx[i].herbivores)+len(idx[i].visitors)+len(idx[i].entomo) > 0 {
			hasData = true
		}
	}

	raw := 0.0
	var ev []string
	for a := range idx {
		if len(idx[a].herbivores) == 0 {
			continue
		}
		for b := range idx {
			if a == b {
				continue
			}
			for _, herb := range idx[a].herbivores {
				if matched := matchSorted(idx[b].visitors, s.predators[herb]); len(matched) > 0 {
					raw += float64(len(matched))
					ev = append(ev, fmt.Sprintf(
						"%s attracts %s against %s",
						idx[b].name, joinCapped(matched), herb,
					))
				}
				if matched := matchSorted(idx[b].entomo, s.parasites[herb]); len(matched) > 0 {
					raw += float64(len(matched))
					ev = append(ev, fmt.Sprintf(
						"%s hosts %s against %s",
						idx[b].name, joinCapped(matched), herb,
					))
				}
			}
			raw += 0.2 * float64(len(idx[b].entomo))
		}
	}

	return Component{
		Name:          CompBiocontrol,
		Score:         math.Tanh(raw / float64(n*(n-1)) * 20),
		Weight:        weightBiocontrol,
		Evidence:      capEvidence(ev),
		LowConfidence: !hasData,
	}
}

// diseaseControl scores fungal disease suppression. Specific
// antagonist matches are rare in the interaction data; the carrying
// mechanism is members hosting mycoparasites near partners with a
// pathogen load.
func (s *Scorer) diseaseControl(members []Member) Component {
	n := len(members)
	idx := make([]memberIndex, n)
	hasData := false
	for i, m := range members {
		idx[i] = indexMember(m)
		if len(m.Fungi) > 0 {
			hasData = true
		}
	}

	raw := 0.0
	var ev []string
	for a := range idx {
		if len(idx[a].pathFungi) == 0 {
			continue
		}
		for b := range idx {
			if a == b {
				continue
			}
			for _, path := range idx[a].pathFungi {
				if matched := matchSorted(idx[b].myco, s.antagonists[path]); len(matched) > 0 {
					raw += float64(len(matched))
					ev = append(ev, fmt.Sprintf(
						"%s hosts %s against %s",
						idx[b].name, joinCapped(matched), path,
					))
				}
			}
			if len(idx[b].myco) > 0 {
				raw += float64(len(idx[b].myco))
				ev = append(ev, fmt.Sprintf(
					"%s hosts mycoparasites %s near %s of %s",
					idx[b].name, joinCapped(idx[b].myco),
					english.Plural(len(idx[a].pathFungi), "pathogen", ""),
					idx[a].name,
				))
			}
		}
	}

	return Component{
		Name:          CompDiseaseControl,
		Score:         math.Tanh(raw / float64(n*(n-1)) * 10),
		Weight:        weightDiseaseControl,
		Evidence:      capEvidence(ev),
		LowConfidence: !hasData,
	}
}

// beneficialFungi scores mycorrhizal, endophytic and saprotrophic
// network potential: genera shared by two or more members, blended
// with the share of members carrying any beneficial fungus at all.
func beneficialFungi(members []Member) Component {
	n := len(members)
	lists := make([][]string, n)
	covered := 0
	hasData := false
	for i, m := range members {
		if len(m.Fungi) > 0 {
			hasData = true
		}
		for _, f := range m.Fungi {
			fl := f.Flags
			if fl.AMF || fl.EMF || fl.Endophytic || fl.Saprotrophic {
				lists[i] = append(lists[i], f.Genus)
			}
		}
		if len(lists[i]) > 0 {
			covered++
		}
	}

	counts := countAcrossMembers(lists)
	network := 0.0
	var ev []string
	for _, genus := range sharedNames(counts) {
		network += float64(counts[genus]) / float64(n)
		ev = append(ev, fmt.Sprintf(
			"%s colonizes %d of %d members", genus, counts[genus], n,
		))
	}
	coverage := float64(covered) / float64(n)

	return Component{
		Name:          CompBeneficialFungi,
		Score:         math.Tanh((network*0.6 + coverage*0.4) / 3),
		Weight:        weightBeneficialFungi,
		Evidence:      capEvidence(ev),
		LowConfidence: !hasData,
	}
}

// phyloDiversity rewards phylogenetic spread, read as the mean
// pairwise distance between the members' embedding coordinates. With
// fewer than two embedded members the component falls back to a bare
// family count and is flagged low confidence.
func phyloDiversity(members []Member) Component {
	n := len(members)
	var vecs [][]float32
	for _, m := range members {
		if len(m.Traits.Vector) > 0 {
			vecs = append(vecs, m.Traits.Vector)
		}
	}

	if len(vecs) >= 2 {
		mean := meanPairwiseDistance(vecs)
		return Component{
			Name:   CompPhyloDiversity,
			Score:  math.Tanh(mean / 3),
			Weight: weightPhyloDiversity,
			Evidence: []string{fmt.Sprintf(
				"mean pairwise distance %.2f over %d embedded members",
				mean, len(vecs),
			)},
			LowConfidence: len(vecs) < n,
		}
	}

	families := make(map[string]bool)
	for _, m := range members {
		if m.Traits.Family != "" {
			families[m.Traits.Family] = true
		}
	}
	return Component{
		Name:   CompPhyloDiversity,
		Score:  float64(len(families)) / float64(n),
		Weight: weightPhyloDiversity,
		Evidence: []string{fmt.Sprintf(
			"%s among %d members, no embedding coordinates",
			english.Plural(len(families), "family", "families"), n,
		)},
		LowConfidence: true,
	}
}

func meanPairwiseDistance(vecs [][]float32) float64 {
	var sum float64
	var pairs int
	for i := 0; i < len(vecs); i++ {
		for j := i + 1; j < len(vecs); j++ {
			sum += euclidean(vecs[i], vecs[j])
			pairs++
		}
	}
	return sum / float64(pairs)
}

func euclidean(a, b []float32) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for k := range a {
		d := float64(a[k]) - float64(b[k])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Height layer bands in meters.
func heightLayer(h float64) string {
	switch {
	case h < 0.5:
		return "ground cover"
	case h < 2:
		return "low herb"
	case h < 5:
		return "shrub"
	case h < 15:
		return "small tree"
	default:
		return "large tree"
	}
}

// stratification rewards guilds that fill distinct height layers and
// growth forms.
func stratification(members []Member) Component {
	n := len(members)
	layers := make(map[string]bool)
	forms := make(map[string]bool)
	minH, maxH := math.Inf(1), math.Inf(-1)
	withHeight := 0
	for _, m := range members {
		if h := m.Traits.HeightM; !math.IsNaN(h) {
			withHeight++
			layers[heightLayer(h)] = true
			if h < minH {
				minH = h
			}
			if h > maxH {
				maxH = h
			}
		}
		if m.Traits.GrowthForm != "" {
			forms[m.Traits.GrowthForm] = true
		}
	}

	var layerTerm, rangeTerm, heightRange float64
	if withHeight > 0 {
		layerTerm = float64(len(layers)-1) / 4
		heightRange = maxH - minH
		rangeTerm = math.Tanh(heightRange / 10)
	}
	heightScore := 0.6*layerTerm + 0.4*rangeTerm
	var formTerm float64
	if len(forms) > 0 {
		formTerm = float64(len(forms)-1) / 5
	}

	return Component{
		Name:   CompStratification,
		Score:  0.6*heightScore + 0.4*formTerm,
		Weight: weightStratification,
		Evidence: []string{fmt.Sprintf(
			"%s over %.1f m, %s",
			english.Plural(len(layers), "height layer", ""),
			heightRange,
			english.Plural(len(forms), "growth form", ""),
		)},
		LowConfidence: withHeight*2 < n,
	}
}

// sharedPollinators rewards flower visitors working several members.
func sharedPollinators(members []Member) Component {
	n := len(members)
	lists := make([][]string, n)
	hasData := false
	for i, m := range members {
		if len(m.Visitors)+len(m.Pollinators) > 0 {
			hasData = true
		}
		lists[i] = append(lists[i], m.Visitors...)
		lists[i] = append(lists[i], m.Pollinators...)
	}

	counts := countAcrossMembers(lists)
	raw := 0.0
	var ev []string
	for _, name := range sharedNames(counts) {
		ratio := float64(counts[name]) / float64(n)
		raw += ratio * ratio
		ev = append(ev, fmt.Sprintf(
			"%s visits %d of %d members", name, counts[name], n,
		))
	}

	return Component{
		Name:          CompSharedPollinators,
		Score:         math.Tanh(raw / 5),
		Weight:        weightSharedPollinators,
		Evidence:      capEvidence(ev),
		LowConfidence: !hasData,
	}
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

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// matchSorted returns the names present in the set, keeping the
// sorted input order.
func matchSorted(names []string, set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	var res []string
	for _, n := range names {
		if set[n] {
			res = append(res, n)
		}
	}
	return res
}

func joinCapped(names []string) string {
	if len(names) > maxMatched {
		names = names[:maxMatched]
	}
	return strings.Join(names, ", ")
}
