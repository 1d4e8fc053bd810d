// Package organism classifies interaction records into the closed
// role vocabulary of plant profiles and derives organism identity.
// Every relation-string decision of the profile builder, the enemy
// indexer and the benefit miner goes through this package, so the
// classification rules are testable in one place.
package organism

import (
	"strings"

	"github.com/gnames/gnuuid"
)

// NoName is the placeholder the edge list uses for unidentified
// organisms. Records carrying it are dropped everywhere.
const NoName = "no name"

// Role is a profile role of an organism on a plant.
type Role string

const (
	RolePollinator Role = "pollinator"
	RoleVisitor    Role = "visitor"
	RoleHerbivore  Role = "herbivore"
	RolePathogen   Role = "pathogen"
)

// ClassifyRelation maps a verbatim relation string onto profile
// roles. Unknown relations map to nothing. Pollination implies
// visiting, so `pollinates` yields both roles.
func ClassifyRelation(relation string) []Role {
	switch relation {
	case "pollinates":
		return []Role{RolePollinator, RoleVisitor}
	case "visitsFlowersOf", "visits":
		return []Role{RoleVisitor}
	case "eats", "preysOn":
		return []Role{RoleHerbivore}
	case "pathogenOf", "parasiteOf":
		return []Role{RolePathogen}
	}
	return nil
}

// RelationsFor returns the verbatim relation strings that feed a
// role. SQL filters and the Go classifier share these lists.
func RelationsFor(role Role) []string {
	switch role {
	case RolePollinator:
		return []string{"pollinates"}
	case RoleVisitor:
		return []string{"pollinates", "visitsFlowersOf", "visits"}
	case RoleHerbivore:
		return []string{"eats", "preysOn"}
	case RolePathogen:
		return []string{"pathogenOf", "parasiteOf"}
	}
	return nil
}

// PredatorRelations are the relations that make the source organism
// an enemy of a herbivore target.
func PredatorRelations() []string {
	return []string{"eats", "preysOn"}
}

// AntagonistRelations are the relations that make the source organism
// an enemy of a pathogen target.
func AntagonistRelations() []string {
	return []string{"eats", "preysOn", "parasiteOf", "pathogenOf"}
}

// ParasiteRelations are the relations that make a fungus an
// entomopathogen of an insect or mite target.
func ParasiteRelations() []string {
	return []string{"pathogenOf", "parasiteOf", "parasitoidOf", "hasHost", "kills"}
}

// FungalRelations are the broad relations mined for fungal guild
// membership. The net is wide on purpose; the trait lookup sorts the
// catch into guilds.
func FungalRelations() []string {
	return []string{"hasHost", "parasiteOf", "pathogenOf", "interactsWith"}
}

// PathogenClass splits pathogens by taxonomy.
type PathogenClass string

const (
	ClassFungal    PathogenClass = "fungal"
	ClassBacterial PathogenClass = "bacterial"
	ClassViral     PathogenClass = "viral"
	ClassOomycete  PathogenClass = "oomycete"
	ClassNematode  PathogenClass = "nematode"
	ClassOther     PathogenClass = "other"
)

var (
	oomyceteKingdoms = map[string]bool{
		"Chromista": true, "Protista": true,
	}
	oomycetePhyla = map[string]bool{
		"Oomycota": true, "Heterokontophyta": true,
	}
	bacterialKingdoms = map[string]bool{
		"Bacteria": true, "Bacillati": true, "Pseudomonadati": true,
	}
	viralKingdoms = map[string]bool{
		"Orthornavirae": true, "Shotokuvirae": true, "Pararnavirae": true,
		"Viruses": true, "Sangervirae": true, "Heunggongvirae": true,
	}
	animalKingdoms = map[string]bool{
		"Animalia": true, "Metazoa": true,
	}
	plantKingdoms = map[string]bool{
		"Plantae": true, "Viridiplantae": true, "Archaeplastida": true,
	}
	placeholderNames = map[string]bool{
		"Bacteria": true, "Virus": true, "Viruses": true,
		"Nematoda": true, "Insecta": true, "Animalia": true,
		"Plantae": true, "Chromista": true, "Protista": true,
	}
)

// ClassifyPathogen buckets a pathogen by kingdom, refined by phylum
// where the kingdom alone is ambiguous.
func ClassifyPathogen(kingdom, phylum string) PathogenClass {
	switch {
	case kingdom == "Fungi":
		return ClassFungal
	case oomyceteKingdoms[kingdom] && oomycetePhyla[phylum]:
		return ClassOomycete
	case bacterialKingdoms[kingdom]:
		return ClassBacterial
	case viralKingdoms[kingdom]:
		return ClassViral
	case animalKingdoms[kingdom] && phylum == "Nematoda":
		return ClassNematode
	}
	return ClassOther
}

// PathogenExcluded reports taxa that never count as plant pathogens:
// plants themselves and animals other than nematodes.
func PathogenExcluded(kingdom, phylum string) bool {
	if plantKingdoms[kingdom] {
		return true
	}
	if animalKingdoms[kingdom] && phylum != "Nematoda" {
		return true
	}
	return false
}

// PlaceholderName reports bare rank names the edge list sometimes
// carries instead of an organism name.
func PlaceholderName(name string) bool {
	return placeholderNames[name]
}

// GenusOf returns the lowercase genus for guild matching, preferring
// the explicit genus field and falling back to the first word of the
// name.
func GenusOf(genusField, name string) string {
	g := strings.TrimSpace(genusField)
	if g == "" {
		g, _, _ = strings.Cut(strings.TrimSpace(name), " ")
	}
	return strings.ToLower(g)
}

// ID returns the UUID v5 of the canonical organism name, the stable
// identity shared by profiles and enemy indexes.
func ID(name string) string {
	return gnuuid.New(name).String()
}
