package organism

import (
	"sort"
	"strings"
)

// Lifestyle is a genus-keyed fungal trait record from the lookup
// dataset.
type Lifestyle struct {
	Primary         string
	Secondary       string
	HostSpecificity string
}

// GuildFlags are the guild memberships a fungal genus can hold. A
// genus can belong to several guilds at once.
type GuildFlags struct {
	Pathogenic       bool
	HostSpecific     bool
	AMF              bool
	EMF              bool
	Mycoparasite     bool
	Entomopathogenic bool
	Endophytic       bool
	Saprotrophic     bool
}

var saprotrophPrimary = map[string]bool{
	"wood_saprotroph":        true,
	"litter_saprotroph":      true,
	"soil_saprotroph":        true,
	"unspecified_saprotroph": true,
	"dung_saprotroph":        true,
	"nectar/tap_saprotroph":  true,
	"pollen_saprotroph":      true,
}

// GuildFlagsFor derives guild membership from a lifestyle record.
// Primary lifestyles decide directly; secondary lifestyles are
// matched by substring, the way the trait dataset mixes free-text
// qualifiers there.
func GuildFlagsFor(l Lifestyle) GuildFlags {
	secondary := strings.ToLower(l.Secondary)

	return GuildFlags{
		Pathogenic: l.Primary == "plant_pathogen" ||
			strings.Contains(secondary, "pathogen"),
		HostSpecific: l.HostSpecificity != "",
		AMF:          l.Primary == "arbuscular_mycorrhizal",
		EMF:          l.Primary == "ectomycorrhizal",
		Mycoparasite: l.Primary == "mycoparasite",
		Entomopathogenic: l.Primary == "animal_parasite" ||
			strings.Contains(secondary, "animal_parasite") ||
			strings.Contains(secondary, "arthropod"),
		Endophytic: l.Primary == "foliar_endophyte" ||
			l.Primary == "root_endophyte" ||
			strings.Contains(secondary, "endophyte"),
		Saprotrophic: saprotrophPrimary[l.Primary] ||
			strings.Contains(secondary, "saprotroph") ||
			strings.Contains(secondary, "decomposer"),
	}
}

// Guild is one fungal genus observed on one plant with its derived
// guild flags.
type Guild struct {
	PlantID string
	Genus   string
	Flags   GuildFlags
	Records int
}

type guildKey struct {
	plantID string
	genus   string
}

// GuildBuilder matches fungal observations against the trait lookup
// and sorts genera into guilds per plant. Not safe for concurrent
// use.
type GuildBuilder struct {
	traits    map[string]Lifestyle
	relations map[string]bool
	seen      map[guildKey]int
}

// NewGuildBuilder creates a builder over a genus-keyed lifestyle
// lookup. Lookup keys must be lowercase.
func NewGuildBuilder(traits map[string]Lifestyle) *GuildBuilder {
	relations := make(map[string]bool)
	for _, r := range FungalRelations() {
		relations[r] = true
	}
	return &GuildBuilder{
		traits:    traits,
		relations: relations,
		seen:      make(map[guildKey]int),
	}
}

// Add counts a fungal observation when the edge carries one of the
// broad fungal relations, the source kingdom is Fungi and the target
// is a roster plant.
func (g *GuildBuilder) Add(e Edge) {
	if !g.relations[e.Relation] || e.SourceKingdom != "Fungi" ||
		e.TargetPlantID == "" {
		return
	}
	genus := GenusOf(e.SourceGenus, e.SourceName)
	if genus == "" {
		return
	}
	g.seen[guildKey{plantID: e.TargetPlantID, genus: genus}]++
}

// Finalize returns guild rows for every observed genus found in the
// trait lookup, sorted by plant and genus. Genera missing from the
// lookup are dropped; without a lifestyle there is no guild to
// assign.
func (g *GuildBuilder) Finalize() []Guild {
	res := make([]Guild, 0, len(g.seen))
	for key, records := range g.seen {
		lifestyle, ok := g.traits[key.genus]
		if !ok {
			continue
		}
		res = append(res, Guild{
			PlantID: key.plantID,
			Genus:   key.genus,
			Flags:   GuildFlagsFor(lifestyle),
			Records: records,
		})
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].PlantID != res[j].PlantID {
			return res[i].PlantID < res[j].PlantID
		}
		return res[i].Genus < res[j].Genus
	})
	return res
}
