package organism_test

import (
	"testing"

	"github.com/permaguild/guilddb/pkg/organism"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edge(name, kingdom, relation, plantID string) organism.Edge {
	return organism.Edge{
		SourceName:    name,
		SourceKingdom: kingdom,
		Relation:      relation,
		TargetName:    "Quercus robur",
		TargetPlantID: plantID,
	}
}

func findRecord(
	recs []organism.Record, plantID, name string, role organism.Role,
) (organism.Record, bool) {
	for _, r := range recs {
		if r.PlantID == plantID && r.OrganismName == name && r.Role == role {
			return r, true
		}
	}
	return organism.Record{}, false
}

func TestBuilder_RolesAndRecordCounts(t *testing.T) {
	b := organism.NewBuilder()
	b.Add(edge("Apis mellifera", "Animalia", "pollinates", "wfo-0001"))
	b.Add(edge("Apis mellifera", "Animalia", "pollinates", "wfo-0001"))
	b.Add(edge("Episyrphus balteatus", "Animalia", "visits", "wfo-0001"))
	b.Add(edge("Aphis fabae", "Animalia", "eats", "wfo-0001"))

	recs := b.Finalize()

	pol, ok := findRecord(recs, "wfo-0001", "Apis mellifera", organism.RolePollinator)
	require.True(t, ok)
	assert.Equal(t, 2, pol.Records, "repeated edges accumulate")

	_, ok = findRecord(recs, "wfo-0001", "Apis mellifera", organism.RoleVisitor)
	assert.True(t, ok, "pollinates implies a visitor record")

	_, ok = findRecord(recs, "wfo-0001", "Episyrphus balteatus", organism.RoleVisitor)
	assert.True(t, ok)

	herb, ok := findRecord(recs, "wfo-0001", "Aphis fabae", organism.RoleHerbivore)
	require.True(t, ok)
	assert.Equal(t, "Animalia", herb.Kingdom)
	assert.Empty(t, herb.PathogenClass, "class is set for pathogens only")
}

// An organism that visits flowers of any plant is a nectar feeder, so an
// eats edge on a different plant must not produce a herbivore record.
func TestBuilder_VisitorExclusionSpansPlants(t *testing.T) {
	b := organism.NewBuilder()
	b.Add(edge("Episyrphus balteatus", "Animalia", "eats", "wfo-0002"))
	b.Add(edge("Episyrphus balteatus", "Animalia", "visitsFlowersOf", "wfo-0001"))
	b.Add(edge("Aphis fabae", "Animalia", "eats", "wfo-0002"))

	recs := b.Finalize()

	_, ok := findRecord(recs, "wfo-0002", "Episyrphus balteatus", organism.RoleHerbivore)
	assert.False(t, ok, "flower visitors are never herbivores")

	_, ok = findRecord(recs, "wfo-0002", "Aphis fabae", organism.RoleHerbivore)
	assert.True(t, ok, "true herbivores survive the exclusion")

	_, ok = findRecord(recs, "wfo-0001", "Episyrphus balteatus", organism.RoleVisitor)
	assert.True(t, ok, "the visitor record itself is kept")
}

func TestBuilder_PathogenClassification(t *testing.T) {
	b := organism.NewBuilder()
	b.Add(organism.Edge{
		SourceName:    "Erysiphe alphitoides",
		SourceKingdom: "Fungi",
		SourcePhylum:  "Ascomycota",
		Relation:      "pathogenOf",
		TargetName:    "Quercus robur",
		TargetPlantID: "wfo-0001",
	})
	b.Add(organism.Edge{
		SourceName:    "Meloidogyne hapla",
		SourceKingdom: "Animalia",
		SourcePhylum:  "Nematoda",
		Relation:      "parasiteOf",
		TargetName:    "Quercus robur",
		TargetPlantID: "wfo-0001",
	})

	recs := b.Finalize()
	require.Len(t, recs, 2)

	fungal, ok := findRecord(recs, "wfo-0001", "Erysiphe alphitoides", organism.RolePathogen)
	require.True(t, ok)
	assert.Equal(t, organism.ClassFungal, fungal.PathogenClass)

	nema, ok := findRecord(recs, "wfo-0001", "Meloidogyne hapla", organism.RolePathogen)
	require.True(t, ok)
	assert.Equal(t, organism.ClassNematode, nema.PathogenClass)
}

func TestBuilder_PathogenExclusions(t *testing.T) {
	b := organism.NewBuilder()
	// parasitic plant: excluded by kingdom
	b.Add(edge("Cuscuta europaea", "Plantae", "parasiteOf", "wfo-0001"))
	// insect parasite: animals other than nematodes are not pathogens
	b.Add(organism.Edge{
		SourceName:    "Andricus kollari",
		SourceKingdom: "Animalia",
		SourcePhylum:  "Arthropoda",
		Relation:      "parasiteOf",
		TargetName:    "Quercus robur",
		TargetPlantID: "wfo-0001",
	})
	// rank placeholder instead of a taxon name
	b.Add(edge("Bacteria", "Bacteria", "pathogenOf", "wfo-0001"))

	assert.Empty(t, b.Finalize())
}

func TestBuilder_SkipsUnusableEdges(t *testing.T) {
	b := organism.NewBuilder()
	b.Add(edge("", "Animalia", "eats", "wfo-0001"))
	b.Add(edge("no name", "Animalia", "eats", "wfo-0001"))
	b.Add(edge("Aphis fabae", "Animalia", "eats", ""))
	b.Add(edge("Aphis fabae", "Animalia", "interactsWith", "wfo-0001"))

	assert.Empty(t, b.Finalize())
}

func TestBuilder_DeterministicOrder(t *testing.T) {
	build := func() []organism.Record {
		b := organism.NewBuilder()
		b.Add(edge("Lymantria dispar", "Animalia", "eats", "wfo-0002"))
		b.Add(edge("Apis mellifera", "Animalia", "pollinates", "wfo-0001"))
		b.Add(edge("Aphis fabae", "Animalia", "eats", "wfo-0001"))
		return b.Finalize()
	}

	first := build()
	second := build()
	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		if prev.PlantID != cur.PlantID {
			assert.Less(t, prev.PlantID, cur.PlantID)
		}
	}
}
