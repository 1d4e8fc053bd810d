package score_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permaguild/guilddb/pkg/organism"
	"github.com/permaguild/guilddb/pkg/score"
)

// bare returns a member with nothing but an id.
func bare(id string) score.Member {
	return score.Member{Traits: score.NewTraits(id)}
}

// component finds a component by name or fails the test.
func component(t *testing.T, comps []score.Component, name string) score.Component {
	t.Helper()
	for _, c := range comps {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("component %s not found", name)
	return score.Component{}
}

// hardy returns a member whose envelope accepts any temperate site.
func hardy(id string) score.Member {
	t := score.NewTraits(id)
	t.TempQ05, t.TempQ95 = 5, 20
	t.HardinessQ05, t.HardinessQ95 = -15, 0
	t.PrecipQ05, t.PrecipQ95 = 400, 1200
	return score.Member{Traits: t}
}

func TestNewTraits(t *testing.T) {
	tr := score.NewTraits("wfo-0000544679")

	assert.Equal(t, "wfo-0000544679", tr.ID)
	for name, v := range map[string]float64{
		"height":    tr.HeightM,
		"c":         tr.C,
		"temp q05":  tr.TempQ05,
		"precip":    tr.PrecipQ95,
		"hardiness": tr.HardinessQ05,
		"light":     tr.LightPref,
		"soil ph":   tr.SoilPH,
		"nitrogen":  tr.NitrogenRating,
	} {
		assert.True(t, math.IsNaN(v), name)
	}
}

func TestLightFromEIVE(t *testing.T) {
	assert.InDelta(t, -1, score.LightFromEIVE(0), 1e-9)
	assert.InDelta(t, 0, score.LightFromEIVE(5), 1e-9)
	assert.InDelta(t, 0.5, score.LightFromEIVE(7.5), 1e-9)
	assert.InDelta(t, 1, score.LightFromEIVE(10), 1e-9)
}

func TestScore_Validation(t *testing.T) {
	s := score.NewScorer(score.Web{})

	big := make([]score.Member, score.MaxMembers+1)
	for i := range big {
		big[i] = bare(fmt.Sprintf("wfo-%04d", i))
	}

	tests := []struct {
		msg     string
		members []score.Member
	}{
		{"empty roster", nil},
		{"single member", []score.Member{bare("wfo-0001")}},
		{"oversized roster", big},
		{"duplicate ids", []score.Member{
			bare("wfo-0001"), bare("wfo-0002"), bare("wfo-0001"),
		}},
		{"missing id", []score.Member{bare("wfo-0001"), bare("")}},
	}

	for _, v := range tests {
		res, err := s.Score(v.members)
		assert.Nil(t, res, v.msg)
		require.Error(t, err, v.msg)
		var inputErr *score.InputError
		assert.True(t, errors.As(err, &inputErr), v.msg)
	}

	_, err := s.Score([]score.Member{bare("wfo-0001"), bare("wfo-0002")})
	assert.NoError(t, err)
}

func TestScore_ComponentLayout(t *testing.T) {
	s := score.NewScorer(score.Web{})

	res, err := s.Score([]score.Member{bare("wfo-0001"), bare("wfo-0002")})
	require.NoError(t, err)

	wantNeg := []string{
		score.CompSharedFungi,
		score.CompSharedHerbivores,
		score.CompCSRConflict,
		score.CompNitrogenFixation,
		score.CompSoilPH,
	}
	wantPos := []string{
		score.CompBiocontrol,
		score.CompDiseaseControl,
		score.CompBeneficialFungi,
		score.CompPhyloDiversity,
		score.CompStratification,
		score.CompSharedPollinators,
	}

	require.Len(t, res.Negatives, len(wantNeg))
	require.Len(t, res.Positives, len(wantPos))
	var negSum, posSum float64
	for i, c := range res.Negatives {
		assert.Equal(t, wantNeg[i], c.Name)
		negSum += c.Weight
	}
	for i, c := range res.Positives {
		assert.Equal(t, wantPos[i], c.Name)
		posSum += c.Weight
	}
	assert.InDelta(t, 1, negSum, 1e-9)
	assert.InDelta(t, 1, posSum, 1e-9)
}

// Members without any data still produce a score: every component
// degrades to zero except the nitrogen penalty, which reads an
// all-unknown guild as having no fixer.
func TestScore_BareMembers(t *testing.T) {
	s := score.NewScorer(score.Web{})

	res, err := s.Score([]score.Member{bare("wfo-0001"), bare("wfo-0002")})
	require.NoError(t, err)

	assert.False(t, res.Vetoed)
	assert.Equal(t, 2, res.Members)
	assert.Nil(t, res.Zone)
	assert.Contains(t, res.Warnings, "climate envelope missing for 2 of 2 members")
	assert.InDelta(t, 0.05, res.Negative, 1e-9)
	assert.InDelta(t, 0, res.Positive, 1e-9)
	assert.InDelta(t, -0.05, res.Score, 1e-9)

	for _, c := range append(res.Negatives, res.Positives...) {
		assert.True(t, c.LowConfidence, c.Name)
	}
}

// Component scores stay in [0,1] and the aggregate in [-1,1] on a
// data-rich guild.
func TestScore_Bounds(t *testing.T) {
	tomato, basil, marigold := companionGuild()
	web := score.Web{
		HerbivorePredators: map[string][]string{
			"Aphis fabae": {"Episyrphus balteatus"},
		},
	}

	res, err := score.NewScorer(web).Score(
		[]score.Member{tomato, basil, marigold},
	)
	require.NoError(t, err)

	for _, c := range append(res.Negatives, res.Positives...) {
		assert.GreaterOrEqual(t, c.Score, 0.0, c.Name)
		assert.LessOrEqual(t, c.Score, 1.0, c.Name)
		assert.Greater(t, c.Weight, 0.0, c.Name)
	}
	assert.GreaterOrEqual(t, res.Score, -1.0)
	assert.LessOrEqual(t, res.Score, 1.0)
}

// companionGuild builds a tomato, basil and marigold trio: compatible
// climates, stacked heights, a shared mycorrhizal genus and a
// hoverfly that controls the tomato's aphids.
func companionGuild() (tomato, basil, marigold score.Member) {
	tomato = hardy("wfo-0001")
	tomato.Traits.Name = "Solanum lycopersicum"
	tomato.Traits.Family = "Solanaceae"
	tomato.Traits.GrowthForm = "herb"
	tomato.Traits.HeightM = 1.2
	tomato.Traits.Vector = []float32{0, 0}
	tomato.Herbivores = []string{"Aphis fabae"}
	tomato.Pollinators = []string{"Bombus terrestris"}
	tomato.Fungi = []score.Fungus{
		{Genus: "glomus", Flags: organism.GuildFlags{AMF: true}},
	}

	basil = hardy("wfo-0002")
	basil.Traits.Name = "Ocimum basilicum"
	basil.Traits.Family = "Lamiaceae"
	basil.Traits.GrowthForm = "herb"
	basil.Traits.HeightM = 0.4
	basil.Traits.Vector = []float32{3, 0}
	basil.Pollinators = []string{"Bombus terrestris", "Apis mellifera"}
	basil.Fungi = []score.Fungus{
		{Genus: "glomus", Flags: organism.GuildFlags{AMF: true}},
	}

	marigold = hardy("wfo-0003")
	marigold.Traits.Name = "Tagetes erecta"
	marigold.Traits.Family = "Asteraceae"
	marigold.Traits.GrowthForm = "herb"
	marigold.Traits.HeightM = 0.6
	marigold.Traits.Vector = []float32{0, 4}
	marigold.Visitors = []string{"Episyrphus balteatus"}
	return tomato, basil, marigold
}

func TestScore_CompanionGuild(t *testing.T) {
	tomato, basil, marigold := companionGuild()
	web := score.Web{
		HerbivorePredators: map[string][]string{
			"Aphis fabae": {"Episyrphus balteatus"},
		},
	}

	res, err := score.NewScorer(web).Score(
		[]score.Member{tomato, basil, marigold},
	)
	require.NoError(t, err)

	assert.False(t, res.Vetoed)
	assert.Greater(t, res.Score, 0.0)
	assert.Empty(t, res.Warnings)
	require.NotNil(t, res.Zone)
	assert.InDelta(t, 5, res.Zone.TempMin, 1e-9)
	assert.InDelta(t, 20, res.Zone.TempMax, 1e-9)

	biocontrol := res.Positives[0]
	require.Equal(t, score.CompBiocontrol, biocontrol.Name)
	assert.Greater(t, biocontrol.Score, 0.9)
	assert.Contains(t, biocontrol.Evidence,
		"Tagetes erecta attracts Episyrphus balteatus against Aphis fabae")
}

// Two guilds differing only in a shared host-specific pathogen: the
// infected one must score worse.
func TestScore_SharedPathogenScoresWorse(t *testing.T) {
	s := score.NewScorer(score.Web{})

	build := func(infected bool) []score.Member {
		a, b := hardy("wfo-0001"), hardy("wfo-0002")
		a.Traits.Name, b.Traits.Name = "Malus domestica", "Prunus avium"
		if infected {
			fungi := []score.Fungus{{
				Genus: "fusarium",
				Flags: organism.GuildFlags{Pathogenic: true, HostSpecific: true},
			}}
			a.Fungi = append([]score.Fungus{}, fungi...)
			b.Fungi = append([]score.Fungus{}, fungi...)
		}
		return []score.Member{a, b}
	}

	clean, err := s.Score(build(false))
	require.NoError(t, err)
	infected, err := s.Score(build(true))
	require.NoError(t, err)

	assert.Less(t, infected.Score, clean.Score)
	assert.Equal(t, score.CompSharedFungi, infected.Negatives[0].Name)
	assert.Greater(t, infected.Negatives[0].Score, 0.0)
	assert.Contains(t, infected.Negatives[0].Evidence,
		"fusarium on 2 of 2 members, host-specific")
}

// A climate veto short-circuits: no component is computed however
// much interaction data the members carry.
func TestScore_IncompatibleClimateVetoes(t *testing.T) {
	tropical := hardy("wfo-0001")
	tropical.Traits.Name = "Theobroma cacao"
	tropical.Traits.TempQ05, tropical.Traits.TempQ95 = 22, 28
	tropical.Traits.HardinessQ05, tropical.Traits.HardinessQ95 = 15, 22
	tropical.Traits.PrecipQ05, tropical.Traits.PrecipQ95 = 1500, 3000
	tropical.Herbivores = []string{"Aphis fabae"}

	boreal := hardy("wfo-0002")
	boreal.Traits.Name = "Picea abies"
	boreal.Traits.TempQ05, boreal.Traits.TempQ95 = -2, 12
	boreal.Traits.HardinessQ05, boreal.Traits.HardinessQ95 = -30, -12
	boreal.Traits.PrecipQ05, boreal.Traits.PrecipQ95 = 300, 700
	boreal.Herbivores = []string{"Aphis fabae"}

	res, err := score.NewScorer(score.Web{}).Score(
		[]score.Member{tropical, boreal},
	)
	require.NoError(t, err)

	assert.True(t, res.Vetoed)
	assert.InDelta(t, -1, res.Score, 1e-9)
	assert.Nil(t, res.Negatives)
	assert.Nil(t, res.Positives)
	assert.Nil(t, res.Zone)
	assert.Empty(t, res.Warnings)

	require.Len(t, res.VetoReasons, 3)
	temp := res.VetoReasons[0]
	assert.Equal(t, score.DimTemperature, temp.Dimension)
	assert.InDelta(t, -10, temp.Overlap, 1e-9)
	assert.Equal(t, "wfo-0001", temp.HighID)
	assert.InDelta(t, 22, temp.High, 1e-9)
	assert.Equal(t, "wfo-0002", temp.LowID)
	assert.InDelta(t, 12, temp.Low, 1e-9)
	assert.Equal(t, score.DimHardiness, res.VetoReasons[1].Dimension)
	assert.Equal(t, score.DimPrecipitation, res.VetoReasons[2].Dimension)
}
