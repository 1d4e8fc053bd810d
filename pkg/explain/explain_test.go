package explain_test

import (
	"testing"

	"github.com/gnames/gnfmt"
	"github.com/permaguild/guilddb/pkg/explain"
	"github.com/permaguild/guilddb/pkg/organism"
	"github.com/permaguild/guilddb/pkg/score"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plant(id, name string) score.Member {
	tr := score.NewTraits(id)
	tr.Name = name
	return score.Member{Traits: tr}
}

// hardy gives the member an envelope that accepts any temperate site.
func hardy(id, name string) score.Member {
	m := plant(id, name)
	m.Traits.TempQ05, m.Traits.TempQ95 = 5, 20
	m.Traits.HardinessQ05, m.Traits.HardinessQ95 = -15, 0
	m.Traits.PrecipQ05, m.Traits.PrecipQ95 = 400, 1200
	return m
}

func TestDescribe_RatingBands(t *testing.T) {
	tests := []struct {
		score float64
		stars int
		label string
	}{
		{0.85, 5, "Excellent guild"},
		{0.7, 5, "Excellent guild"},
		{0.3, 4, "Good guild"},
		{0, 3, "Neutral guild"},
		{-0.3, 3, "Neutral guild"},
		{-0.45, 2, "Risky guild"},
		{-0.7, 2, "Risky guild"},
		{-0.9, 1, "Poor guild"},
	}
	for _, v := range tests {
		e := explain.Describe(
			&score.Result{Score: v.score, Members: 2}, nil,
		)
		assert.Equal(t, v.stars, e.Rating.Stars, v.label)
		assert.Equal(t, v.label, e.Rating.Label, v.label)
	}

	e := explain.Describe(
		&score.Result{Vetoed: true, Score: -1, Members: 2}, nil,
	)
	assert.Zero(t, e.Rating.Stars)
	assert.Equal(t, "Incompatible guild", e.Rating.Label)
}

func TestDescribe_SkipsWeakFindings(t *testing.T) {
	res := &score.Result{
		Score:   -0.02,
		Members: 3,
		Negatives: []score.Component{
			{Name: score.CompSharedFungi, Score: 0.04, Weight: 0.35},
			{
				Name:     score.CompNitrogenFixation,
				Score:    0.5,
				Weight:   0.05,
				Evidence: []string{"single nitrogen fixer Alnus glutinosa"},
			},
		},
		Positives: []score.Component{
			{Name: score.CompStratification, Score: 0.05, Weight: 0.10},
			{
				Name:          score.CompBiocontrol,
				Score:         0.2,
				Weight:        0.25,
				LowConfidence: true,
			},
		},
	}

	e := explain.Describe(res, nil)

	require.Len(t, e.Risks, 1)
	assert.Equal(t, "Nitrogen supply", e.Risks[0].Title)
	assert.Equal(t, 5, e.Risks[0].Weight)
	assert.Equal(t,
		[]string{"single nitrogen fixer Alnus glutinosa"},
		e.Risks[0].Evidence,
	)
	assert.Equal(t,
		"add a legume or another nitrogen fixer", e.Risks[0].Advice,
	)

	require.Len(t, e.Benefits, 1)
	assert.Equal(t, "Natural pest control", e.Benefits[0].Title)
	assert.Equal(t, 25, e.Benefits[0].Weight)
	assert.Empty(t, e.Benefits[0].Advice)
	assert.True(t, e.Benefits[0].LowConfidence)
}

func TestDescribe_ConflictNamesFallBackToID(t *testing.T) {
	res := &score.Result{
		Vetoed:  true,
		Score:   -1,
		Members: 2,
		VetoReasons: []score.VetoReason{{
			Dimension: score.DimTemperature,
			Overlap:   -8,
			HighID:    "wfo-0009",
			High:      20,
			LowID:     "wfo-0010",
			Low:       12,
		}},
	}

	e := explain.Describe(res, map[string]string{"wfo-0009": "Ficus carica"})

	require.Len(t, e.Conflicts, 1)
	assert.Contains(t, e.Conflicts[0], "Ficus carica")
	assert.Contains(t, e.Conflicts[0], "wfo-0010")
}

func TestExplanation_JSON(t *testing.T) {
	e := explain.Describe(&score.Result{Score: 0.4, Members: 2}, nil)

	data, err := e.JSON()
	require.NoError(t, err)

	var back explain.Explanation
	require.NoError(t, gnfmt.GNjson{}.Decode(data, &back))
	assert.Equal(t, e, back)
}

func TestText_VetoedGuild(t *testing.T) {
	tropical := plant("wfo-0001", "Theobroma cacao")
	tropical.Traits.TempQ05, tropical.Traits.TempQ95 = 22, 28
	tropical.Traits.HardinessQ05, tropical.Traits.HardinessQ95 = 15, 22
	tropical.Traits.PrecipQ05, tropical.Traits.PrecipQ95 = 1500, 3000

	boreal := plant("wfo-0002", "Picea abies")
	boreal.Traits.TempQ05, boreal.Traits.TempQ95 = -2, 12
	boreal.Traits.HardinessQ05, boreal.Traits.HardinessQ95 = -30, -12
	boreal.Traits.PrecipQ05, boreal.Traits.PrecipQ95 = 300, 700

	res, err := score.NewScorer(score.Web{}).Score(
		[]score.Member{tropical, boreal},
	)
	require.NoError(t, err)
	require.True(t, res.Vetoed)

	e := explain.Describe(res, map[string]string{
		"wfo-0001": "Theobroma cacao",
		"wfo-0002": "Picea abies",
	})
	require.Len(t, e.Conflicts, 3)

	goldie.New(t).Assert(t, "vetoed_guild", []byte(e.Text()))
}

func TestText_RiskyGuild(t *testing.T) {
	kale := plant("wfo-0001", "Brassica oleracea")
	turnip := plant("wfo-0002", "Brassica rapa")
	for _, m := range []*score.Member{&kale, &turnip} {
		tr := &m.Traits
		tr.TempQ05, tr.TempQ95 = 8, 18
		tr.HardinessQ05, tr.HardinessQ95 = -8, 2
		tr.PrecipQ05, tr.PrecipQ95 = 450, 800
		tr.DroughtDays = 120
		tr.C, tr.S, tr.R = 70, 20, 10
		tr.GrowthForm = "herb"
		tr.HeightM = 1.0
		tr.Vector = []float32{0, 0}
		tr.NitrogenRating = 0
		m.Herbivores = []string{"Pieris brassicae"}
	}
	kale.Traits.SoilPH = 5.0
	turnip.Traits.SoilPH = 7.8
	kale.Fungi = []score.Fungus{{
		Genus: "fusarium",
		Flags: organism.GuildFlags{Pathogenic: true, HostSpecific: true},
	}}
	turnip.Fungi = []score.Fungus{{
		Genus: "fusarium",
		Flags: organism.GuildFlags{Pathogenic: true},
	}}

	res, err := score.NewScorer(score.Web{}).Score(
		[]score.Member{kale, turnip},
	)
	require.NoError(t, err)
	require.False(t, res.Vetoed)
	require.InDelta(t, -0.387, res.Score, 0.0005)

	e := explain.Describe(res, nil)
	assert.Equal(t, 2, e.Rating.Stars)

	goldie.New(t).Assert(t, "risky_guild", []byte(e.Text()))
}

func TestText_BalancedGuild(t *testing.T) {
	tomato := hardy("wfo-0001", "Solanum lycopersicum")
	tomato.Traits.Family = "Solanaceae"
	tomato.Traits.GrowthForm = "herb"
	tomato.Traits.HeightM = 1.2
	tomato.Traits.Vector = []float32{0, 0}
	tomato.Herbivores = []string{"Aphis fabae"}
	tomato.Pollinators = []string{"Bombus terrestris"}
	tomato.Fungi = []score.Fungus{
		{Genus: "glomus", Flags: organism.GuildFlags{AMF: true}},
	}

	basil := hardy("wfo-0002", "Ocimum basilicum")
	basil.Traits.Family = "Lamiaceae"
	basil.Traits.GrowthForm = "herb"
	basil.Traits.HeightM = 0.4
	basil.Traits.Vector = []float32{3, 0}
	basil.Pollinators = []string{"Bombus terrestris", "Apis mellifera"}
	basil.Fungi = []score.Fungus{
		{Genus: "glomus", Flags: organism.GuildFlags{AMF: true}},
	}

	marigold := hardy("wfo-0003", "Tagetes erecta")
	marigold.Traits.Family = "Asteraceae"
	marigold.Traits.GrowthForm = "herb"
	marigold.Traits.HeightM = 0.6
	marigold.Traits.Vector = []float32{0, 4}
	marigold.Visitors = []string{"Episyrphus balteatus"}

	web := score.Web{
		HerbivorePredators: map[string][]string{
			"Aphis fabae": {"Episyrphus balteatus"},
		},
	}
	res, err := score.NewScorer(web).Score(
		[]score.Member{tomato, basil, marigold},
	)
	require.NoError(t, err)
	require.False(t, res.Vetoed)
	require.InDelta(t, 0.426, res.Score, 0.0005)

	e := explain.Describe(res, nil)
	assert.Equal(t, 4, e.Rating.Stars)
	assert.Empty(t, e.Conflicts)

	goldie.New(t).Assert(t, "balanced_guild", []byte(e.Text()))
}
