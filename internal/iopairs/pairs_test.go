package iopairs

import (
	"context"
	"testing"

	"github.com/gnames/gnfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permaguild/guilddb/pkg/biocontrol"
	"github.com/permaguild/guilddb/pkg/score"
)

func testMembers() []score.Member {
	a := score.Member{
		Traits:      score.NewTraits("wfo-a"),
		Pollinators: []string{"Apis mellifera"},
		Herbivores:  []string{"Aphis fabae"},
	}
	b := score.Member{
		Traits:      score.NewTraits("wfo-b"),
		Pollinators: []string{"Apis mellifera", "Bombus terrestris"},
		Herbivores:  []string{"Pieris rapae"},
	}
	return []score.Member{a, b}
}

func TestScoreRows(t *testing.T) {
	members := testMembers()
	helpAB := biocontrol.Benefit{
		PlantA:        "wfo-a",
		PlantB:        "wfo-b",
		PredatorCount: 2,
		Examples: []string{
			"Coccinella septempunctata eats Pieris rapae",
		},
	}
	benefits := map[string]map[string]biocontrol.Benefit{
		"wfo-a": {"wfo-b": helpAB},
	}

	chIn := make(chan int, 2)
	chOut := make(chan pairRow, 4)
	chIn <- 0
	chIn <- 1
	close(chIn)

	err := scoreRows(context.Background(), members, benefits, chIn, chOut)
	require.NoError(t, err)
	close(chOut)

	var rows []pairRow
	for row := range chOut {
		rows = append(rows, row)
	}
	require.Len(t, rows, 1, "each unordered pair is scored once")

	row := rows[0]
	assert.Equal(t, "wfo-a", row.plantA)
	assert.Equal(t, "wfo-b", row.plantB)

	want := score.PairScore(
		members[0], members[1], helpAB, biocontrol.Benefit{},
	)
	assert.Equal(t, want.Score, row.score)

	var detail score.PairResult
	enc := gnfmt.GNjson{}
	require.NoError(t, enc.Decode([]byte(row.detail), &detail))
	assert.Equal(t, 2, detail.Counts.PredatorsAToB)
	assert.Equal(t, 0, detail.Counts.PredatorsBToA)
	assert.Equal(t, 1, detail.Counts.SharedPollinators)
	assert.Equal(t, want.Score, detail.Score)
	assert.Equal(t,
		[]string{"Coccinella septempunctata eats Pieris rapae"},
		detail.Evidence.ChainsAToB,
	)
}

func TestScoreRowsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chIn := make(chan int, 1)
	chOut := make(chan pairRow, 1)
	chIn <- 0
	close(chIn)

	err := scoreRows(ctx, testMembers(), nil, chIn, chOut)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadIndexes(t *testing.T) {
	chIn := make(chan int, 3)
	err := loadIndexes(context.Background(), 3, chIn)
	require.NoError(t, err)
	close(chIn)

	var got []int
	for i := range chIn {
		got = append(got, i)
	}
	assert.Equal(t, []int{0, 1, 2}, got)
}

func TestLoadIndexesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chIn := make(chan int)
	err := loadIndexes(ctx, 2, chIn)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHelpBetween(t *testing.T) {
	benefit := biocontrol.Benefit{
		PlantA: "a", PlantB: "b", PredatorCount: 3,
	}
	benefits := map[string]map[string]biocontrol.Benefit{
		"a": {"b": benefit},
	}

	assert.Equal(t, benefit, helpBetween(benefits, "a", "b"))
	assert.Zero(t, helpBetween(benefits, "b", "a"))
	assert.Zero(t, helpBetween(nil, "a", "b"))
}

// scorePairs and savePairs run against a live database and are
// covered by the integration suite.
