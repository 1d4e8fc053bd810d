package iobenefit

import (
	"context"
	"testing"

	"github.com/permaguild/guilddb/pkg/biocontrol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinePairRows(t *testing.T) {
	m := biocontrol.NewMiner(map[string][]string{
		"Episyrphus balteatus": {"Aphis fabae"},
	})
	profiles := []biocontrol.Profile{
		{PlantID: "p-a", Visitors: []string{"Episyrphus balteatus"}},
		{PlantID: "p-b", Herbivores: []string{"Aphis fabae"}},
	}

	chIn := make(chan biocontrol.Profile, len(profiles))
	chOut := make(chan benefitRow, 4)
	for _, p := range profiles {
		chIn <- p
	}
	close(chIn)

	err := minePairRows(context.Background(), m, profiles, chIn, chOut)
	require.NoError(t, err)
	close(chOut)

	var rows []benefitRow
	for row := range chOut {
		rows = append(rows, row)
	}

	require.Len(t, rows, 1, "only the visitor-to-herbivore direction benefits")
	assert.Equal(t, "p-a", rows[0].plantA)
	assert.Equal(t, "p-b", rows[0].plantB)
	assert.Equal(t, 1, rows[0].predators)
	assert.JSONEq(t, `["Episyrphus balteatus eats Aphis fabae"]`, rows[0].examples)
}

func TestMinePairRowsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chIn := make(chan biocontrol.Profile, 1)
	chOut := make(chan benefitRow)
	chIn <- biocontrol.Profile{PlantID: "p-a"}
	close(chIn)

	m := biocontrol.NewMiner(nil)
	err := minePairRows(ctx, m, nil, chIn, chOut)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadPairs(t *testing.T) {
	profiles := []biocontrol.Profile{
		{PlantID: "p-a"}, {PlantID: "p-b"}, {PlantID: "p-c"},
	}
	chIn := make(chan biocontrol.Profile, len(profiles))

	err := loadPairs(context.Background(), profiles, chIn)
	require.NoError(t, err)
	close(chIn)

	var got []string
	for p := range chIn {
		got = append(got, p.PlantID)
	}
	assert.Equal(t, []string{"p-a", "p-b", "p-c"}, got)
}

func TestLoadPairsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chIn := make(chan biocontrol.Profile)
	err := loadPairs(ctx, []biocontrol.Profile{{PlantID: "p-a"}}, chIn)
	assert.ErrorIs(t, err, context.Canceled)
}

// minePairs and saveBenefits run against a live database and are
// covered by the integration suite.
