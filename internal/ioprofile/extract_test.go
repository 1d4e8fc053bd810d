package ioprofile

import (
	"context"
	"testing"

	"github.com/permaguild/guilddb/pkg/organism"
	"github.com/permaguild/guilddb/pkg/parserpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRelations(t *testing.T) {
	expected := []string{
		"eats", "hasHost", "interactsWith", "parasiteOf", "pathogenOf",
		"pollinates", "preysOn", "visits", "visitsFlowersOf",
	}
	assert.Equal(t, expected, profileRelations())
}

func TestEnemyRelations(t *testing.T) {
	expected := []string{
		"eats", "hasHost", "kills", "parasiteOf", "parasitoidOf",
		"pathogenOf", "preysOn",
	}
	assert.Equal(t, expected, enemyRelations())
}

func TestCanonicalName(t *testing.T) {
	pools := parserpool.NewPool(1)
	defer pools.Close()

	tests := []struct {
		name     string
		input    string
		kingdom  string
		expected string
	}{
		{
			name:     "zoological with authorship",
			input:    "Aphis fabae Scopoli, 1763",
			kingdom:  "Animalia",
			expected: "Aphis fabae",
		},
		{
			name:     "botanical with author abbreviation",
			input:    "Vicia faba L.",
			kingdom:  "Plantae",
			expected: "Vicia faba",
		},
		{
			name:     "fungal binomial",
			input:    "Beauveria bassiana (Bals.-Criv.) Vuill.",
			kingdom:  "Fungi",
			expected: "Beauveria bassiana",
		},
		{
			name:     "common name kept verbatim",
			input:    "  black bean aphids ",
			kingdom:  "",
			expected: "black bean aphids",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, canonicalName(pools, tt.input, tt.kingdom))
		})
	}
}

func TestCanonicalizeEdges(t *testing.T) {
	pools := parserpool.NewPool(1)
	defer pools.Close()

	t.Run("organism targets canonicalize both ends", func(t *testing.T) {
		chIn := make(chan organism.Edge, 1)
		chOut := make(chan organism.Edge, 1)
		chIn <- organism.Edge{
			SourceName:    "Coccinella septempunctata Linnaeus, 1758",
			SourceKingdom: "Animalia",
			Relation:      "preysOn",
			TargetName:    "Aphis fabae Scopoli, 1763",
			TargetKingdom: "Animalia",
		}
		close(chIn)

		err := canonicalizeEdges(context.Background(), pools, true, chIn, chOut)
		require.NoError(t, err)

		e := <-chOut
		assert.Equal(t, "Coccinella septempunctata", e.SourceName)
		assert.Equal(t, "Aphis fabae", e.TargetName)
	})

	t.Run("plant targets keep target name verbatim", func(t *testing.T) {
		chIn := make(chan organism.Edge, 1)
		chOut := make(chan organism.Edge, 1)
		chIn <- organism.Edge{
			SourceName:    "Bombus terrestris (Linnaeus, 1758)",
			SourceKingdom: "Animalia",
			Relation:      "pollinates",
			TargetName:    "Trifolium repens L.",
			TargetKingdom: "Plantae",
			TargetPlantID: "wfo-0000214110",
		}
		close(chIn)

		err := canonicalizeEdges(context.Background(), pools, false, chIn, chOut)
		require.NoError(t, err)

		e := <-chOut
		assert.Equal(t, "Bombus terrestris", e.SourceName)
		assert.Equal(t, "Trifolium repens L.", e.TargetName)
		assert.Equal(t, "wfo-0000214110", e.TargetPlantID)
	})

	t.Run("cancellation drains the input channel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		chIn := make(chan organism.Edge, 2)
		chOut := make(chan organism.Edge, 2)
		chIn <- organism.Edge{SourceName: "Aphis fabae", SourceKingdom: "Animalia"}
		chIn <- organism.Edge{SourceName: "Aphis fabae", SourceKingdom: "Animalia"}
		close(chIn)

		err := canonicalizeEdges(ctx, pools, false, chIn, chOut)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAccumulate(t *testing.T) {
	t.Run("drains until the channel closes", func(t *testing.T) {
		chOut := make(chan organism.Edge, 3)
		chOut <- organism.Edge{SourceName: "a"}
		chOut <- organism.Edge{SourceName: "b"}
		chOut <- organism.Edge{SourceName: "c"}
		close(chOut)

		var got []string
		err := accumulate(context.Background(), chOut, func(e organism.Edge) {
			got = append(got, e.SourceName)
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		chOut := make(chan organism.Edge)
		err := accumulate(ctx, chOut, func(organism.Edge) {})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// streamEdges and loadEdges run against a populated database and are
// covered by the integration suite.
