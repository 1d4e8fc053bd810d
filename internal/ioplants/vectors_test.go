package ioplants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permaguild/guilddb/pkg/artifact"
	"github.com/permaguild/guilddb/pkg/score"
)

func TestAttachVectors(t *testing.T) {
	emb, err := artifact.NewEmbedding(
		[]string{"wfo-a", "wfo-b"}, "fp",
		[]float32{0, 0, 3, 4}, 2, 0.01, 0.99, 100,
	)
	require.NoError(t, err)

	members := []score.Member{
		{Traits: score.Traits{ID: "wfo-a", Name: "Acer campestre"}},
		{Traits: score.Traits{ID: "wfo-x", Name: "Unembedded plant"}},
	}

	AttachVectors(members, emb)

	assert.Equal(t, []float32{0, 0}, members[0].Traits.Vector)
	assert.Nil(t, members[1].Traits.Vector)
}
