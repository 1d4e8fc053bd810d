package ioplants

import (
	"github.com/permaguild/guilddb/pkg/artifact"
	"github.com/permaguild/guilddb/pkg/score"
)

// AttachVectors copies embedded coordinates onto the members, so the
// phylogenetic diversity component measures real distances instead of
// falling back to the family heuristic. Members absent from the
// embedding keep a nil vector.
func AttachVectors(members []score.Member, emb *artifact.Embedding) {
	for i := range members {
		if idx, ok := emb.IndexOf(members[i].Traits.ID); ok {
			members[i].Traits.Vector = emb.Vector(idx)
		}
	}
}
