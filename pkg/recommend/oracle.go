package recommend

import (
	"gonum.org/v1/gonum/floats"

	"github.com/permaguild/guilddb/pkg/artifact"
	"github.com/permaguild/guilddb/pkg/phylo"
)

// EmbeddingOracle answers distance queries from the embedding artifact.
// Each query costs one vector subtraction, which keeps ranking a pool of
// thousands of candidates interactive.
type EmbeddingOracle struct {
	emb *artifact.Embedding
}

// NewEmbeddingOracle wraps a loaded embedding artifact.
func NewEmbeddingOracle(emb *artifact.Embedding) *EmbeddingOracle {
	return &EmbeddingOracle{emb: emb}
}

// Roster returns the plant ids the embedding covers, in matrix order.
// The server uses it as the default candidate pool.
func (o *EmbeddingOracle) Roster() []string {
	ids := make([]string, len(o.emb.Meta.RosterIDs))
	copy(ids, o.emb.Meta.RosterIDs)
	return ids
}

// Has reports whether the plant is part of the embedding roster.
func (o *EmbeddingOracle) Has(id string) bool {
	_, ok := o.emb.IndexOf(id)
	return ok
}

// Distance returns the Euclidean distance between two embedded plants.
func (o *EmbeddingOracle) Distance(a, b string) float64 {
	i, _ := o.emb.IndexOf(a)
	j, _ := o.emb.IndexOf(b)
	return o.emb.Distance(i, j)
}

// CentroidDistance returns the distance from the candidate to the mean
// embedded vector of the guild.
func (o *EmbeddingOracle) CentroidDistance(
	guild []string, candidate string,
) float64 {
	dims := o.emb.Dims()
	center := make([]float64, dims)
	for _, id := range guild {
		i, _ := o.emb.IndexOf(id)
		v := o.emb.Vector(i)
		for k := range v {
			center[k] += float64(v[k])
		}
	}
	floats.Scale(1/float64(len(guild)), center)

	i, _ := o.emb.IndexOf(candidate)
	v := o.emb.Vector(i)
	point := make([]float64, dims)
	for k := range v {
		point[k] = float64(v[k])
	}
	return floats.Distance(center, point, 2)
}

// TreeOracle answers distance queries by walking the phylogeny. Exact
// patristic distances make it the reference the embedding is judged
// against, at the price of a root-path walk per query.
type TreeOracle struct {
	leaves map[string]*phylo.Node
}

// NewTreeOracle builds an oracle from resolved plants, typically the
// roster of a phylo.Resolver. Fallback resolutions are accepted; two
// plants sharing a genus representative sit at distance zero.
func NewTreeOracle(roster []phylo.Resolution) *TreeOracle {
	leaves := make(map[string]*phylo.Node, len(roster))
	for _, r := range roster {
		leaves[r.PlantID] = r.Leaf
	}
	return &TreeOracle{leaves: leaves}
}

// Has reports whether the plant resolves to a tree leaf.
func (o *TreeOracle) Has(id string) bool {
	_, ok := o.leaves[id]
	return ok
}

// Distance returns the patristic distance between two resolved plants.
func (o *TreeOracle) Distance(a, b string) float64 {
	return phylo.DistanceNodes(o.leaves[a], o.leaves[b])
}

// CentroidDistance returns the mean patristic distance from the
// candidate to the guild members. The tree has no mean point, so the
// average of member distances stands in for the embedding's centroid.
func (o *TreeOracle) CentroidDistance(
	guild []string, candidate string,
) float64 {
	var sum float64
	for _, id := range guild {
		sum += o.Distance(candidate, id)
	}
	return sum / float64(len(guild))
}
