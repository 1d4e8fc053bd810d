package phylo

import (
	"fmt"
	"sort"
)

// TipSource describes one plant row used to build a Resolver. TipLabel is
// empty when the plants table carries no tip for the plant.
type TipSource struct {
	PlantID  string
	Genus    string
	TipLabel string
}

// Resolution is the outcome of mapping a plant id to a tree leaf.
type Resolution struct {
	PlantID string
	Label   string
	Leaf    *Node

	// Fallback is true when the plant itself is absent from the tree and
	// a genus-representative leaf stands in for it.
	Fallback bool
}

// TreeResolutionError reports a plant id with no tree leaf and no usable
// fallback. The caller decides whether to drop the plant or abort the
// computation.
type TreeResolutionError struct {
	PlantID string
}

func (e *TreeResolutionError) Error() string {
	return fmt.Sprintf(
		"plant %q has no tree tip and no genus fallback", e.PlantID,
	)
}

// Resolver maps plant ids to tree leaves deterministically. A plant whose
// tip label is in the tree resolves exactly; otherwise the representative
// leaf of its genus is substituted and flagged. The representative of a
// genus is the leaf of the exactly-resolved plant with the smallest plant
// id in that genus, so the mapping does not depend on input order.
type Resolver struct {
	tree  *Tree
	exact map[string]Resolution
	genus map[string]*Node
}

// NewResolver builds a Resolver from the given plant rows.
func NewResolver(tree *Tree, plants []TipSource) *Resolver {
	r := &Resolver{
		tree:  tree,
		exact: make(map[string]Resolution, len(plants)),
		genus: make(map[string]*Node),
	}

	sorted := make([]TipSource, len(plants))
	copy(sorted, plants)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PlantID < sorted[j].PlantID
	})

	for _, p := range sorted {
		if p.TipLabel == "" {
			continue
		}
		leaf, ok := tree.Leaf(p.TipLabel)
		if !ok {
			continue
		}
		r.exact[p.PlantID] = Resolution{
			PlantID: p.PlantID,
			Label:   p.TipLabel,
			Leaf:    leaf,
		}
		// First exact resolution in id order becomes the genus
		// representative.
		if p.Genus != "" {
			if _, ok := r.genus[p.Genus]; !ok {
				r.genus[p.Genus] = leaf
			}
		}
	}

	return r
}

// Resolve maps one plant id to a leaf. The genus is consulted only when
// the plant has no exact tip.
func (r *Resolver) Resolve(plantID, genus string) (Resolution, error) {
	if res, ok := r.exact[plantID]; ok {
		return res, nil
	}
	if genus != "" {
		if leaf, ok := r.genus[genus]; ok {
			return Resolution{
				PlantID:  plantID,
				Label:    leaf.Label,
				Leaf:     leaf,
				Fallback: true,
			}, nil
		}
	}
	return Resolution{}, &TreeResolutionError{PlantID: plantID}
}

// Roster returns the resolutions of every exactly-resolved plant, ordered
// by plant id. This ordering pins the index ↔ id mapping of the distance
// matrix.
func (r *Resolver) Roster() []Resolution {
	roster := make([]Resolution, 0, len(r.exact))
	for _, res := range r.exact {
		roster = append(roster, res)
	}
	sort.Slice(roster, func(i, j int) bool {
		return roster[i].PlantID < roster[j].PlantID
	})
	return roster
}
