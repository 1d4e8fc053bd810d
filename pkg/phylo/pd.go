package phylo

import "fmt"

// FaithsPD computes the exact Faith's phylogenetic diversity of the given
// tips under the MRCA convention: the sum of branch lengths of the minimal
// subtree connecting the tips, rooted at their most recent common ancestor.
// The edge above the MRCA is never counted. Empty and singleton sets return
// 0; duplicate labels count once.
func (t *Tree) FaithsPD(labels []string) (float64, error) {
	leaves := make([]*Node, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		if seen[label] {
			continue
		}
		seen[label] = true
		leaf, ok := t.leaves[label]
		if !ok {
			return 0, fmt.Errorf("tip %q is not in the tree", label)
		}
		leaves = append(leaves, leaf)
	}
	return t.PD(leaves), nil
}

// PD is FaithsPD over already-resolved leaves. It is the hot path for the
// matrix builder, which resolves each tip exactly once.
func (t *Tree) PD(leaves []*Node) float64 {
	if len(leaves) < 2 {
		return 0
	}

	mrca := leaves[0]
	for _, leaf := range leaves[1:] {
		mrca = lca(mrca, leaf)
	}

	// Walk each leaf up to the MRCA, summing branch lengths of nodes not
	// visited yet so shared path segments count once.
	visited := make(map[*Node]bool, 2*len(leaves))
	var sum float64
	for _, leaf := range leaves {
		for cur := leaf; cur != mrca; cur = cur.Parent {
			if visited[cur] {
				break
			}
			visited[cur] = true
			sum += cur.Length
		}
	}
	return sum
}

// Distance returns the patristic distance between two tips: the sum of
// branch lengths on the path between them. It equals FaithsPD of the pair,
// is symmetric, non-negative and zero iff both labels name the same tip.
func (t *Tree) Distance(a, b string) (float64, error) {
	na, ok := t.leaves[a]
	if !ok {
		return 0, fmt.Errorf("tip %q is not in the tree", a)
	}
	nb, ok := t.leaves[b]
	if !ok {
		return 0, fmt.Errorf("tip %q is not in the tree", b)
	}
	return DistanceNodes(na, nb), nil
}

// DistanceNodes is Distance over already-resolved leaves.
func DistanceNodes(a, b *Node) float64 {
	if a == b {
		return 0
	}

	var sum float64
	// Depth-equalize, then walk both sides up to the common ancestor.
	for a.Depth > b.Depth {
		sum += a.Length
		a = a.Parent
	}
	for b.Depth > a.Depth {
		sum += b.Length
		b = b.Parent
	}
	for a != b {
		sum += a.Length + b.Length
		a = a.Parent
		b = b.Parent
	}
	return sum
}

// lca returns the most recent common ancestor of two nodes using
// depth-equalized parent walking.
func lca(a, b *Node) *Node {
	for a.Depth > b.Depth {
		a = a.Parent
	}
	for b.Depth > a.Depth {
		b = b.Parent
	}
	for a != b {
		a = a.Parent
		b = b.Parent
	}
	return a
}
