// Package phylo provides the phylogenetic distance core: a rooted tree
// with branch lengths parsed from Newick, exact Faith's phylogenetic
// diversity over tip sets, patristic distances between tips, and a
// deterministic plant-id to tip resolver with a genus fallback.
//
// The package is pure: a Tree is built once and never mutated, and all
// queries are functions over that immutable state. File loading lives in
// internal/iotree.
package phylo

import (
	"fmt"
	"sort"
)

// Node is a single node of the rooted tree. Leaves carry the tip label;
// internal nodes may be unlabeled.
type Node struct {
	// Label is the tip label for leaves, optional for internal nodes.
	Label string

	// Length is the branch length of the edge to the parent. The root
	// has length 0.
	Length float64

	Parent   *Node
	Children []*Node

	// Depth is the number of edges from the root. Set once at build
	// time and used for depth-equalized ancestor walks.
	Depth int
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Tree is an immutable rooted phylogenetic tree with branch lengths.
type Tree struct {
	root   *Node
	leaves map[string]*Node
	nNodes int
}

// newTree indexes a parsed node structure. It rejects duplicate or empty
// leaf labels, which would make tip resolution ambiguous.
func newTree(root *Node) (*Tree, error) {
	t := &Tree{
		root:   root,
		leaves: make(map[string]*Node),
	}

	var walk func(n *Node, depth int) error
	walk = func(n *Node, depth int) error {
		n.Depth = depth
		t.nNodes++
		if n.IsLeaf() {
			if n.Label == "" {
				return fmt.Errorf("leaf without a label at depth %d", depth)
			}
			if _, ok := t.leaves[n.Label]; ok {
				return fmt.Errorf("duplicate tip label %q", n.Label)
			}
			t.leaves[n.Label] = n
			return nil
		}
		for _, child := range n.Children {
			if err := walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root, 0); err != nil {
		return nil, err
	}
	return t, nil
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Leaf returns the leaf with the given tip label.
func (t *Tree) Leaf(label string) (*Node, bool) {
	n, ok := t.leaves[label]
	return n, ok
}

// NumLeaves returns the number of tips.
func (t *Tree) NumLeaves() int {
	return len(t.leaves)
}

// NumNodes returns the total number of nodes.
func (t *Tree) NumNodes() int {
	return t.nNodes
}

// TipLabels returns all tip labels in lexicographic order.
func (t *Tree) TipLabels() []string {
	labels := make([]string, 0, len(t.leaves))
	for label := range t.leaves {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
