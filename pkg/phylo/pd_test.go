package phylo_test

import (
	"testing"

	"github.com/permaguild/guilddb/pkg/phylo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTree builds the reference tree used across the distance tests:
//
//	        root
//	       /    \
//	     x:3    y:6
//	    /   \   /  \
//	  A:1  B:2 C:4 D:5
func testTree(t *testing.T) *phylo.Tree {
	t.Helper()
	tree, err := phylo.ParseNewick("((A:1,B:2):3,(C:4,D:5):6):0;")
	require.NoError(t, err)
	return tree
}

func TestFaithsPD_EmptyAndSingleton(t *testing.T) {
	tree := testTree(t)

	pd, err := tree.FaithsPD(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pd)

	pd, err = tree.FaithsPD([]string{"A"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, pd)
}

func TestFaithsPD_MRCAConvention(t *testing.T) {
	tree := testTree(t)

	// Siblings: only the two tip edges count, never the edge above
	// their ancestor.
	pd, err := tree.FaithsPD([]string{"A", "B"})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, pd, 1e-12)

	pd, err = tree.FaithsPD([]string{"C", "D"})
	require.NoError(t, err)
	assert.InDelta(t, 9.0, pd, 1e-12)

	// Tips across the root: both internal edges join the subtree.
	pd, err = tree.FaithsPD([]string{"A", "B", "C"})
	require.NoError(t, err)
	assert.InDelta(t, 16.0, pd, 1e-12)

	pd, err = tree.FaithsPD([]string{"A", "B", "C", "D"})
	require.NoError(t, err)
	assert.InDelta(t, 21.0, pd, 1e-12)
}

func TestFaithsPD_DuplicatesCountOnce(t *testing.T) {
	tree := testTree(t)

	pd, err := tree.FaithsPD([]string{"A", "A", "B"})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, pd, 1e-12)
}

func TestFaithsPD_Monotonicity(t *testing.T) {
	tree := testTree(t)

	sets := [][]string{
		{"A", "B"},
		{"A", "B", "C"},
		{"A", "B", "C", "D"},
	}
	var prev float64
	for _, set := range sets {
		pd, err := tree.FaithsPD(set)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, pd, prev)
		prev = pd
	}
}

func TestFaithsPD_UnknownTip(t *testing.T) {
	tree := testTree(t)

	_, err := tree.FaithsPD([]string{"A", "Z"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Z"`)
}

func TestDistance_PatristicValues(t *testing.T) {
	tree := testTree(t)

	tests := []struct {
		a, b string
		want float64
	}{
		{"A", "B", 3},
		{"C", "D", 9},
		{"A", "C", 14},
		{"A", "D", 15},
		{"B", "C", 15},
		{"B", "D", 16},
	}

	for _, tt := range tests {
		d, err := tree.Distance(tt.a, tt.b)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, d, 1e-12, "d(%s,%s)", tt.a, tt.b)

		// Symmetry
		rev, err := tree.Distance(tt.b, tt.a)
		require.NoError(t, err)
		assert.Equal(t, d, rev)
	}
}

func TestDistance_ZeroIffSameTip(t *testing.T) {
	tree := testTree(t)

	d, err := tree.Distance("A", "A")
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	d, err = tree.Distance("A", "B")
	require.NoError(t, err)
	assert.Greater(t, d, 0.0)
}

func TestDistance_EqualsPairPD(t *testing.T) {
	tree := testTree(t)

	labels := tree.TipLabels()
	for i, a := range labels {
		for _, b := range labels[i+1:] {
			d, err := tree.Distance(a, b)
			require.NoError(t, err)
			pd, err := tree.FaithsPD([]string{a, b})
			require.NoError(t, err)
			assert.InDelta(t, pd, d, 1e-12, "pair (%s,%s)", a, b)
		}
	}
}

func TestDistance_TriangleInequality(t *testing.T) {
	tree := testTree(t)

	labels := tree.TipLabels()
	for _, a := range labels {
		for _, b := range labels {
			for _, c := range labels {
				ab, err := tree.Distance(a, b)
				require.NoError(t, err)
				bc, err := tree.Distance(b, c)
				require.NoError(t, err)
				ac, err := tree.Distance(a, c)
				require.NoError(t, err)
				assert.LessOrEqual(t, ac, ab+bc+1e-12)
			}
		}
	}
}

func TestDistance_UnknownTip(t *testing.T) {
	tree := testTree(t)

	_, err := tree.Distance("A", "Z")
	assert.Error(t, err)
	_, err = tree.Distance("Z", "A")
	assert.Error(t, err)
}
