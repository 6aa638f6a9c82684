package sequences

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/combin"
)

func TestCombinations_Counts(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	for k := 1; k <= len(items); k++ {
		groups := Combinations(items, k)
		assert.Len(t, groups, combin.Binomial(len(items), k), "k=%d", k)
		for _, g := range groups {
			assert.Len(t, g, k)
		}
	}
}

func TestCombinations_EdgeCases(t *testing.T) {
	items := []int{1, 2, 3}

	// k = 0 yields a single empty group
	groups := Combinations(items, 0)
	require.Len(t, groups, 1)
	assert.Empty(t, groups[0])

	// k > n yields no groups
	assert.Empty(t, Combinations(items, 4))

	// Negative k yields no groups
	assert.Empty(t, Combinations(items, -1))

	// Empty input
	assert.Empty(t, Combinations([]int{}, 2))
	require.Len(t, Combinations([]int{}, 0), 1)
}

func TestCombinations_PreservesElementOrder(t *testing.T) {
	items := []int{10, 20, 30, 40}

	groups := Combinations(items, 2)
	require.Len(t, groups, 6)

	// Each group preserves the input's relative order
	for _, g := range groups {
		assert.Less(t, g[0], g[1])
	}

	// First group is the first two elements
	assert.Equal(t, []int{10, 20}, groups[0])
}

func TestCombinations_Distinct(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}

	groups := Combinations(items, 3)
	seen := make(map[[3]int]bool)
	for _, g := range groups {
		key := [3]int{g[0], g[1], g[2]}
		assert.False(t, seen[key], "duplicate group %v", g)
		seen[key] = true
	}
}

func TestCombinationsWithRepetition_Counts(t *testing.T) {
	items := []string{"a", "b", "c"}

	for k := 1; k <= 4; k++ {
		groups := CombinationsWithRepetition(items, k)
		assert.Len(t, groups, combin.Binomial(len(items)+k-1, k), "k=%d", k)
		for _, g := range groups {
			assert.Len(t, g, k)
		}
	}
}

func TestCombinationsWithRepetition_EdgeCases(t *testing.T) {
	// k = 0 yields a single empty group
	groups := CombinationsWithRepetition([]int{1, 2}, 0)
	require.Len(t, groups, 1)
	assert.Empty(t, groups[0])

	// Empty input with k > 0 yields no groups
	assert.Empty(t, CombinationsWithRepetition([]int{}, 2))

	// A single element repeated k times
	groups = CombinationsWithRepetition([]int{7}, 3)
	require.Len(t, groups, 1)
	assert.Equal(t, []int{7, 7, 7}, groups[0])
}

func TestCombinationsWithRepetition_IncludesRepeats(t *testing.T) {
	groups := CombinationsWithRepetition([]int{1, 2}, 2)
	// C(3,2) = 3 multisets: {1,1}, {1,2}, {2,2}
	require.Len(t, groups, 3)
	assert.Equal(t, []int{1, 1}, groups[0])
	assert.Equal(t, []int{1, 2}, groups[1])
	assert.Equal(t, []int{2, 2}, groups[2])
}

func TestGenerators_Deterministic(t *testing.T) {
	items := []int{5, 3, 8, 1}

	assert.Equal(t, Combinations(items, 2), Combinations(items, 2))
	assert.Equal(t, CombinationsWithRepetition(items, 3), CombinationsWithRepetition(items, 3))
}
