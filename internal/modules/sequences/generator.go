// Package sequences provides deterministic enumeration of fixed-size leg
// groups from an ordered candidate pool. Index generation for plain subsets is
// delegated to gonum's combin package; multiset enumeration (the same leg
// chosen more than once) uses an iterative non-decreasing index walk, which
// gonum does not provide.
//
// Both enumerators are order-stable: a chosen group preserves the relative
// order of its elements in the input list, and the set of generated groups
// depends only on the input's contents.
package sequences

import (
	"gonum.org/v1/gonum/stat/combin"
)

// Combinations returns all size-k subsets of items without repetition,
// C(n,k) groups in total. k = 0 yields a single empty group; k > n yields
// no groups.
func Combinations[T any](items []T, k int) [][]T {
	n := len(items)
	if k < 0 || k > n {
		return nil
	}
	if k == 0 {
		return [][]T{{}}
	}

	indexSets := combin.Combinations(n, k)
	result := make([][]T, 0, len(indexSets))
	for _, indices := range indexSets {
		group := make([]T, k)
		for i, idx := range indices {
			group[i] = items[idx]
		}
		result = append(result, group)
	}
	return result
}

// CombinationsWithRepetition returns all size-k multisets of items, where the
// same element may appear multiple times: C(n+k-1, k) groups in total. k = 0
// yields a single empty group; an empty input with k > 0 yields no groups.
func CombinationsWithRepetition[T any](items []T, k int) [][]T {
	n := len(items)
	if k < 0 {
		return nil
	}
	if k == 0 {
		return [][]T{{}}
	}
	if n == 0 {
		return nil
	}

	result := make([][]T, 0, combin.Binomial(n+k-1, k))
	indices := make([]int, k)

	for {
		group := make([]T, k)
		for i, idx := range indices {
			group[i] = items[idx]
		}
		result = append(result, group)

		// Rightmost index that can still be advanced
		i := k - 1
		for i >= 0 && indices[i] == n-1 {
			i--
		}
		if i < 0 {
			break
		}

		// Advance and reset the tail to keep indices non-decreasing
		indices[i]++
		for j := i + 1; j < k; j++ {
			indices[j] = indices[i]
		}
	}

	return result
}
