// Package collections has small generic slice helpers.
package collections

// Apply applies the applicator function to each item in the input slice.
func Apply[T, V any](items []T, applicator func(T) V) []V {
	return ApplyIndexed(items, func(_ int, item T) V {
		return applicator(item)
	})
}

// ApplyIndexed is Apply with the item's position passed along.
func ApplyIndexed[T, V any](items []T, applicator func(int, T) V) []V {
	result := make([]V, len(items))
	for i, item := range items {
		result[i] = applicator(i, item)
	}

	return result
}

// IndexBy builds a lookup from key to item. Later items win on key clashes.
func IndexBy[T any, K comparable](items []T, key func(T) K) map[K]T {
	result := make(map[K]T, len(items))
	for _, item := range items {
		result[key(item)] = item
	}

	return result
}
