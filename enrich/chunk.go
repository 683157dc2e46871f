package enrich

import "iter"

// Chunk yields consecutive sub-slices of items, each of length size except
// possibly the last. A size below 1 is treated as 1.
// The yielded slices share the backing array of items.
func Chunk[T any](items []T, size int) iter.Seq[[]T] {
	if size < 1 {
		size = 1
	}
	return func(yield func([]T) bool) {
		for start := 0; start < len(items); start += size {
			end := min(start+size, len(items))
			if !yield(items[start:end:end]) {
				return
			}
		}
	}
}

// BatchCount returns the number of chunks Chunk produces for n items.
func BatchCount(n, size int) int {
	if size < 1 {
		size = 1
	}
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
