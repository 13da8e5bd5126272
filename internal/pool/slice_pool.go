// Package pool provides reusable scratch buffers for the decode hot paths.
package pool

import "sync"

// intSlicePool holds the per-instance anchor offset scratch. Extraction scans
// the raw buffer once to count matches and once more to record their offsets,
// so the exact length is known before the slice is requested.
var intSlicePool = sync.Pool{
	New: func() any { return &[]int{} },
}

// GetIntSlice retrieves and resizes an int slice from the pool.
//
// The returned slice has exactly the requested length. If the pooled slice has
// insufficient capacity a new one is allocated. The caller must call the
// returned cleanup function, typically with defer, to return the slice to the
// pool.
//
// Example:
//
//	offsets, cleanup := pool.GetIntSlice(matchCount)
//	defer cleanup()
func GetIntSlice(size int) ([]int, func()) {
	ptr, _ := intSlicePool.Get().(*[]int)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { intSlicePool.Put(ptr) }
}
