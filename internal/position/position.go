// Package position computes listPosition keys for Kanban columns.
//
// Keys are floats ordered within one (project, status) column. Inserting
// between two rows assigns the midpoint so only the moved row is written;
// inserting at the head assigns min-1, at the tail max+1. Repeated midpoint
// inserts at one slot eventually exhaust float precision, at which point
// the caller renumbers the whole column.
package position

import "errors"

// ErrInverted is returned when a neighbor pair violates before < after.
// That pair is constructed from a sorted read, so this is a programming
// error in the caller, not bad client input.
var ErrInverted = errors.New("position: neighbor keys inverted")

// ErrDegenerate is returned when the midpoint of two neighbor keys is no
// longer strictly between them. The caller must renumber the column and
// retry.
var ErrDegenerate = errors.New("position: midpoint degenerate, renumber required")

// Allocate returns a key ordered after before and before after. Either
// neighbor may be nil: nil before means head insertion, nil after means
// tail insertion, both nil means the column is empty.
func Allocate(before, after *float64) (float64, error) {
	switch {
	case before == nil && after == nil:
		return 1, nil
	case before == nil:
		return *after - 1, nil
	case after == nil:
		return *before + 1, nil
	}
	if *before >= *after {
		return 0, ErrInverted
	}
	mid := (*before + *after) / 2
	if mid == *before || mid == *after {
		return 0, ErrDegenerate
	}
	return mid, nil
}

// Neighbors resolves the neighbor pair around index in a column whose keys
// are sorted ascending. index may equal len(keys), meaning append at the
// tail. The caller validates the range first.
func Neighbors(keys []float64, index int) (before, after *float64) {
	if index > 0 {
		before = &keys[index-1]
	}
	if index < len(keys) {
		after = &keys[index]
	}
	return before, after
}

// Renumber returns n consecutive integer keys starting at 1, restoring
// full precision headroom for a column of n issues in render order.
func Renumber(n int) []float64 {
	keys := make([]float64, n)
	for i := range keys {
		keys[i] = float64(i + 1)
	}
	return keys
}

// MinGap returns the smallest gap between adjacent keys, which must be
// sorted ascending. Columns with fewer than two issues have no gap to
// exhaust; MinGap reports that as +1.
func MinGap(keys []float64) float64 {
	if len(keys) < 2 {
		return 1
	}
	min := keys[1] - keys[0]
	for i := 2; i < len(keys); i++ {
		if gap := keys[i] - keys[i-1]; gap < min {
			min = gap
		}
	}
	return min
}
