package server

import (
	"github.com/AjayThorve/MRC/types"
)

// checkUniqueRepeatedField materializes items into a set and fails if the
// set size differs from the item count, i.e. items contains a duplicate.
func checkUniqueRepeatedField[T comparable](items []T) error {
	seen := make(map[T]struct{}, len(items))
	for _, item := range items {
		seen[item] = struct{}{}
	}
	if len(seen) != len(items) {
		return types.ErrDuplicateField
	}
	return nil
}
