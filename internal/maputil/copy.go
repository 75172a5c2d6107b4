// Package maputil provides copying and ordering helpers for the
// string-keyed maps that records are built from.
package maputil

import (
	"maps"
	"slices"

	"github.com/mitchellh/copystructure"
)

// Clone returns an independent copy of src. Every value is deep-copied with
// its dynamic type kept, so nested maps and slices of any element type
// (including named map types) never alias src.
func Clone[M ~map[string]any](src M) M {
	if src == nil {
		return nil
	}

	dst := make(M, len(src))

	for k, v := range src {
		dst[k] = cloneValue(v)
	}

	return dst
}

// cloneValue deep-copies v. Scalars come back unchanged. A value that
// copystructure rejects is returned as is.
func cloneValue(v any) any {
	if v == nil {
		return nil
	}

	out, err := copystructure.Copy(v)
	if err != nil {
		return v
	}

	return out
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[M ~map[string]V, V any](m M) []string {
	return slices.Sorted(maps.Keys(m))
}
