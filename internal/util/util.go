package util

import (
	"cmp"
	"slices"
	"strings"
)

// MakeTextList gives a nice list of things based on their display name.
//
// TODO: turn this into a generic function that accepts displayable OR ~string
func MakeTextList(items []string) string {
	if len(items) < 1 {
		return ""
	}

	output := ""

	if len(items) == 1 {
		output += items[0]
	} else if len(items) == 2 {
		output += items[0] + " and " + items[1]
	} else {
		// if its more than two, use an oxford comma
		items[len(items)-1] = "and " + items[len(items)-1]
		output += strings.Join(items, ", ")
	}

	return output
}

// Alphabetized returns the elements of c sorted ascending. Used to get a
// deterministic, comparable view of a set for assertions and stable output.
func Alphabetized[T cmp.Ordered](c Container[T]) []T {
	elements := c.Elements()
	sorted := make([]T, len(elements))
	copy(sorted, elements)
	slices.Sort(sorted)
	return sorted
}

// OrderedKeys returns the keys of m sorted ascending, for use anywhere a map
// needs to be iterated in a deterministic order (string-building, diffing,
// stable test output).
func OrderedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
