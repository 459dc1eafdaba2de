// Package index provides deterministic path addressing through a selection
// tree. An Index is a stack of sibling-position counters from the root down
// to the current depth. It is an immutable value: every operation returns a
// fresh Index and never mutates the receiver.
//
// Only the depth matters for decoding behavior: top-level field lookups are
// version-gated while nested lookups always use the base version. The
// counters themselves are used for diagnostics, never to name emitted types.
package index

import (
	"strconv"
	"strings"
)

// Index addresses one node of a selection tree by its sibling positions.
type Index struct {
	path []int
}

// Root returns the index of the first top-level field: position 0 at depth 0.
func Root() Index {
	return Index{path: []int{0}}
}

// Next advances the sibling counter at the current depth.
func (i Index) Next() Index {
	path := make([]int, len(i.path))
	copy(path, i.path)
	path[len(path)-1]++
	return Index{path: path}
}

// Child pushes the current counter and starts counting one level deeper.
func (i Index) Child() Index {
	path := make([]int, len(i.path)+1)
	copy(path, i.path)
	return Index{path: path}
}

// IsTopLevel reports whether the index addresses a direct child of the
// operation root. Only top-level field decodes are version-gated.
func (i Index) IsTopLevel() bool {
	return len(i.path) == 1
}

// Depth returns the nesting depth, zero at the root.
func (i Index) Depth() int {
	return len(i.path) - 1
}

// String renders the index as a dotted position path, e.g. "0.2.1".
func (i Index) String() string {
	var b strings.Builder
	for n, p := range i.path {
		if n > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(p))
	}
	return b.String()
}
