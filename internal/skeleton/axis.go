/* internal/skeleton/axis.go */

// Package skeleton implements the build-time template extraction engine:
// sentinel rewriting, combo generation, per-axis-kind extractors, the
// extraction orchestrator, the document wrapper, and the post-extract
// equivalence check.
package skeleton

import "strings"

// Kind is the axis discriminant the variant renderer assigns.
type Kind string

const (
	KindBoolean  Kind = "boolean"
	KindNullable Kind = "nullable"
	KindEnum     Kind = "enum"
	KindArray    Kind = "array"
)

// Axis is a single dimension of data variation.
type Axis struct {
	Path   string
	Kind   Kind
	Values []any
}

// IsChildPath reports whether path is scoped under a `.$.` array parent,
// returning the parent path and the child suffix when so.
func IsChildPath(path string) (parent, child string, ok bool) {
	idx := strings.Index(path, ".$.")
	if idx == -1 {
		return "", "", false
	}
	return path[:idx], path[idx+len(".$."):], true
}

// Group keys nested axes by their array parent.
type Group struct {
	Parent   Axis
	Children []Axis
}

// Classify splits axes into top-level axes and parent-keyed nested groups.
// A nested axis whose parent path does not resolve to another axis in the
// set degrades to top-level (its path is left untouched, `.$.` and all).
func Classify(axes []Axis) (topLevel []Axis, groups []Group) {
	byPath := make(map[string]int, len(axes))
	for i, a := range axes {
		byPath[a.Path] = i
	}

	childrenOf := make(map[string][]Axis)
	isChild := make(map[string]bool)
	for _, a := range axes {
		parent, _, ok := IsChildPath(a.Path)
		if !ok {
			continue
		}
		if _, found := byPath[parent]; !found {
			continue
		}
		childrenOf[parent] = append(childrenOf[parent], a)
		isChild[a.Path] = true
	}

	for _, a := range axes {
		if isChild[a.Path] {
			continue
		}
		if kids, ok := childrenOf[a.Path]; ok && a.Kind == KindArray {
			groups = append(groups, Group{Parent: a, Children: kids})
			continue
		}
		topLevel = append(topLevel, a)
	}
	return topLevel, groups
}

// GenerateCombos enumerates the cartesian product of axis values in
// definition order; combo[k] indexes into variants[k] (row-major).
func GenerateCombos(axes []Axis) [][]int {
	if len(axes) == 0 {
		return [][]int{{}}
	}
	combos := [][]int{{}}
	for _, a := range axes {
		var next [][]int
		for _, c := range combos {
			for v := range a.Values {
				nc := make([]int, len(c)+1)
				copy(nc, c)
				nc[len(c)] = v
				next = append(next, nc)
			}
		}
		combos = next
	}
	return combos
}

// ComboIndex maps a combo (one value-index per axis) to its row-major
// position in the enumerated variant array.
func ComboIndex(axes []Axis, combo []int) int {
	idx := 0
	for i, a := range axes {
		idx = idx*len(a.Values) + combo[i]
	}
	return idx
}

// ReferenceCombo is all-zeros: the first value of every axis.
func ReferenceCombo(axes []Axis) []int {
	return make([]int, len(axes))
}
