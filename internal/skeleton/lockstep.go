/* internal/skeleton/lockstep.go */

package skeleton

import "github.com/loomctr/loomctr/internal/dom"

// isDirective reports whether a node is a previously-inserted seam
// directive comment rather than original variant content.
func isDirective(n dom.Node) bool {
	return n.Kind == dom.KindComment && len(n.Data) >= 5 && n.Data[:5] == "seam:"
}

// stripDirectives returns the non-directive nodes of a sequence along with
// a mapping from an index into the returned slice back to its original
// index in nodes, so a diff computed on the stripped sequence can be
// re-aligned against the directive-bearing original.
func stripDirectives(nodes []dom.Node) (clean []dom.Node, origIndex []int) {
	for i, n := range nodes {
		if isDirective(n) {
			continue
		}
		clean = append(clean, n)
		origIndex = append(origIndex, i)
	}
	return clean, origIndex
}

// directivesBetween returns the directive comments among nodes[from:to]
// (from inclusive, to exclusive), in order, skipping every non-directive
// node in that range.
func directivesBetween(nodes []dom.Node, from, toExclusive int) []dom.Node {
	var out []dom.Node
	for i := from; i < toExclusive && i < len(nodes); i++ {
		if isDirective(nodes[i]) {
			out = append(out, nodes[i])
		}
	}
	return out
}
