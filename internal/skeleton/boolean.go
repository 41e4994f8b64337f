/* internal/skeleton/boolean.go */

package skeleton

import (
	"github.com/loomctr/loomctr/internal/diff"
	"github.com/loomctr/loomctr/internal/dom"
)

// ProcessBoolean inserts if/else directives for a boolean or nullable axis.
// current is the in-progress template tree (variant[0]'s shape, possibly
// already carrying directives from earlier axes); trueNodes/falseNodes are
// the parsed children of the two variants that differ only along this axis
// (values[0] = truthy/present, values[1] = falsy/null).
func ProcessBoolean(current []dom.Node, trueNodes, falseNodes []dom.Node, path string) []dom.Node {
	clean, origIndex := stripDirectives(current)
	ops := diff.Children(clean, falseNodes)

	var out []dom.Node
	prevOrig := -1
	i := 0
	for i < len(ops) {
		op := ops[i]
		switch op.Kind {
		case diff.Identical:
			oi := origIndex[op.I]
			out = append(out, directivesBetween(current, prevOrig+1, oi)...)
			out = append(out, current[oi])
			prevOrig = oi
			i++
		case diff.Modified:
			oi := origIndex[op.I]
			out = append(out, directivesBetween(current, prevOrig+1, oi)...)
			if current[oi].Attrs != falseNodes[op.J].Attrs {
				out = append(out, ifElseEndif(path, []dom.Node{current[oi]}, []dom.Node{falseNodes[op.J]})...)
			} else {
				merged := mergeModified(current[oi], falseNodes[op.J], path)
				out = append(out, merged)
			}
			prevOrig = oi
			i++
		case diff.OnlyLeft:
			// Check for an adjacent OnlyRight at the same position: that
			// pairing means both a true-only and a false-only body exist.
			oi := origIndex[op.I]
			out = append(out, directivesBetween(current, prevOrig+1, oi)...)
			bodyTrue := []dom.Node{current[oi]}
			j := i + 1
			for j < len(ops) && ops[j].Kind == diff.OnlyLeft {
				bodyTrue = append(bodyTrue, current[origIndex[ops[j].I]])
				j++
			}
			prevOrig = origIndex[ops[j-1].I]
			if j < len(ops) && ops[j].Kind == diff.OnlyRight {
				var bodyFalse []dom.Node
				for j < len(ops) && ops[j].Kind == diff.OnlyRight {
					bodyFalse = append(bodyFalse, falseNodes[ops[j].J])
					j++
				}
				out = append(out, ifElseEndif(path, bodyTrue, bodyFalse)...)
			} else {
				out = append(out, ifEndif(path, bodyTrue)...)
			}
			i = j
		case diff.OnlyRight:
			var bodyFalse []dom.Node
			j := i
			for j < len(ops) && ops[j].Kind == diff.OnlyRight {
				bodyFalse = append(bodyFalse, falseNodes[ops[j].J])
				j++
			}
			out = append(out, ifElseOnlyFalse(path, bodyFalse)...)
			i = j
		}
	}
	out = append(out, directivesBetween(current, prevOrig+1, len(current))...)
	return out
}

// mergeModified recurses into two same-tag elements with equal attrs,
// diffing their children the same way. A non-element pair is left as the
// current (true) node unchanged. ProcessBoolean does not call it for a
// pair whose attrs differ: that pair becomes an if/else/endif block.
func mergeModified(cur, falseNode dom.Node, path string) dom.Node {
	if cur.Kind != dom.KindElement || falseNode.Kind != dom.KindElement {
		return cur
	}
	merged := cur
	merged.Children = ProcessBoolean(cur.Children, cur.Children, falseNode.Children, path)
	return merged
}

func ifEndif(path string, body []dom.Node) []dom.Node {
	out := []dom.Node{directive("if:" + path)}
	out = append(out, body...)
	out = append(out, directive("endif:"+path))
	return out
}

func ifElseEndif(path string, bodyTrue, bodyFalse []dom.Node) []dom.Node {
	out := []dom.Node{directive("if:" + path)}
	out = append(out, bodyTrue...)
	out = append(out, directive("else"))
	out = append(out, bodyFalse...)
	out = append(out, directive("endif:"+path))
	return out
}

func ifElseOnlyFalse(path string, bodyFalse []dom.Node) []dom.Node {
	out := []dom.Node{directive("if:" + path), directive("else")}
	out = append(out, bodyFalse...)
	out = append(out, directive("endif:"+path))
	return out
}

func directive(s string) dom.Node {
	return dom.Node{Kind: dom.KindComment, Data: "seam:" + s}
}
