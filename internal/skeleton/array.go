/* internal/skeleton/array.go */

package skeleton

import (
	"strings"

	"github.com/loomctr/loomctr/internal/diff"
	"github.com/loomctr/loomctr/internal/dom"
)

// ChildAxisProcessor lets the array extractor hand a populated unit's own
// markup back to the orchestrator so nested child axes (`path.$.sub`) can
// be extracted from it before the unit is wrapped in each/endeach.
type ChildAxisProcessor func(unit []dom.Node) []dom.Node

// ProcessArray inserts an each/endeach block for an array axis. current is
// the in-progress template tree; populated/empty are the two variants'
// children differing only along this axis (values[0] = populated,
// values[1] = empty). When onChildren is non-nil it is applied to the
// repeating unit after container-unwrap and before the each/endeach
// wrapping and slot renaming, so nested `path.$.sub` axes are folded in
// first.
func ProcessArray(current, populated, empty []dom.Node, path string, onChildren ChildAxisProcessor) []dom.Node {
	clean, origIndex := stripDirectives(current)
	ops := diff.Children(clean, empty)

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
			merged := current[oi]
			if merged.Kind == dom.KindElement && empty[op.J].Kind == dom.KindElement {
				merged.Children = ProcessArray(merged.Children, merged.Children, empty[op.J].Children, path, onChildren)
			}
			out = append(out, merged)
			prevOrig = oi
			i++
		case diff.OnlyLeft:
			oi := origIndex[op.I]
			out = append(out, directivesBetween(current, prevOrig+1, oi)...)
			var body []dom.Node
			j := i
			for j < len(ops) && ops[j].Kind == diff.OnlyLeft {
				body = append(body, current[origIndex[ops[j].I]])
				j++
			}
			prevOrig = origIndex[ops[j-1].I]
			out = append(out, buildEachBlock(body, path, onChildren)...)
			i = j
		case diff.OnlyRight:
			// An element present only in the "empty" variant inside what
			// should be array-only divergence indicates a shape the axis
			// can't explain; leave it out rather than fabricate content.
			i++
		}
	}
	out = append(out, directivesBetween(current, prevOrig+1, len(current))...)
	return out
}

func buildEachBlock(body []dom.Node, path string, onChildren ChildAxisProcessor) []dom.Node {
	unit := body
	var container *dom.Node
	if c, inner, ok := UnwrapContainerTree(body); ok {
		container = &c
		unit = inner
	}
	if onChildren != nil {
		unit = onChildren(unit)
	}
	unit = RenameSlotPrefix(unit, path)

	block := []dom.Node{directive("each:" + path)}
	block = append(block, unit...)
	block = append(block, directive("endeach"))

	if container != nil {
		wrapped := *container
		wrapped.Children = block
		return []dom.Node{wrapped}
	}
	return block
}

// RenameSlotPrefix rewrites directive comments' `path.$.` occurrences to
// `$.` recursively, so the injector's each-scope `$` resolves them
// relative to the current element instead of the absolute array path. The
// prefix can sit right after `seam:` (a plain slot, `seam:path.$.sub`) or
// after a directive keyword (`seam:if:path.$.sub`, `seam:endeach` has none),
// so this replaces the occurrence wherever it falls rather than anchoring
// at the start of the comment.
func RenameSlotPrefix(nodes []dom.Node, path string) []dom.Node {
	prefix := path + ".$."
	out := make([]dom.Node, len(nodes))
	for i, n := range nodes {
		switch n.Kind {
		case dom.KindComment:
			n.Data = strings.ReplaceAll(n.Data, prefix, "$.")
		case dom.KindElement:
			n.Children = RenameSlotPrefix(n.Children, path)
		}
		out[i] = n
	}
	return out
}
