/* internal/skeleton/enum.go */

package skeleton

import (
	"encoding/json"
	"fmt"

	"github.com/loomctr/loomctr/internal/dom"
)

// SiblingRecurser lets the enum extractor hand each arm's body, plus the
// index of that arm's value in the axis's values, back to the
// orchestrator so sibling top-level axes can be processed inside the arm.
// Returning ok=false means "nothing to do", leaving the body untouched.
type SiblingRecurser func(armBody []dom.Node, armValueIdx int) (result []dom.Node, ok bool)

// ProcessEnum emits a match/when/endmatch block for a k-valued enum axis.
// reps holds one representative tree (root children) per enum value, in
// axis value order; repVariantIdx holds the corresponding global variant
// index for each representative (for sibling recursion). It returns the
// new tree and whether sibling axes were consumed by recursion.
func ProcessEnum(reps [][]dom.Node, values []any, repVariantIdx []int, path string, recurse SiblingRecurser) ([]dom.Node, bool) {
	// Every arm renders identically in this region (the axis's effect lies
	// elsewhere, e.g. an attribute already resolved by sentinel rewriting):
	// nothing to fold, so skip the match/when wrapping entirely.
	if allIdentical(reps) {
		return reps[0], false
	}

	prefix, suffix := commonPrefixSuffix(reps)
	siblingsConsumed := false
	regions := middleRegions(reps, prefix, suffix)

	// Narrow one level further when every region is a single identically
	// tagged+attributed wrapper element that itself still diverges inside
	// — e.g. all three enum arms render `<div class="status">...</div>`
	// with only the inner text differing: descend so match/when sit
	// inside the shared wrapper, and the wrapper is emitted once (from
	// reps[0]) rather than duplicated per arm.
	if wrapperTag, inner, ok := sameWrapper(regions); ok && anyDiverges(inner) {
		out := append([]dom.Node{}, reps[0][:prefix]...)
		wrapper := wrapperTag
		wrapper.Children, siblingsConsumed = buildMatchBody(inner, values, repVariantIdx, path, recurse)
		out = append(out, wrapper)
		if len(reps[0]) >= suffix && suffix > 0 {
			out = append(out, reps[0][len(reps[0])-suffix:]...)
		}
		return out, siblingsConsumed
	}

	out := append([]dom.Node{}, reps[0][:prefix]...)
	body, consumed := buildMatchBody(regions, values, repVariantIdx, path, recurse)
	out = append(out, body...)
	siblingsConsumed = consumed
	if len(reps[0]) >= suffix && suffix > 0 {
		out = append(out, reps[0][len(reps[0])-suffix:]...)
	}
	return out, siblingsConsumed
}

func buildMatchBody(regions [][]dom.Node, values []any, repVariantIdx []int, path string, recurse SiblingRecurser) ([]dom.Node, bool) {
	siblingsConsumed := false
	out := []dom.Node{directive("match:" + path)}
	for i, region := range regions {
		out = append(out, directive("when:"+stringifyEnumValue(values[i])))
		body := region
		if recurse != nil {
			if result, ok := recurse(body, i); ok {
				body = result
				siblingsConsumed = true
			}
		}
		out = append(out, body...)
	}
	out = append(out, directive("endmatch"))
	return out, siblingsConsumed
}

// sameWrapper reports whether every region is exactly one element sharing
// tag and verbatim attrs, returning that shared tag (children cleared) and
// each region's inner children.
func sameWrapper(regions [][]dom.Node) (dom.Node, [][]dom.Node, bool) {
	if !allSingleSameTag(regions) {
		return dom.Node{}, nil, false
	}
	attrs := regions[0][0].Attrs
	for _, r := range regions {
		if r[0].Attrs != attrs {
			return dom.Node{}, nil, false
		}
	}
	wrapper := regions[0][0]
	wrapper.Children = nil
	inner := make([][]dom.Node, len(regions))
	for i, r := range regions {
		inner[i] = r[0].Children
	}
	return wrapper, inner, true
}

func stringifyEnumValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func commonPrefixSuffix(seqs [][]dom.Node) (prefix, suffix int) {
	if len(seqs) == 0 {
		return 0, 0
	}
	minLen := len(seqs[0])
	for _, s := range seqs {
		if len(s) < minLen {
			minLen = len(s)
		}
	}
	for prefix < minLen {
		fp := seqs[0][prefix].Fingerprint()
		ok := true
		for _, s := range seqs {
			if s[prefix].Fingerprint() != fp {
				ok = false
				break
			}
		}
		if !ok {
			break
		}
		prefix++
	}
	for suffix < minLen-prefix {
		fp := seqs[0][len(seqs[0])-1-suffix].Fingerprint()
		ok := true
		for _, s := range seqs {
			if s[len(s)-1-suffix].Fingerprint() != fp {
				ok = false
				break
			}
		}
		if !ok {
			break
		}
		suffix++
	}
	return prefix, suffix
}

func middleRegions(seqs [][]dom.Node, prefix, suffix int) [][]dom.Node {
	out := make([][]dom.Node, len(seqs))
	for i, s := range seqs {
		out[i] = s[prefix : len(s)-suffix]
	}
	return out
}

func allSingleSameTag(regions [][]dom.Node) bool {
	if len(regions) == 0 {
		return false
	}
	if len(regions[0]) != 1 || regions[0][0].Kind != dom.KindElement {
		return false
	}
	tag := regions[0][0].Tag
	for _, r := range regions {
		if len(r) != 1 || r[0].Kind != dom.KindElement || r[0].Tag != tag {
			return false
		}
	}
	return true
}

func allIdentical(seqs [][]dom.Node) bool {
	if len(seqs) == 0 {
		return true
	}
	fp := dom.Node{Kind: dom.KindElement, Children: seqs[0]}.Fingerprint()
	for _, s := range seqs[1:] {
		if (dom.Node{Kind: dom.KindElement, Children: s}).Fingerprint() != fp {
			return false
		}
	}
	return true
}

func anyDiverges(regions [][]dom.Node) bool {
	if len(regions) < 2 {
		return false
	}
	fp := (dom.Node{Kind: dom.KindElement, Children: regions[0]}).Fingerprint()
	for _, r := range regions[1:] {
		if (dom.Node{Kind: dom.KindElement, Children: r}).Fingerprint() != fp {
			return true
		}
	}
	return false
}
