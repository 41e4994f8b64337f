/* internal/skeleton/extract.go */

package skeleton

import (
	"fmt"

	"github.com/loomctr/loomctr/internal/diff"
	"github.com/loomctr/loomctr/internal/dom"
)

// Extract is the extraction orchestrator's entry point. variantsHTML is
// the renderer's raw output (still carrying `%%SEAM:path%%` sentinels) in
// combo row-major order matching axes. It returns the directive-annotated
// template string.
func Extract(axes []Axis, variantsHTML []string) (string, error) {
	if len(variantsHTML) == 0 {
		return "", fmt.Errorf("skeleton: no variants supplied")
	}
	if len(axes) == 0 || len(variantsHTML) == 1 {
		return RewriteSentinels(variantsHTML[0])
	}

	e := &extractor{axes: axes, raw: variantsHTML, parsed: make(map[int][]dom.Node)}

	current, err := e.variant(0)
	if err != nil {
		return "", err
	}

	topLevel, groups := Classify(axes)
	consumed := make(map[string]bool)

	for _, g := range groups {
		current, err = e.processGroup(current, g)
		if err != nil {
			return "", err
		}
		consumed[g.Parent.Path] = true
		for _, c := range g.Children {
			consumed[c.Path] = true
		}
	}

	for _, a := range topLevel {
		if consumed[a.Path] {
			continue
		}
		switch a.Kind {
		case KindBoolean, KindNullable:
			trueTree, err := e.variantFor(map[string]int{a.Path: 0})
			if err != nil {
				return "", err
			}
			falseTree, err := e.variantFor(map[string]int{a.Path: 1})
			if err != nil {
				return "", err
			}
			current = ProcessBoolean(current, trueTree, falseTree, a.Path)

		case KindArray:
			populated, err := e.variantFor(map[string]int{a.Path: 0})
			if err != nil {
				return "", err
			}
			empty, err := e.variantFor(map[string]int{a.Path: 1})
			if err != nil {
				return "", err
			}
			current = ProcessArray(current, populated, empty, a.Path, nil)

		case KindEnum:
			reps := make([][]dom.Node, len(a.Values))
			repIdx := make([]int, len(a.Values))
			for v := range a.Values {
				idx := e.indexFor(map[string]int{a.Path: v})
				tree, err := e.variant(idx)
				if err != nil {
					return "", err
				}
				reps[v] = tree
				repIdx[v] = idx
			}
			recurse := e.siblingRecurser(topLevel, a, consumed)
			result, siblingsConsumed := ProcessEnum(reps, a.Values, repIdx, a.Path, recurse)
			current = result
			if siblingsConsumed {
				for _, sib := range topLevel {
					if sib.Path != a.Path {
						consumed[sib.Path] = true
					}
				}
			}
		}
	}

	return dom.Serialize(current), nil
}

type extractor struct {
	axes   []Axis
	raw    []string
	parsed map[int][]dom.Node
}

// indexFor computes the global variant index for a combo that pins the
// given axis paths to specific value indices and leaves every other axis
// at its reference (zero) value.
func (e *extractor) indexFor(overrides map[string]int) int {
	combo := make([]int, len(e.axes))
	for i, a := range e.axes {
		if v, ok := overrides[a.Path]; ok {
			combo[i] = v
		}
	}
	return ComboIndex(e.axes, combo)
}

func (e *extractor) variant(idx int) ([]dom.Node, error) {
	if nodes, ok := e.parsed[idx]; ok {
		return nodes, nil
	}
	if idx < 0 || idx >= len(e.raw) {
		// Renderer pruned an impossible combo; degrade to the reference
		// variant rather than fail the whole build.
		idx = 0
	}
	rewritten, err := RewriteSentinels(e.raw[idx])
	if err != nil {
		return nil, err
	}
	nodes, err := dom.Parse(rewritten)
	if err != nil {
		return nil, err
	}
	e.parsed[idx] = nodes
	return nodes, nil
}

func (e *extractor) variantFor(overrides map[string]int) ([]dom.Node, error) {
	return e.variant(e.indexFor(overrides))
}

// processGroup handles an array axis together with its nested child axes:
// find the repeating unit from the populated/empty pair, fold the
// boolean/nullable and array child axes into that unit (each processed the
// same way a solo top-level axis would be, but scoped to the unit's own
// variant pair; enum child axes are left unprocessed), then wrap in
// each/endeach and rename slots.
func (e *extractor) processGroup(current []dom.Node, g Group) ([]dom.Node, error) {
	populated, err := e.variantFor(map[string]int{g.Parent.Path: 0})
	if err != nil {
		return nil, err
	}
	empty, err := e.variantFor(map[string]int{g.Parent.Path: 1})
	if err != nil {
		return nil, err
	}
	baseUnitEmpty := unitOf(empty, empty)

	onChildren := func(unit []dom.Node) []dom.Node {
		for _, c := range g.Children {
			childTrue, err := e.variantFor(map[string]int{g.Parent.Path: 0, c.Path: 0})
			if err != nil {
				continue
			}
			childFalse, err := e.variantFor(map[string]int{g.Parent.Path: 0, c.Path: 1})
			if err != nil {
				continue
			}
			unitTrue := unitOf(childTrue, empty)
			unitFalse := unitOf(childFalse, empty)
			switch c.Kind {
			case KindBoolean, KindNullable:
				unit = ProcessBoolean(unit, unitTrue, unitFalse, c.Path)
			case KindArray:
				unit = ProcessArray(unit, unitTrue, unitFalse, c.Path, nil)
			default:
				_ = baseUnitEmpty
			}
		}
		return unit
	}

	return ProcessArray(current, populated, empty, g.Parent.Path, onChildren), nil
}

// unitOf extracts the array body's repeating unit (container-unwrapped,
// if applicable) from a populated tree, diffed against a reference empty
// tree, for use as a standalone scope during nested-axis recursion.
func unitOf(populated, empty []dom.Node) []dom.Node {
	clean, _ := stripDirectives(populated)
	body := unitBody(clean, empty)
	if _, inner, ok := UnwrapContainerTree(body); ok {
		return inner
	}
	return body
}

// unitBody collects the nodes present only on the populated side of the
// diff. When the repeating unit's own wrapper tag is stable across the
// populated/empty pair (e.g. both keep a surrounding <li>, only its
// contents differ), the diff pairs that wrapper as Modified rather than
// OnlyLeft, so the top-level pass finds nothing: recurse into the
// matched pair's own children and look there instead.
func unitBody(clean, empty []dom.Node) []dom.Node {
	ops := diff.Children(clean, empty)
	var body []dom.Node
	for _, op := range ops {
		if op.Kind == diff.OnlyLeft {
			body = append(body, clean[op.I])
		}
	}
	if len(body) > 0 {
		return body
	}
	for _, op := range ops {
		if op.Kind == diff.Modified {
			if inner := unitBody(clean[op.I].Children, empty[op.J].Children); len(inner) > 0 {
				return inner
			}
		}
	}
	return nil
}

// siblingRecurser builds the callback the enum extractor uses to fold any
// remaining top-level axes into each arm's body, holding the enum axis at
// that arm's own value.
func (e *extractor) siblingRecurser(topLevel []Axis, enumAxis Axis, consumed map[string]bool) SiblingRecurser {
	var siblings []Axis
	for _, a := range topLevel {
		if a.Path == enumAxis.Path || consumed[a.Path] {
			continue
		}
		siblings = append(siblings, a)
	}
	if len(siblings) == 0 {
		return nil
	}
	return func(armBody []dom.Node, armValueIdx int) ([]dom.Node, bool) {
		current := armBody
		any := false
		for _, a := range siblings {
			trueTree, err1 := e.variantFor(map[string]int{enumAxis.Path: armValueIdx, a.Path: 0})
			falseTree, err2 := e.variantFor(map[string]int{enumAxis.Path: armValueIdx, a.Path: 1})
			if err1 != nil || err2 != nil {
				continue
			}
			switch a.Kind {
			case KindBoolean, KindNullable:
				current = ProcessBoolean(current, trueTree, falseTree, a.Path)
				any = true
			case KindArray:
				current = ProcessArray(current, trueTree, falseTree, a.Path, nil)
				any = true
			}
		}
		return current, any
	}
}
