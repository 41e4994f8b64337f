/* internal/skeleton/ctrcheck.go */

package skeleton

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Mismatch describes one combo where the re-rendered template diverged
// from the variant the renderer originally produced for it.
type Mismatch struct {
	ComboIndex int
	Path       string
	Reason     string
}

// InjectFunc has the shape of the runtime injector's InjectNoScript
// operation (template and data in, no data script), passed in rather
// than imported directly to keep the build-time skeleton package free of
// a dependency on the request-time injector package.
type InjectFunc func(template, dataJSON string) (string, error)

// CheckEquivalence re-renders the extracted template against each
// variant's own data (reconstructed from its combo's axis values) and
// compares the result to the variant the renderer originally produced.
// It never panics on divergence — callers decide whether a non-empty
// Mismatch slice fails the build. Array axes are skipped: synthesizing
// representative array data for an equivalence check is out of scope for
// this pass, since the axis only records "populated"/"empty", not real
// element shapes.
func CheckEquivalence(template string, axes []Axis, variantsHTML []string, inject InjectFunc) ([]Mismatch, error) {
	combos := GenerateCombos(axes)
	var mismatches []Mismatch

	for comboIdx, combo := range combos {
		if comboIdx >= len(variantsHTML) {
			continue
		}
		data := make(map[string]any)
		skip := false
		for i, a := range axes {
			if a.Kind == KindArray {
				skip = true
				break
			}
			v := a.Values[combo[i]]
			setDottedPath(data, a.Path, v)
		}
		if skip {
			continue
		}

		dataJSON, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("ctrcheck: marshal combo %d: %w", comboIdx, err)
		}
		rendered, err := inject(template, string(dataJSON))
		if err != nil {
			mismatches = append(mismatches, Mismatch{ComboIndex: comboIdx, Reason: fmt.Sprintf("inject failed: %v", err)})
			continue
		}
		expected, err := RewriteSentinels(variantsHTML[comboIdx])
		if err != nil {
			continue
		}
		if normalizeWhitespace(rendered) != normalizeWhitespace(expected) {
			mismatches = append(mismatches, Mismatch{ComboIndex: comboIdx, Reason: "rendered output diverges from observed variant"})
		}
	}
	return mismatches, nil
}

func setDottedPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	cur := data
	for i, p := range parts {
		if p == "$" {
			continue
		}
		if i == len(parts)-1 {
			cur[p] = value
			return
		}
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[p] = next
		}
		cur = next
	}
}

func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
