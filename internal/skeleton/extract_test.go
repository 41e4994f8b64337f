/* internal/skeleton/extract_test.go */

package skeleton

import "testing"

func TestExtractSingleVariantNoAxes(t *testing.T) {
	got, err := Extract(nil, []string{`<p>%%SEAM:name%%</p>`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<p><!--seam:name--></p>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractNoVariantsErrors(t *testing.T) {
	if _, err := Extract(nil, nil); err == nil {
		t.Fatalf("expected an error for zero variants")
	}
}

func TestExtractSingleBooleanAxis(t *testing.T) {
	axes := []Axis{{Path: "show", Kind: KindBoolean, Values: []any{true, false}}}
	variants := []string{
		`<p>base</p><b>shown</b>`, // show = true (value index 0)
		`<p>base</p>`,             // show = false (value index 1)
	}

	got, err := Extract(axes, variants)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<p>base</p><!--seam:if:show--><b>shown</b><!--seam:endif:show-->`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractSingleEnumAxis(t *testing.T) {
	axes := []Axis{{Path: "status", Kind: KindEnum, Values: []any{"active", "inactive", "pending"}}}
	variants := []string{
		`<span class="status">Active</span>`,
		`<span class="status">Inactive</span>`,
		`<span class="status">Pending</span>`,
	}

	got, err := Extract(axes, variants)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<span class="status"><!--seam:match:status--><!--seam:when:active-->Active<!--seam:when:inactive-->Inactive<!--seam:when:pending-->Pending<!--seam:endmatch--></span>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractSingleArrayAxis(t *testing.T) {
	axes := []Axis{{Path: "items", Kind: KindArray, Values: []any{0, 1}}}
	variants := []string{
		`<ul><li>a</li><li>b</li></ul>`, // items populated (value index 0)
		`<ul></ul>`,                     // items empty (value index 1)
	}

	got, err := Extract(axes, variants)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<ul><!--seam:each:items--><li>a</li><li>b</li><!--seam:endeach--></ul>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestExtractArrayWithNestedChildAxis exercises a list axis whose populated
// and empty variants share the same wrapper tag (<ul> present either way,
// only its <li> children differ) together with a nested child axis scoped
// under the array. The shared wrapper means the repeating unit's own diff
// pairs as Modified rather than OnlyLeft, so recovering the unit requires
// recursing into that pair's children.
func TestExtractArrayWithNestedChildAxis(t *testing.T) {
	axes := []Axis{
		{Path: "items", Kind: KindArray, Values: []any{0, 1}},
		{Path: "items.$.active", Kind: KindBoolean, Values: []any{true, false}},
	}
	// Row-major combo order: (items, active) -> index = items*2 + active.
	variants := []string{
		`<ul><li>A<b>on</b></li></ul>`, // items=populated, active=true
		`<ul><li>A</li></ul>`,          // items=populated, active=false
		`<ul></ul>`,                    // items=empty, active=true (unused)
		`<ul></ul>`,                    // items=empty, active=false (unused)
	}

	got, err := Extract(axes, variants)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<ul><!--seam:each:items--><li>A<!--seam:if:$.active--><b>on</b><!--seam:endif:$.active--></li><!--seam:endeach--></ul>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
