/* internal/skeleton/enum_test.go */

package skeleton

import (
	"testing"

	"github.com/loomctr/loomctr/internal/dom"
)

func mustParse(t *testing.T, s string) []dom.Node {
	t.Helper()
	nodes, err := dom.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return nodes
}

func TestProcessEnumSharedWrapperNarrows(t *testing.T) {
	reps := [][]dom.Node{
		mustParse(t, `<span class="status">Active</span>`),
		mustParse(t, `<span class="status">Inactive</span>`),
		mustParse(t, `<span class="status">Pending</span>`),
	}
	values := []any{"active", "inactive", "pending"}

	out, consumed := ProcessEnum(reps, values, []int{0, 1, 2}, "status", nil)
	if consumed {
		t.Errorf("no recurser was provided, expected siblings not consumed")
	}
	got := dom.Serialize(out)
	want := `<span class="status"><!--seam:match:status--><!--seam:when:active-->Active<!--seam:when:inactive-->Inactive<!--seam:when:pending-->Pending<!--seam:endmatch--></span>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestProcessEnumNoSharedWrapper(t *testing.T) {
	reps := [][]dom.Node{
		mustParse(t, `<b>Yes</b>`),
		mustParse(t, `<i>No</i>`),
	}
	values := []any{"yes", "no"}

	out, _ := ProcessEnum(reps, values, []int{0, 1}, "choice", nil)
	got := dom.Serialize(out)
	want := `<!--seam:match:choice--><!--seam:when:yes--><b>Yes</b><!--seam:when:no--><i>No</i><!--seam:endmatch-->`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCommonPrefixSuffix(t *testing.T) {
	seqs := [][]dom.Node{
		mustParse(t, `<p>head</p><b>a</b><p>tail</p>`),
		mustParse(t, `<p>head</p><i>b</i><p>tail</p>`),
	}
	prefix, suffix := commonPrefixSuffix(seqs)
	if prefix != 1 || suffix != 1 {
		t.Fatalf("got prefix=%d suffix=%d, want 1,1", prefix, suffix)
	}
}

func TestSiblingRecurserInvokedPerArm(t *testing.T) {
	reps := [][]dom.Node{
		mustParse(t, `<span class="status">Active</span>`),
		mustParse(t, `<span class="status">Inactive</span>`),
	}
	values := []any{"active", "inactive"}

	var seenArms []int
	recurse := func(armBody []dom.Node, armValueIdx int) ([]dom.Node, bool) {
		seenArms = append(seenArms, armValueIdx)
		return armBody, true
	}

	_, consumed := ProcessEnum(reps, values, []int{0, 1}, "status", recurse)
	if !consumed {
		t.Errorf("expected a sibling recurser call marked as consumed")
	}
	if len(seenArms) != 2 || seenArms[0] != 0 || seenArms[1] != 1 {
		t.Fatalf("expected the recurser invoked once per arm in order, got %v", seenArms)
	}
}
