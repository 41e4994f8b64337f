/* internal/dom/dom_test.go */

package dom

import "testing"

func TestParseSerializeRoundTrip(t *testing.T) {
	cases := []string{
		`<div class="a b"><span>hi</span></div>`,
		`<p>plain text</p>`,
		`<!--a comment--><div />`,
		`<img src="x.png">`,
		`<br>`,
		`<input type="text" required>`,
		`<script>if (a < b) { alert("x"); }</script>`,
		`<textarea>raw <b>not html</b></textarea>`,
	}
	for _, src := range cases {
		nodes, err := Parse(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		got := Serialize(nodes)
		if got != src {
			t.Errorf("round trip mismatch: got %q, want %q", got, src)
		}
	}
}

func TestParseUnclosedTag(t *testing.T) {
	nodes, err := Parse(`<div><p>unclosed`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Tag != "div" {
		t.Fatalf("expected a single div root, got %+v", nodes)
	}
}

func TestFingerprintStructuralEquality(t *testing.T) {
	a, _ := Parse(`<div class="x">hi</div>`)
	b, _ := Parse(`<div class="x">hi</div>`)
	c, _ := Parse(`<div class="y">hi</div>`)

	if a[0].Fingerprint() != b[0].Fingerprint() {
		t.Errorf("identical nodes should fingerprint equal")
	}
	if a[0].Fingerprint() == c[0].Fingerprint() {
		t.Errorf("differing attrs should fingerprint differently")
	}
}

func TestSameTag(t *testing.T) {
	a, _ := Parse(`<div class="x">hi</div>`)
	b, _ := Parse(`<div class="y">bye</div>`)
	c, _ := Parse(`<span>hi</span>`)

	if !SameTag(a[0], b[0]) {
		t.Errorf("expected same tag for two divs")
	}
	if SameTag(a[0], c[0]) {
		t.Errorf("expected different tags for div vs span")
	}
}

func TestIsVoid(t *testing.T) {
	if !IsVoid("br") {
		t.Errorf("br should be void")
	}
	if IsVoid("div") {
		t.Errorf("div should not be void")
	}
}
