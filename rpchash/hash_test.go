/* rpchash/hash_test.go */

package rpchash

import (
	"testing"
)

func TestGenerateProducesUniqueHashesForAllNames(t *testing.T) {
	names := []string{"getUser", "createPost", "deletePost"}
	m, err := Generate(names, "fixed-salt", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Procedures) != len(names) {
		t.Fatalf("got %d procedures, want %d", len(m.Procedures), len(names))
	}
	seen := map[string]bool{m.Batch: true}
	for _, name := range names {
		h, ok := m.Procedures[name]
		if !ok {
			t.Fatalf("missing hash for %q", name)
		}
		if seen[h] {
			t.Fatalf("hash %q collides with another entry", h)
		}
		seen[h] = true
	}
}

func TestGenerateIsDeterministicForSameSalt(t *testing.T) {
	names := []string{"getUser", "createPost"}
	a, err := Generate(names, "salt-a", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Generate(names, "salt-a", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Procedures["getUser"] != b.Procedures["getUser"] {
		t.Errorf("expected identical hash for same name+salt, got %q vs %q", a.Procedures["getUser"], b.Procedures["getUser"])
	}
}

func TestGenerateDefaultLength(t *testing.T) {
	m, err := Generate([]string{"ping"}, "s", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Procedures["ping"]) != 12 {
		t.Errorf("got hash length %d, want 12", len(m.Procedures["ping"]))
	}
}

func TestGenerateCustomLengthAndTypeHint(t *testing.T) {
	m, err := Generate([]string{"ping"}, "s", Options{Length: 8, TypeHint: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := m.Procedures["ping"]
	if len(h) != len("rpc-")+8 {
		t.Fatalf("got length %d, want %d", len(h), len("rpc-")+8)
	}
	if h[:4] != "rpc-" {
		t.Errorf("expected rpc- prefix, got %q", h)
	}
}

func TestGenerateBatchHashIsPresentAndDistinct(t *testing.T) {
	m, err := Generate([]string{"a", "b"}, "salt", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Batch == "" {
		t.Fatalf("expected a non-empty batch hash")
	}
	for name, h := range m.Procedures {
		if h == m.Batch {
			t.Fatalf("procedure %q hash collides with the batch hash", name)
		}
	}
}

func TestMapReverseLookup(t *testing.T) {
	m := &Map{
		Salt:       "s",
		Batch:      "aaaa",
		Procedures: map[string]string{"getUser": "1111", "createPost": "2222"},
	}
	rev := m.ReverseLookup()
	if rev["1111"] != "getUser" || rev["2222"] != "createPost" {
		t.Fatalf("unexpected reverse map: %+v", rev)
	}
}

func TestGenerateRandomSaltLength(t *testing.T) {
	salt := GenerateRandomSalt()
	if len(salt) != 16 {
		t.Errorf("got salt length %d, want 16", len(salt))
	}
}

func TestRouteHashStableAndEightHex(t *testing.T) {
	h1 := RouteHash("/users/:id")
	h2 := RouteHash("/users/:id")
	if h1 != h2 {
		t.Errorf("expected stable hash, got %q vs %q", h1, h2)
	}
	if len(h1) != 8 {
		t.Errorf("got length %d, want 8", len(h1))
	}
}

func TestRouteHashDiffersByInput(t *testing.T) {
	if RouteHash("/users/:id") == RouteHash("/posts/:id") {
		t.Errorf("expected different routes to hash differently")
	}
}

func TestContentHashFourHexAndStable(t *testing.T) {
	h1 := ContentHash(`{"hello":"world"}`)
	h2 := ContentHash(`{"hello":"world"}`)
	if h1 != h2 {
		t.Errorf("expected stable hash, got %q vs %q", h1, h2)
	}
	if len(h1) != 4 {
		t.Errorf("got length %d, want 4", len(h1))
	}
}

func TestContentHashChangesWithContent(t *testing.T) {
	if ContentHash(`{"a":1}`) == ContentHash(`{"a":2}`) {
		t.Errorf("expected different content to hash differently")
	}
}
