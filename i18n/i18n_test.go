/* i18n/i18n_test.go */

package i18n

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/loomctr/loomctr/rpchash"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadMemoryModeLooksUpByRouteHash(t *testing.T) {
	dir := t.TempDir()
	routeHash := rpchash.RouteHash("/about")
	writeFile(t, filepath.Join(dir, "i18n", "en.json"), `{"`+routeHash+`":{"title":"About"}}`)
	writeFile(t, filepath.Join(dir, "i18n", "ja.json"), `{"`+routeHash+`":{"title":"概要"}}`)

	cfg := Config{Locales: []string{"en", "ja"}, Default: "en", Mode: ModeMemory}
	store, err := Load(dir, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs, err := store.Messages("/about", "ja")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(msgs, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["title"] != "概要" {
		t.Errorf("got %q, want 概要", decoded["title"])
	}
}

func TestLoadMemoryModeUnknownRouteReturnsEmptyObject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "i18n", "en.json"), `{}`)

	store, err := Load(dir, Config{Locales: []string{"en"}, Default: "en", Mode: ModeMemory})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msgs, err := store.Messages("/unknown", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(msgs) != "{}" {
		t.Errorf("got %q, want {}", msgs)
	}
}

func TestLoadMemoryModeUnknownLocaleErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "i18n", "en.json"), `{}`)

	store, err := Load(dir, Config{Locales: []string{"en"}, Default: "en", Mode: ModeMemory})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Messages("/about", "fr"); err == nil {
		t.Fatalf("expected an error for an unloaded locale")
	}
}

func TestLoadMemoryModeMissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir, Config{Locales: []string{"en"}, Default: "en", Mode: ModeMemory}); err == nil {
		t.Fatalf("expected an error when the locale file is absent")
	}
}

func TestLoadPagedModeReadsOnDemand(t *testing.T) {
	dir := t.TempDir()
	routeHash := rpchash.RouteHash("/about")
	writeFile(t, filepath.Join(dir, "i18n", routeHash, "en.json"), `{"title":"About"}`)

	store, err := Load(dir, Config{Locales: []string{"en"}, Default: "en", Mode: ModePaged})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msgs, err := store.Messages("/about", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(msgs, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["title"] != "About" {
		t.Errorf("got %q, want About", decoded["title"])
	}
}

func TestLoadPagedModeMissingFileReturnsEmptyObject(t *testing.T) {
	dir := t.TempDir()
	store, err := Load(dir, Config{Locales: []string{"en"}, Default: "en", Mode: ModePaged})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msgs, err := store.Messages("/nowhere", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(msgs) != "{}" {
		t.Errorf("got %q, want {}", msgs)
	}
}

func TestLoadPagedModeCachesSecondLookup(t *testing.T) {
	dir := t.TempDir()
	routeHash := rpchash.RouteHash("/about")
	path := filepath.Join(dir, "i18n", routeHash, "en.json")
	writeFile(t, path, `{"title":"About"}`)

	store, err := Load(dir, Config{Locales: []string{"en"}, Default: "en", Mode: ModePaged, Cache: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Messages("/about", "en"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Remove the file on disk; a cached lookup should still succeed since
	// the cache was populated on the prior call.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	msgs, err := store.Messages("/about", "en")
	if err != nil {
		t.Fatalf("unexpected error from cached lookup: %v", err)
	}
	var decoded map[string]string
	if err := json.Unmarshal(msgs, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["title"] != "About" {
		t.Errorf("got %q, want About", decoded["title"])
	}
}

func TestFilterKeysRestrictsToSubset(t *testing.T) {
	messages := json.RawMessage(`{"title":"About","subtitle":"Team","footer":"Copyright"}`)
	filtered := FilterKeys(messages, []string{"title", "footer"})

	var decoded map[string]string
	if err := json.Unmarshal(filtered, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 2 || decoded["title"] != "About" || decoded["footer"] != "Copyright" {
		t.Errorf("got %+v, want title and footer only", decoded)
	}
	if _, ok := decoded["subtitle"]; ok {
		t.Errorf("expected subtitle to be filtered out")
	}
}

func TestFilterKeysEmptyKeepsEverything(t *testing.T) {
	messages := json.RawMessage(`{"title":"About"}`)
	filtered := FilterKeys(messages, nil)
	if string(filtered) != string(messages) {
		t.Errorf("got %q, want unchanged %q", filtered, messages)
	}
}

func TestFilterKeysMissingKeyIsSkipped(t *testing.T) {
	messages := json.RawMessage(`{"title":"About"}`)
	filtered := FilterKeys(messages, []string{"title", "nonexistent"})
	var decoded map[string]string
	if err := json.Unmarshal(filtered, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 1 || decoded["title"] != "About" {
		t.Errorf("got %+v, want just title", decoded)
	}
}
