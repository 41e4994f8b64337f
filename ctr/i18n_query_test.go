/* ctr/i18n_query_test.go */

package ctr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loomctr/loomctr/i18n"
	"github.com/loomctr/loomctr/rpchash"
)

func TestI18nQueryProcedureIsDirectlyCallableUnderHashMap(t *testing.T) {
	dir := t.TempDir()
	routeHash := rpchash.RouteHash("/about")
	mustWrite(t, filepath.Join(dir, "i18n", "en.json"), `{"`+routeHash+`":{"title":"About"}}`)

	cfg := i18n.Config{
		Locales:     []string{"en"},
		Default:     "en",
		Mode:        i18n.ModeMemory,
		RouteHashes: map[string]string{"/about": routeHash},
	}
	store, err := i18n.Load(dir, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, err := rpchash.Generate([]string{"getUser"}, "salt", rpchash.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := NewRouter().
		Procedure(getUserProcedure()).
		RpcHashMap(m).
		I18n(store, I18nConfig{Locales: []string{"en"}, Default: "en"})

	body := `{"route":"/about","locale":"en"}`
	req := httptest.NewRequest(http.MethodPost, "/_seam/rpc/"+i18nQueryProcedureName, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var out i18nQueryOutput
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var messages map[string]string
	if err := json.Unmarshal(out.Messages, &messages); err != nil {
		t.Fatalf("unmarshal messages: %v", err)
	}
	if messages["title"] != "About" {
		t.Errorf("got %+v, want title=About", messages)
	}
	if out.Hash == "" {
		t.Errorf("expected a non-empty content hash")
	}
}

func TestI18nQueryProcedureDefaultsToConfigLocale(t *testing.T) {
	dir := t.TempDir()
	routeHash := rpchash.RouteHash("/about")
	mustWrite(t, filepath.Join(dir, "i18n", "en.json"), `{"`+routeHash+`":{"title":"About"}}`)

	cfg := i18n.Config{
		Locales:     []string{"en"},
		Default:     "en",
		Mode:        i18n.ModeMemory,
		RouteHashes: map[string]string{"/about": routeHash},
	}
	store, err := i18n.Load(dir, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := NewRouter().I18n(store, I18nConfig{Locales: []string{"en"}, Default: "en"})
	body := `{"route":"/about"}`
	req := httptest.NewRequest(http.MethodPost, "/_seam/rpc/"+i18nQueryProcedureName, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
}
