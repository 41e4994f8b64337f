/* ctr/handler_page_test.go */

package ctr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loomctr/loomctr/i18n"
	"github.com/loomctr/loomctr/rpchash"
)

func getUserProcedure() ProcedureDef {
	return ProcedureDef{
		Name: "getUser",
		Handler: func(ctx context.Context, input json.RawMessage) (any, error) {
			var in map[string]any
			json.Unmarshal(input, &in)
			return map[string]any{"name": "Alice", "id": in["id"]}, nil
		},
	}
}

func TestServePageWithLoaderInjectsData(t *testing.T) {
	page := PageDef{
		Route:    "/users/:id",
		Template: `<html><body><h1><!--seam:user.name--></h1></body></html>`,
		Loaders: []LoaderDef{
			{DataKey: "user", Procedure: "getUser", InputFn: func(params map[string]string) any {
				return map[string]string{"id": params["id"]}
			}},
		},
		DataID: "__SEAM_DATA__",
	}
	r := NewRouter().Procedure(getUserProcedure()).Page(page)

	req := httptest.NewRequest(http.MethodGet, "/_seam/page/users/42", nil)
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "<h1>Alice</h1>") {
		t.Errorf("expected injected user name, got %s", body)
	}
	if !strings.Contains(body, `<script id="__SEAM_DATA__" type="application/json">`) {
		t.Errorf("expected a data script, got %s", body)
	}
}

func TestServePageLoaderProcedureMissing(t *testing.T) {
	page := PageDef{
		Route:    "/users/:id",
		Template: `<p>hi</p>`,
		Loaders: []LoaderDef{
			{DataKey: "user", Procedure: "doesNotExist", InputFn: func(params map[string]string) any { return map[string]string{} }},
		},
	}
	r := NewRouter().Page(page)

	req := httptest.NewRequest(http.MethodGet, "/_seam/page/users/1", nil)
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500, body=%s", w.Code, w.Body.String())
	}
}

func TestServePageWithI18nInjectsMessagesAndLang(t *testing.T) {
	dir := t.TempDir()
	routeHash := rpchash.RouteHash("/about")
	mustWrite(t, filepath.Join(dir, "i18n", "en.json"), `{"`+routeHash+`":{"title":"About"}}`)
	mustWrite(t, filepath.Join(dir, "i18n", "ja.json"), `{"`+routeHash+`":{"title":"概要"}}`)

	cfg := i18n.Config{
		Locales:     []string{"en", "ja"},
		Default:     "en",
		Mode:        i18n.ModeMemory,
		RouteHashes: map[string]string{"/about": routeHash},
	}
	store, err := i18n.Load(dir, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page := PageDef{Route: "/about", Template: `<html><body><p>about</p></body></html>`}
	r := NewRouter().Page(page).I18n(store, I18nConfig{Locales: []string{"en", "ja"}, Default: "en"})

	req := httptest.NewRequest(http.MethodGet, "/_seam/page/about", nil)
	req.Header.Set("Accept-Language", "ja")
	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `<html lang="ja"`) {
		t.Errorf("expected lang=ja attribute, got %s", body)
	}
	if !strings.Contains(body, `"_i18n"`) {
		t.Errorf("expected an _i18n data block, got %s", body)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
