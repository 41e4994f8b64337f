/* ctr/resolve_test.go */

package ctr

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveLocalePathLocaleWins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ja/about", nil)
	req.Header.Set("Accept-Language", "en")
	got := ResolveLocale(req, "ja", []string{"en", "ja"}, "en")
	if got != "ja" {
		t.Errorf("got %q, want ja", got)
	}
}

func TestResolveLocaleCookieWins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	req.AddCookie(&http.Cookie{Name: "seam-locale", Value: "ja"})
	got := ResolveLocale(req, "", []string{"en", "ja"}, "en")
	if got != "ja" {
		t.Errorf("got %q, want ja", got)
	}
}

func TestResolveLocaleCookieUnsupportedFallsThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	req.AddCookie(&http.Cookie{Name: "seam-locale", Value: "fr"})
	got := ResolveLocale(req, "", []string{"en", "ja"}, "en")
	if got != "en" {
		t.Errorf("got %q, want en", got)
	}
}

func TestResolveLocaleAcceptLanguageHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	req.Header.Set("Accept-Language", "ja-JP,ja;q=0.9,en;q=0.1")
	got := ResolveLocale(req, "", []string{"en", "ja"}, "en")
	if got != "ja" {
		t.Errorf("got %q, want ja", got)
	}
}

func TestResolveLocaleDefaultFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	got := ResolveLocale(req, "", []string{"en", "ja"}, "en")
	if got != "en" {
		t.Errorf("got %q, want en", got)
	}
}
