/* ctr/resolve.go */

package ctr

import (
	"net/http"

	"golang.org/x/text/language"
)

// ResolveLocale determines the content locale for a request, trying in
// order: the path-embedded locale, the "seam-locale" cookie, the
// Accept-Language header (BCP-47 matched against the known locale list),
// then the default locale.
func ResolveLocale(r *http.Request, pathLocale string, locales []string, defaultLocale string) string {
	if pathLocale != "" {
		return pathLocale
	}

	localeSet := make(map[string]bool, len(locales))
	for _, l := range locales {
		localeSet[l] = true
	}

	if cookie, err := r.Cookie("seam-locale"); err == nil && cookie.Value != "" {
		if localeSet[cookie.Value] {
			return cookie.Value
		}
	}

	if header := r.Header.Get("Accept-Language"); header != "" {
		if loc := matchAcceptLanguage(header, locales, defaultLocale); loc != "" {
			return loc
		}
	}

	return defaultLocale
}

// matchAcceptLanguage parses an Accept-Language header per BCP-47 and
// matches it against the supported locale tags. It returns "" when the
// header is unparseable or matches nothing usable, and ResolveLocale then
// falls back to the default.
func matchAcceptLanguage(header string, locales []string, defaultLocale string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}

	supported := make([]language.Tag, 0, len(locales))
	for _, l := range locales {
		tag, err := language.Parse(l)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
	}
	if len(supported) == 0 {
		return ""
	}

	matcher := language.NewMatcher(supported)
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return ""
	}
	return locales[idx]
}
