/* ctr/handler_page.go */

package ctr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/loomctr/loomctr/i18n"
	"github.com/loomctr/loomctr/injector"
)

func (s *appState) makePageHandler(page *PageDef) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.servePage(w, r, page)
	}
}

func (s *appState) servePage(w http.ResponseWriter, r *http.Request, page *PageDef) {
	params := extractParams(page.Route, r)

	var locale string
	if s.i18n != nil {
		pathLocale := r.PathValue("_seam_locale")
		if pathLocale != "" && !s.localeSet[pathLocale] {
			writeError(w, http.StatusNotFound, NotFoundError("Unknown locale"))
			return
		}
		locale = ResolveLocale(r, pathLocale, s.i18n.cfg.Locales, s.i18n.cfg.Default)
	}

	tmpl := page.Template
	if locale != "" && page.LocaleTemplates != nil {
		if lt, ok := page.LocaleTemplates[locale]; ok {
			tmpl = lt
		}
	}

	ctx := r.Context()
	if locale != "" {
		ctx = context.WithValue(ctx, ctxKey{}, &RequestCtx{Locale: locale})
	}
	if s.opts.PageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.PageTimeout)
		defer cancel()
	}

	type loaderResult struct {
		key   string
		value any
		err   error
	}

	var wg sync.WaitGroup
	results := make(chan loaderResult, len(page.Loaders))

	for _, loader := range page.Loaders {
		wg.Add(1)
		go func(ld LoaderDef) {
			defer wg.Done()
			input := ld.InputFn(params)
			inputJSON, err := json.Marshal(input)
			if err != nil {
				results <- loaderResult{key: ld.DataKey, err: err}
				return
			}

			proc, ok := s.handlers[ld.Procedure]
			if !ok {
				results <- loaderResult{key: ld.DataKey, err: InternalError(fmt.Sprintf("Procedure '%s' not found", ld.Procedure))}
				return
			}

			result, err := proc.Handler(ctx, inputJSON)
			results <- loaderResult{key: ld.DataKey, value: result, err: err}
		}(loader)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	data := make(map[string]any)
	for res := range results {
		if res.err != nil {
			s.handleProcError(w, ctx, res.err, "Page loader timed out")
			return
		}
		data[res.key] = res.value
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	orderedData := make(map[string]any, len(data))
	for _, k := range keys {
		orderedData[k] = data[k]
	}

	// Flatten nested loader objects to the top level so slots like
	// <!--seam:tagline--> resolve from data shaped {page: {tagline: "..."}}.
	// The JSON round-trip normalizes Go map/struct values into map[string]any.
	rawJSON, err := json.Marshal(orderedData)
	if err != nil {
		writeError(w, http.StatusInternalServerError, InternalError("Failed to serialize page data"))
		return
	}
	var flatData map[string]any
	json.Unmarshal(rawJSON, &flatData)
	for _, v := range flatData {
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range nested {
				if _, exists := flatData[nk]; !exists {
					flatData[nk] = nv
				}
			}
		}
	}

	dataJSON, err := json.Marshal(flatData)
	if err != nil {
		writeError(w, http.StatusInternalServerError, InternalError("Failed to serialize page data"))
		return
	}

	html, err := injector.InjectNoScript(tmpl, string(dataJSON))
	if err != nil {
		writeError(w, http.StatusInternalServerError, InternalError(fmt.Sprintf("Template injection failed: %v", err)))
		return
	}

	scriptData := orderedData
	if page.LayoutID != "" {
		pageKeys := make(map[string]bool, len(page.PageLoaderKeys))
		for _, k := range page.PageLoaderKeys {
			pageKeys[k] = true
		}
		layoutData := make(map[string]any)
		pageData := make(map[string]any)
		for k, v := range orderedData {
			if pageKeys[k] {
				pageData[k] = v
			} else {
				layoutData[k] = v
			}
		}
		scriptData = pageData
		if len(layoutData) > 0 {
			scriptData["_layouts"] = map[string]any{page.LayoutID: layoutData}
		}
	}

	if s.i18n != nil && locale != "" {
		msgs, err := s.i18n.store.Messages(page.Route, locale)
		if err != nil {
			s.log.Warn("i18n message lookup failed", zap.Error(err))
			msgs = json.RawMessage("{}")
		}
		i18nData := map[string]any{
			"locale":   locale,
			"messages": i18n.FilterKeys(msgs, page.I18nKeys),
		}
		if locale != s.i18n.cfg.Default {
			fallback, err := s.i18n.store.Messages(page.Route, s.i18n.cfg.Default)
			if err == nil {
				i18nData["fallbackMessages"] = i18n.FilterKeys(fallback, page.I18nKeys)
			}
		}
		if len(s.i18n.cfg.Versions) > 0 {
			i18nData["versions"] = s.i18n.cfg.Versions
		}
		scriptData["_i18n"] = i18nData
	}

	dataID := page.DataID
	if dataID == "" {
		dataID = "__SEAM_DATA__"
	}
	scriptJSON, _ := json.Marshal(scriptData)
	escaped := injector.AsciiEscapeJSON(string(scriptJSON))
	script := fmt.Sprintf(`<script id="%s" type="application/json">%s</script>`, dataID, escaped)
	if idx := strings.LastIndex(html, "</body>"); idx != -1 {
		html = html[:idx] + script + html[idx:]
	} else {
		html += script
	}

	if locale != "" {
		html = strings.Replace(html, "<html", fmt.Sprintf(`<html lang="%s"`, locale), 1)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}
