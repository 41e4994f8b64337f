/* ctr/build_loader.go */

// Loading page definitions from build output on disk: reads
// route-manifest.json, resolves layout chains, loads templates, and
// constructs PageDef values with their bound loaders.

package ctr

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/loomctr/loomctr/i18n"
	"github.com/loomctr/loomctr/rpchash"
)

type routeManifest struct {
	Layouts map[string]layoutEntry `json:"layouts"`
	Routes  map[string]routeEntry  `json:"routes"`
	DataID  string                 `json:"data_id"`
	I18n    *i18nManifestEntry     `json:"i18n"`
}

type i18nManifestEntry struct {
	Locales []string `json:"locales"`
	Default string   `json:"default"`
	Mode    string   `json:"mode"`
	Cache   bool     `json:"cache"`
}

type layoutEntry struct {
	Template  string            `json:"template"`
	Templates map[string]string `json:"templates"`
	Loaders   json.RawMessage   `json:"loaders"`
	Parent    string            `json:"parent"`
}

type routeEntry struct {
	Template  string            `json:"template"`
	Templates map[string]string `json:"templates"`
	Layout    string            `json:"layout"`
	Loaders   json.RawMessage   `json:"loaders"`
	HeadMeta  string            `json:"head_meta"`
	I18nKeys  []string          `json:"i18n_keys"`
}

// pickTemplate prefers the singular "template" path, falls back to the
// default locale's entry in "templates", then any first value present.
func pickTemplate(single string, multi map[string]string, defaultLocale string) string {
	if single != "" {
		return single
	}
	if multi != nil {
		if defaultLocale != "" {
			if t, ok := multi[defaultLocale]; ok {
				return t
			}
		}
		for _, t := range multi {
			return t
		}
	}
	return ""
}

type loaderConfig struct {
	Procedure string                     `json:"procedure"`
	Params    map[string]loaderParamConf `json:"params"`
}

type loaderParamConf struct {
	From string `json:"from"` // "route" | "static"
	Type string `json:"type"` // "string" | "int" | "float" (default "string")
	Value any    `json:"value"`
}

func parseLoaders(raw json.RawMessage) []LoaderDef {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var obj map[string]loaderConfig
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}

	loaders := make([]LoaderDef, 0, len(obj))
	for dataKey, cfg := range obj {
		loaders = append(loaders, LoaderDef{
			DataKey:   dataKey,
			Procedure: cfg.Procedure,
			InputFn:   buildInputFn(cfg.Params),
		})
	}
	return loaders
}

// buildInputFn builds a loader's input object from route params, coercing
// each param to its declared type. "route" params with type "int"/"float"
// are parsed from the string path segment; unparseable values fall back
// to the raw string rather than erroring, since loader handlers validate
// their own input.
func buildInputFn(params map[string]loaderParamConf) func(map[string]string) any {
	return func(routeParams map[string]string) any {
		obj := make(map[string]any, len(params))
		for key, cfg := range params {
			switch cfg.From {
			case "static":
				obj[key] = cfg.Value
			case "route":
				raw := routeParams[key]
				obj[key] = coerceParam(raw, cfg.Type)
			default:
				obj[key] = routeParams[key]
			}
		}
		return obj
	}
}

func coerceParam(raw, typ string) any {
	switch typ {
	case "int":
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v
		}
		return raw
	case "float":
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
		return raw
	default:
		return raw
	}
}

type layoutResolved struct {
	template string
	parent   string
}

func resolveLayoutChain(layoutID, pageTemplate string, layouts map[string]layoutResolved) string {
	result := pageTemplate
	current := layoutID
	for current != "" {
		lr, ok := layouts[current]
		if !ok {
			break
		}
		result = strings.Replace(lr.template, "<!--seam:outlet-->", result, 1)
		current = lr.parent
	}
	return result
}

// LoadRpcHashMap loads the RPC hash map from build output, returning nil
// when the file is absent (obfuscation disabled).
func LoadRpcHashMap(dir string) *rpchash.Map {
	data, err := os.ReadFile(filepath.Join(dir, "rpc-hash-map.json"))
	if err != nil {
		return nil
	}
	var m rpchash.Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return &m
}

// LoadI18n loads the i18n store described by the route manifest's i18n
// block, returning a nil store, a zero I18nConfig and a nil error when
// i18n is not configured for this build.
func LoadI18n(dir string) (*i18n.Store, I18nConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, "route-manifest.json"))
	if err != nil {
		return nil, I18nConfig{}, fmt.Errorf("read route-manifest.json: %w", err)
	}
	var manifest routeManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, I18nConfig{}, fmt.Errorf("parse route-manifest.json: %w", err)
	}
	if manifest.I18n == nil {
		return nil, I18nConfig{}, nil
	}

	mode := i18n.ModeMemory
	if manifest.I18n.Mode == "paged" {
		mode = i18n.ModePaged
	}

	routeHashes := make(map[string]string, len(manifest.Routes))
	for pattern := range manifest.Routes {
		routeHashes[pattern] = rpchash.RouteHash(pattern)
	}

	cfg := i18n.Config{
		Locales:     manifest.I18n.Locales,
		Default:     manifest.I18n.Default,
		Mode:        mode,
		Cache:       manifest.I18n.Cache,
		RouteHashes: routeHashes,
	}

	store, err := i18n.Load(dir, cfg)
	if err != nil {
		return nil, I18nConfig{}, err
	}

	// Memory-mode locale files are loaded whole, so their own bytes make a
	// stable cache-busting fingerprint. Paged mode has no single file per
	// locale to hash, so versions are left empty there.
	versions := make(map[string]string, len(manifest.I18n.Locales))
	if mode == i18n.ModeMemory {
		for _, locale := range manifest.I18n.Locales {
			if raw, err := os.ReadFile(filepath.Join(dir, "i18n", locale+".json")); err == nil {
				versions[locale] = rpchash.ContentHash(string(raw))
			}
		}
	}

	return store, I18nConfig{
		Locales:     manifest.I18n.Locales,
		Default:     manifest.I18n.Default,
		RouteHashes: routeHashes,
		Versions:    versions,
	}, nil
}

// LoadBuildOutput loads page definitions from build output on disk.
func LoadBuildOutput(dir string) ([]PageDef, error) {
	manifestPath := filepath.Join(dir, "route-manifest.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read route-manifest.json: %w", err)
	}

	var manifest routeManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse route-manifest.json: %w", err)
	}

	defaultLocale := ""
	if manifest.I18n != nil {
		defaultLocale = manifest.I18n.Default
	}

	layouts := make(map[string]layoutResolved)
	for id, entry := range manifest.Layouts {
		tmplPath := pickTemplate(entry.Template, entry.Templates, defaultLocale)
		if tmplPath == "" {
			continue
		}
		tmplBytes, err := os.ReadFile(filepath.Join(dir, tmplPath))
		if err != nil {
			return nil, fmt.Errorf("read layout template %s: %w", tmplPath, err)
		}
		layouts[id] = layoutResolved{template: string(tmplBytes), parent: entry.Parent}
	}

	var pages []PageDef

	for routePath, entry := range manifest.Routes {
		tmplPath := pickTemplate(entry.Template, entry.Templates, defaultLocale)
		if tmplPath == "" {
			continue
		}
		tmplBytes, err := os.ReadFile(filepath.Join(dir, tmplPath))
		if err != nil {
			return nil, fmt.Errorf("read route template %s: %w", tmplPath, err)
		}
		pageTemplate := string(tmplBytes)

		template := pageTemplate
		if entry.Layout != "" {
			template = resolveLayoutChain(entry.Layout, pageTemplate, layouts)
			if entry.HeadMeta != "" {
				template = strings.Replace(template, "</head>", entry.HeadMeta+"</head>", 1)
			}
		}

		var allLoaders []LoaderDef
		var layoutChain []LayoutChainEntry
		if entry.Layout != "" {
			current := entry.Layout
			for current != "" {
				le, ok := manifest.Layouts[current]
				if !ok {
					break
				}
				layoutLoaders := parseLoaders(le.Loaders)
				keys := make([]string, 0, len(layoutLoaders))
				for _, ld := range layoutLoaders {
					keys = append(keys, ld.DataKey)
				}
				layoutChain = append([]LayoutChainEntry{{ID: current, LoaderKeys: keys}}, layoutChain...)
				allLoaders = append(allLoaders, layoutLoaders...)
				current = le.Parent
			}
		}
		pageLoaders := parseLoaders(entry.Loaders)
		pageLoaderKeys := make([]string, 0, len(pageLoaders))
		for _, ld := range pageLoaders {
			pageLoaderKeys = append(pageLoaderKeys, ld.DataKey)
		}
		allLoaders = append(allLoaders, pageLoaders...)

		dataID := manifest.DataID
		if dataID == "" {
			dataID = "__SEAM_DATA__"
		}

		pages = append(pages, PageDef{
			Route:          routePath,
			Template:       template,
			Loaders:        allLoaders,
			DataID:         dataID,
			LayoutID:       entry.Layout,
			LayoutChain:    layoutChain,
			PageLoaderKeys: pageLoaderKeys,
			I18nKeys:       entry.I18nKeys,
		})
	}

	return pages, nil
}
