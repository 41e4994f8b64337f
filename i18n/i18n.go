/* i18n/i18n.go */

// Package i18n loads and serves per-locale, per-route message bundles in
// either memory mode (one JSON file per locale, keyed by route hash) or
// paged mode (one JSON file per route-hash/locale pair, read on demand and
// cached behind a bounded LRU).
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/loomctr/loomctr/rpchash"
)

// Mode selects how message bundles are stored on disk.
type Mode string

const (
	ModeMemory Mode = "memory"
	ModePaged  Mode = "paged"
)

// Config mirrors the route manifest's `i18n` block.
type Config struct {
	Locales       []string
	Default       string
	Mode          Mode
	Cache         bool
	RouteHashes   map[string]string // route pattern -> route hash
	ContentHashes map[string]string // locale -> content hash (cache-bust version)
}

type cacheKey struct {
	routeHash string
	locale    string
}

// Store serves message lookups for a loaded i18n configuration.
type Store struct {
	cfg   Config
	dir   string
	mem   map[string]map[string]json.RawMessage // locale -> routeHash -> messages
	cache *lru.Cache[cacheKey, json.RawMessage]
}

// defaultPagedCacheSize bounds paged-mode memory use to a few hundred
// recently-served (route, locale) pairs.
const defaultPagedCacheSize = 512

// Load reads a store for the given build output directory and config.
// Memory mode eagerly loads every locale file; paged mode loads nothing
// up front and optionally wires a bounded LRU when cfg.Cache is set.
func Load(dir string, cfg Config) (*Store, error) {
	s := &Store{cfg: cfg, dir: dir}

	if cfg.Mode == ModePaged {
		if cfg.Cache {
			c, err := lru.New[cacheKey, json.RawMessage](defaultPagedCacheSize)
			if err != nil {
				return nil, fmt.Errorf("i18n: create cache: %w", err)
			}
			s.cache = c
		}
		return s, nil
	}

	s.mem = make(map[string]map[string]json.RawMessage, len(cfg.Locales))
	for _, locale := range cfg.Locales {
		path := filepath.Join(dir, "i18n", locale+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", path, err)
		}
		var byRoute map[string]json.RawMessage
		if err := json.Unmarshal(data, &byRoute); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", path, err)
		}
		s.mem[locale] = byRoute
	}
	return s, nil
}

// Messages returns the raw messages JSON for a route pattern and locale.
func (s *Store) Messages(routePattern, locale string) (json.RawMessage, error) {
	routeHash, ok := s.cfg.RouteHashes[routePattern]
	if !ok {
		routeHash = rpchash.RouteHash(routePattern)
	}

	if s.cfg.Mode == ModeMemory {
		byRoute, ok := s.mem[locale]
		if !ok {
			return nil, fmt.Errorf("i18n: unknown locale %q", locale)
		}
		msgs, ok := byRoute[routeHash]
		if !ok {
			return json.RawMessage("{}"), nil
		}
		return msgs, nil
	}

	key := cacheKey{routeHash: routeHash, locale: locale}
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v, nil
		}
	}

	path := filepath.Join(s.dir, "i18n", routeHash, locale+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return json.RawMessage("{}"), nil
		}
		return nil, fmt.Errorf("i18n: read %s: %w", path, err)
	}
	if s.cache != nil {
		s.cache.Add(key, json.RawMessage(data))
	}
	return json.RawMessage(data), nil
}

// FilterKeys restricts a messages JSON blob to a key subset, used to trim
// a page's hydration payload down to the i18n keys it actually declared.
// An empty keys slice means "keep everything".
func FilterKeys(messages json.RawMessage, keys []string) json.RawMessage {
	if len(keys) == 0 {
		return messages
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(messages, &all); err != nil {
		return messages
	}
	filtered := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := all[k]; ok {
			filtered[k] = v
		}
	}
	out, err := json.Marshal(filtered)
	if err != nil {
		return messages
	}
	return json.RawMessage(out)
}
