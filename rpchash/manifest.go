/* rpchash/manifest.go */

package rpchash

// Manifest is the build-time RPC manifest: one entry per procedure or
// subscription, serialized in stable key order because Go's encoding/json
// sorts map[string]T keys at marshal time.
type Manifest struct {
	Version    string                     `json:"version"`
	Procedures map[string]ManifestEntry   `json:"procedures"`
	Channels   map[string]ManifestEntry   `json:"channels,omitempty"`
}

// ManifestEntry describes a single dispatchable operation's schema.
type ManifestEntry struct {
	Type   string `json:"type"` // "query" | "subscription"
	Input  any    `json:"input"`
	Output any    `json:"output"`
	Error  any    `json:"error,omitempty"`
}

// LoadRpcHashMap and friends live in ctr/build_loader.go, which owns
// reading rpc-hash-map.json off disk — this package only computes the
// map and defines its shape.
