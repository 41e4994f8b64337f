/* rpchash/hash.go */

package rpchash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// batchName is the synthetic endpoint name bijected alongside every real
// procedure name.
const batchName = "_batch"

const maxSaltAttempts = 100

// Map is the persisted rpc-hash-map.json shape: a salt, the batch
// endpoint's hash, and the procedure name -> hash dictionary.
type Map struct {
	Salt       string            `json:"salt"`
	Batch      string            `json:"batch"`
	Procedures map[string]string `json:"procedures"`
}

// ReverseLookup builds the hash -> original-name map used by the RPC
// dispatcher to resolve an inbound obfuscated name.
func (m *Map) ReverseLookup() map[string]string {
	rev := make(map[string]string, len(m.Procedures))
	for name, hash := range m.Procedures {
		rev[hash] = name
	}
	return rev
}

// Options configures hash length and prefixing.
type Options struct {
	Length   int  // hex characters taken from the SHA-256 digest, default 12
	TypeHint bool // when true, hashes are prefixed "rpc-"
}

// GenerateRandomSalt produces 16 hex characters of CSPRNG entropy (a
// truncated UUID) suitable as a starting salt.
func GenerateRandomSalt() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:16]
}

// Generate computes a collision-free hash for every procedure name plus
// the synthetic batch endpoint. On collision it perturbs the salt by
// appending the attempt counter and retries, up to maxSaltAttempts times;
// a persistent collision is a validation error, not a panic.
func Generate(names []string, salt string, opts Options) (*Map, error) {
	length := opts.Length
	if length <= 0 {
		length = 12
	}
	prefix := ""
	if opts.TypeHint {
		prefix = "rpc-"
	}

	all := append([]string{batchName}, names...)

	for attempt := 0; attempt < maxSaltAttempts; attempt++ {
		trySalt := salt
		if attempt > 0 {
			trySalt = fmt.Sprintf("%s%d", salt, attempt)
		}
		hashes := make(map[string]string, len(all))
		seen := make(map[string]bool, len(all))
		collided := false
		for _, name := range all {
			h := hashOne(name, trySalt, length, prefix)
			if seen[h] {
				collided = true
				break
			}
			seen[h] = true
			hashes[name] = h
		}
		if collided {
			continue
		}

		procedures := make(map[string]string, len(names))
		for _, n := range names {
			procedures[n] = hashes[n]
		}
		return &Map{Salt: trySalt, Batch: hashes[batchName], Procedures: procedures}, nil
	}

	return nil, fmt.Errorf("rpchash: exhausted %d salt perturbations without a collision-free map", maxSaltAttempts)
}

func hashOne(name, salt string, length int, prefix string) string {
	sum := sha256.Sum256([]byte(name + salt))
	full := hex.EncodeToString(sum[:])
	if length > len(full) {
		length = len(full)
	}
	return prefix + full[:length]
}
