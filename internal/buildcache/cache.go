// Package buildcache lets vuemeta skip a run whose outputs are already current.
//
// The cache is intentionally conservative: if ANY check fails, every unit is
// extracted again. There is no per-unit invalidation because a component's
// metadata depends on every file its types come from. Inputs therefore holds
// the units plus every file the programs read.
package buildcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// SchemaVersion is bumped when the cache format or the metadata format changes.
// A mismatch forces a full run, ensuring binary upgrades don't produce stale outputs.
const SchemaVersion = 1

// FileName is the cache file name inside the cache directory.
const FileName = ".vuemeta-cache"

// Cache records what was true when generation last succeeded for every unit.
type Cache struct {
	// V is the schema version. Must match SchemaVersion or cache is invalid.
	V int `json:"v"`

	// ConfigHash is the SHA-256 hex digest of the effective configuration
	// (config file content plus flags that change outputs).
	ConfigHash string `json:"configHash"`

	// Inputs maps each input file, and each file the programs read while
	// extracting them, to the digest of its content.
	Inputs map[string]string `json:"inputs"`

	// Outputs lists the absolute paths of generated files that must still
	// exist on disk for the cache to be valid.
	Outputs []string `json:"outputs"`
}

// CachePath returns the cache file path. The cache lives in outDir when one is
// configured, so deleting the output directory also drops the cache, and in
// the project root otherwise.
func CachePath(outDir, root string) string {
	if outDir != "" {
		return filepath.Join(outDir, FileName)
	}
	return filepath.Join(root, FileName)
}

// Load reads and parses a cache file from disk.
// Returns nil if the file doesn't exist, is unreadable, or is invalid JSON.
// Callers should treat nil as "cache miss" and run full generation.
func Load(path string) *Cache {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var c Cache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}
	return &c
}

// Save writes the cache to disk atomically (write to temp, rename).
// A failed save only means the next run won't benefit from caching.
func Save(path string, cache *Cache) error {
	data, err := json.Marshal(cache, json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing cache temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

// Delete removes the cache file from disk. Errors are ignored (file may not exist).
func Delete(path string) {
	os.Remove(path)
}

// IsValid checks whether the cache can be trusted to skip generation.
// ALL of the following must be true simultaneously:
//
//  1. Schema version matches (catches binary upgrades)
//  2. Config hash matches the current configuration
//  3. The input set and every input digest match
//  4. All output files still exist on disk
func (c *Cache) IsValid(configHash string, inputs map[string]string) bool {
	if c == nil {
		return false
	}
	if c.V != SchemaVersion {
		return false
	}
	if c.ConfigHash != configHash {
		return false
	}
	if !maps.Equal(c.Inputs, inputs) {
		return false
	}
	for _, path := range c.Outputs {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

// HashFile computes the SHA-256 hex digest of a file's contents.
// Returns empty string if the file doesn't exist or can't be read.
func HashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return HashBytes(data)
}

// HashBytes computes the SHA-256 hex digest of data.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// HashFiles digests every path. Unreadable files map to "" so a later
// successful read still invalidates the cache.
func HashFiles(paths []string) map[string]string {
	hashes := make(map[string]string, len(paths))
	for _, p := range paths {
		hashes[p] = HashFile(p)
	}
	return hashes
}

// New creates a new Cache with the current schema version.
func New(configHash string, inputs map[string]string, outputs []string) *Cache {
	return &Cache{
		V:          SchemaVersion,
		ConfigHash: configHash,
		Inputs:     inputs,
		Outputs:    outputs,
	}
}
