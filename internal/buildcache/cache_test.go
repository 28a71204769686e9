package buildcache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCachePath(t *testing.T) {
	tests := []struct {
		outDir string
		root   string
		want   string
	}{
		{"", "/project", "/project/.vuemeta-cache"},
		{"/project/meta", "/project", "/project/meta/.vuemeta-cache"},
		{"", "/", "/.vuemeta-cache"},
	}

	for _, tt := range tests {
		got := CachePath(tt.outDir, tt.root)
		if got != tt.want {
			t.Errorf("CachePath(%q, %q) = %q, want %q", tt.outDir, tt.root, got, tt.want)
		}
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()

	path1 := filepath.Join(dir, "a.vue")
	os.WriteFile(path1, []byte("<script>export default {}</script>"), 0o644)
	hash1 := HashFile(path1)
	if len(hash1) != 64 {
		t.Fatalf("hash length = %d, want 64", len(hash1))
	}

	if hash1 != HashBytes([]byte("<script>export default {}</script>")) {
		t.Error("HashFile and HashBytes disagree on the same content")
	}

	path2 := filepath.Join(dir, "b.vue")
	os.WriteFile(path2, []byte("<script>export default {} </script>"), 0o644)
	if hash1 == HashFile(path2) {
		t.Error("different content produced same hash")
	}

	if got := HashFile(filepath.Join(dir, "nonexistent")); got != "" {
		t.Errorf("HashFile returned %q for non-existent file, want empty", got)
	}
}

func TestHashFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "Button.ts")
	missing := filepath.Join(dir, "Missing.ts")
	os.WriteFile(existing, []byte("export default {}"), 0o644)

	hashes := HashFiles([]string{existing, missing})
	if len(hashes) != 2 {
		t.Fatalf("got %d hashes, want 2", len(hashes))
	}
	if hashes[existing] == "" {
		t.Error("existing file should have a digest")
	}
	if h, ok := hashes[missing]; !ok || h != "" {
		t.Errorf("missing file should map to empty digest, got %q (present=%v)", h, ok)
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, FileName)

	if c := Load(cachePath); c != nil {
		t.Fatal("Load should return nil for non-existent file")
	}

	original := New("abc123",
		map[string]string{"/src/Button.vue": "h1", "/src/Card.ts": "h2"},
		[]string{"/src/Button.json", "/src/Card.json"})
	if err := Save(cachePath, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Load(cachePath)
	if loaded == nil {
		t.Fatal("Load returned nil after Save")
	}
	if loaded.V != original.V {
		t.Errorf("V = %d, want %d", loaded.V, original.V)
	}
	if loaded.ConfigHash != original.ConfigHash {
		t.Errorf("ConfigHash = %q, want %q", loaded.ConfigHash, original.ConfigHash)
	}
	if len(loaded.Inputs) != 2 || loaded.Inputs["/src/Card.ts"] != "h2" {
		t.Errorf("Inputs = %v", loaded.Inputs)
	}
	if len(loaded.Outputs) != len(original.Outputs) {
		t.Fatalf("Outputs length = %d, want %d", len(loaded.Outputs), len(original.Outputs))
	}
	for i, o := range loaded.Outputs {
		if o != original.Outputs[i] {
			t.Errorf("Outputs[%d] = %q, want %q", i, o, original.Outputs[i])
		}
	}
}

func TestLoadCorruptedFile(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), FileName)
	os.WriteFile(cachePath, []byte("not json at all {{{"), 0o644)

	if c := Load(cachePath); c != nil {
		t.Fatal("Load should return nil for corrupted JSON")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), FileName)
	os.WriteFile(cachePath, []byte(""), 0o644)

	if c := Load(cachePath); c != nil {
		t.Fatal("Load should return nil for empty file")
	}
}

func TestIsValid_NilCache(t *testing.T) {
	var c *Cache
	if c.IsValid("anything", nil) {
		t.Error("nil cache should not be valid")
	}
}

func TestIsValid_SchemaVersionMismatch(t *testing.T) {
	c := &Cache{V: SchemaVersion + 1, ConfigHash: "abc"}
	if c.IsValid("abc", nil) {
		t.Error("cache with wrong schema version should not be valid")
	}
}

func TestIsValid_ConfigHashMismatch(t *testing.T) {
	c := &Cache{V: SchemaVersion, ConfigHash: "old-hash"}
	if c.IsValid("new-hash", nil) {
		t.Error("cache with mismatched config hash should not be valid")
	}
}

func TestIsValid_InputsChanged(t *testing.T) {
	c := New("abc", map[string]string{"/a.vue": "1", "/b.vue": "2"}, nil)

	if !c.IsValid("abc", map[string]string{"/a.vue": "1", "/b.vue": "2"}) {
		t.Error("identical inputs should be valid")
	}
	if c.IsValid("abc", map[string]string{"/a.vue": "1", "/b.vue": "3"}) {
		t.Error("changed digest should not be valid")
	}
	if c.IsValid("abc", map[string]string{"/a.vue": "1"}) {
		t.Error("removed input should not be valid")
	}
	if c.IsValid("abc", map[string]string{"/a.vue": "1", "/b.vue": "2", "/c.vue": "4"}) {
		t.Error("added input should not be valid")
	}
}

func TestIsValid_OutputFileMissing(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "Button.json")
	os.WriteFile(existing, []byte("{}"), 0o644)

	c := New("abc", nil, []string{existing, filepath.Join(dir, "Card.json")})
	if c.IsValid("abc", nil) {
		t.Error("cache with missing output file should not be valid")
	}
}

func TestIsValid_EmptyConfigHash(t *testing.T) {
	c := New("", nil, nil)
	if !c.IsValid("", nil) {
		t.Error("cache with empty config hash should be valid when current is also empty")
	}
	if c.IsValid("now-has-config", nil) {
		t.Error("cache with empty config hash should be invalid when config is now present")
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, FileName)

	os.WriteFile(cachePath, []byte(`{"v":1}`), 0o644)
	Delete(cachePath)
	if _, err := os.Stat(cachePath); !os.IsNotExist(err) {
		t.Error("cache file should not exist after delete")
	}

	// Deleting a missing file is a no-op.
	Delete(filepath.Join(dir, "nonexistent"))
}

func TestSaveAtomicity(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), FileName)

	if err := Save(cachePath, New("hash", nil, nil)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(cachePath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not exist after successful save")
	}
	if Load(cachePath) == nil {
		t.Fatal("failed to load after atomic save")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "meta", "nested", FileName)

	if err := Save(nestedPath, New("hash", nil, nil)); err != nil {
		t.Fatalf("Save failed to create nested dirs: %v", err)
	}
	if Load(nestedPath) == nil {
		t.Fatal("failed to load from nested directory")
	}
}

func TestRoundTripWithRealFiles(t *testing.T) {
	dir := t.TempDir()

	input := filepath.Join(dir, "Button.vue")
	os.WriteFile(input, []byte(`<script lang="ts">export default {}</script>`), 0o644)
	output := filepath.Join(dir, "Button.json")
	os.WriteFile(output, []byte(`{"props":[],"emits":[]}`), 0o644)

	configHash := HashBytes([]byte(`{"jobs":1}`))
	inputs := HashFiles([]string{input})

	cachePath := CachePath("", dir)
	if err := Save(cachePath, New(configHash, inputs, []string{output})); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Load(cachePath)
	if !loaded.IsValid(configHash, HashFiles([]string{input})) {
		t.Error("cache should be valid when nothing changed")
	}

	os.WriteFile(input, []byte(`<script lang="ts">export default { name: "B" }</script>`), 0o644)
	if loaded.IsValid(configHash, HashFiles([]string{input})) {
		t.Error("cache should be invalid when an input changed")
	}

	os.Remove(output)
	if loaded.IsValid(configHash, inputs) {
		t.Error("cache should be invalid when output file deleted")
	}
}
