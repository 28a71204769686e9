// Package testutil provides test utilities for vuemeta: in-memory projects
// built from txtar fixtures and a minimal "vue" type package.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/microsoft/typescript-go/shim/bundled"
	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/microsoft/typescript-go/shim/vfs/osvfs"
	"golang.org/x/tools/txtar"

	"github.com/tsgonest/vuemeta/internal/compiler"
)

// NewDefaultOverlayVFS creates an overlay with virtual files on top of the
// bundled OS filesystem (includes TypeScript lib files).
func NewDefaultOverlayVFS(virtualFiles map[string]string) *compiler.OverlayFS {
	return compiler.NewOverlayFS(bundled.WrapFS(osvfs.FS()), virtualFiles)
}

// Files maps absolute paths to contents.
type Files map[string]string

// ParseFixture parses a txtar archive and places its files under root.
func ParseFixture(root string, data []byte) Files {
	archive := txtar.Parse(data)
	files := make(Files, len(archive.Files))
	for _, f := range archive.Files {
		files[tspath.CombinePaths(root, f.Name)] = string(f.Data)
	}
	return files
}

// LoadFixture reads testdata/<name>.txtar relative to the calling test's
// package directory and places its files under root.
func LoadFixture(t *testing.T, root, name string) Files {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name+".txtar"))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return ParseFixture(root, data)
}

// WithVue adds the minimal vue type package under root/node_modules/vue.
func (f Files) WithVue(root string) Files {
	f[tspath.CombinePaths(root, "node_modules/vue/package.json")] = vuePackageJSON
	f[tspath.CombinePaths(root, "node_modules/vue/index.d.ts")] = VueTypes
	return f
}

// Root returns a normalized temporary project root for t.
func Root(t *testing.T) string {
	t.Helper()
	return tspath.NormalizePath(filepath.ToSlash(t.TempDir()))
}

// WriteFiles writes files to disk, creating parent directories.
func WriteFiles(t *testing.T, files Files) {
	t.Helper()
	for path, text := range files {
		native := filepath.FromSlash(path)
		if err := os.MkdirAll(filepath.Dir(native), 0o755); err != nil {
			t.Fatalf("creating %s: %v", filepath.Dir(native), err)
		}
		if err := os.WriteFile(native, []byte(text), 0o644); err != nil {
			t.Fatalf("writing %s: %v", native, err)
		}
	}
}
