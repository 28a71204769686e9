package generate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
}

func TestIsSource(t *testing.T) {
	for path, want := range map[string]bool{
		"Button.vue":   true,
		"card.ts":      true,
		"card.tsx":     true,
		"card.mts":     true,
		"card.cts":     true,
		"env.d.ts":     false,
		"env.d.mts":    false,
		"script.js":    false,
		"Button.json":  false,
		"Button.vue.x": false,
	} {
		assert.Equal(t, want, IsSource(path), path)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"src/b/Card.vue",
		"src/a/Button.vue",
		"src/a/Button.json",
		"src/a/button.spec.ts",
		"src/a/helpers.ts",
		"src/env.d.ts",
		"node_modules/lib/Thing.vue",
	)

	t.Run("glob in lexical order", func(t *testing.T) {
		files, err := Discover(root, []string{"src/**/*.vue"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "src", "a", "Button.vue"),
			filepath.Join(root, "src", "b", "Card.vue"),
		}, files)
	})

	t.Run("directory with excludes", func(t *testing.T) {
		files, err := Discover(root, []string{"."}, []string{"**/*.spec.ts"})
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "src", "a", "Button.vue"),
			filepath.Join(root, "src", "a", "helpers.ts"),
			filepath.Join(root, "src", "b", "Card.vue"),
		}, files)
	})

	t.Run("pattern order and duplicates", func(t *testing.T) {
		files, err := Discover(root, []string{"src/b/Card.vue", "src/**/*.vue"}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "src", "b", "Card.vue"),
			filepath.Join(root, "src", "a", "Button.vue"),
		}, files)
	})

	t.Run("absolute patterns", func(t *testing.T) {
		files, err := Discover("/elsewhere", []string{filepath.Join(root, "src", "a", "*.ts")},
			[]string{filepath.ToSlash(filepath.Join(root, "src", "a", "*.spec.ts"))})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "src", "a", "helpers.ts")}, files)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := Discover(root, []string{"src/missing.vue"}, nil)
		assert.Error(t, err)

		_, err = Discover(root, []string{"src/a/Button.json"}, nil)
		assert.ErrorContains(t, err, "unsupported file type")

		_, err = Discover(root, []string{"src/[.vue"}, nil)
		assert.Error(t, err)
	})
}

func TestExcluded(t *testing.T) {
	root := filepath.FromSlash("/project")
	path := filepath.Join(root, "src", "legacy", "Old.vue")

	assert.True(t, Excluded(root, path, []string{"src/legacy/**"}))
	assert.True(t, Excluded(root, path, []string{"**/Old.vue"}))
	assert.True(t, Excluded(root, path, []string{"/project/src/**/*.vue"}))
	assert.False(t, Excluded(root, path, []string{"legacy/**"}))
	assert.False(t, Excluded(root, path, nil))
}
