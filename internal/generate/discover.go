package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// sourceExtensions are the inputs vuemeta accepts.
var sourceExtensions = []string{".vue", ".ts", ".tsx", ".mts", ".cts"}

// IsSource reports whether path is a component or TypeScript module.
// Declaration files are never units.
func IsSource(path string) bool {
	for _, dts := range []string{".d.ts", ".d.mts", ".d.cts"} {
		if strings.HasSuffix(path, dts) {
			return false
		}
	}
	return slices.Contains(sourceExtensions, filepath.Ext(path))
}

// Discover expands patterns into absolute input paths. A pattern is a file, a
// directory (searched recursively) or a doublestar glob; relative patterns
// resolve against root. Matches under node_modules and matches of any
// exclude pattern are dropped. Order follows patterns, then lexical order
// within one pattern, without duplicates.
func Discover(root string, patterns, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		abs := pattern
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(root, pattern)
		}

		var matches []string
		if isGlob(pattern) {
			var err error
			matches, err = doublestar.FilepathGlob(abs, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
			}
		} else {
			info, err := os.Stat(abs)
			if err != nil {
				return nil, fmt.Errorf("input %q: %w", pattern, err)
			}
			if info.IsDir() {
				matches, err = doublestar.FilepathGlob(filepath.Join(abs, "**", "*"), doublestar.WithFilesOnly())
				if err != nil {
					return nil, fmt.Errorf("listing %q: %w", pattern, err)
				}
			} else if !IsSource(abs) {
				return nil, fmt.Errorf("input %q: unsupported file type", pattern)
			} else {
				matches = []string{abs}
			}
		}
		slices.Sort(matches)

		for _, m := range matches {
			m = filepath.Clean(m)
			if seen[m] || !IsSource(m) || inNodeModules(m) || Excluded(root, m, exclude) {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	return files, nil
}

// Excluded reports whether path matches any exclude pattern. Relative
// patterns match the root-relative slash path, absolute ones the full path.
func Excluded(root, path string, exclude []string) bool {
	slashPath := filepath.ToSlash(path)
	rel := slashPath
	if r, err := filepath.Rel(root, path); err == nil {
		rel = filepath.ToSlash(r)
	}

	for _, pattern := range exclude {
		pattern = filepath.ToSlash(pattern)
		target := rel
		if strings.HasPrefix(pattern, "/") {
			target = slashPath
		}
		if ok, _ := doublestar.Match(pattern, target); ok {
			return true
		}
	}
	return false
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func inNodeModules(path string) bool {
	return slices.Contains(strings.Split(filepath.ToSlash(path), "/"), "node_modules")
}
