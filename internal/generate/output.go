package generate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/tsgonest/vuemeta/internal/metadata"
)

// OutputPath maps an input to its JSON document: the input's extension is
// replaced by ".json". With outDir set, the root-relative path is mirrored
// under outDir; inputs outside root keep only their base name.
func OutputPath(input, root, outDir string) string {
	out := strings.TrimSuffix(input, filepath.Ext(input)) + ".json"
	if outDir == "" {
		return out
	}
	rel, err := filepath.Rel(root, out)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(out)
	}
	return filepath.Join(outDir, rel)
}

// Encode renders a result as a 2-space indented document with a trailing
// newline.
func Encode(result metadata.Result) ([]byte, error) {
	return encode(result)
}

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v, jsontext.WithIndentPrefix(""), jsontext.WithIndent("  "))
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// stdoutEntry is one element of the --stdout array.
type stdoutEntry struct {
	File   string          `json:"file"`
	Result metadata.Result `json:"result"`
}

// writeStdout prints the successful units as one JSON array, in input order.
func writeStdout(w io.Writer, root string, units []UnitResult) error {
	entries := make([]stdoutEntry, 0, len(units))
	for _, u := range units {
		if u.Err != nil {
			continue
		}
		entries = append(entries, stdoutEntry{File: displayPath(root, u.Input), Result: u.Result})
	}
	data, err := encode(entries)
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// writeFile writes data to path atomically (write to temp, rename).
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}

// displayPath is path relative to root in slash form, or path itself when it
// lies outside root.
func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
