// Package sfc extracts the script blocks of Vue single-file components so
// they can be analyzed as plain TypeScript.
package sfc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Extension of single-file components.
const Extension = ".vue"

// Block is one top-level <script> block.
type Block struct {
	// Content is the exact source between the opening and closing tags.
	Content string
	// Start and End are byte offsets of Content in the decoded source.
	Start int
	End   int
	// Lang is the lang attribute, e.g. "ts"; empty when absent.
	Lang  string
	Setup bool
}

// Descriptor holds the script blocks of one component.
type Descriptor struct {
	Filename    string
	Script      *Block
	ScriptSetup *Block
}

// ScriptText joins the blocks the way they are presented to the checker:
// the <script> content, then a newline and the <script setup> content.
func (d *Descriptor) ScriptText() string {
	var b strings.Builder
	if d.Script != nil {
		b.WriteString(d.Script.Content)
	}
	if d.ScriptSetup != nil {
		b.WriteByte('\n')
		b.WriteString(d.ScriptSetup.Content)
	}
	return b.String()
}

// UnitFileName is the virtual TypeScript file name of a component's script.
func UnitFileName(path string) string {
	return path + ".ts"
}

// IsComponent reports whether path names a single-file component.
func IsComponent(path string) bool {
	return strings.HasSuffix(path, Extension)
}

// voidElements never have a closing tag and do not open a block.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Decode converts raw file bytes to UTF-8, honoring UTF-8 and UTF-16 byte
// order marks. The BOM itself is dropped.
func Decode(raw []byte) ([]byte, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return nil, fmt.Errorf("decoding source: %w", err)
	}
	return out, nil
}

// Parse finds the top-level <script> and <script setup> blocks of src.
// Missing blocks are left nil. Other top-level blocks are skipped without
// tokenizing their content; only an HTML <template> counts nested
// <template> tags while looking for its end.
func Parse(filename string, src []byte) (*Descriptor, error) {
	d := &Descriptor{Filename: filename}
	z := html.NewTokenizer(bytes.NewReader(src))

	var (
		offset int
		cur    *Block
	)
	for {
		tt := z.Next()
		tokenStart := offset
		offset += len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				return nil, fmt.Errorf("%s: %w", filename, z.Err())
			}
			if cur != nil {
				return nil, fmt.Errorf("%s: unclosed <script> block", filename)
			}
			return d, nil

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			var setup bool
			var lang string
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				switch string(key) {
				case "setup":
					setup = true
				case "lang":
					lang = string(val)
				}
			}
			if tag == "script" {
				cur = &Block{Start: offset, Lang: lang, Setup: setup}
				continue
			}
			if voidElements[tag] {
				continue
			}
			nested := tag == "template" && (lang == "" || lang == "html")
			end, ok := blockEnd(src, offset, tag, nested)
			if !ok {
				return nil, fmt.Errorf("%s: unclosed <%s> block", filename, tag)
			}
			offset = end
			z = html.NewTokenizer(bytes.NewReader(src[end:]))

		case html.EndTagToken:
			name, _ := z.TagName()
			if cur != nil && string(name) == "script" {
				cur.End = tokenStart
				cur.Content = string(src[cur.Start:cur.End])
				if err := d.add(cur); err != nil {
					return nil, err
				}
				cur = nil
			}
		}
	}
}

// blockEnd returns the offset just past the end tag closing a top-level
// <tag> block whose content starts at from. With nested set, inner <tag>
// start tags must be closed first.
func blockEnd(src []byte, from int, tag string, nested bool) (int, bool) {
	open := []byte("<" + tag)
	closing := []byte("</" + tag)
	depth := 1
	for i := from; i < len(src); {
		j := bytes.IndexByte(src[i:], '<')
		if j < 0 {
			break
		}
		i += j
		switch {
		case tagAt(src, i, closing):
			gt := bytes.IndexByte(src[i:], '>')
			if gt < 0 {
				return 0, false
			}
			i += gt + 1
			depth--
			if depth == 0 {
				return i, true
			}
		case nested && tagAt(src, i, open):
			gt := bytes.IndexByte(src[i:], '>')
			if gt < 0 {
				return 0, false
			}
			if src[i+gt-1] != '/' {
				depth++
			}
			i += gt + 1
		default:
			i++
		}
	}
	return 0, false
}

// tagAt reports whether src holds prefix at i, case-insensitively, followed
// by the end of a tag name.
func tagAt(src []byte, i int, prefix []byte) bool {
	k := i + len(prefix)
	if k > len(src) || !bytes.EqualFold(src[i:k], prefix) {
		return false
	}
	if k == len(src) {
		return true
	}
	switch src[k] {
	case ' ', '\t', '\n', '\r', '\f', '/', '>':
		return true
	}
	return false
}

func (d *Descriptor) add(b *Block) error {
	if b.Setup {
		if d.ScriptSetup != nil {
			return fmt.Errorf("%s: multiple <script setup> blocks", d.Filename)
		}
		d.ScriptSetup = b
		return nil
	}
	if d.Script != nil {
		return fmt.Errorf("%s: multiple <script> blocks", d.Filename)
	}
	d.Script = b
	return nil
}
