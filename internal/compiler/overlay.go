package compiler

import (
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/microsoft/typescript-go/shim/vfs"
)

// OverlayFS wraps a base filesystem with in-memory files. Overlay files take
// precedence over the base filesystem. Virtual tsconfigs, SFC script units and
// probe texts all live here; the files are never written to disk.
type OverlayFS struct {
	base  vfs.FS
	mu    sync.RWMutex
	files map[string]string
}

var _ vfs.FS = (*OverlayFS)(nil)

// NewOverlayFS creates an OverlayFS on top of base. files may be nil.
func NewOverlayFS(base vfs.FS, files map[string]string) *OverlayFS {
	o := &OverlayFS{base: base, files: make(map[string]string, len(files))}
	for p, text := range files {
		o.files[tspath.NormalizePath(p)] = text
	}
	return o
}

// Set puts text at path and returns a function restoring the previous state
// of path (the earlier overlay text, or no overlay entry at all).
func (o *OverlayFS) Set(path, text string) (restore func()) {
	path = tspath.NormalizePath(path)
	o.mu.Lock()
	prev, existed := o.files[path]
	o.files[path] = text
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if existed {
				o.files[path] = prev
			} else {
				delete(o.files, path)
			}
		})
	}
}

// Get returns the overlay text of path, if any.
func (o *OverlayFS) Get(path string) (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	text, ok := o.files[tspath.NormalizePath(path)]
	return text, ok
}

func (o *OverlayFS) lookup(path string) (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	text, ok := o.files[path]
	return text, ok
}

func (o *OverlayFS) UseCaseSensitiveFileNames() bool {
	return o.base.UseCaseSensitiveFileNames()
}

func (o *OverlayFS) FileExists(path string) bool {
	if _, ok := o.lookup(path); ok {
		return true
	}
	return o.base.FileExists(path)
}

func (o *OverlayFS) ReadFile(path string) (contents string, ok bool) {
	if text, ok := o.lookup(path); ok {
		return text, true
	}
	return o.base.ReadFile(path)
}

func (o *OverlayFS) DirectoryExists(path string) bool {
	dir := dirPrefix(path)
	o.mu.RLock()
	for p := range o.files {
		if strings.HasPrefix(p, dir) {
			o.mu.RUnlock()
			return true
		}
	}
	o.mu.RUnlock()
	return o.base.DirectoryExists(path)
}

func (o *OverlayFS) GetAccessibleEntries(path string) (result vfs.Entries) {
	result = o.base.GetAccessibleEntries(path)
	dir := dirPrefix(path)

	seenDirs := make(map[string]bool, len(result.Directories))
	for _, d := range result.Directories {
		seenDirs[d] = true
	}
	seenFiles := make(map[string]bool, len(result.Files))
	for _, f := range result.Files {
		seenFiles[f] = true
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	for p := range o.files {
		rest, found := strings.CutPrefix(p, dir)
		if !found {
			continue
		}
		if sub, _, ok := strings.Cut(rest, "/"); ok {
			if !seenDirs[sub] {
				seenDirs[sub] = true
				result.Directories = append(result.Directories, sub)
			}
		} else if !seenFiles[rest] {
			seenFiles[rest] = true
			result.Files = append(result.Files, rest)
		}
	}
	return result
}

func dirPrefix(path string) string {
	p := tspath.NormalizePath(path)
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

type overlayFileInfo struct {
	name string
	size int64
}

var _ fs.FileInfo = (*overlayFileInfo)(nil)

func (fi *overlayFileInfo) IsDir() bool        { return false }
func (fi *overlayFileInfo) ModTime() time.Time { return time.Time{} }
func (fi *overlayFileInfo) Mode() fs.FileMode  { return 0o644 }
func (fi *overlayFileInfo) Name() string       { return fi.name }
func (fi *overlayFileInfo) Size() int64        { return fi.size }
func (fi *overlayFileInfo) Sys() any           { return nil }

func (o *OverlayFS) Stat(path string) vfs.FileInfo {
	if text, ok := o.lookup(path); ok {
		return &overlayFileInfo{name: tspath.GetBaseFileName(path), size: int64(len(text))}
	}
	return o.base.Stat(path)
}

func (o *OverlayFS) WalkDir(root string, walkFn vfs.WalkDirFunc) error {
	return o.base.WalkDir(root, walkFn)
}

func (o *OverlayFS) Realpath(path string) string {
	if _, ok := o.lookup(path); ok {
		return path
	}
	return o.base.Realpath(path)
}

// WriteFile, Remove and Chtimes on overlay files only touch the overlay.

func (o *OverlayFS) WriteFile(path string, data string, writeByteOrderMark bool) error {
	if _, ok := o.lookup(path); ok {
		o.Set(path, data)
		return nil
	}
	return o.base.WriteFile(path, data, writeByteOrderMark)
}

func (o *OverlayFS) Remove(path string) error {
	if _, ok := o.lookup(path); ok {
		o.mu.Lock()
		delete(o.files, path)
		o.mu.Unlock()
		return nil
	}
	return o.base.Remove(path)
}

func (o *OverlayFS) Chtimes(path string, aTime time.Time, mTime time.Time) error {
	if _, ok := o.lookup(path); ok {
		return nil
	}
	return o.base.Chtimes(path, aTime, mTime)
}
