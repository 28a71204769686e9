package compiler

import (
	"strings"

	"github.com/microsoft/typescript-go/shim/bundled"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"
	"github.com/microsoft/typescript-go/shim/vfs"
	"github.com/microsoft/typescript-go/shim/vfs/cachedvfs"
	"github.com/microsoft/typescript-go/shim/vfs/osvfs"
)

// CreateDefaultFS creates a filesystem using the OS filesystem with bundled libs.
func CreateDefaultFS() vfs.FS {
	return bundled.WrapFS(cachedvfs.From(osvfs.FS()))
}

// CreateHost creates a compiler host over fs with the bundled lib files.
func CreateHost(cwd string, fs vfs.FS) shimcompiler.CompilerHost {
	return shimcompiler.NewCompilerHost(cwd, fs, bundled.LibPath(), nil, nil)
}

// IsLibFile reports whether fileName is one of TypeScript's built-in lib
// declaration files, either bundled or installed under node_modules.
func IsLibFile(fileName string) bool {
	return strings.HasPrefix(fileName, bundled.LibPath()) ||
		strings.Contains(fileName, "node_modules/typescript/lib")
}
