package compiler

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/microsoft/typescript-go/shim/ast"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"
	"github.com/microsoft/typescript-go/shim/core"
	"github.com/microsoft/typescript-go/shim/tsoptions"
	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/microsoft/typescript-go/shim/vfs"
)

// virtualConfigName is the file name of the generated root tsconfig. It is
// placed in the project root and only exists in the overlay.
const virtualConfigName = "__vuemeta__.tsconfig.json"

// defaultCompilerOptions apply when the project has no tsconfig of its own.
var defaultCompilerOptions = map[string]any{
	"strict":           true,
	"target":           "esnext",
	"module":           "esnext",
	"moduleResolution": "bundler",
	"skipLibCheck":     true,
	"noEmit":           true,
}

type virtualConfig struct {
	Extends         string         `json:"extends,omitzero"`
	CompilerOptions map[string]any `json:"compilerOptions,omitzero"`
	Files           []string       `json:"files"`
	Include         []string       `json:"include"`
}

// VirtualConfig renders the root tsconfig for a set of units. When userConfig
// is set the generated config extends it, so the user's compiler options and
// path mappings apply while only the given files become program roots.
func VirtualConfig(userConfig string, files []string) (string, error) {
	cfg := virtualConfig{
		Extends: userConfig,
		Files:   files,
		Include: []string{},
	}
	if cfg.Files == nil {
		cfg.Files = []string{}
	}
	if userConfig == "" {
		cfg.CompilerOptions = defaultCompilerOptions
	}
	data, err := json.Marshal(cfg, json.Deterministic(true))
	if err != nil {
		return "", fmt.Errorf("encoding virtual tsconfig: %w", err)
	}
	return string(data), nil
}

// ParseTSConfig parses a tsconfig.json file using tsgo's native JSONC parser.
// Handles comments, trailing commas, and extends chains automatically.
// Config problems are returned as diagnostics, not as an error.
func ParseTSConfig(fs vfs.FS, cwd string, tsconfigPath string, host shimcompiler.CompilerHost) (*tsoptions.ParsedCommandLine, []Diagnostic, error) {
	resolvedConfigPath := tspath.ResolvePath(cwd, tsconfigPath)
	if !fs.FileExists(resolvedConfigPath) {
		return nil, nil, fmt.Errorf("could not find tsconfig at %v", resolvedConfigPath)
	}

	configParseResult, diagnostics := tsoptions.GetParsedCommandLineOfConfigFile(resolvedConfigPath, &core.CompilerOptions{}, nil, host, nil)
	if len(diagnostics) > 0 {
		return nil, convertDiagnostics(diagnostics), nil
	}
	if configParseResult != nil && len(configParseResult.Errors) > 0 {
		return nil, convertDiagnostics(configParseResult.Errors), nil
	}
	return configParseResult, nil, nil
}

// CreateProgramFromConfig creates and binds a single-threaded program from an
// already-parsed tsconfig.
func CreateProgramFromConfig(parsedConfig *tsoptions.ParsedCommandLine, host shimcompiler.CompilerHost) (*shimcompiler.Program, error) {
	program := shimcompiler.NewProgram(shimcompiler.ProgramOptions{
		Config:                      parsedConfig,
		SingleThreaded:              core.TSTrue,
		Host:                        host,
		UseSourceOfProjectReference: true,
	})
	if program == nil {
		return nil, errors.New("failed to create program")
	}
	program.BindSourceFiles()
	return program, nil
}

// GetSyntacticDiagnostics returns parse errors of one source file, or of all
// files when file is nil.
func GetSyntacticDiagnostics(program *shimcompiler.Program, file *ast.SourceFile) []*ast.Diagnostic {
	return shimcompiler.Program_GetSyntacticDiagnostics(program, context.Background(), file)
}
