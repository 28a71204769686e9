package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"
	"github.com/microsoft/typescript-go/shim/tsoptions"
	"github.com/microsoft/typescript-go/shim/tspath"
	"github.com/microsoft/typescript-go/shim/vfs"

	"github.com/tsgonest/vuemeta/internal/typesys"
)

// ErrUnitNotFound is returned when a requested unit is not part of the program.
var ErrUnitNotFound = errors.New("unit not found in program")

// Source is one unit loaded into a project.
type Source struct {
	// FileName is the path the program sees. SFC scripts use "<file>.vue.ts".
	FileName string
	// Text is placed in the overlay under FileName when Virtual is set.
	// Otherwise the file is read from the filesystem.
	Text    string
	Virtual bool
}

// ProjectOptions configures OpenProject.
type ProjectOptions struct {
	// Root is the project root; relative paths resolve against it.
	Root string
	// TSConfig is the user's tsconfig, extended by the generated root config.
	// Empty means built-in defaults.
	TSConfig string
	// FS is the base filesystem. Defaults to CreateDefaultFS().
	FS     vfs.FS
	Logger *slog.Logger
}

// Project owns one program and its checker over a fixed set of units. A
// Project is not safe for concurrent extraction; probes are serialized.
type Project struct {
	root     string
	tsconfig string
	overlay  *OverlayFS
	host     shimcompiler.CompilerHost
	logger   *slog.Logger

	program *shimcompiler.Program
	main    *session
	release func()
	closed  sync.Once

	// probeMu is held from AddTypeAlias until the alias is removed.
	probeMu      sync.Mutex
	probeConfigs map[string]*tsoptions.ParsedCommandLine
}

// OpenProject builds a program whose roots are exactly sources.
func OpenProject(opts ProjectOptions, sources []Source) (*Project, error) {
	if len(sources) == 0 {
		return nil, errors.New("no source files")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	root = tspath.NormalizePath(filepath.ToSlash(root))

	base := opts.FS
	if base == nil {
		base = CreateDefaultFS()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Project{
		root:         root,
		overlay:      NewOverlayFS(base, nil),
		logger:       logger,
		probeConfigs: make(map[string]*tsoptions.ParsedCommandLine),
	}
	if opts.TSConfig != "" {
		p.tsconfig = tspath.ResolvePath(root, filepath.ToSlash(opts.TSConfig))
		if !p.overlay.FileExists(p.tsconfig) {
			return nil, fmt.Errorf("could not find tsconfig at %v", p.tsconfig)
		}
	}

	fileNames := make([]string, 0, len(sources))
	for _, src := range sources {
		name := p.resolve(src.FileName)
		if src.Virtual {
			p.overlay.Set(name, src.Text)
		}
		fileNames = append(fileNames, name)
	}

	p.host = CreateHost(root, p.overlay)
	parsed, err := p.parseConfig(virtualConfigName, fileNames)
	if err != nil {
		return nil, err
	}
	program, err := CreateProgramFromConfig(parsed, p.host)
	if err != nil {
		return nil, err
	}
	checker, release := shimcompiler.Program_GetTypeChecker(program, context.Background())
	if checker == nil {
		release()
		return nil, errors.New("failed to get type checker")
	}
	p.program = program
	p.main = &session{checker: checker}
	p.release = release

	p.logger.Debug("program created", "root", root, "tsconfig", p.tsconfig, "units", len(fileNames))
	return p, nil
}

func (p *Project) resolve(fileName string) string {
	return tspath.ResolvePath(p.root, filepath.ToSlash(fileName))
}

// parseConfig writes a generated tsconfig named name into the project root and
// parses it.
func (p *Project) parseConfig(name string, files []string) (*tsoptions.ParsedCommandLine, error) {
	text, err := VirtualConfig(p.tsconfig, files)
	if err != nil {
		return nil, err
	}
	configPath := tspath.CombinePaths(p.root, name)
	p.overlay.Set(configPath, text)

	parsed, diags, err := ParseTSConfig(p.overlay, p.root, configPath, p.host)
	if err != nil {
		return nil, err
	}
	if CountErrors(diags) > 0 {
		return nil, fmt.Errorf("invalid tsconfig:\n%s", FormatDiagnostics(diags))
	}
	return parsed, nil
}

// Root is the normalized absolute project root.
func (p *Project) Root() string { return p.root }

// Unit returns the bound unit for fileName.
func (p *Project) Unit(fileName string) (*Unit, error) {
	name := p.resolve(fileName)
	sf := p.program.GetSourceFile(name)
	if sf == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrUnitNotFound)
	}
	return &Unit{project: p, file: sf}, nil
}

// SyntacticDiagnostics returns the parse errors of fileName.
func (p *Project) SyntacticDiagnostics(fileName string) []Diagnostic {
	sf := p.program.GetSourceFile(p.resolve(fileName))
	if sf == nil {
		return nil
	}
	return convertDiagnostics(GetSyntacticDiagnostics(p.program, sf))
}

// Files lists the on-disk files the program read, excluding bundled lib files
// and overlay sources.
func (p *Project) Files() []string {
	var files []string
	for _, sf := range p.program.GetSourceFiles() {
		name := sf.FileName()
		if IsLibFile(name) {
			continue
		}
		if _, ok := p.overlay.Get(name); ok {
			continue
		}
		files = append(files, name)
	}
	return files
}

// Close releases the checker. Units and values obtained from them must not
// be used afterwards.
func (p *Project) Close() {
	p.closed.Do(func() {
		if p.release != nil {
			p.release()
		}
	})
}

// Unit is one source file of a Project. It implements typesys.Unit.
type Unit struct {
	project *Project
	file    *ast.SourceFile
}

var _ typesys.Unit = (*Unit)(nil)

func (u *Unit) FileName() string { return u.file.FileName() }

func (u *Unit) Text() string { return u.file.Text() }

func (u *Unit) DefaultExport() typesys.Node {
	if u.file.Statements == nil {
		return nil
	}
	for _, stmt := range u.file.Statements.Nodes {
		if stmt.Kind != ast.KindExportAssignment {
			continue
		}
		assignment := stmt.AsExportAssignment()
		if assignment.IsExportEquals {
			continue
		}
		return u.project.main.node(assignment.Expression)
	}
	return nil
}

// AddTypeAlias checks decl against a probe program in which the unit's text
// is extended by the prelude and the alias. The unit's own program is never
// modified; the overlay entry is restored when the alias is removed, or before
// AddTypeAlias returns an error or panics.
func (u *Unit) AddTypeAlias(decl typesys.AliasDecl) (typesys.Alias, error) {
	p := u.project
	p.probeMu.Lock()

	fileName := u.FileName()
	text := u.Text() + "\n" + decl.Prelude + "\ntype " + decl.Name + " = " + decl.Type + ";\n"
	restore := p.overlay.Set(fileName, text)

	alias := &probeAlias{}
	alias.cleanup = func() {
		restore()
		p.probeMu.Unlock()
	}
	done := false
	defer func() {
		if !done {
			alias.Remove()
		}
	}()

	program, err := p.probeProgram(fileName)
	if err != nil {
		return nil, fmt.Errorf("building probe program: %w", err)
	}
	checker, release := shimcompiler.Program_GetTypeChecker(program, context.Background())
	cleanup := alias.cleanup
	alias.cleanup = func() {
		release()
		cleanup()
	}
	if checker == nil {
		return nil, errors.New("building probe program: no type checker")
	}

	t := findTypeAlias(checker, program.GetSourceFile(fileName), decl.Name)
	if t == nil {
		return nil, fmt.Errorf("type alias %s not found in %s", decl.Name, fileName)
	}
	alias.t = (&session{checker: checker}).typ(t)
	done = true
	return alias, nil
}

// probeProgram creates a program rooted at fileName only, reading the current
// overlay. Parsed configs are reused across probes of the same unit.
func (p *Project) probeProgram(fileName string) (*shimcompiler.Program, error) {
	parsed, ok := p.probeConfigs[fileName]
	if !ok {
		name := fmt.Sprintf("__vuemeta__.probe%d.tsconfig.json", len(p.probeConfigs))
		var err error
		parsed, err = p.parseConfig(name, []string{fileName})
		if err != nil {
			return nil, err
		}
		p.probeConfigs[fileName] = parsed
	}
	return CreateProgramFromConfig(parsed, p.host)
}

func findTypeAlias(checker *shimchecker.Checker, sf *ast.SourceFile, name string) *shimchecker.Type {
	if sf == nil || sf.Statements == nil {
		return nil
	}
	for _, stmt := range sf.Statements.Nodes {
		if stmt.Kind != ast.KindTypeAliasDeclaration {
			continue
		}
		nameNode := stmt.AsTypeAliasDeclaration().Name()
		if nameNode == nil || nameNode.Text() != name {
			continue
		}
		sym := checker.GetSymbolAtLocation(nameNode)
		if sym == nil {
			return nil
		}
		return shimchecker.Checker_getDeclaredTypeOfSymbol(checker, sym)
	}
	return nil
}

type probeAlias struct {
	t       typesys.Type
	once    sync.Once
	cleanup func()
}

func (a *probeAlias) Type() typesys.Type { return a.t }

func (a *probeAlias) Remove() {
	a.once.Do(a.cleanup)
}
