package compiler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	shimscanner "github.com/microsoft/typescript-go/shim/scanner"
)

// DiagnosticCategory mirrors tsgo's diagnostics.Category.
// We redeclare here to avoid importing the internal diagnostics package directly.
type DiagnosticCategory int

const (
	CategoryWarning    DiagnosticCategory = 0
	CategoryError      DiagnosticCategory = 1
	CategorySuggestion DiagnosticCategory = 2
	CategoryMessage    DiagnosticCategory = 3
)

func (c DiagnosticCategory) Name() string {
	switch c {
	case CategoryError:
		return "error"
	case CategoryWarning:
		return "warning"
	case CategorySuggestion:
		return "suggestion"
	case CategoryMessage:
		return "message"
	}
	return "unknown"
}

// Diagnostic is a located compiler message detached from the program that
// produced it, so it can outlive the checker.
type Diagnostic struct {
	FilePath string
	// Line and Column are 1-based; zero when the diagnostic has no file.
	Line     int
	Column   int
	Code     int
	Category DiagnosticCategory
	Message  string
}

// String renders the diagnostic in tsc's plain format:
// file(line,col): error TS1005: message
func (d Diagnostic) String() string {
	msg := fmt.Sprintf("%s TS%d: %s", d.Category.Name(), d.Code, d.Message)
	if d.FilePath == "" {
		return msg
	}
	return fmt.Sprintf("%s(%d,%d): %s", d.FilePath, d.Line, d.Column, msg)
}

// Relative returns d with its file path made relative to root when possible.
func (d Diagnostic) Relative(root string) Diagnostic {
	d.FilePath = relativePath(d.FilePath, root)
	return d
}

// convertDiagnostics converts tsgo diagnostics to our Diagnostic type.
func convertDiagnostics(tsdiags []*ast.Diagnostic) []Diagnostic {
	diags := make([]Diagnostic, len(tsdiags))
	for i, d := range tsdiags {
		diag := Diagnostic{
			Code:     int(d.Code()),
			Category: DiagnosticCategory(ast.Diagnostic_Category(d)),
			Message:  d.String(),
		}
		if f := d.File(); f != nil {
			line, char := shimscanner.GetECMALineAndCharacterOfPosition(f, d.Pos())
			diag.FilePath = f.FileName()
			diag.Line = line + 1
			diag.Column = char + 1
		}
		diags[i] = diag
	}
	return diags
}

// CountErrors returns the number of CategoryError diagnostics.
func CountErrors(diags []Diagnostic) int {
	count := 0
	for _, d := range diags {
		if d.Category == CategoryError {
			count++
		}
	}
	return count
}

// FormatDiagnostics formats diagnostics into human-readable lines.
func FormatDiagnostics(diags []Diagnostic) string {
	var b strings.Builder
	for _, d := range diags {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// relativePath converts an absolute path to relative if possible.
func relativePath(absPath string, cwd string) string {
	if cwd == "" || absPath == "" {
		return absPath
	}
	rel, err := filepath.Rel(cwd, absPath)
	if err != nil {
		return absPath
	}
	return filepath.ToSlash(rel)
}
