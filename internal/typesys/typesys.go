// Package typesys defines the capability set the extractor needs from a
// TypeScript type checker. The extractor depends only on these interfaces;
// internal/compiler implements them on top of typescript-go.
package typesys

// NodeKind classifies the few expression shapes the component locator
// distinguishes.
type NodeKind int

const (
	NodeOther NodeKind = iota
	NodeIdentifier
	NodeCall
	NodeObjectLiteral
	NodeStringLiteral
)

func (k NodeKind) String() string {
	switch k {
	case NodeIdentifier:
		return "identifier"
	case NodeCall:
		return "call expression"
	case NodeObjectLiteral:
		return "object literal"
	case NodeStringLiteral:
		return "string literal"
	}
	return "expression"
}

// Unit is one parsed source file bound to a checker.
type Unit interface {
	// FileName is the absolute path of the unit as the program sees it.
	FileName() string
	// Text is the current source text of the unit.
	Text() string
	// DefaultExport returns the expression of the unit's first export
	// assignment with parentheses stripped, or nil when there is none.
	DefaultExport() Node
	// AddTypeAlias appends decl to the unit and type-checks the result.
	// The caller must call Remove on the returned alias; until then other
	// probes on the same project block.
	AddTypeAlias(decl AliasDecl) (Alias, error)
}

// AliasDecl describes a synthetic type alias injected into a unit.
type AliasDecl struct {
	Name string
	// Type is the right-hand side of the alias.
	Type string
	// Prelude holds helper declarations emitted before the alias.
	Prelude string
}

// Alias is a synthetic type alias living in a unit until Remove is called.
type Alias interface {
	Type() Type
	// Remove restores the unit's original text. It is safe to call more
	// than once.
	Remove()
}

// Node is an expression in a unit.
type Node interface {
	Kind() NodeKind
	// Type is the checker's type for the expression.
	Type() Type
	// Referenced follows an identifier to the initializer of the declaration
	// it refers to. Nil for other kinds or when nothing is found.
	Referenced() Node
	// Arguments returns call arguments for NodeCall.
	Arguments() []Node
	StringLiteralValue() (string, bool)
}

// Type is a checker type.
type Type interface {
	// ID identifies the type within one checker.
	ID() uint64
	// Text renders the type preserving aliases, without truncation.
	Text() string
	// Symbol is the type's declaring symbol, nil when it has none.
	Symbol() Symbol
	// AliasName is the name of the type alias the type was instantiated
	// from, or "".
	AliasName() string
	AliasTypeArguments() []Type
	IsUnion() bool
	// UnionTypes returns union members in checker order.
	UnionTypes() []Type
	IsObject() bool
	StringLiteralValue() (string, bool)
	Property(name string) Symbol
	Properties() []Symbol
	CallSignatures() []Signature
}

// Symbol is a named entity known to the checker.
type Symbol interface {
	Name() string
	Declarations() []Declaration
	HasValueDeclaration() bool
	// Type is the type of the symbol's value.
	Type() Type
	// Initializer is the initializer expression of the value declaration,
	// nil when the declaration has none.
	Initializer() Node
	DocTags() []DocTag
}

// Signature is one call signature.
type Signature interface {
	Parameters() []Symbol
}

// Declaration is the source location of one declaration of a symbol.
type Declaration struct {
	// Start is the offset of the first token, leading trivia excluded.
	Start int
	End   int
	// FileName is the absolute path of the declaring file.
	FileName string
	// Text is the source slice [Start, End).
	Text string
	// Library reports whether the file is one of the built-in lib files.
	Library bool
}

// Display part kinds used in DocTag parts.
const (
	PartText          = "text"
	PartParameterName = "parameterName"
)

// DocTag is one JSDoc tag in display-part form: "@param id the id" becomes
// Name "param" with parts [{parameterName id} {text the id}].
type DocTag struct {
	Name  string
	Parts []DocPart
}

// DocPart is one token of a tag's text.
type DocPart struct {
	Kind string
	Text string
}
