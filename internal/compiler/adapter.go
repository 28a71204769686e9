package compiler

import (
	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"
	shimscanner "github.com/microsoft/typescript-go/shim/scanner"

	"github.com/tsgonest/vuemeta/internal/typesys"
)

// typeTextFlags render types the way declaration hovers do: aliases are kept
// and long types are never elided.
const typeTextFlags = shimchecker.TypeFormatFlagsInTypeAlias | shimchecker.TypeFormatFlagsNoTruncation

// session is one checker view of a program. Every typesys value handed out by
// this package carries the session it came from; values from a probe session
// are only valid until the probe is removed.
type session struct {
	checker *shimchecker.Checker
}

func (s *session) node(n *ast.Node) typesys.Node {
	if n == nil {
		return nil
	}
	return &checkedNode{s: s, n: skipParentheses(n)}
}

func (s *session) typ(t *shimchecker.Type) typesys.Type {
	if t == nil {
		return nil
	}
	return &checkedType{s: s, t: t}
}

func (s *session) symbol(sym *ast.Symbol) typesys.Symbol {
	if sym == nil {
		return nil
	}
	return &checkedSymbol{s: s, sym: sym}
}

func skipParentheses(n *ast.Node) *ast.Node {
	for n != nil && n.Kind == ast.KindParenthesizedExpression {
		n = n.AsParenthesizedExpression().Expression
	}
	return n
}

// checkedNode adapts an expression node.
type checkedNode struct {
	s *session
	n *ast.Node
}

func (c *checkedNode) Kind() typesys.NodeKind {
	switch c.n.Kind {
	case ast.KindIdentifier:
		return typesys.NodeIdentifier
	case ast.KindCallExpression:
		return typesys.NodeCall
	case ast.KindObjectLiteralExpression:
		return typesys.NodeObjectLiteral
	case ast.KindStringLiteral, ast.KindNoSubstitutionTemplateLiteral:
		return typesys.NodeStringLiteral
	}
	return typesys.NodeOther
}

func (c *checkedNode) Type() typesys.Type {
	return c.s.typ(c.s.checker.GetTypeAtLocation(c.n))
}

func (c *checkedNode) Referenced() typesys.Node {
	if c.n.Kind != ast.KindIdentifier {
		return nil
	}
	sym := c.s.checker.GetSymbolAtLocation(c.n)
	if sym == nil {
		return nil
	}
	if sym.Flags&ast.SymbolFlagsAlias != 0 {
		sym = c.s.checker.GetAliasedSymbol(sym)
		if sym == nil {
			return nil
		}
	}
	return c.s.node(initializerOf(sym.ValueDeclaration))
}

func (c *checkedNode) Arguments() []typesys.Node {
	if c.n.Kind != ast.KindCallExpression {
		return nil
	}
	call := c.n.AsCallExpression()
	if call.Arguments == nil {
		return nil
	}
	args := make([]typesys.Node, 0, len(call.Arguments.Nodes))
	for _, arg := range call.Arguments.Nodes {
		args = append(args, c.s.node(arg))
	}
	return args
}

func (c *checkedNode) StringLiteralValue() (string, bool) {
	switch c.n.Kind {
	case ast.KindStringLiteral:
		return c.n.AsStringLiteral().Text, true
	case ast.KindNoSubstitutionTemplateLiteral:
		return c.n.AsNoSubstitutionTemplateLiteral().Text, true
	}
	return "", false
}

// initializerOf returns the initializer of declarations that can carry one.
func initializerOf(decl *ast.Node) *ast.Node {
	if decl == nil {
		return nil
	}
	switch decl.Kind {
	case ast.KindVariableDeclaration:
		return decl.AsVariableDeclaration().Initializer
	case ast.KindPropertyAssignment:
		return decl.AsPropertyAssignment().Initializer
	case ast.KindPropertyDeclaration:
		return decl.AsPropertyDeclaration().Initializer
	case ast.KindParameter:
		return decl.AsParameterDeclaration().Initializer
	case ast.KindBindingElement:
		return decl.AsBindingElement().Initializer
	case ast.KindEnumMember:
		return decl.AsEnumMember().Initializer
	}
	return nil
}

// checkedType adapts a checker type.
type checkedType struct {
	s *session
	t *shimchecker.Type
}

func (c *checkedType) ID() uint64 { return uint64(c.t.Id()) }

func (c *checkedType) Text() string {
	return c.s.checker.TypeToStringEx(c.t, nil, typeTextFlags)
}

func (c *checkedType) Symbol() typesys.Symbol {
	return c.s.symbol(c.t.Symbol())
}

func (c *checkedType) AliasName() string {
	alias := shimchecker.Type_alias(c.t)
	if alias == nil || alias.Symbol() == nil {
		return ""
	}
	return alias.Symbol().Name
}

func (c *checkedType) AliasTypeArguments() []typesys.Type {
	alias := shimchecker.Type_alias(c.t)
	if alias == nil {
		return nil
	}
	args := alias.TypeArguments()
	out := make([]typesys.Type, len(args))
	for i, a := range args {
		out[i] = c.s.typ(a)
	}
	return out
}

func (c *checkedType) IsUnion() bool {
	return c.t.Flags()&shimchecker.TypeFlagsUnion != 0
}

func (c *checkedType) UnionTypes() []typesys.Type {
	if !c.IsUnion() {
		return nil
	}
	members := c.t.Types()
	out := make([]typesys.Type, len(members))
	for i, m := range members {
		out[i] = c.s.typ(m)
	}
	return out
}

func (c *checkedType) IsObject() bool {
	return c.t.Flags()&shimchecker.TypeFlagsObject != 0
}

func (c *checkedType) StringLiteralValue() (string, bool) {
	if c.t.Flags()&shimchecker.TypeFlagsStringLiteral == 0 {
		return "", false
	}
	v, ok := c.t.AsLiteralType().Value().(string)
	return v, ok
}

func (c *checkedType) Property(name string) typesys.Symbol {
	return c.s.symbol(shimchecker.Checker_getPropertyOfType(c.s.checker, c.t, name))
}

func (c *checkedType) Properties() []typesys.Symbol {
	props := shimchecker.Checker_getPropertiesOfType(c.s.checker, c.t)
	out := make([]typesys.Symbol, 0, len(props))
	for _, p := range props {
		out = append(out, c.s.symbol(p))
	}
	return out
}

func (c *checkedType) CallSignatures() []typesys.Signature {
	sigs := shimchecker.Checker_getSignaturesOfType(c.s.checker, c.t, shimchecker.SignatureKindCall)
	out := make([]typesys.Signature, 0, len(sigs))
	for _, sig := range sigs {
		out = append(out, &checkedSignature{s: c.s, sig: sig})
	}
	return out
}

type checkedSignature struct {
	s   *session
	sig *shimchecker.Signature
}

func (c *checkedSignature) Parameters() []typesys.Symbol {
	params := c.sig.Parameters()
	out := make([]typesys.Symbol, 0, len(params))
	for _, p := range params {
		out = append(out, c.s.symbol(p))
	}
	return out
}

// checkedSymbol adapts a symbol.
type checkedSymbol struct {
	s   *session
	sym *ast.Symbol
}

func (c *checkedSymbol) Name() string { return c.sym.Name }

func (c *checkedSymbol) Declarations() []typesys.Declaration {
	decls := make([]typesys.Declaration, 0, len(c.sym.Declarations))
	for _, d := range c.sym.Declarations {
		sf := ast.GetSourceFileOfNode(d)
		if sf == nil {
			continue
		}
		text := sf.Text()
		start := shimscanner.GetTokenPosOfNode(d, sf, false)
		end := d.End()
		if start < 0 || end > len(text) || start > end {
			continue
		}
		decls = append(decls, typesys.Declaration{
			Start:    start,
			End:      end,
			FileName: sf.FileName(),
			Text:     text[start:end],
			Library:  IsLibFile(sf.FileName()),
		})
	}
	return decls
}

func (c *checkedSymbol) HasValueDeclaration() bool {
	return c.sym.ValueDeclaration != nil
}

func (c *checkedSymbol) Type() typesys.Type {
	return c.s.typ(shimchecker.Checker_getTypeOfSymbol(c.s.checker, c.sym))
}

func (c *checkedSymbol) Initializer() typesys.Node {
	return c.s.node(initializerOf(c.sym.ValueDeclaration))
}

func (c *checkedSymbol) DocTags() []typesys.DocTag {
	return symbolDocTags(c.sym)
}
