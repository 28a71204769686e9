package extract

import (
	"errors"
	"slices"

	"github.com/tsgonest/vuemeta/internal/typesys"
)

// In-memory typesys implementation for engine tests.

type fakeUnit struct {
	name    string
	export  *fakeNode
	aliases []string
	probe   func(decl typesys.AliasDecl) (*fakeType, error)
	probed  []typesys.AliasDecl
}

func (u *fakeUnit) FileName() string { return u.name }
func (u *fakeUnit) Text() string     { return "" }

func (u *fakeUnit) DefaultExport() typesys.Node {
	if u.export == nil {
		return nil
	}
	return u.export
}

func (u *fakeUnit) AddTypeAlias(decl typesys.AliasDecl) (typesys.Alias, error) {
	u.probed = append(u.probed, decl)
	if u.probe == nil {
		return nil, errors.New("probing disabled")
	}
	u.aliases = append(u.aliases, decl.Name)
	t, err := u.probe(decl)
	if err != nil {
		u.aliases = slices.DeleteFunc(u.aliases, func(n string) bool { return n == decl.Name })
		return nil, err
	}
	return &fakeAlias{unit: u, name: decl.Name, t: t}, nil
}

type fakeAlias struct {
	unit    *fakeUnit
	name    string
	t       *fakeType
	removed bool
}

func (a *fakeAlias) Type() typesys.Type {
	if a.t == nil {
		return nil
	}
	return a.t
}

func (a *fakeAlias) Remove() {
	if a.removed {
		return
	}
	a.removed = true
	i := slices.Index(a.unit.aliases, a.name)
	if i >= 0 {
		a.unit.aliases = slices.Delete(a.unit.aliases, i, i+1)
	}
}

type fakeNode struct {
	kind typesys.NodeKind
	typ  *fakeType
	ref  *fakeNode
	args []*fakeNode
	str  *string
}

func (n *fakeNode) Kind() typesys.NodeKind { return n.kind }

func (n *fakeNode) Type() typesys.Type {
	if n.typ == nil {
		return nil
	}
	return n.typ
}

func (n *fakeNode) Referenced() typesys.Node {
	if n.ref == nil {
		return nil
	}
	return n.ref
}

func (n *fakeNode) Arguments() []typesys.Node {
	out := make([]typesys.Node, len(n.args))
	for i, a := range n.args {
		out[i] = a
	}
	return out
}

func (n *fakeNode) StringLiteralValue() (string, bool) {
	if n.str == nil {
		return "", false
	}
	return *n.str, true
}

type fakeType struct {
	id        uint64
	text      string
	sym       *fakeSymbol
	aliasName string
	aliasArgs []*fakeType
	union     []*fakeType
	object    bool
	strLit    *string
	props     []*fakeSymbol
	sigs      [][]*fakeSymbol
}

func (t *fakeType) ID() uint64   { return t.id }
func (t *fakeType) Text() string { return t.text }

func (t *fakeType) Symbol() typesys.Symbol {
	if t.sym == nil {
		return nil
	}
	return t.sym
}

func (t *fakeType) AliasName() string { return t.aliasName }

func (t *fakeType) AliasTypeArguments() []typesys.Type {
	out := make([]typesys.Type, len(t.aliasArgs))
	for i, a := range t.aliasArgs {
		if a != nil {
			out[i] = a
		}
	}
	return out
}

func (t *fakeType) IsUnion() bool { return t.union != nil }

func (t *fakeType) UnionTypes() []typesys.Type {
	out := make([]typesys.Type, len(t.union))
	for i, m := range t.union {
		out[i] = m
	}
	return out
}

func (t *fakeType) IsObject() bool { return t.object }

func (t *fakeType) StringLiteralValue() (string, bool) {
	if t.strLit == nil {
		return "", false
	}
	return *t.strLit, true
}

func (t *fakeType) Property(name string) typesys.Symbol {
	for _, p := range t.props {
		if p.name == name {
			return p
		}
	}
	return nil
}

func (t *fakeType) Properties() []typesys.Symbol {
	out := make([]typesys.Symbol, len(t.props))
	for i, p := range t.props {
		out[i] = p
	}
	return out
}

func (t *fakeType) CallSignatures() []typesys.Signature {
	out := make([]typesys.Signature, len(t.sigs))
	for i, params := range t.sigs {
		out[i] = fakeSignature(params)
	}
	return out
}

type fakeSignature []*fakeSymbol

func (s fakeSignature) Parameters() []typesys.Symbol {
	out := make([]typesys.Symbol, len(s))
	for i, p := range s {
		out[i] = p
	}
	return out
}

type fakeSymbol struct {
	name     string
	decls    []typesys.Declaration
	hasValue bool
	typ      *fakeType
	init     *fakeNode
	tags     []typesys.DocTag
}

func (s *fakeSymbol) Name() string                        { return s.name }
func (s *fakeSymbol) Declarations() []typesys.Declaration { return s.decls }
func (s *fakeSymbol) HasValueDeclaration() bool           { return s.hasValue }
func (s *fakeSymbol) DocTags() []typesys.DocTag           { return s.tags }

func (s *fakeSymbol) Type() typesys.Type {
	if s.typ == nil {
		return nil
	}
	return s.typ
}

func (s *fakeSymbol) Initializer() typesys.Node {
	if s.init == nil {
		return nil
	}
	return s.init
}

// Builders.

var nextTypeID uint64

func newType(text string) *fakeType {
	nextTypeID++
	return &fakeType{id: nextTypeID, text: text}
}

func strPtr(s string) *string { return &s }

// typed returns an expression node of type t.
func typed(t *fakeType) *fakeNode {
	return &fakeNode{kind: typesys.NodeOther, typ: t}
}

// member returns a property symbol whose value is initialized with an
// expression of type t.
func member(name string, t *fakeType) *fakeSymbol {
	return &fakeSymbol{name: name, hasValue: true, typ: t, init: typed(t)}
}

// propOptions builds the type of a prop options literal such as
// { type: String, required: true }.
func propOptions(members ...*fakeSymbol) *fakeType {
	t := newType("{ ... }")
	t.object = true
	t.props = members
	return t
}

// componentUnit builds `export default defineComponent(options)` where the call's
// type is DefineComponent<props, ..., emits>.
func componentUnit(name string, options *fakeType, props, emits *fakeType) *fakeUnit {
	descriptor := newType("DefineComponent<...>")
	descriptor.aliasName = descriptorAlias
	descriptor.aliasArgs = make([]*fakeType, 8)
	descriptor.aliasArgs[propsTypeArg] = props
	descriptor.aliasArgs[emitsTypeArg] = emits

	call := &fakeNode{
		kind: typesys.NodeCall,
		typ:  descriptor,
		args: []*fakeNode{{kind: typesys.NodeObjectLiteral, typ: options}},
	}
	return &fakeUnit{name: name, export: call}
}

func objectType(members ...*fakeSymbol) *fakeType {
	t := newType("{}")
	t.object = true
	t.props = members
	return t
}

func paramTag(name, text string) typesys.DocTag {
	tag := typesys.DocTag{Name: "param", Parts: []typesys.DocPart{{Kind: typesys.PartParameterName, Text: name}}}
	if text != "" {
		tag.Parts = append(tag.Parts, typesys.DocPart{Kind: typesys.PartText, Text: text})
	}
	return tag
}

func textTag(name, text string) typesys.DocTag {
	return typesys.DocTag{Name: name, Parts: []typesys.DocPart{{Kind: typesys.PartText, Text: text}}}
}
