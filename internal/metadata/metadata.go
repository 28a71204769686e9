// Package metadata defines the component metadata records produced by vuemeta.
// The JSON shape is consumed by documentation generators and must stay stable.
package metadata

// Result is the metadata extracted from one source unit.
type Result struct {
	// ComponentName is nil when the component declares no resolvable name.
	ComponentName *string `json:"componentName,omitzero"`
	Props         []Prop  `json:"props"`
	Emits         []Emit  `json:"emits"`
}

// EmptyResult is the result of a unit without a default export.
func EmptyResult() Result {
	return Result{Props: []Prop{}, Emits: []Emit{}}
}

// Prop describes one declared component property.
type Prop struct {
	Name string       `json:"name"`
	Type ResolvedType `json:"type"`
	// Default is the rendered type of the default initializer, e.g. `"primary"`
	// or `() => never[]`.
	Default     string `json:"default"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Emit describes one declared event. Each entry of Signatures is the
// parameter list of one overload or union branch of the event's callable type.
type Emit struct {
	Name        string    `json:"name"`
	Signatures  [][]Param `json:"signatures"`
	Description string    `json:"description"`
}

// Param is one parameter of an emit signature.
type Param struct {
	Name        string       `json:"name"`
	Type        ResolvedType `json:"type"`
	Description string       `json:"description"`
}

// ResolvedType is the normalized description of a type.
type ResolvedType struct {
	// Refs has one entry per declaration of the type's symbol. Always
	// serialized, possibly as an empty array.
	Refs []TypeRef `json:"refs"`
	// UnionType is set only for union types, one entry per member.
	UnionType []ResolvedType `json:"unionType,omitzero"`
	Text      string         `json:"text"`
}

// IsUnion reports whether the type was decomposed as a union.
func (t ResolvedType) IsUnion() bool {
	return t.UnionType != nil
}

// AnyType is the fallback for types that cannot be determined.
func AnyType() ResolvedType {
	return ResolvedType{Refs: []TypeRef{}, Text: "any"}
}

// TypeRef points at one declaration of a type.
type TypeRef struct {
	Start int `json:"start"`
	End   int `json:"end"`
	// File is relative to the configured root for project files and absolute
	// for library and dependency files.
	File string `json:"file"`
	// Text is the declaration source. Nil for built-in library declarations.
	Text *string `json:"text,omitzero"`
}
