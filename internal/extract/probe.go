package extract

import (
	"github.com/tsgonest/vuemeta/internal/metadata"
	"github.com/tsgonest/vuemeta/internal/typesys"
)

// rawTypeAlias names the synthetic alias used to derive a prop's value type
// from a bare constructor such as String or a constructor tuple.
const rawTypeAlias = "__RESOLVE_PROPS_RAW_TYPE"

// rawTypePrelude reuses Vue's own prop inference: a required prop of the raw
// type is run through ExtractPropTypes and the value type is read back.
const rawTypePrelude = `import type { ExtractPropTypes as __ExtractPropTypes } from 'vue'
type __ResolveProp<T> = __ExtractPropTypes<{
  key: { type: T; required: true }
}>['key']
type __ResolvePropType<T> = __ResolveProp<T> extends { type: infer V }
  ? V
  : __ResolveProp<T>`

// resolveRaw resolves the value type of a bare constructor prop type. The
// synthetic alias is removed on every path; when it cannot be added the raw
// type text is returned without refs. Each distinct raw text is probed once.
func (e *extractor) resolveRaw(raw typesys.Type) metadata.ResolvedType {
	text := raw.Text()
	if rt, ok := e.rawTypes[text]; ok {
		return rt
	}
	rt := e.probeRaw(text)
	e.rawTypes[text] = rt
	return rt
}

func (e *extractor) probeRaw(text string) metadata.ResolvedType {
	alias, err := e.unit.AddTypeAlias(typesys.AliasDecl{
		Name:    rawTypeAlias,
		Type:    "__ResolvePropType<" + text + ">",
		Prelude: rawTypePrelude,
	})
	if err != nil {
		e.logger.Debug("raw prop type probe failed", "type", text, "err", err)
		return metadata.ResolvedType{Text: text, Refs: []metadata.TypeRef{}}
	}
	defer alias.Remove()
	return e.resolver.resolve(alias.Type())
}
