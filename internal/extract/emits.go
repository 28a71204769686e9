package extract

import (
	"github.com/tsgonest/vuemeta/internal/metadata"
	"github.com/tsgonest/vuemeta/internal/typesys"
)

func (e *extractor) emits(emitsType typesys.Type) []metadata.Emit {
	emits := []metadata.Emit{}
	if emitsType == nil || !emitsType.IsObject() {
		return emits
	}
	for _, sym := range emitsType.Properties() {
		if !sym.HasValueDeclaration() {
			continue
		}
		emits = append(emits, metadata.Emit{
			Name:        sym.Name(),
			Signatures:  e.signatures(sym.Type()),
			Description: description(sym, "description", nil),
		})
	}
	return emits
}

// signatures lists one parameter list per call signature of every union
// branch, in branch order then overload order.
func (e *extractor) signatures(t typesys.Type) [][]metadata.Param {
	signatures := [][]metadata.Param{}
	if t == nil {
		return signatures
	}
	branches := []typesys.Type{t}
	if t.IsUnion() {
		branches = t.UnionTypes()
	}
	for _, branch := range branches {
		for _, sig := range branch.CallSignatures() {
			params := []metadata.Param{}
			for _, param := range sig.Parameters() {
				name := param.Name()
				params = append(params, metadata.Param{
					Name:        name,
					Type:        e.resolver.resolve(param.Type()),
					Description: description(param, "param", map[string]string{typesys.PartParameterName: name}),
				})
			}
			signatures = append(signatures, params)
		}
	}
	return signatures
}
