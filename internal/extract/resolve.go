package extract

import (
	"path/filepath"
	"strings"

	"github.com/tsgonest/vuemeta/internal/metadata"
	"github.com/tsgonest/vuemeta/internal/typesys"
)

// resolver turns checker types into metadata.ResolvedType values.
type resolver struct {
	root string
	// resolving holds the ids of union types on the current resolution path.
	resolving map[uint64]bool
}

func newResolver(root string) *resolver {
	return &resolver{root: root, resolving: make(map[uint64]bool)}
}

// resolve never fails: a nil type resolves to "any". A union already on the
// resolution path is reported without expanding its members again.
func (r *resolver) resolve(t typesys.Type) metadata.ResolvedType {
	if t == nil {
		return metadata.AnyType()
	}
	rt := metadata.ResolvedType{
		Text: t.Text(),
		Refs: r.refs(t),
	}
	if !t.IsUnion() {
		return rt
	}

	id := t.ID()
	if r.resolving[id] {
		return rt
	}
	r.resolving[id] = true
	defer delete(r.resolving, id)

	members := t.UnionTypes()
	rt.UnionType = make([]metadata.ResolvedType, 0, len(members))
	for _, m := range members {
		rt.UnionType = append(rt.UnionType, r.resolve(m))
	}
	return rt
}

func (r *resolver) refs(t typesys.Type) []metadata.TypeRef {
	refs := []metadata.TypeRef{}
	sym := t.Symbol()
	if sym == nil {
		return refs
	}
	for _, decl := range sym.Declarations() {
		ref := metadata.TypeRef{
			Start: decl.Start,
			End:   decl.End,
			File:  r.displayPath(decl),
		}
		if !decl.Library {
			text := decl.Text
			ref.Text = &text
		}
		refs = append(refs, ref)
	}
	return refs
}

// displayPath relativizes project files to the root. Library files and
// anything inside node_modules keep their absolute path.
func (r *resolver) displayPath(decl typesys.Declaration) string {
	file := decl.FileName
	if r.root == "" || decl.Library || !filepath.IsAbs(filepath.FromSlash(file)) {
		return file
	}
	if strings.Contains(file, "/node_modules/") {
		return file
	}
	rel, err := filepath.Rel(filepath.FromSlash(r.root), filepath.FromSlash(file))
	if err != nil {
		return file
	}
	return filepath.ToSlash(rel)
}
