package compiler

import (
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"

	"github.com/tsgonest/vuemeta/internal/typesys"
)

// symbolDocTags collects the JSDoc tags of every declaration of sym in display
// part form. A parameter sees the @param tags naming it on its function and on
// the property or variable holding that function.
func symbolDocTags(sym *ast.Symbol) []typesys.DocTag {
	var tags []typesys.DocTag
	for _, decl := range sym.Declarations {
		if decl.Kind == ast.KindParameter {
			tags = append(tags, parameterDocTags(decl, sym.Name)...)
			continue
		}
		for _, host := range commentHosts(decl) {
			tags = append(tags, nodeDocTags(host)...)
		}
	}
	return tags
}

func parameterDocTags(param *ast.Node, name string) []typesys.DocTag {
	var tags []typesys.DocTag
	for _, host := range commentHosts(param.Parent) {
		for _, tag := range nodeDocTags(host) {
			if tag.Name == "param" && paramTagName(tag) == name {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

func paramTagName(tag typesys.DocTag) string {
	for _, p := range tag.Parts {
		if p.Kind == typesys.PartParameterName {
			return p.Text
		}
	}
	return ""
}

// commentHosts returns node followed by the ancestors a JSDoc comment for node
// may be attached to.
func commentHosts(node *ast.Node) []*ast.Node {
	var hosts []*ast.Node
	for n := node; n != nil; {
		hosts = append(hosts, n)
		parent := n.Parent
		if parent == nil {
			break
		}
		switch {
		case parent.Kind == ast.KindPropertyAssignment,
			parent.Kind == ast.KindPropertyDeclaration,
			parent.Kind == ast.KindPropertySignature,
			parent.Kind == ast.KindExportAssignment:
			n = parent
		case parent.Kind == ast.KindVariableDeclaration:
			n = parent
		case n.Kind == ast.KindVariableDeclaration &&
			parent.Kind == ast.KindVariableDeclarationList &&
			parent.Parent != nil && parent.Parent.Kind == ast.KindVariableStatement:
			n = parent.Parent
		default:
			return hosts
		}
	}
	return hosts
}

func nodeDocTags(node *ast.Node) []typesys.DocTag {
	var tags []typesys.DocTag
	for _, jsdocNode := range node.JSDoc(nil) {
		jsdoc := jsdocNode.AsJSDoc()
		if jsdoc.Tags == nil {
			continue
		}
		for _, tagNode := range jsdoc.Tags.Nodes {
			if tag, ok := docTag(tagNode); ok {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// docTag converts one JSDoc tag node. Only parameter tags and free-form tags
// such as @description are read; other known tag kinds are skipped.
func docTag(tagNode *ast.Node) (typesys.DocTag, bool) {
	switch tagNode.Kind {
	case ast.KindJSDocParameterTag:
		paramTag := tagNode.AsJSDocParameterOrPropertyTag()
		if paramTag == nil || paramTag.Name() == nil || paramTag.Name().Kind != ast.KindIdentifier {
			return typesys.DocTag{}, false
		}
		tag := typesys.DocTag{
			Name:  "param",
			Parts: []typesys.DocPart{{Kind: typesys.PartParameterName, Text: paramTag.Name().Text()}},
		}
		if comment := strings.TrimSpace(extractNodeListText(paramTag.Comment)); comment != "" {
			tag.Parts = append(tag.Parts, typesys.DocPart{Kind: typesys.PartText, Text: comment})
		}
		return tag, true
	case ast.KindJSDocTag:
		unknownTag := tagNode.AsJSDocUnknownTag()
		if unknownTag == nil || unknownTag.TagName == nil {
			return typesys.DocTag{}, false
		}
		tag := typesys.DocTag{Name: unknownTag.TagName.Text()}
		if comment := strings.TrimSpace(extractNodeListText(unknownTag.Comment)); comment != "" {
			tag.Parts = []typesys.DocPart{{Kind: typesys.PartText, Text: comment}}
		}
		return tag, true
	}
	return typesys.DocTag{}, false
}

// extractNodeListText concatenates text from a NodeList of JSDoc text/link nodes.
func extractNodeListText(nodeList *ast.NodeList) string {
	if nodeList == nil {
		return ""
	}
	var parts []string
	for _, commentNode := range nodeList.Nodes {
		switch commentNode.Kind {
		case ast.KindJSDocText, ast.KindJSDocLink, ast.KindJSDocLinkCode, ast.KindJSDocLinkPlain:
			parts = append(parts, commentNode.Text())
		}
	}
	return strings.Join(parts, "")
}
