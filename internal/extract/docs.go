package extract

import (
	"strings"

	"github.com/tsgonest/vuemeta/internal/typesys"
)

// description joins the first text part of every tag of sym named tag. A tag
// survives filter when, for each kind/value entry, one of its parts has that
// kind and text.
func description(sym typesys.Symbol, tag string, filter map[string]string) string {
	var texts []string
	for _, t := range sym.DocTags() {
		if t.Name != tag || !matchesFilter(t, filter) {
			continue
		}
		texts = append(texts, firstTextPart(t))
	}
	return strings.Join(texts, "\n")
}

func matchesFilter(t typesys.DocTag, filter map[string]string) bool {
	for kind, value := range filter {
		found := false
		for _, p := range t.Parts {
			if p.Kind == kind && p.Text == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func firstTextPart(t typesys.DocTag) string {
	for _, p := range t.Parts {
		if p.Kind == typesys.PartText {
			return p.Text
		}
	}
	return ""
}
