package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsgonest/vuemeta/internal/typesys"
)

func TestDescription(t *testing.T) {
	sym := &fakeSymbol{tags: []typesys.DocTag{
		textTag("description", "First line."),
		paramTag("value", "The value."),
		textTag("description", "Second line."),
		{Name: "description"},
		paramTag("value", ""),
		paramTag("other", "Other value."),
	}}

	assert.Equal(t, "First line.\nSecond line.\n", description(sym, "description", nil))
	assert.Equal(t, "The value.\n", description(sym, "param", map[string]string{typesys.PartParameterName: "value"}))
	assert.Equal(t, "Other value.", description(sym, "param", map[string]string{typesys.PartParameterName: "other"}))
	assert.Equal(t, "", description(sym, "param", map[string]string{typesys.PartParameterName: "missing"}))
	assert.Equal(t, "", description(sym, "returns", nil))
	assert.Equal(t, "", description(&fakeSymbol{}, "description", nil))
}
