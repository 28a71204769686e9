package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsgonest/vuemeta/internal/metadata"
	"github.com/tsgonest/vuemeta/internal/typesys"
)

func TestExtract_NoDefaultExport(t *testing.T) {
	result, err := Extract(&fakeUnit{name: "/src/empty.ts"}, Options{})
	require.NoError(t, err)
	assert.Nil(t, result.ComponentName)
	assert.Equal(t, []metadata.Prop{}, result.Props)
	assert.Equal(t, []metadata.Emit{}, result.Emits)
}

func TestExtract_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		export *fakeNode
	}{
		{
			name:   "identifier without initializer",
			export: &fakeNode{kind: typesys.NodeIdentifier},
		},
		{
			name:   "call without arguments",
			export: &fakeNode{kind: typesys.NodeCall, typ: newType("X")},
		},
		{
			name:   "string literal",
			export: &fakeNode{kind: typesys.NodeStringLiteral, str: strPtr("x")},
		},
		{
			name: "call with a non-object argument",
			export: &fakeNode{
				kind: typesys.NodeCall,
				args: []*fakeNode{{kind: typesys.NodeIdentifier}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(&fakeUnit{name: "/src/bad.ts", export: tt.export}, Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedComponent))

			var malformed *MalformedComponentError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, "/src/bad.ts", malformed.Path)
			assert.NotEmpty(t, malformed.Reason)
		})
	}
}

func TestExtract_ComponentName(t *testing.T) {
	t.Run("literal initializer", func(t *testing.T) {
		nameSym := &fakeSymbol{
			name: "name", hasValue: true, typ: newType("string"),
			init: &fakeNode{kind: typesys.NodeStringLiteral, str: strPtr("MyButton")},
		}
		unit := componentUnit("/src/a.ts", objectType(nameSym), objectType(), objectType())

		result, err := Extract(unit, Options{})
		require.NoError(t, err)
		require.NotNil(t, result.ComponentName)
		assert.Equal(t, "MyButton", *result.ComponentName)
	})

	t.Run("literal type", func(t *testing.T) {
		lit := newType(`"Card"`)
		lit.strLit = strPtr("Card")
		nameSym := &fakeSymbol{name: "name", hasValue: true, typ: lit, init: &fakeNode{kind: typesys.NodeIdentifier, typ: lit}}
		unit := componentUnit("/src/a.ts", objectType(nameSym), objectType(), objectType())

		result, err := Extract(unit, Options{})
		require.NoError(t, err)
		require.NotNil(t, result.ComponentName)
		assert.Equal(t, "Card", *result.ComponentName)
	})

	t.Run("computed name", func(t *testing.T) {
		nameSym := member("name", newType("string"))
		unit := componentUnit("/src/a.ts", objectType(nameSym), objectType(), objectType())

		result, err := Extract(unit, Options{})
		require.NoError(t, err)
		assert.Nil(t, result.ComponentName)
	})
}

func TestExtract_NotATypedDescriptor(t *testing.T) {
	nameSym := &fakeSymbol{
		name: "name", hasValue: true,
		init: &fakeNode{kind: typesys.NodeStringLiteral, str: strPtr("Plain")},
	}
	options := objectType(nameSym)
	callType := newType("Component")
	callType.aliasName = "Component"
	unit := &fakeUnit{
		name: "/src/plain.ts",
		export: &fakeNode{
			kind: typesys.NodeCall,
			typ:  callType,
			args: []*fakeNode{{kind: typesys.NodeObjectLiteral, typ: options}},
		},
	}

	result, err := Extract(unit, Options{})
	require.NoError(t, err)
	require.NotNil(t, result.ComponentName)
	assert.Equal(t, "Plain", *result.ComponentName)
	assert.Empty(t, result.Props)
	assert.Empty(t, result.Emits)
	assert.NotNil(t, result.Props)
}

func TestExtract_BareObjectExport(t *testing.T) {
	nameSym := &fakeSymbol{
		name: "name", hasValue: true,
		init: &fakeNode{kind: typesys.NodeStringLiteral, str: strPtr("Bare")},
	}
	unit := &fakeUnit{
		name:   "/src/bare.ts",
		export: &fakeNode{kind: typesys.NodeObjectLiteral, typ: objectType(nameSym)},
	}

	result, err := Extract(unit, Options{})
	require.NoError(t, err)
	require.NotNil(t, result.ComponentName)
	assert.Equal(t, "Bare", *result.ComponentName)
	assert.Empty(t, result.Props)
}

func TestExtract_IdentifierFollowsToDefinition(t *testing.T) {
	direct := requiredStringComponent()
	directResult, err := Extract(direct, Options{})
	require.NoError(t, err)

	indirect := &fakeUnit{
		name:   direct.name,
		probe:  direct.probe,
		export: &fakeNode{kind: typesys.NodeIdentifier, ref: direct.export},
	}
	indirectResult, err := Extract(indirect, Options{})
	require.NoError(t, err)

	assert.Equal(t, directResult, indirectResult)
}

// requiredStringComponent models
//
//	export default defineComponent({ props: { label: { type: String, required: true } } })
func requiredStringComponent() *fakeUnit {
	stringCtor := newType("StringConstructor")
	trueType := newType("true")
	label := member("label", propOptions(member("type", stringCtor), member("required", trueType)))
	props := objectType(label)

	unit := componentUnit("/src/label.ts", objectType(), props, objectType())
	unit.probe = func(decl typesys.AliasDecl) (*fakeType, error) {
		return newType("string"), nil
	}
	return unit
}

func TestExtract_RequiredStringProp(t *testing.T) {
	unit := requiredStringComponent()

	result, err := Extract(unit, Options{})
	require.NoError(t, err)
	require.Len(t, result.Props, 1)

	p := result.Props[0]
	assert.Equal(t, "label", p.Name)
	assert.Contains(t, p.Type.Text, "string")
	assert.Equal(t, "", p.Default)
	assert.Equal(t, "", p.Description)
	assert.True(t, p.Required)

	require.Len(t, unit.probed, 1)
	assert.Equal(t, rawTypeAlias, unit.probed[0].Name)
	assert.Equal(t, "__ResolvePropType<StringConstructor>", unit.probed[0].Type)
	assert.Contains(t, unit.probed[0].Prelude, "ExtractPropTypes")
}
