package extract

import (
	"github.com/tsgonest/vuemeta/internal/typesys"
)

// descriptorAlias is the type alias Vue's defineComponent returns. Its type
// arguments carry the props (0) and emits (7) option types.
const (
	descriptorAlias = "DefineComponent"
	propsTypeArg    = 0
	emitsTypeArg    = 7
)

// component is a located component definition.
type component struct {
	// options is the object literal passed as component options.
	options typesys.Node
	// call is the factory call wrapping options, nil for a bare object.
	call typesys.Node
}

// locate finds the component options behind the unit's default export.
// It returns nil and no error when the unit has no default export.
func locate(unit typesys.Unit) (*component, error) {
	expr := unit.DefaultExport()
	if expr == nil {
		return nil, nil
	}
	malformed := func(reason string) error {
		return &MalformedComponentError{Path: unit.FileName(), Reason: reason}
	}

	if expr.Kind() == typesys.NodeIdentifier {
		ref := expr.Referenced()
		if ref == nil {
			return nil, malformed("cannot find the initializer of the exported identifier")
		}
		expr = ref
	}

	comp := &component{}
	if expr.Kind() == typesys.NodeCall {
		comp.call = expr
		args := expr.Arguments()
		if len(args) == 0 {
			return nil, malformed("component factory call has no arguments")
		}
		expr = args[0]
	}

	if expr.Kind() != typesys.NodeObjectLiteral {
		return nil, malformed("expected an object literal, found " + expr.Kind().String())
	}
	comp.options = expr
	return comp, nil
}

// name returns the component's declared name, or nil.
func (c *component) name() *string {
	optionsType := c.options.Type()
	if optionsType == nil {
		return nil
	}
	sym := optionsType.Property("name")
	if sym == nil {
		return nil
	}
	if init := sym.Initializer(); init != nil {
		if v, ok := init.StringLiteralValue(); ok {
			return &v
		}
	}
	if t := sym.Type(); t != nil {
		if v, ok := t.StringLiteralValue(); ok {
			return &v
		}
	}
	return nil
}

// descriptorTypes returns the props and emits types of a typed component
// descriptor. ok is false when the factory call is not one.
func (c *component) descriptorTypes() (props, emits typesys.Type, ok bool) {
	if c.call == nil {
		return nil, nil, false
	}
	callType := c.call.Type()
	if callType == nil || callType.AliasName() != descriptorAlias {
		return nil, nil, false
	}
	args := callType.AliasTypeArguments()
	if len(args) > propsTypeArg {
		props = args[propsTypeArg]
	}
	if len(args) > emitsTypeArg {
		emits = args[emitsTypeArg]
	}
	return props, emits, true
}
