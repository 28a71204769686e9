package extract

import (
	"github.com/tsgonest/vuemeta/internal/metadata"
	"github.com/tsgonest/vuemeta/internal/typesys"
)

// propTypeAlias marks the explicit `type: Object as PropType<T>` form.
const propTypeAlias = "PropType"

func (e *extractor) props(propsType typesys.Type) []metadata.Prop {
	props := []metadata.Prop{}
	if propsType == nil || !propsType.IsObject() {
		return props
	}
	for _, sym := range propsType.Properties() {
		if p, ok := e.prop(sym); ok {
			props = append(props, p)
		}
	}
	return props
}

// prop analyzes one member of the props type. Members whose value has no
// initializer are not props.
func (e *extractor) prop(sym typesys.Symbol) (metadata.Prop, bool) {
	init := sym.Initializer()
	if init == nil {
		return metadata.Prop{}, false
	}
	options := init.Type()
	if options == nil {
		return metadata.Prop{}, false
	}

	p := metadata.Prop{
		Name:        sym.Name(),
		Description: description(sym, "description", nil),
	}

	switch typeInit := memberInitializerType(options, "type"); {
	case typeInit == nil:
		p.Type = metadata.AnyType()
	case typeInit.AliasName() == propTypeAlias:
		var wrapped typesys.Type
		if args := typeInit.AliasTypeArguments(); len(args) > 0 {
			wrapped = args[0]
		}
		p.Type = e.resolver.resolve(wrapped)
	default:
		p.Type = e.resolveRaw(typeInit)
	}

	if def := memberInitializerType(options, "default"); def != nil {
		p.Default = def.Text()
	}
	if req := memberInitializerType(options, "required"); req != nil {
		p.Required = req.Text() == "true"
	}
	return p, true
}

// memberInitializerType returns the type of the initializer expression of
// t's member name, or nil.
func memberInitializerType(t typesys.Type, name string) typesys.Type {
	sym := t.Property(name)
	if sym == nil {
		return nil
	}
	init := sym.Initializer()
	if init == nil {
		return nil
	}
	return init.Type()
}
