// Package extract derives component metadata (name, props, emits) from a
// statically typed Vue component definition using only a type checker.
//
// The engine is written against internal/typesys and never executes the
// component. Extraction of one unit is sequential; units bound to separate
// checkers may be extracted concurrently.
package extract

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tsgonest/vuemeta/internal/metadata"
	"github.com/tsgonest/vuemeta/internal/typesys"
)

// ErrMalformedComponent is matched by every MalformedComponentError.
var ErrMalformedComponent = errors.New("malformed component definition")

// MalformedComponentError reports a default export that does not reduce to a
// component options object.
type MalformedComponentError struct {
	Path   string
	Reason string
}

func (e *MalformedComponentError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Path, ErrMalformedComponent, e.Reason)
}

func (e *MalformedComponentError) Unwrap() error { return ErrMalformedComponent }

// Options configures Extract.
type Options struct {
	// Root relativizes declaration paths in type refs. Empty keeps them absolute.
	Root   string
	Logger *slog.Logger
}

// Extract returns the metadata of the component default-exported by unit.
// A unit without a default export yields an empty result and no error.
func Extract(unit typesys.Unit, opts Options) (metadata.Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &extractor{
		unit:     unit,
		logger:   logger.With("unit", unit.FileName()),
		resolver: newResolver(opts.Root),
		rawTypes: make(map[string]metadata.ResolvedType),
	}
	return e.run()
}

type extractor struct {
	unit     typesys.Unit
	logger   *slog.Logger
	resolver *resolver
	// rawTypes memoizes resolveRaw by raw type text.
	rawTypes map[string]metadata.ResolvedType
}

func (e *extractor) run() (metadata.Result, error) {
	comp, err := locate(e.unit)
	if err != nil {
		return metadata.Result{}, err
	}
	if comp == nil {
		e.logger.Debug("no default export")
		return metadata.EmptyResult(), nil
	}

	result := metadata.EmptyResult()
	result.ComponentName = comp.name()

	propsType, emitsType, ok := comp.descriptorTypes()
	if !ok {
		e.logger.Debug("default export is not a typed component descriptor")
		return result, nil
	}
	result.Props = e.props(propsType)
	result.Emits = e.emits(emitsType)
	return result, nil
}
