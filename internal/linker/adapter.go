package linker

import (
	"fmt"

	"github.com/funvibe/funlink/internal/convert"
	"github.com/funvibe/funlink/internal/object"
	"github.com/funvibe/funlink/internal/types"
)

// Adapter is an executable wrapper with the exact arity and per-position
// types of the call site it was built for. Reshaping for a variadic target
// (collecting trailing arguments, inserting an empty collection) happens
// inside and is invisible to the caller.
//
// Adapters are safe for unsynchronized concurrent invocation provided the
// conversion service and the underlying target callable are.
type Adapter struct {
	paramTypes []types.Type
	fn         object.Callable
}

// Arity returns the number of arguments the adapter accepts.
func (a *Adapter) Arity() int { return len(a.paramTypes) }

// ParamTypes returns a copy of the accepted per-position types. These always
// equal the shape the adapter was built for.
func (a *Adapter) ParamTypes() []types.Type {
	return copyTypes(a.paramTypes)
}

// Invoke runs the adapter.
func (a *Adapter) Invoke(args []object.Value) (object.Value, error) {
	if len(args) != len(a.paramTypes) {
		return nil, fmt.Errorf("adapter expects %d arguments, got %d", len(a.paramTypes), len(args))
	}
	return a.fn(args)
}

// Build turns a match decision into an executable adapter for site. It
// returns nil for NoMatch; the caller must try another target. All type
// coercion is delegated to conv; Build itself only reshapes.
//
// The decision kinds are a closed set; an unrecognized kind is a programming
// defect inside the linker and panics.
func Build(target *Target, decision Decision, site Shape, conv convert.Service) *Adapter {
	switch decision.Kind {
	case NoMatch:
		return nil

	case Direct:
		// Same arity; coerce each position to the declared parameter type.
		return converting(target.Fn, site, target.Params, conv)

	case EmptyVariadic:
		// One fewer apparent parameter than the target's actual arity: always
		// supply a zero-length collection of the declared element type. The
		// element type comes from the target; there is no call site type at
		// the absent position to draw from.
		elem := target.Elem
		fn := target.Fn
		inner := func(args []object.Value) (object.Value, error) {
			actual := make([]object.Value, 0, len(args)+1)
			actual = append(actual, args...)
			actual = append(actual, object.EmptyArray(elem))
			return fn(actual)
		}
		return converting(inner, site, target.Params, conv)

	case PackedArray:
		// The trailing argument is converted as a whole collection.
		return converting(target.Fn, site, target.ActualTypes(), conv)

	case AmbiguousSingle:
		// Two precomputed branches selected by a runtime type test on the
		// trailing argument. The guard only selects; it never re-resolves.
		guard := IsInstance(decision.Elem, decision.Pos)
		packed := Build(target, Decision{Kind: PackedArray}, site, conv)
		collected := Build(target, Decision{Kind: CollectMultiple}, site, conv)
		fn := func(args []object.Value) (object.Value, error) {
			if guard(args) {
				return packed.fn(args)
			}
			return collected.fn(args)
		}
		return &Adapter{paramTypes: site.Args(), fn: fn}

	case CollectMultiple:
		return converting(collecting(target, site.Argc(), conv), site, target.Params, conv)

	default:
		panic(fmt.Sprintf("linker: unknown decision kind %d", decision.Kind))
	}
}

// converting wraps fn with per-position coercion from the site's static types
// to the declared types and fixes the adapter's accepted shape.
func converting(fn object.Callable, site Shape, declared []types.Type, conv convert.Service) *Adapter {
	siteTypes := site.Args()
	return &Adapter{
		paramTypes: siteTypes,
		fn:         conv.Converting(fn, siteTypes, declared),
	}
}

// collecting reshapes target's callable to accept argc arguments, gathering
// the trailing argc-fixed into a newly allocated collection of the variadic
// element type. Each collected element is converted individually, so
// element-wise coercion triggers per element, not for the collection as a
// whole.
func collecting(target *Target, argc int, conv convert.Service) object.Callable {
	fixed := target.Fixed()
	elem := target.Elem
	fn := target.Fn
	return func(args []object.Value) (object.Value, error) {
		trailing := args[fixed:]
		elems := make([]object.Value, len(trailing))
		for i, v := range trailing {
			converted, err := conv.Convert(v, elem)
			if err != nil {
				return nil, fmt.Errorf("variadic argument %d: %w", fixed+i, err)
			}
			elems[i] = converted
		}
		actual := make([]object.Value, 0, fixed+1)
		actual = append(actual, args[:fixed]...)
		actual = append(actual, object.NewArray(elem, elems))
		return fn(actual)
	}
}
