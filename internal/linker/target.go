// Package linker resolves a call site shape against a concrete, possibly
// variadic callable target, producing an executable adapter that reshapes and
// converts arguments before delegating to the target.
//
// Resolution is a pure two-step function: Match decides whether and how a
// shape can be satisfied, Build turns that decision into an adapter. Nothing
// is cached and no state survives a resolution; callers needing memoization
// layer it externally, keyed by (target identity, shape).
package linker

import (
	"strings"

	"github.com/funvibe/funlink/internal/object"
	"github.com/funvibe/funlink/internal/types"
)

// Target describes one concrete callable: its executable, the declared types
// of its fixed parameters, and (when variadic) the element type of the
// trailing collection. A variadic target's callable always receives exactly
// len(Params)+1 actual arguments, the last being an array of Elem.
//
// Targets are immutable once constructed; the linker never mutates them.
type Target struct {
	Name     string
	Fn       object.Callable
	Params   []types.Type
	Variadic bool
	Elem     types.Type
}

// NewTarget constructs a fixed-arity target.
func NewTarget(name string, fn object.Callable, params ...types.Type) *Target {
	return &Target{Name: name, Fn: fn, Params: copyTypes(params)}
}

// NewVariadicTarget constructs a target with a trailing variable-length run
// of elem after the fixed params.
func NewVariadicTarget(name string, fn object.Callable, elem types.Type, params ...types.Type) *Target {
	return &Target{Name: name, Fn: fn, Params: copyTypes(params), Variadic: true, Elem: elem}
}

// Fixed returns the number of mandatory fixed parameters.
func (t *Target) Fixed() int { return len(t.Params) }

// Total returns the declared parameter count: fixed plus one collection slot
// when variadic.
func (t *Target) Total() int {
	if t.Variadic {
		return len(t.Params) + 1
	}
	return len(t.Params)
}

// ActualTypes returns the types the target's callable actually receives:
// the fixed parameters plus, when variadic, the trailing collection type.
func (t *Target) ActualTypes() []types.Type {
	actual := copyTypes(t.Params)
	if t.Variadic {
		actual = append(actual, types.ArrayOf(t.Elem))
	}
	return actual
}

func (t *Target) String() string {
	parts := make([]string, 0, t.Total())
	for _, p := range t.Params {
		parts = append(parts, p.String())
	}
	if t.Variadic {
		parts = append(parts, t.Elem.String()+"...")
	}
	name := t.Name
	if name == "" {
		name = "<target>"
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

func copyTypes(ts []types.Type) []types.Type {
	copied := make([]types.Type, len(ts))
	copy(copied, ts)
	return copied
}
