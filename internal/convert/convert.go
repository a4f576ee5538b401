// Package convert supplies the argument conversion service consumed by the
// linker. The service answers whether a value of one static type can ever be
// converted to another, and wraps callables so each argument is coerced
// before forwarding.
//
// How permissive "can ever be converted" is belongs to the policy, not the
// linker: a permissive policy pushes more single-trailing-argument call sites
// into the guarded branch, a strict one links more of them directly. The
// default Policy is rule-based and can be extended from a YAML rules file.
package convert

import (
	"fmt"

	"github.com/funvibe/funlink/internal/object"
	"github.com/funvibe/funlink/internal/types"
)

// Service is the conversion authority the linker delegates to. It must be
// side-effect-free; the linker may consult it concurrently.
type Service interface {
	// CanConvert reports whether a value of static type from could ever be
	// converted to to. Assignability always counts as convertible.
	CanConvert(from, to types.Type) bool

	// Convert coerces a single runtime value to the required type.
	Convert(v object.Value, to types.Type) (object.Value, error)

	// Converting wraps fn so that, on each call, argument i is coerced from
	// static type from[i] to required type to[i] before forwarding. Positions
	// beyond len(to) pass through untouched. Positions already assignable are
	// forwarded as-is without consulting the converter at runtime.
	Converting(fn object.Callable, from, to []types.Type) object.Callable
}

// Func converts one runtime value.
type Func func(v object.Value) (object.Value, error)

type ruleKey struct {
	from string
	to   string
}

// Policy is the default rule-based Service. A rule maps a pair of type names
// to a converter; structural cases (identity, dynamic Any, element-wise
// arrays) are built in.
type Policy struct {
	rules map[ruleKey]Func
}

// NewPolicy returns a policy with no scalar rules. Only identity, Any and
// element-wise array conversion apply.
func NewPolicy() *Policy {
	return &Policy{rules: make(map[ruleKey]Func)}
}

// DefaultPolicy returns a policy with the standard scalar rules: numeric
// widening and rendering to String.
func DefaultPolicy() *Policy {
	p := NewPolicy()
	p.AddRule(types.Int, types.Float, builtinConverters["intToFloat"])
	p.AddRule(types.Int, types.String, builtinConverters["intToString"])
	p.AddRule(types.Float, types.String, builtinConverters["floatToString"])
	p.AddRule(types.Bool, types.String, builtinConverters["boolToString"])
	return p
}

// AddRule registers fn as the conversion from one scalar type to another.
// A later rule for the same pair replaces the earlier one.
func (p *Policy) AddRule(from, to types.Type, fn Func) {
	p.rules[ruleKey{from: from.String(), to: to.String()}] = fn
}

func (p *Policy) rule(from, to types.Type) (Func, bool) {
	fn, ok := p.rules[ruleKey{from: from.String(), to: to.String()}]
	return fn, ok
}

// CanConvert implements Service.
func (p *Policy) CanConvert(from, to types.Type) bool {
	if types.AssignableFrom(to, from) {
		return true
	}
	// A dynamically typed position gives no static guarantee either way: the
	// runtime value might be convertible, so the answer is "possibly".
	if from.Equal(types.Any) {
		return true
	}
	if _, ok := p.rule(from, to); ok {
		return true
	}
	fromArr, okFrom := from.(types.TArray)
	toArr, okTo := to.(types.TArray)
	if okFrom && okTo {
		return p.CanConvert(fromArr.Elem, toArr.Elem)
	}
	return false
}

// Convert implements Service. Dynamic values convert by their actual runtime
// type, which is always concrete.
func (p *Policy) Convert(v object.Value, to types.Type) (object.Value, error) {
	from := v.RuntimeType()
	if types.AssignableFrom(to, from) {
		return v, nil
	}
	if fn, ok := p.rule(from, to); ok {
		return fn(v)
	}
	if toArr, ok := to.(types.TArray); ok {
		if arr, ok := v.(*object.Array); ok {
			elems := make([]object.Value, len(arr.Elements))
			for i, el := range arr.Elements {
				converted, err := p.Convert(el, toArr.Elem)
				if err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				elems[i] = converted
			}
			return object.NewArray(toArr.Elem, elems), nil
		}
	}
	return nil, fmt.Errorf("no conversion from %s to %s", from, to)
}

// Converting implements Service. The positions needing coercion are decided
// once here, from the static types; the returned callable only touches those.
func (p *Policy) Converting(fn object.Callable, from, to []types.Type) object.Callable {
	var positions []int
	var targets []types.Type
	for i := 0; i < len(from) && i < len(to); i++ {
		if !types.AssignableFrom(to[i], from[i]) {
			positions = append(positions, i)
			targets = append(targets, to[i])
		}
	}
	if len(positions) == 0 {
		return fn
	}
	return func(args []object.Value) (object.Value, error) {
		converted := make([]object.Value, len(args))
		copy(converted, args)
		for n, i := range positions {
			if i >= len(args) {
				break
			}
			v, err := p.Convert(args[i], targets[n])
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			converted[i] = v
		}
		return fn(converted)
	}
}
