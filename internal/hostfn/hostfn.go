// Package hostfn bridges native Go functions into linkable targets. A Go
// function's arity, variadic flag and trailing element type are reflected
// once at wrap time into an explicit target descriptor; the produced callable
// converts runtime values to Go values, invokes the function, and converts
// the result back.
//
// Reflection stays inside this package: the linker core only ever sees the
// closed descriptor model.
package hostfn

import (
	"fmt"
	"reflect"

	"github.com/funvibe/funlink/internal/linker"
	"github.com/funvibe/funlink/internal/object"
	"github.com/funvibe/funlink/internal/types"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Wrap reflects a Go function into a target. Supported parameter and result
// kinds: signed integers, floats, bool, string, slices of those, and
// interface{} (mapped to the dynamic Any type).
func Wrap(name string, fn interface{}) (*linker.Target, error) {
	val := reflect.ValueOf(fn)
	if !val.IsValid() || val.Kind() != reflect.Func {
		return nil, fmt.Errorf("hostfn: %s is not a function", name)
	}
	fnType := val.Type()

	numIn := fnType.NumIn()
	variadic := fnType.IsVariadic()
	fixedIn := numIn
	if variadic {
		fixedIn = numIn - 1
	}

	params := make([]types.Type, fixedIn)
	for i := 0; i < fixedIn; i++ {
		p, err := descOf(fnType.In(i))
		if err != nil {
			return nil, fmt.Errorf("hostfn: %s parameter %d: %w", name, i, err)
		}
		params[i] = p
	}

	if err := checkResults(fnType); err != nil {
		return nil, fmt.Errorf("hostfn: %s: %w", name, err)
	}

	callable := makeCallable(name, val, fixedIn)
	if !variadic {
		return linker.NewTarget(name, callable, params...), nil
	}

	elemGo := fnType.In(numIn - 1).Elem()
	elem, err := descOf(elemGo)
	if err != nil {
		return nil, fmt.Errorf("hostfn: %s variadic element: %w", name, err)
	}
	return linker.NewVariadicTarget(name, callable, elem, params...), nil
}

// MustWrap is Wrap for static registrations that cannot fail at runtime.
func MustWrap(name string, fn interface{}) *linker.Target {
	target, err := Wrap(name, fn)
	if err != nil {
		panic(err)
	}
	return target
}

// makeCallable builds the callable the linker delegates to. For a variadic
// function the last incoming value is an array whose elements are spread into
// the variadic slots.
func makeCallable(name string, fn reflect.Value, fixedIn int) object.Callable {
	fnType := fn.Type()
	variadic := fnType.IsVariadic()
	return func(args []object.Value) (result object.Value, err error) {
		defer func() {
			if r := recover(); r != nil {
				result = nil
				err = fmt.Errorf("hostfn: %s panicked: %v", name, r)
			}
		}()

		want := fixedIn
		if variadic {
			want = fixedIn + 1
		}
		if len(args) != want {
			return nil, fmt.Errorf("hostfn: %s expects %d actual arguments, got %d", name, want, len(args))
		}

		var goArgs []reflect.Value
		for i := 0; i < fixedIn; i++ {
			gv, convErr := toGo(args[i], fnType.In(i))
			if convErr != nil {
				return nil, fmt.Errorf("hostfn: %s argument %d: %w", name, i, convErr)
			}
			goArgs = append(goArgs, gv)
		}
		if variadic {
			arr, ok := args[fixedIn].(*object.Array)
			if !ok {
				return nil, fmt.Errorf("hostfn: %s expects a collection in the variadic slot, got %s", name, args[fixedIn].Type())
			}
			elemType := fnType.In(fnType.NumIn() - 1).Elem()
			for i, el := range arr.Elements {
				gv, convErr := toGo(el, elemType)
				if convErr != nil {
					return nil, fmt.Errorf("hostfn: %s variadic element %d: %w", name, i, convErr)
				}
				goArgs = append(goArgs, gv)
			}
		}

		return fromResults(fn.Call(goArgs))
	}
}

// checkResults validates the supported return signatures: (), (T), (error),
// (T, error).
func checkResults(fnType reflect.Type) error {
	switch fnType.NumOut() {
	case 0, 1:
		return nil
	case 2:
		if fnType.Out(1) != errorType {
			return fmt.Errorf("second result must be error, got %s", fnType.Out(1))
		}
		return nil
	default:
		return fmt.Errorf("at most 2 results supported, got %d", fnType.NumOut())
	}
}

func fromResults(results []reflect.Value) (object.Value, error) {
	switch len(results) {
	case 0:
		return &object.Nil{}, nil
	case 1:
		if results[0].Type() == errorType {
			if !results[0].IsNil() {
				return nil, results[0].Interface().(error)
			}
			return &object.Nil{}, nil
		}
		return fromGo(results[0])
	default:
		if !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}
		return fromGo(results[0])
	}
}

// descOf maps a Go type to its static descriptor.
func descOf(t reflect.Type) (types.Type, error) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return types.Int, nil
	case reflect.Float32, reflect.Float64:
		return types.Float, nil
	case reflect.Bool:
		return types.Bool, nil
	case reflect.String:
		return types.String, nil
	case reflect.Slice:
		elem, err := descOf(t.Elem())
		if err != nil {
			return nil, err
		}
		return types.ArrayOf(elem), nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return types.Any, nil
		}
		return nil, fmt.Errorf("unsupported interface type %s", t)
	default:
		return nil, fmt.Errorf("unsupported Go type %s", t)
	}
}

// toGo converts a runtime value to a Go value of the expected type.
func toGo(v object.Value, t reflect.Type) (reflect.Value, error) {
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		native, err := toNative(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(&native).Elem(), nil
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := v.(*object.Integer)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected Integer for %s, got %s", t, v.Type())
		}
		return reflect.ValueOf(i.Value).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		switch n := v.(type) {
		case *object.Float:
			return reflect.ValueOf(n.Value).Convert(t), nil
		case *object.Integer:
			return reflect.ValueOf(float64(n.Value)).Convert(t), nil
		}
		return reflect.Value{}, fmt.Errorf("expected Float for %s, got %s", t, v.Type())
	case reflect.Bool:
		b, ok := v.(*object.Boolean)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected Boolean for %s, got %s", t, v.Type())
		}
		return reflect.ValueOf(b.Value), nil
	case reflect.String:
		s, ok := v.(*object.String)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected String for %s, got %s", t, v.Type())
		}
		return reflect.ValueOf(s.Value), nil
	case reflect.Slice:
		arr, ok := v.(*object.Array)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected Array for %s, got %s", t, v.Type())
		}
		out := reflect.MakeSlice(t, len(arr.Elements), len(arr.Elements))
		for i, el := range arr.Elements {
			gv, err := toGo(el, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(gv)
		}
		return out, nil
	default:
		return reflect.Value{}, fmt.Errorf("unsupported Go type %s", t)
	}
}

// toNative unwraps a runtime value into the plain Go representation used for
// interface{} parameters.
func toNative(v object.Value) (interface{}, error) {
	switch n := v.(type) {
	case *object.Integer:
		return n.Value, nil
	case *object.Float:
		return n.Value, nil
	case *object.Boolean:
		return n.Value, nil
	case *object.String:
		return n.Value, nil
	case *object.Nil:
		return nil, nil
	case *object.Array:
		out := make([]interface{}, len(n.Elements))
		for i, el := range n.Elements {
			native, err := toNative(el)
			if err != nil {
				return nil, err
			}
			out[i] = native
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot pass %s to interface{} parameter", v.Type())
	}
}

// fromGo converts a Go return value back to a runtime value.
func fromGo(v reflect.Value) (object.Value, error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return &object.Nil{}, nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &object.Integer{Value: v.Int()}, nil
	case reflect.Float32, reflect.Float64:
		return &object.Float{Value: v.Float()}, nil
	case reflect.Bool:
		return &object.Boolean{Value: v.Bool()}, nil
	case reflect.String:
		return &object.String{Value: v.String()}, nil
	case reflect.Slice:
		elem, err := descOf(v.Type().Elem())
		if err != nil {
			return nil, err
		}
		elems := make([]object.Value, v.Len())
		for i := 0; i < v.Len(); i++ {
			el, err := fromGo(v.Index(i))
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = el
		}
		return object.NewArray(elem, elems), nil
	default:
		return nil, fmt.Errorf("unsupported Go result type %s", v.Type())
	}
}
