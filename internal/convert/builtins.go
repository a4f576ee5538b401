package convert

import (
	"fmt"
	"strconv"

	"github.com/funvibe/funlink/internal/object"
)

// builtinConverters are the named converter functions a rules file can refer
// to with `via`. Register adds project-specific ones.
var builtinConverters = map[string]Func{
	"intToFloat":    convIntToFloat,
	"floatToInt":    convFloatToInt,
	"intToString":   convIntToString,
	"floatToString": convFloatToString,
	"boolToString":  convBoolToString,
	"stringToInt":   convStringToInt,
}

// Register makes fn available to rules files under the given name.
// Registering an existing name replaces the previous converter.
func Register(name string, fn Func) {
	builtinConverters[name] = fn
}

func convIntToFloat(v object.Value) (object.Value, error) {
	i, ok := v.(*object.Integer)
	if !ok {
		return nil, fmt.Errorf("intToFloat: expected Integer, got %s", v.Type())
	}
	return &object.Float{Value: float64(i.Value)}, nil
}

func convFloatToInt(v object.Value) (object.Value, error) {
	f, ok := v.(*object.Float)
	if !ok {
		return nil, fmt.Errorf("floatToInt: expected Float, got %s", v.Type())
	}
	return &object.Integer{Value: int64(f.Value)}, nil
}

func convIntToString(v object.Value) (object.Value, error) {
	i, ok := v.(*object.Integer)
	if !ok {
		return nil, fmt.Errorf("intToString: expected Integer, got %s", v.Type())
	}
	return &object.String{Value: strconv.FormatInt(i.Value, 10)}, nil
}

func convFloatToString(v object.Value) (object.Value, error) {
	f, ok := v.(*object.Float)
	if !ok {
		return nil, fmt.Errorf("floatToString: expected Float, got %s", v.Type())
	}
	return &object.String{Value: strconv.FormatFloat(f.Value, 'g', -1, 64)}, nil
}

func convBoolToString(v object.Value) (object.Value, error) {
	b, ok := v.(*object.Boolean)
	if !ok {
		return nil, fmt.Errorf("boolToString: expected Boolean, got %s", v.Type())
	}
	return &object.String{Value: strconv.FormatBool(b.Value)}, nil
}

func convStringToInt(v object.Value) (object.Value, error) {
	s, ok := v.(*object.String)
	if !ok {
		return nil, fmt.Errorf("stringToInt: expected String, got %s", v.Type())
	}
	n, err := strconv.ParseInt(s.Value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("stringToInt: %w", err)
	}
	return &object.Integer{Value: n}, nil
}
