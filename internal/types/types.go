// Package types defines the static type descriptors used to describe call
// sites and callable targets.
//
// The model is deliberately closed: a type is either a named scalar constant
// (TCon), an array of some element type (TArray), or the dynamic "any" type
// (TAny). There is no reflective capability here: an array-of-E is an
// explicit descriptor carried by whoever declares it, never discovered from a
// runtime value's representation.
package types

import "fmt"

// Type is the interface for all static type descriptors.
type Type interface {
	String() string
	Equal(Type) bool
}

// TCon represents a named scalar type constant (e.g. Int, Float, String).
type TCon struct {
	Name string
}

func (t TCon) String() string { return t.Name }

func (t TCon) Equal(other Type) bool {
	o, ok := other.(TCon)
	return ok && o.Name == t.Name
}

// TArray represents a collection of elements of one type.
type TArray struct {
	Elem Type
}

func (t TArray) String() string { return fmt.Sprintf("[%s]", t.Elem) }

func (t TArray) Equal(other Type) bool {
	o, ok := other.(TArray)
	return ok && t.Elem.Equal(o.Elem)
}

// TAny represents a statically unknown type. A value whose static type is
// TAny may turn out to be anything at runtime, so TAny is never a guaranteed
// source for any concrete type.
type TAny struct{}

func (t TAny) String() string { return "Any" }

func (t TAny) Equal(other Type) bool {
	_, ok := other.(TAny)
	return ok
}

// Common scalar constants.
var (
	Int    = TCon{Name: "Int"}
	Float  = TCon{Name: "Float"}
	Bool   = TCon{Name: "Bool"}
	Char   = TCon{Name: "Char"}
	String = TCon{Name: "String"}
	Nil    = TCon{Name: "Nil"}
	Any    = TAny{}
)

// ArrayOf returns the descriptor for a collection of elem.
func ArrayOf(elem Type) TArray {
	return TArray{Elem: elem}
}

// AssignableFrom reports whether every value of static type src is guaranteed
// to be usable, in place and without conversion, where dst is required.
//
// The rules are intentionally conservative:
//   - identical types are assignable;
//   - anything is assignable into TAny (it accepts all values);
//   - TAny is assignable into nothing but TAny (no guarantee about the value);
//   - arrays are assignable element-wise.
func AssignableFrom(dst, src Type) bool {
	if _, ok := dst.(TAny); ok {
		return true
	}
	if _, ok := src.(TAny); ok {
		return false
	}
	switch d := dst.(type) {
	case TCon:
		s, ok := src.(TCon)
		return ok && s.Name == d.Name
	case TArray:
		s, ok := src.(TArray)
		return ok && AssignableFrom(d.Elem, s.Elem)
	default:
		return false
	}
}
