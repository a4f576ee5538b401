// Package object defines the runtime value model shared by targets and
// adapters. It mirrors the usual interpreter object design: every value knows
// its tag, a printable form, and its static type descriptor.
package object

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/funlink/internal/types"
)

type ValueType string

const (
	INTEGER_OBJ = "INTEGER"
	FLOAT_OBJ   = "FLOAT"
	BOOLEAN_OBJ = "BOOLEAN"
	STRING_OBJ  = "STRING"
	NIL_OBJ     = "NIL"
	ARRAY_OBJ   = "ARRAY"
	RECORD_OBJ  = "RECORD"
)

// Value is the interface for all runtime values.
type Value interface {
	Type() ValueType
	Inspect() string
	RuntimeType() types.Type
}

// Callable is the opaque executable unit all targets and adapters share.
// Arguments are positional; the error return is reserved for invocation
// failures, never for unmatched shapes.
type Callable func(args []Value) (Value, error)

type Integer struct {
	Value int64
}

func (i *Integer) Type() ValueType         { return INTEGER_OBJ }
func (i *Integer) Inspect() string         { return fmt.Sprintf("%d", i.Value) }
func (i *Integer) RuntimeType() types.Type { return types.Int }

type Float struct {
	Value float64
}

func (f *Float) Type() ValueType         { return FLOAT_OBJ }
func (f *Float) Inspect() string         { return fmt.Sprintf("%g", f.Value) }
func (f *Float) RuntimeType() types.Type { return types.Float }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ValueType         { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string         { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) RuntimeType() types.Type { return types.Bool }

type String struct {
	Value string
}

func (s *String) Type() ValueType         { return STRING_OBJ }
func (s *String) Inspect() string         { return fmt.Sprintf("%q", s.Value) }
func (s *String) RuntimeType() types.Type { return types.String }

type Nil struct{}

func (n *Nil) Type() ValueType         { return NIL_OBJ }
func (n *Nil) Inspect() string         { return "nil" }
func (n *Nil) RuntimeType() types.Type { return types.Nil }

// Array is a collection of values of one declared element type. The element
// type is carried explicitly so an empty array still knows what it holds.
type Array struct {
	Elem     types.Type
	Elements []Value
}

func (a *Array) Type() ValueType { return ARRAY_OBJ }

func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a *Array) RuntimeType() types.Type { return types.ArrayOf(a.Elem) }

// Record is a named-field aggregate, used by the gRPC bridge to represent
// request and response messages.
type Record struct {
	Fields map[string]Value
}

func (r *Record) Type() ValueType { return RECORD_OBJ }

func (r *Record) Inspect() string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + r.Fields[name].Inspect()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r *Record) RuntimeType() types.Type { return types.TCon{Name: "Record"} }

// NewArray allocates an array of elem holding the given elements. The slice
// is copied so later mutation of the source cannot alias into the array.
func NewArray(elem types.Type, elements []Value) *Array {
	copied := make([]Value, len(elements))
	copy(copied, elements)
	return &Array{Elem: elem, Elements: copied}
}

// EmptyArray allocates a zero-length array of elem.
func EmptyArray(elem types.Type) *Array {
	return &Array{Elem: elem, Elements: []Value{}}
}
