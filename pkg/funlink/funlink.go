// Package funlink is the public embedding API. It wraps the internal linker
// behind a Linker handle that carries the conversion policy, and re-exports
// the types an embedder needs to describe targets and call sites.
package funlink

import (
	"fmt"

	"github.com/funvibe/funlink/internal/convert"
	"github.com/funvibe/funlink/internal/hostfn"
	"github.com/funvibe/funlink/internal/linker"
	"github.com/funvibe/funlink/internal/object"
	"github.com/funvibe/funlink/internal/types"
)

// Re-exported core types.
type (
	Target       = linker.Target
	Shape        = linker.Shape
	Request      = linker.Request
	Decision     = linker.Decision
	DecisionKind = linker.DecisionKind
	Adapter      = linker.Adapter
	Type         = types.Type
	Value        = object.Value
	Callable     = object.Callable
)

// Re-exported decision kinds.
const (
	NoMatch         = linker.NoMatch
	Direct          = linker.Direct
	EmptyVariadic   = linker.EmptyVariadic
	PackedArray     = linker.PackedArray
	AmbiguousSingle = linker.AmbiguousSingle
	CollectMultiple = linker.CollectMultiple
)

// Common type descriptors.
var (
	Int    = types.Int
	Float  = types.Float
	Bool   = types.Bool
	String = types.String
	Any    Type = types.Any
)

// ArrayOf returns the descriptor for a collection of elem.
func ArrayOf(elem Type) Type { return types.ArrayOf(elem) }

// ParseType parses a textual type descriptor ("Int", "[String]", "Any").
func ParseType(s string) (Type, error) { return types.ParseType(s) }

// Target and shape constructors.
var (
	NewTarget         = linker.NewTarget
	NewVariadicTarget = linker.NewVariadicTarget
	NewShape          = linker.NewShape
	NamedShape        = linker.NamedShape
	NewRequest        = linker.NewRequest
)

// WrapFunc bridges a native Go function (possibly variadic) into a target.
var WrapFunc = hostfn.Wrap

// Value constructors.
func IntValue(v int64) Value      { return &object.Integer{Value: v} }
func FloatValue(v float64) Value  { return &object.Float{Value: v} }
func BoolValue(v bool) Value      { return &object.Boolean{Value: v} }
func StringValue(v string) Value  { return &object.String{Value: v} }
func NilValue() Value             { return &object.Nil{} }
func ArrayValue(elem Type, elements ...Value) Value {
	return object.NewArray(elem, elements)
}

// Linker resolves call site shapes against targets under one conversion
// policy. It holds no other state and is safe for concurrent use provided
// the policy is.
type Linker struct {
	conv convert.Service
}

// New returns a linker using the default conversion policy.
func New() *Linker {
	return &Linker{conv: convert.DefaultPolicy()}
}

// NewWithService returns a linker delegating conversion to the given service.
func NewWithService(conv convert.Service) *Linker {
	return &Linker{conv: conv}
}

// NewFromRules returns a linker whose conversion policy is loaded from a
// YAML rules file.
func NewFromRules(path string) (*Linker, error) {
	policy, err := convert.LoadPolicy(path)
	if err != nil {
		return nil, err
	}
	return &Linker{conv: policy}, nil
}

// Match decides whether and how site can be satisfied by target.
func (l *Linker) Match(target *Target, site Shape) Decision {
	return linker.Match(target, site, l.conv)
}

// Link matches and, on success, builds the adapter for site. Returns nil when
// the shape cannot be satisfied, which is an expected outcome, not an error.
func (l *Linker) Link(target *Target, site Shape) *Adapter {
	return linker.Build(target, l.Match(target, site), site, l.conv)
}

// MustLink is Link for call sites known to match, typically static wiring at
// startup. It panics when the shape cannot be satisfied.
func (l *Linker) MustLink(target *Target, site Shape) *Adapter {
	adapter := l.Link(target, site)
	if adapter == nil {
		panic(fmt.Sprintf("funlink: %s does not match %s", site, target))
	}
	return adapter
}

// LinkFirst links site against the first matching target, in the given
// order. It performs no ranking; candidate discovery and preference are the
// caller's concern.
func (l *Linker) LinkFirst(targets []*Target, site Shape) *Adapter {
	for _, target := range targets {
		if adapter := l.Link(target, site); adapter != nil {
			return adapter
		}
	}
	return nil
}
