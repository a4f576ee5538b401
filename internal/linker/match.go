package linker

import (
	"github.com/funvibe/funlink/internal/convert"
	"github.com/funvibe/funlink/internal/types"
)

// DecisionKind enumerates the ways a call site shape can relate to a target.
// The set is closed: Build recognizes exactly these and nothing else.
type DecisionKind int

const (
	// NoMatch: the shape cannot be satisfied by this target. A first-class,
	// expected outcome; the caller tries other candidates.
	NoMatch DecisionKind = iota

	// Direct: exact arity match against a fixed-arity target.
	Direct

	// EmptyVariadic: the call supplies zero variadic elements; the adapter
	// synthesizes an empty collection as the final actual argument.
	EmptyVariadic

	// PackedArray: the single trailing argument is statically guaranteed to
	// be a pre-built collection compatible with the variadic slot.
	PackedArray

	// AmbiguousSingle: the single trailing argument gives no static guarantee
	// either way; the adapter needs a runtime guard.
	AmbiguousSingle

	// CollectMultiple: trailing arguments are collected into a new collection
	// of the variadic element type.
	CollectMultiple
)

func (k DecisionKind) String() string {
	switch k {
	case NoMatch:
		return "NoMatch"
	case Direct:
		return "Direct"
	case EmptyVariadic:
		return "EmptyVariadic"
	case PackedArray:
		return "PackedArray"
	case AmbiguousSingle:
		return "AmbiguousSingle"
	case CollectMultiple:
		return "CollectMultiple"
	default:
		return "Unknown"
	}
}

// Decision is the outcome of matching one shape against one target. Elem and
// Pos are populated only for AmbiguousSingle: they carry the variadic element
// type and the argument position the runtime guard must test.
type Decision struct {
	Kind DecisionKind
	Elem types.Type
	Pos  int
}

// Match decides whether and how site can be satisfied by target. It is a pure
// function: no side effects, never errors; unmatched shapes yield NoMatch.
//
// The conversion service is consulted for exactly one question: whether the
// single trailing argument of an arity-matching variadic call could ever be
// converted to the variadic collection type. Everything the static types
// already prove is decided without it.
func Match(target *Target, site Shape, conv convert.Service) Decision {
	fixed := target.Fixed()
	argc := site.Argc()

	// A call cannot supply fewer arguments than the mandatory fixed ones.
	if argc < fixed {
		return Decision{Kind: NoMatch}
	}

	if argc == fixed {
		if target.Variadic {
			return Decision{Kind: EmptyVariadic}
		}
		return Decision{Kind: Direct}
	}

	// Only variadic targets tolerate extra arguments.
	if !target.Variadic {
		return Decision{Kind: NoMatch}
	}

	if argc == target.Total() {
		// Exactly one argument lands in the variadic slot. The tricky corner
		// case: it could be a pre-packed collection or a single element.
		last := site.Arg(fixed)
		collection := types.ArrayOf(target.Elem)
		if types.AssignableFrom(collection, last) {
			// Statically always a compatible collection; link directly.
			return Decision{Kind: PackedArray}
		}
		if !conv.CanConvert(last, collection) {
			// Statically never a compatible collection; always a lone element.
			return Decision{Kind: CollectMultiple}
		}
		// No guarantee either way across invocations; defer to a runtime test.
		return Decision{Kind: AmbiguousSingle, Elem: target.Elem, Pos: fixed}
	}

	// More than one trailing argument: always collect.
	return Decision{Kind: CollectMultiple}
}
