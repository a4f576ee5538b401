package linker

import (
	"github.com/funvibe/funlink/internal/object"
	"github.com/funvibe/funlink/internal/types"
)

// Guard is a runtime predicate over an invocation's arguments, used to pick
// between two precomputed adapters when static information is insufficient.
type Guard func(args []object.Value) bool

// IsInstance returns a guard that tests whether the runtime type of the
// argument at pos is a collection compatible with the variadic element type.
func IsInstance(elem types.Type, pos int) Guard {
	collection := types.ArrayOf(elem)
	return func(args []object.Value) bool {
		if pos >= len(args) {
			return false
		}
		return types.AssignableFrom(collection, args[pos].RuntimeType())
	}
}
