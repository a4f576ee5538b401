package linker

import (
	"strings"

	"github.com/funvibe/funlink/internal/types"
)

// Shape is the static description of one call site: the argument count and a
// static type per position. Shapes are immutable; a fresh one is supplied per
// link request and the linker never mutates it.
type Shape struct {
	Name string
	args []types.Type
}

// NewShape constructs a shape from per-position static types.
func NewShape(args ...types.Type) Shape {
	copied := make([]types.Type, len(args))
	copy(copied, args)
	return Shape{args: copied}
}

// NamedShape constructs a shape carrying a symbolic call site name, used only
// for diagnostics.
func NamedShape(name string, args ...types.Type) Shape {
	s := NewShape(args...)
	s.Name = name
	return s
}

// Argc returns the call site's argument count.
func (s Shape) Argc() int { return len(s.args) }

// Arg returns the static type at position i.
func (s Shape) Arg(i int) types.Type { return s.args[i] }

// Args returns a copy of the per-position static types.
func (s Shape) Args() []types.Type {
	copied := make([]types.Type, len(s.args))
	copy(copied, s.args)
	return copied
}

// Drop returns a shape with the first n positions removed. Language runtimes
// that thread context parameters through their call sites use this to present
// the linker with the plain argument shape.
func (s Shape) Drop(n int) Shape {
	if n <= 0 {
		return s
	}
	if n > len(s.args) {
		n = len(s.args)
	}
	out := Shape{Name: s.Name, args: make([]types.Type, len(s.args)-n)}
	copy(out.args, s.args[n:])
	return out
}

func (s Shape) String() string {
	parts := make([]string, len(s.args))
	for i, a := range s.args {
		parts[i] = a.String()
	}
	return s.Name + "(" + strings.Join(parts, ", ") + ")"
}
