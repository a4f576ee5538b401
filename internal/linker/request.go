package linker

import (
	"github.com/google/uuid"

	"github.com/funvibe/funlink/internal/object"
)

// Request pairs a call site shape with the runtime arguments of one
// invocation being linked. The ID correlates trace output across the
// resolution steps of a single request.
type Request struct {
	ID   uuid.UUID
	Site Shape
	Args []object.Value
}

// NewRequest creates a link request. The argument slice is cloned;
// modifications to the original won't affect the request.
func NewRequest(site Shape, args []object.Value) *Request {
	copied := make([]object.Value, len(args))
	copy(copied, args)
	return &Request{ID: uuid.New(), Site: site, Args: copied}
}

// Receiver returns the 0th runtime argument, conventionally the receiver
// object, or nil when the request has no arguments.
func (r *Request) Receiver() object.Value {
	if len(r.Args) == 0 {
		return nil
	}
	return r.Args[0]
}

// WithoutContext returns a request stripped of n leading runtime-context
// parameters, in both the shape and the runtime arguments. With n <= 0 the
// same request is returned.
func (r *Request) WithoutContext(n int) *Request {
	if n <= 0 {
		return r
	}
	if n > len(r.Args) {
		n = len(r.Args)
	}
	args := make([]object.Value, len(r.Args)-n)
	copy(args, r.Args[n:])
	return &Request{ID: r.ID, Site: r.Site.Drop(n), Args: args}
}

// ReplaceArguments returns a request identical to this one, except with the
// shape and arguments replaced. The ID is retained so traces still correlate.
func (r *Request) ReplaceArguments(site Shape, args []object.Value) *Request {
	copied := make([]object.Value, len(args))
	copy(copied, args)
	return &Request{ID: r.ID, Site: site, Args: copied}
}
