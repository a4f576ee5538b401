package linker

import (
	"testing"

	"github.com/funvibe/funlink/internal/object"
	"github.com/funvibe/funlink/internal/types"
)

func TestRequest_WithoutContext(t *testing.T) {
	site := NamedShape("call", types.Any, types.Int, types.String)
	args := []object.Value{
		&object.Nil{}, &object.Integer{Value: 1}, &object.String{Value: "x"},
	}
	req := NewRequest(site, args)

	stripped := req.WithoutContext(1)
	if stripped.ID != req.ID {
		t.Error("stripping context must keep the request id")
	}
	if stripped.Site.Argc() != 2 {
		t.Fatalf("argc = %d, want 2", stripped.Site.Argc())
	}
	if !stripped.Site.Arg(0).Equal(types.Int) {
		t.Errorf("arg 0 = %s, want Int", stripped.Site.Arg(0))
	}
	if len(stripped.Args) != 2 {
		t.Fatalf("runtime args = %d, want 2", len(stripped.Args))
	}
	if req.Site.Argc() != 3 {
		t.Error("original request was mutated")
	}

	if same := req.WithoutContext(0); same != req {
		t.Error("WithoutContext(0) should return the same request")
	}
}

func TestRequest_ReplaceArguments(t *testing.T) {
	req := NewRequest(NewShape(types.Int), []object.Value{&object.Integer{Value: 1}})
	replaced := req.ReplaceArguments(NewShape(types.String), []object.Value{&object.String{Value: "y"}})
	if replaced.ID != req.ID {
		t.Error("replacing arguments must keep the request id")
	}
	if replaced.Receiver().(*object.String).Value != "y" {
		t.Errorf("receiver = %s, want \"y\"", replaced.Receiver().Inspect())
	}
}

func TestRequest_ArgumentsCloned(t *testing.T) {
	args := []object.Value{&object.Integer{Value: 1}}
	req := NewRequest(NewShape(types.Int), args)
	args[0] = &object.Nil{}
	if _, ok := req.Args[0].(*object.Integer); !ok {
		t.Error("request arguments should be cloned from the input slice")
	}
}
