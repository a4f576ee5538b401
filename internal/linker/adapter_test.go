package linker

import (
	"strings"
	"testing"

	"github.com/funvibe/funlink/internal/convert"
	"github.com/funvibe/funlink/internal/object"
	"github.com/funvibe/funlink/internal/types"
)

// joinTarget is a variadic target join(sep: String, parts: String...) that
// records the actual arguments it receives.
func joinTarget(received *[]object.Value) *Target {
	fn := func(args []object.Value) (object.Value, error) {
		*received = append([]object.Value{}, args...)
		sep := args[0].(*object.String).Value
		arr := args[1].(*object.Array)
		parts := make([]string, len(arr.Elements))
		for i, el := range arr.Elements {
			parts[i] = el.(*object.String).Value
		}
		return &object.String{Value: strings.Join(parts, sep)}, nil
	}
	return NewVariadicTarget("join", fn, types.String, types.String)
}

func link(t *testing.T, target *Target, site Shape, conv convert.Service) *Adapter {
	t.Helper()
	decision := Match(target, site, conv)
	if decision.Kind == NoMatch {
		t.Fatalf("no match for %s against %s", site, target)
	}
	adapter := Build(target, decision, site, conv)
	if adapter == nil {
		t.Fatalf("Build returned nil for %s", decision.Kind)
	}
	return adapter
}

func TestBuild_NoMatchReturnsNil(t *testing.T) {
	conv := convert.DefaultPolicy()
	target := NewTarget("id", nopCallable, types.Int)
	if got := Build(target, Decision{Kind: NoMatch}, NewShape(), conv); got != nil {
		t.Errorf("Build(NoMatch) = %v, want nil", got)
	}
}

func TestBuild_Direct(t *testing.T) {
	conv := convert.DefaultPolicy()
	var received []object.Value
	fn := func(args []object.Value) (object.Value, error) {
		received = args
		return &object.Nil{}, nil
	}
	target := NewTarget("f", fn, types.Float, types.String)
	site := NewShape(types.Int, types.String)

	adapter := link(t, target, site, conv)
	if adapter.Arity() != 2 {
		t.Fatalf("arity = %d, want 2", adapter.Arity())
	}
	_, err := adapter.Invoke([]object.Value{&object.Integer{Value: 3}, &object.String{Value: "x"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Int call-site argument coerced to the declared Float parameter.
	f, ok := received[0].(*object.Float)
	if !ok || f.Value != 3 {
		t.Errorf("arg 0 = %s, want Float 3", received[0].Inspect())
	}
}

func TestBuild_EmptyVariadic(t *testing.T) {
	conv := convert.DefaultPolicy()
	var received []object.Value
	target := joinTarget(&received)
	site := NewShape(types.String)

	adapter := link(t, target, site, conv)
	if adapter.Arity() != 1 {
		t.Fatalf("arity = %d, want 1", adapter.Arity())
	}
	result, err := adapter.Invoke([]object.Value{&object.String{Value: ","}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.(*object.String).Value != "" {
		t.Errorf("result = %s, want empty string", result.Inspect())
	}
	if len(received) != 2 {
		t.Fatalf("target received %d actual args, want 2", len(received))
	}
	arr, ok := received[1].(*object.Array)
	if !ok {
		t.Fatalf("trailing actual arg = %s, want Array", received[1].Type())
	}
	if len(arr.Elements) != 0 {
		t.Errorf("appended collection has %d elements, want 0", len(arr.Elements))
	}
	// The synthesized collection's element type is the target's declared one.
	if !arr.Elem.Equal(types.String) {
		t.Errorf("appended collection element type = %s, want String", arr.Elem)
	}
}

func TestBuild_PackedArray(t *testing.T) {
	conv := convert.DefaultPolicy()
	var received []object.Value
	target := joinTarget(&received)
	site := NewShape(types.String, types.ArrayOf(types.String))

	adapter := link(t, target, site, conv)
	packed := object.NewArray(types.String, []object.Value{
		&object.String{Value: "a"}, &object.String{Value: "b"},
	})
	result, err := adapter.Invoke([]object.Value{&object.String{Value: "-"}, packed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.(*object.String).Value; got != "a-b" {
		t.Errorf("result = %q, want %q", got, "a-b")
	}
	// Passed through as the collection, not rewrapped.
	if received[1].(*object.Array) != packed {
		t.Errorf("collection was not passed through directly")
	}
}

func TestBuild_CollectMultiple(t *testing.T) {
	conv := convert.DefaultPolicy()
	var received []object.Value
	target := joinTarget(&received)
	// Trailing Int converts element-wise to the String element type.
	site := NewShape(types.String, types.String, types.Int, types.String)

	adapter := link(t, target, site, conv)
	result, err := adapter.Invoke([]object.Value{
		&object.String{Value: "."},
		&object.String{Value: "a"},
		&object.Integer{Value: 7},
		&object.String{Value: "c"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.(*object.String).Value; got != "a.7.c" {
		t.Errorf("result = %q, want %q", got, "a.7.c")
	}
	arr := received[1].(*object.Array)
	if len(arr.Elements) != 3 {
		t.Errorf("collected %d elements, want 3", len(arr.Elements))
	}
}

func TestBuild_AmbiguousSingle_BranchConsistency(t *testing.T) {
	conv := convert.DefaultPolicy()
	var received []object.Value
	target := joinTarget(&received)
	site := NewShape(types.String, types.Any)

	decision := Match(target, site, conv)
	if decision.Kind != AmbiguousSingle {
		t.Fatalf("decision = %s, want AmbiguousSingle", decision.Kind)
	}
	adapter := Build(target, decision, site, conv)

	// A collection-compatible runtime value routes to the packed branch.
	packed := object.NewArray(types.String, []object.Value{
		&object.String{Value: "x"}, &object.String{Value: "y"},
	})
	result, err := adapter.Invoke([]object.Value{&object.String{Value: "+"}, packed})
	if err != nil {
		t.Fatalf("packed branch: %v", err)
	}
	if got := result.(*object.String).Value; got != "x+y" {
		t.Errorf("packed branch result = %q, want %q", got, "x+y")
	}

	// A scalar runtime value routes to the single-element collecting branch.
	result, err = adapter.Invoke([]object.Value{&object.String{Value: "+"}, &object.String{Value: "solo"}})
	if err != nil {
		t.Fatalf("collect branch: %v", err)
	}
	if got := result.(*object.String).Value; got != "solo" {
		t.Errorf("collect branch result = %q, want %q", got, "solo")
	}
	arr := received[1].(*object.Array)
	if len(arr.Elements) != 1 {
		t.Errorf("collect branch wrapped %d elements, want 1", len(arr.Elements))
	}

	// And back again: no resolution drift between calls.
	result, err = adapter.Invoke([]object.Value{&object.String{Value: "+"}, packed})
	if err != nil {
		t.Fatalf("packed branch, second pass: %v", err)
	}
	if got := result.(*object.String).Value; got != "x+y" {
		t.Errorf("packed branch second pass = %q, want %q", got, "x+y")
	}
}

func TestBuild_AdapterArityEnforced(t *testing.T) {
	conv := convert.DefaultPolicy()
	var received []object.Value
	target := joinTarget(&received)
	site := NewShape(types.String, types.String, types.String)

	adapter := link(t, target, site, conv)
	if _, err := adapter.Invoke([]object.Value{&object.String{Value: ","}}); err == nil {
		t.Error("expected arity error, got none")
	}
}

func TestBuild_UnknownDecisionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown decision kind")
		}
	}()
	conv := convert.DefaultPolicy()
	target := NewTarget("id", nopCallable, types.Int)
	Build(target, Decision{Kind: DecisionKind(99)}, NewShape(types.Int), conv)
}

func TestBuild_CollectConvertsFixedPrefix(t *testing.T) {
	conv := convert.DefaultPolicy()
	var received []object.Value
	fn := func(args []object.Value) (object.Value, error) {
		received = args
		return &object.Nil{}, nil
	}
	// sum(base: Float, rest: Float...)
	target := NewVariadicTarget("sum", fn, types.Float, types.Float)
	site := NewShape(types.Int, types.Int, types.Int)

	adapter := link(t, target, site, conv)
	_, err := adapter.Invoke([]object.Value{
		&object.Integer{Value: 1}, &object.Integer{Value: 2}, &object.Integer{Value: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := received[0].(*object.Float); !ok {
		t.Errorf("fixed prefix arg = %s, want Float", received[0].Type())
	}
	arr := received[1].(*object.Array)
	for i, el := range arr.Elements {
		if _, ok := el.(*object.Float); !ok {
			t.Errorf("collected element %d = %s, want Float", i, el.Type())
		}
	}
}
