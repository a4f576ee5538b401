package grpcbridge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/funvibe/funlink/internal/convert"
	"github.com/funvibe/funlink/internal/linker"
	"github.com/funvibe/funlink/internal/object"
	"github.com/funvibe/funlink/internal/types"
)

const greeterProto = `
syntax = "proto3";
package test;

service Greeter {
  rpc Hello (HelloRequest) returns (HelloReply);
  rpc Watch (HelloRequest) returns (stream HelloReply);
}

message HelloRequest {
  string name = 1;
  repeated int32 nums = 2;
}

message HelloReply {
  string text = 1;
  int64 total = 2;
}
`

func loadTestRegistry(t *testing.T) *Registry {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "greeter.proto"), []byte(greeterProto), 0o644); err != nil {
		t.Fatalf("writing proto: %v", err)
	}
	reg := NewRegistry()
	if err := reg.LoadProto([]string{dir}, "greeter.proto"); err != nil {
		t.Fatalf("loading proto: %v", err)
	}
	return reg
}

// fakeInvoker answers Hello calls locally: it sums the request nums and
// echoes the name.
type fakeInvoker struct {
	lastMethod string
}

func (f *fakeInvoker) Invoke(ctx context.Context, method string, args, reply interface{}, opts ...grpc.CallOption) error {
	f.lastMethod = method
	req := args.(*dynamic.Message)
	resp := reply.(*dynamic.Message)

	name, _ := req.TryGetFieldByName("name")
	nums, _ := req.TryGetFieldByName("nums")
	var total int64
	if slice, ok := nums.([]interface{}); ok {
		for _, n := range slice {
			total += int64(n.(int32))
		}
	}
	resp.SetFieldByName("text", "hello "+name.(string))
	resp.SetFieldByName("total", total)
	return nil
}

func TestRegistry_FindMethod(t *testing.T) {
	reg := loadTestRegistry(t)
	if _, err := reg.FindMethod("test.Greeter/Hello"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := reg.FindMethod("test.Greeter/Nope"); err == nil {
		t.Error("expected error for unknown method")
	}
	if _, err := reg.FindMethod("no-slash"); err == nil {
		t.Error("expected error for malformed path")
	}
}

func TestMethodTarget_RejectsStreaming(t *testing.T) {
	reg := loadTestRegistry(t)
	if _, err := MethodTarget(&fakeInvoker{}, reg, "test.Greeter/Watch"); err == nil {
		t.Error("expected error for streaming method")
	}
}

func TestMethodTarget_Unary(t *testing.T) {
	reg := loadTestRegistry(t)
	inv := &fakeInvoker{}
	target, err := MethodTarget(inv, reg, "test.Greeter/Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Fixed() != 1 || target.Variadic {
		t.Fatalf("descriptor = %s, want fixed arity 1", target)
	}

	conv := convert.DefaultPolicy()
	site := linker.NewShape(Record)
	decision := linker.Match(target, site, conv)
	if decision.Kind != linker.Direct {
		t.Fatalf("decision = %s, want Direct", decision.Kind)
	}
	adapter := linker.Build(target, decision, site, conv)

	request := &object.Record{Fields: map[string]object.Value{
		"name": &object.String{Value: "world"},
		"nums": object.NewArray(types.Int, []object.Value{
			&object.Integer{Value: 2}, &object.Integer{Value: 3},
		}),
	}}

	result, err := adapter.Invoke([]object.Value{request})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.lastMethod != "/test.Greeter/Hello" {
		t.Errorf("invoked method = %q, want /test.Greeter/Hello", inv.lastMethod)
	}
	resp := result.(*object.Record)
	if got := resp.Fields["text"].(*object.String).Value; got != "hello world" {
		t.Errorf("text = %q, want %q", got, "hello world")
	}
	if got := resp.Fields["total"].(*object.Integer).Value; got != 5 {
		t.Errorf("total = %d, want 5", got)
	}
}

func TestRecordRoundTrip_NestedAndRepeated(t *testing.T) {
	reg := loadTestRegistry(t)
	md, err := reg.FindMethod("test.Greeter/Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msg := dynamic.NewMessage(md.GetInputType())
	rec := &object.Record{Fields: map[string]object.Value{
		"name": &object.String{Value: "x"},
		"nums": object.NewArray(types.Int, []object.Value{
			&object.Integer{Value: 1}, &object.Integer{Value: 2},
		}),
	}}
	if err := recordToMessage(rec, msg); err != nil {
		t.Fatalf("recordToMessage: %v", err)
	}
	back, err := messageToRecord(msg)
	if err != nil {
		t.Fatalf("messageToRecord: %v", err)
	}
	if back.Fields["name"].(*object.String).Value != "x" {
		t.Errorf("name = %s, want \"x\"", back.Fields["name"].Inspect())
	}
	nums := back.Fields["nums"].(*object.Array)
	if len(nums.Elements) != 2 || nums.Elements[1].(*object.Integer).Value != 2 {
		t.Errorf("nums = %s, want [1, 2]", nums.Inspect())
	}
}
