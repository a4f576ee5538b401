// Package grpcbridge exposes unary gRPC methods as linkable targets. Proto
// files are parsed into a descriptor registry; a method target takes one
// Record argument (the request message), invokes the method dynamically, and
// returns the response as a Record.
package grpcbridge

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/funvibe/funlink/internal/linker"
	"github.com/funvibe/funlink/internal/object"
	"github.com/funvibe/funlink/internal/types"
)

// Record is the static type of proto message values on the linker side.
var Record = types.TCon{Name: "Record"}

// Registry holds loaded proto file descriptors.
type Registry struct {
	mu    sync.RWMutex
	files map[string]*desc.FileDescriptor
}

// NewRegistry returns an empty descriptor registry.
func NewRegistry() *Registry {
	return &Registry{files: make(map[string]*desc.FileDescriptor)}
}

// LoadProto parses the given proto files (resolving imports against
// importPaths) and registers their descriptors.
func (r *Registry) LoadProto(importPaths []string, files ...string) error {
	parser := protoparse.Parser{ImportPaths: importPaths}
	fds, err := parser.ParseFiles(files...)
	if err != nil {
		return fmt.Errorf("parsing proto: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, fd := range fds {
		r.files[fd.GetName()] = fd
	}
	return nil
}

// FindMethod resolves "package.Service/Method" to its descriptor.
func (r *Registry) FindMethod(path string) (*desc.MethodDescriptor, error) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return nil, fmt.Errorf("invalid method path %q, expected 'package.Service/Method'", path)
	}
	serviceName, methodName := path[:idx], path[idx+1:]

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, fd := range r.files {
		svc := fd.FindService(serviceName)
		if svc == nil {
			continue
		}
		if method := svc.FindMethodByName(methodName); method != nil {
			return method, nil
		}
	}
	return nil, fmt.Errorf("method %q not found (did you load the proto?)", path)
}

// Invoker abstracts the transport so targets can be built and tested without
// a live connection. *grpc.ClientConn satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, method string, args, reply interface{}, opts ...grpc.CallOption) error
}

// MethodTarget builds a fixed-arity-1 target invoking the unary method at
// path over conn. Streaming methods are rejected.
func MethodTarget(conn Invoker, reg *Registry, path string) (*linker.Target, error) {
	md, err := reg.FindMethod(path)
	if err != nil {
		return nil, err
	}
	if md.IsClientStreaming() || md.IsServerStreaming() {
		return nil, fmt.Errorf("method %q is streaming; only unary methods can be linked", path)
	}

	fullPath := "/" + md.GetService().GetFullyQualifiedName() + "/" + md.GetName()
	inType := md.GetInputType()
	outType := md.GetOutputType()

	fn := func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("grpc target %s expects 1 argument, got %d", path, len(args))
		}
		rec, ok := args[0].(*object.Record)
		if !ok {
			return nil, fmt.Errorf("grpc target %s expects a Record request, got %s", path, args[0].Type())
		}

		reqMsg := dynamic.NewMessage(inType)
		if err := recordToMessage(rec, reqMsg); err != nil {
			return nil, fmt.Errorf("building request for %s: %w", path, err)
		}
		respMsg := dynamic.NewMessage(outType)

		if err := conn.Invoke(context.Background(), fullPath, reqMsg, respMsg); err != nil {
			return nil, fmt.Errorf("rpc %s: %w", path, err)
		}
		return messageToRecord(respMsg)
	}

	return linker.NewTarget(path, fn, Record), nil
}

// recordToMessage populates a dynamic message from a Record. Unknown fields
// are ignored, matching proto3's tolerance for absent fields.
func recordToMessage(rec *object.Record, msg *dynamic.Message) error {
	for name, val := range rec.Fields {
		fd := msg.GetMessageDescriptor().FindFieldByName(name)
		if fd == nil {
			continue
		}
		v, err := toFieldValue(val, fd)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		if v != nil {
			msg.SetField(fd, v)
		}
	}
	return nil
}

func toFieldValue(val object.Value, fd *desc.FieldDescriptor) (interface{}, error) {
	if fd.IsRepeated() {
		arr, ok := val.(*object.Array)
		if !ok {
			return nil, fmt.Errorf("expected Array for repeated field, got %s", val.Type())
		}
		slice := make([]interface{}, 0, len(arr.Elements))
		for _, el := range arr.Elements {
			v, err := toSingleFieldValue(el, fd)
			if err != nil {
				return nil, err
			}
			slice = append(slice, v)
		}
		return slice, nil
	}
	return toSingleFieldValue(val, fd)
}

func toSingleFieldValue(val object.Value, fd *desc.FieldDescriptor) (interface{}, error) {
	switch fd.GetType().String() {
	case "TYPE_STRING":
		s, ok := val.(*object.String)
		if !ok {
			return nil, fmt.Errorf("expected String, got %s", val.Type())
		}
		return s.Value, nil
	case "TYPE_INT32", "TYPE_SINT32", "TYPE_SFIXED32":
		i, ok := val.(*object.Integer)
		if !ok {
			return nil, fmt.Errorf("expected Integer, got %s", val.Type())
		}
		return int32(i.Value), nil
	case "TYPE_INT64", "TYPE_SINT64", "TYPE_SFIXED64":
		i, ok := val.(*object.Integer)
		if !ok {
			return nil, fmt.Errorf("expected Integer, got %s", val.Type())
		}
		return i.Value, nil
	case "TYPE_DOUBLE":
		switch n := val.(type) {
		case *object.Float:
			return n.Value, nil
		case *object.Integer:
			return float64(n.Value), nil
		}
		return nil, fmt.Errorf("expected Float, got %s", val.Type())
	case "TYPE_FLOAT":
		switch n := val.(type) {
		case *object.Float:
			return float32(n.Value), nil
		case *object.Integer:
			return float32(n.Value), nil
		}
		return nil, fmt.Errorf("expected Float, got %s", val.Type())
	case "TYPE_BOOL":
		b, ok := val.(*object.Boolean)
		if !ok {
			return nil, fmt.Errorf("expected Boolean, got %s", val.Type())
		}
		return b.Value, nil
	case "TYPE_MESSAGE":
		rec, ok := val.(*object.Record)
		if !ok {
			return nil, fmt.Errorf("expected Record for message field, got %s", val.Type())
		}
		nested := dynamic.NewMessage(fd.GetMessageType())
		if err := recordToMessage(rec, nested); err != nil {
			return nil, err
		}
		return nested, nil
	default:
		return nil, fmt.Errorf("unsupported proto field type %s", fd.GetType())
	}
}

// messageToRecord converts a dynamic message into a Record, mapping repeated
// fields to Arrays and nested messages to Records.
func messageToRecord(msg *dynamic.Message) (*object.Record, error) {
	fields := make(map[string]object.Value)
	for _, fd := range msg.GetMessageDescriptor().GetFields() {
		if !msg.HasField(fd) && !fd.IsRepeated() {
			continue
		}
		raw := msg.GetField(fd)
		v, err := fromFieldValue(raw, fd)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fd.GetName(), err)
		}
		if v != nil {
			fields[fd.GetName()] = v
		}
	}
	return &object.Record{Fields: fields}, nil
}

func fromFieldValue(raw interface{}, fd *desc.FieldDescriptor) (object.Value, error) {
	if fd.IsRepeated() {
		slice, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("expected repeated value, got %T", raw)
		}
		elems := make([]object.Value, 0, len(slice))
		var elemType types.Type = types.Any
		for _, item := range slice {
			v, err := fromSingleFieldValue(item, fd)
			if err != nil {
				return nil, err
			}
			elemType = v.RuntimeType()
			elems = append(elems, v)
		}
		return object.NewArray(elemType, elems), nil
	}
	return fromSingleFieldValue(raw, fd)
}

func fromSingleFieldValue(raw interface{}, fd *desc.FieldDescriptor) (object.Value, error) {
	switch v := raw.(type) {
	case string:
		return &object.String{Value: v}, nil
	case int32:
		return &object.Integer{Value: int64(v)}, nil
	case int64:
		return &object.Integer{Value: v}, nil
	case uint32:
		return &object.Integer{Value: int64(v)}, nil
	case uint64:
		return &object.Integer{Value: int64(v)}, nil
	case float32:
		return &object.Float{Value: float64(v)}, nil
	case float64:
		return &object.Float{Value: v}, nil
	case bool:
		return &object.Boolean{Value: v}, nil
	case *dynamic.Message:
		return messageToRecord(v)
	case nil:
		return &object.Nil{}, nil
	default:
		return nil, fmt.Errorf("unsupported proto value %T for field %s", raw, fd.GetName())
	}
}
