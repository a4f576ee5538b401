package main

import (
	"fmt"
	"strings"

	"github.com/funvibe/funlink/pkg/funlink"
)

// parseTarget parses a target signature like "join(String, String...)" into
// a descriptor with a stub callable; explain never invokes it.
func parseTarget(s string) (*funlink.Target, error) {
	open := strings.Index(s, "(")
	if open < 0 || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("malformed target signature %q", s)
	}
	name := strings.TrimSpace(s[:open])
	if name == "" {
		name = "<target>"
	}

	params, elem, err := parseParams(s[open+1 : len(s)-1])
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", name, err)
	}

	stub := func(args []funlink.Value) (funlink.Value, error) {
		return funlink.NilValue(), nil
	}
	if elem != nil {
		return funlink.NewVariadicTarget(name, stub, elem, params...), nil
	}
	return funlink.NewTarget(name, stub, params...), nil
}

// parseShape parses a call site shape like "(String, Any)".
func parseShape(s string) (funlink.Shape, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return funlink.Shape{}, fmt.Errorf("malformed shape %q", s)
	}
	args, elem, err := parseParams(s[1 : len(s)-1])
	if err != nil {
		return funlink.Shape{}, fmt.Errorf("shape: %w", err)
	}
	if elem != nil {
		return funlink.Shape{}, fmt.Errorf("shape: call sites cannot be variadic")
	}
	return funlink.NewShape(args...), nil
}

// parseParams splits a comma-separated type list. A trailing "T..." yields
// the variadic element type.
func parseParams(list string) ([]funlink.Type, funlink.Type, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, nil, nil
	}
	parts := strings.Split(list, ",")
	var params []funlink.Type
	var elem funlink.Type
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if strings.HasSuffix(part, "...") {
			if i != len(parts)-1 {
				return nil, nil, fmt.Errorf("variadic marker only allowed on the last parameter")
			}
			t, err := funlink.ParseType(strings.TrimSuffix(part, "..."))
			if err != nil {
				return nil, nil, err
			}
			elem = t
			break
		}
		t, err := funlink.ParseType(part)
		if err != nil {
			return nil, nil, err
		}
		params = append(params, t)
	}
	return params, elem, nil
}

// describePlan renders what the built adapter will do per invocation.
func describePlan(target *funlink.Target, decision funlink.Decision, site funlink.Shape) string {
	switch decision.Kind {
	case funlink.NoMatch:
		return "none; try another target"
	case funlink.Direct:
		return "convert each argument to the declared parameter type and forward"
	case funlink.EmptyVariadic:
		return fmt.Sprintf("append an empty [%s] collection, then forward", target.Elem)
	case funlink.PackedArray:
		return fmt.Sprintf("pass the trailing argument through as the [%s] collection", target.Elem)
	case funlink.AmbiguousSingle:
		return fmt.Sprintf("guard on argument %d: runtime [%s]? pass through as collection : wrap as single element",
			decision.Pos, decision.Elem)
	case funlink.CollectMultiple:
		n := site.Argc() - target.Fixed()
		return fmt.Sprintf("collect the trailing %d argument(s) into a new [%s] collection, converting each element",
			n, target.Elem)
	default:
		return "unknown"
	}
}
