package types

import (
	"fmt"
	"strings"
)

// ParseType parses a textual type descriptor: a scalar name ("Int"), the
// dynamic type ("Any"), or an array form ("[String]", "[[Int]]").
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty type")
	}
	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return nil, fmt.Errorf("unterminated array type %q", s)
		}
		elem, err := ParseType(s[1 : len(s)-1])
		if err != nil {
			return nil, fmt.Errorf("array element of %q: %w", s, err)
		}
		return TArray{Elem: elem}, nil
	}
	if strings.ContainsAny(s, "[]") {
		return nil, fmt.Errorf("malformed type %q", s)
	}
	if s == "Any" {
		return Any, nil
	}
	return TCon{Name: s}, nil
}
