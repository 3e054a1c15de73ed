package starlarkeval

import (
	"fmt"

	"go.starlark.net/starlark"
)

// FromStringSlice converts a string slice to a Starlark list.
func FromStringSlice(values []string) *starlark.List {
	elems := make([]starlark.Value, len(values))
	for i, v := range values {
		elems[i] = starlark.String(v)
	}
	return starlark.NewList(elems)
}

// ToStringSlice converts a Starlark list or tuple of strings to a string
// slice.
func ToStringSlice(value starlark.Value) ([]string, error) {
	var seq starlark.Indexable
	switch v := value.(type) {
	case *starlark.List:
		seq = v
	case starlark.Tuple:
		seq = v
	default:
		return nil, fmt.Errorf("want list of string, got %s", typeOf(value))
	}

	values := make([]string, 0, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		s, ok := starlark.AsString(seq.Index(i))
		if !ok {
			return nil, fmt.Errorf("element %d: want string, got %s", i, seq.Index(i).Type())
		}
		values = append(values, s)
	}
	return values, nil
}

func typeOf(value starlark.Value) string {
	if value == nil {
		return "nothing"
	}
	return value.Type()
}
