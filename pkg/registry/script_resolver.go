package registry

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/stackb/supplements/pkg/starlarkeval"
	"github.com/stackb/supplements/pkg/supplement"
)

// ScriptResolver implements supplement.Resolver over the resolve function
// exported by an override script.
type ScriptResolver struct {
	root     string
	filename string
	fn       starlark.Callable
	interp   *starlarkeval.Interpreter
}

// Root returns the project root that owns the script.
func (r *ScriptResolver) Root() string {
	return r.root
}

// Filename returns the path of the override script.
func (r *ScriptResolver) Filename() string {
	return r.filename
}

// Resolve implements the supplement.Resolver interface.  Script failures are
// returned as ErrMalformedResolver conditions.
func (r *ScriptResolver) Resolve(filename string, extensions []string) ([]string, error) {
	value, err := r.interp.Call(r.fn, starlark.String(filename), starlarkeval.FromStringSlice(extensions))
	if err != nil {
		return nil, supplement.MalformedResolver(r.root, r.filename, err)
	}
	files, err := starlarkeval.ToStringSlice(value)
	if err != nil {
		return nil, supplement.MalformedResolver(r.root, r.filename, fmt.Errorf("%s(): %w", ResolveFuncName, err))
	}
	return files, nil
}

func (r *ScriptResolver) String() string {
	return r.filename
}
