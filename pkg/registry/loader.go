package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.starlark.net/starlark"

	"github.com/stackb/supplements/pkg/starlarkeval"
	"github.com/stackb/supplements/pkg/supplement"
)

const (
	// ScriptName is the conventional name of the override script at a
	// project root.
	ScriptName = ".supplements.star"
	// ResolveFuncName is the global an override script must bind to its
	// resolver function.
	ResolveFuncName = "resolve"
	// RootDirName is the predeclared name holding the script's root.
	RootDirName = "root_dir"
)

// Loader probes project roots for override scripts.
type Loader struct {
	*options
}

// NewLoader constructs a new Loader.
func NewLoader(opts ...Option) *Loader {
	return &Loader{options: newOptions(opts)}
}

// Probe returns the Entry for root.  The entry is Unresolved (nil Resolver)
// when root has no usable script.  Probe never fails: problems are passed to
// the reporter, at most one per call.
func (l *Loader) Probe(root string) Entry {
	entry, _ := l.probe(root)
	return entry
}

// probe is Probe, also reporting whether the script could be read.  An
// unreadable script may become readable without its stamp changing, so such
// a result must not be cached.
func (l *Loader) probe(root string) (Entry, bool) {
	filename := filepath.Join(root, ScriptName)

	f, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{Root: root}, true
		}
		l.readFailed(root, filename, err)
		return Entry{Root: root}, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		l.readFailed(root, filename, err)
		return Entry{Root: root}, false
	}

	resolver, err := l.load(root, filename, data)
	if err != nil {
		l.report(supplement.MalformedResolver(root, filename, err))
		return Entry{Root: root}, true
	}

	l.logger.Debug().Str("root", root).Msg("loaded override script")
	return Entry{Root: root, Resolver: resolver, Origin: root}, true
}

func (l *Loader) load(root, filename string, data []byte) (*ScriptResolver, error) {
	interp := starlarkeval.NewInterpreter(
		starlarkeval.WithLogger(l.logger.With().Str("script", filename).Logger()),
		starlarkeval.WithMaxExecutionSteps(l.maxSteps),
		starlarkeval.WithPredeclared(RootDirName, starlark.String(root)),
		starlarkeval.WithPredeclared("glob", starlarkeval.NewGlobBuiltin(l.logger, root)),
	)
	if err := interp.Exec(filename, bytes.NewReader(data)); err != nil {
		return nil, err
	}

	value := interp.GetGlobal(ResolveFuncName)
	if value == nil {
		return nil, fmt.Errorf("%q is not defined", ResolveFuncName)
	}
	fn, ok := value.(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("%q must be callable, got %s", ResolveFuncName, value.Type())
	}

	return &ScriptResolver{
		root:     root,
		filename: filename,
		fn:       fn,
		interp:   interp,
	}, nil
}

func (l *Loader) readFailed(root, filename string, err error) {
	if errors.Is(err, fs.ErrPermission) {
		l.report(supplement.PermissionDenied(root, filename, err))
	} else {
		l.report(supplement.FilesystemError(root, filename, err))
	}
}

func (l *Loader) report(c *supplement.Condition) {
	l.logger.Warn().Err(c).Str("root", c.Root).Msg("override script ignored")
	l.reporter(c)
}
