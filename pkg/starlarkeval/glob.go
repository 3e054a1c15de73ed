package starlarkeval

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"go.starlark.net/starlark"
)

// NewGlobBuiltin returns the glob(include, exclude=[]) builtin.  Patterns
// are evaluated against dir only, and matches are returned as sorted
// absolute paths.  Matches reached through a symlink pointing outside dir
// are dropped.
func NewGlobBuiltin(logger zerolog.Logger, dir string) *starlark.Builtin {
	fsys := os.DirFS(dir)

	return starlark.NewBuiltin("glob", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var include, exclude starlark.Value
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "include", &include, "exclude?", &exclude); err != nil {
			return nil, err
		}
		patterns, err := ToStringSlice(include)
		if err != nil {
			return nil, err
		}
		var excludes []string
		if exclude != nil {
			if excludes, err = ToStringSlice(exclude); err != nil {
				return nil, err
			}
		}

		realDir, err := filepath.EvalSymlinks(dir)
		if err != nil {
			logger.Warn().Err(err).Str("dir", dir).Msg("glob root is not accessible")
			return FromStringSlice(nil), nil
		}

		names := applyGlob(logger, fsys, patterns, excludes)
		srcs := make([]string, 0, len(names))
		for _, name := range names {
			src := filepath.Join(dir, filepath.FromSlash(name))
			if !resolvesWithin(realDir, src) {
				logger.Warn().Str("match", src).Msg("skipping glob match outside of root_dir")
				continue
			}
			srcs = append(srcs, src)
		}
		return FromStringSlice(srcs), nil
	})
}

func applyGlob(logger zerolog.Logger, fsys fs.FS, patterns, excludes []string) (srcs []string) {
	// part 1: gather candidates
	seen := make(map[string]bool)
	includes := []string{}
	for _, pattern := range patterns {
		if !fs.ValidPath(pattern) {
			logger.Warn().Str("pattern", pattern).Msg("skipping glob pattern outside of root_dir")
			continue
		}
		names, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			// doublestar.Glob only fails on an invalid pattern
			logger.Warn().Err(err).Str("pattern", pattern).Msg("skipping invalid glob pattern")
			continue
		}
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				includes = append(includes, name)
			}
		}
	}

	// part 2: filter candidates
loop:
	for _, name := range includes {
		for _, exclude := range excludes {
			if ok, _ := doublestar.Match(exclude, name); ok {
				continue loop
			}
		}
		srcs = append(srcs, name)
	}

	sort.Strings(srcs)
	return
}

// resolvesWithin reports whether filename, with symlinks evaluated, is dir or
// lies below it.  dir must already be free of symlinks.
func resolvesWithin(dir, filename string) bool {
	resolved, err := filepath.EvalSymlinks(filename)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, resolved)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
