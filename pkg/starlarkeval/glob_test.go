package starlarkeval_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/stackb/supplements/pkg/starlarkeval"
	"github.com/stackb/supplements/pkg/testutil"
)

func TestGlobBuiltin(t *testing.T) {
	for name, tc := range map[string]struct {
		files []testtools.FileSpec
		call  string
		want  []string
	}{
		"degenerate": {
			call: `glob([])`,
		},
		"single pattern": {
			files: []testtools.FileSpec{
				{Path: "proj/include/foo.h"},
				{Path: "proj/src/foo.c"},
			},
			call: `glob(["include/*.h"])`,
			want: []string{"proj/include/foo.h"},
		},
		"doublestar": {
			files: []testtools.FileSpec{
				{Path: "proj/a/foo.h"},
				{Path: "proj/a/b/foo.h"},
				{Path: "proj/a/b/foo.c"},
			},
			call: `glob(["**/*.h"])`,
			want: []string{"proj/a/b/foo.h", "proj/a/foo.h"},
		},
		"exclude": {
			files: []testtools.FileSpec{
				{Path: "proj/a/foo.h"},
				{Path: "proj/a/bar.h"},
			},
			call: `glob(["a/*.h"], exclude = ["a/bar.*"])`,
			want: []string{"proj/a/foo.h"},
		},
		"duplicates collapsed": {
			files: []testtools.FileSpec{
				{Path: "proj/a/foo.h"},
			},
			call: `glob(["a/*.h", "a/foo.*"])`,
			want: []string{"proj/a/foo.h"},
		},
		"parent escape": {
			files: []testtools.FileSpec{
				{Path: "proj/a/foo.h"},
				{Path: "secret.h"},
			},
			call: `glob(["../*.h", "/*.h"])`,
		},
		"symlink escape": {
			files: []testtools.FileSpec{
				{Path: "proj/a/foo.h"},
				{Path: "proj/link", Symlink: "../outside"},
				{Path: "outside/secret.h"},
			},
			call: `glob(["**/*.h", "link/*.h", "*"])`,
			want: []string{"proj/a", "proj/a/foo.h"},
		},
		"symlink within root": {
			files: []testtools.FileSpec{
				{Path: "proj/inc/foo.h"},
				{Path: "proj/alias", Symlink: "inc"},
			},
			call: `glob(["alias/*.h"])`,
			want: []string{"proj/alias/foo.h"},
		},
		"invalid pattern": {
			files: []testtools.FileSpec{
				{Path: "proj/a/foo.h"},
			},
			call: `glob(["a/[.h", "a/*.h"])`,
			want: []string{"proj/a/foo.h"},
		},
	} {
		t.Run(name, func(t *testing.T) {
			tmpDir, _ := testutil.MustPrepareTestFiles(t, tc.files)
			root := filepath.Join(tmpDir, "proj")
			logger := testutil.NewTestLogger(t)

			interp := starlarkeval.NewInterpreter(
				starlarkeval.WithLogger(logger),
				starlarkeval.WithPredeclared("glob", starlarkeval.NewGlobBuiltin(logger, root)),
			)
			if err := interp.Exec("test.star", strings.NewReader("got = "+tc.call)); err != nil {
				t.Fatal(err)
			}
			got, err := starlarkeval.ToStringSlice(interp.GetGlobal("got"))
			if err != nil {
				t.Fatal(err)
			}

			var want []string
			for _, w := range tc.want {
				want = append(want, filepath.Join(tmpDir, w))
			}
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestGlobBuiltinBadArgs(t *testing.T) {
	interp := starlarkeval.NewInterpreter(
		starlarkeval.WithPredeclared("glob", starlarkeval.NewGlobBuiltin(testutil.NewTestLogger(t), t.TempDir())),
	)
	err := interp.Exec("test.star", strings.NewReader(`got = glob("*.h")`))
	if err == nil || !strings.Contains(err.Error(), "want list of string") {
		t.Errorf("want argument error, got %v", err)
	}
}
