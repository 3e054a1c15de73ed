package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/stackb/supplements/pkg/testutil"
)

func TestRun(t *testing.T) {
	for name, tc := range map[string]struct {
		files      []testtools.FileSpec
		args       []string
		want       string
		wantErr    string
		wantStderr string
	}{
		"no files": {
			wantErr: "positional args should be a non-empty list of files",
		},
		"explicit extensions": {
			files: []testtools.FileSpec{
				{Path: "proj/src/foo.c"},
				{Path: "proj/src/foo.h"},
			},
			args: []string{"-root", "{tmp}/proj", "-ext", ".c", "-ext", ".h", "{tmp}/proj/src/foo.c"},
			want: "{tmp}/proj/src/foo.h\n",
		},
		"config file types": {
			files: []testtools.FileSpec{
				{Path: "supplements.yaml", Content: `
roots:
  - proj
file_types:
  c: [c, h]
  web: [.html, .css]
`},
				{Path: "proj/src/foo.c"},
				{Path: "proj/src/foo.h"},
				{Path: "proj/src/foo.css"},
			},
			args: []string{"-config", "{tmp}/supplements.yaml", "{tmp}/proj/src/foo.h"},
			want: "{tmp}/proj/src/foo.c\n",
		},
		"override script": {
			files: []testtools.FileSpec{
				{Path: "proj/.supplements.star", Content: `
def resolve(file_path, extensions):
    return [root_dir + "/README.md"]
`},
				{Path: "proj/src/foo.c"},
			},
			args: []string{"-root", "{tmp}/proj", "{tmp}/proj/src/foo.c"},
			want: "{tmp}/proj/README.md\n",
		},
		"outside roots": {
			files: []testtools.FileSpec{
				{Path: "proj/"},
				{Path: "elsewhere/foo.c"},
			},
			args:       []string{"-root", "{tmp}/proj", "{tmp}/elsewhere/foo.c"},
			wantErr:    "no supplements resolved for 1 file(s)",
			wantStderr: "warning: no applicable resolver",
		},
		"malformed script warns": {
			files: []testtools.FileSpec{
				{Path: "proj/.supplements.star", Content: `resolve = 1`},
				{Path: "proj/foo.c"},
				{Path: "proj/foo.h"},
			},
			args:       []string{"-root", "{tmp}/proj", "-ext", ".c", "-ext", ".h", "{tmp}/proj/foo.c"},
			want:       "{tmp}/proj/foo.h\n",
			wantStderr: "warning: malformed resolver",
		},
	} {
		t.Run(name, func(t *testing.T) {
			tmpDir, _ := testutil.MustPrepareTestFiles(t, tc.files)
			expand := func(s string) string {
				return strings.ReplaceAll(s, "{tmp}", filepath.ToSlash(tmpDir))
			}
			args := make([]string, len(tc.args))
			for i, a := range tc.args {
				args[i] = filepath.FromSlash(expand(a))
			}

			var stdout, stderr bytes.Buffer
			err := run(args, &stdout, &stderr)
			if tc.wantErr != "" {
				require.EqualError(t, err, tc.wantErr)
			} else {
				require.NoError(t, err, stderr.String())
			}
			if diff := cmp.Diff(filepath.FromSlash(expand(tc.want)), stdout.String()); diff != "" {
				t.Errorf("stdout (-want +got):\n%s", diff)
			}
			if tc.wantStderr != "" {
				require.Contains(t, stderr.String(), tc.wantStderr)
			}
		})
	}
}

func TestConfigExtensionsFor(t *testing.T) {
	config := &Config{FileTypes: map[string][]string{
		"c":   {".c", ".h"},
		"cpp": {".cc", ".h", ".hpp"},
		"ts":  {"ts", "d.ts"},
	}}
	for name, tc := range map[string]struct {
		filename string
		want     []string
	}{
		"degenerate":       {},
		"single group":     {filename: "/a/foo.c", want: []string{".c", ".h"}},
		"shared extension": {filename: "/a/foo.h", want: []string{".c", ".h", ".cc", ".hpp"}},
		"multi-dot":        {filename: "/a/foo.d.ts", want: []string{".ts", ".d.ts"}},
		"unknown":          {filename: "/a/foo.go"},
	} {
		t.Run(name, func(t *testing.T) {
			got := config.ExtensionsFor(tc.filename)
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}
