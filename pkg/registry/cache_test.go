package registry

import (
	"path/filepath"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/stackb/supplements/pkg/supplement"
	"github.com/stackb/supplements/pkg/testutil"
)

func TestProbeCacheSkipsUnreadableScripts(t *testing.T) {
	tmpDir, _ := testutil.MustPrepareTestFiles(t, []testtools.FileSpec{
		{Path: "good/" + ScriptName, Content: `def resolve(file_path, extensions): return []`},
		// a directory in place of the script cannot be read
		{Path: "bad/" + ScriptName + "/"},
	})
	good := filepath.Join(tmpDir, "good")
	bad := filepath.Join(tmpDir, "bad")

	var reported []error
	loader := NewLoader(
		WithLogger(testutil.NewTestLogger(t)),
		WithReporter(func(c *supplement.Condition) { reported = append(reported, c.Kind) }),
	)
	cache := newProbeCache(loader, 8)

	for i := 0; i < 2; i++ {
		if _, hit := cache.Probe(bad); hit {
			t.Errorf("probe %d of %s: unexpected cache hit", i, bad)
		}
	}
	if got := cache.Len(); got != 0 {
		t.Errorf("cache len after unreadable script: want 0, got %d", got)
	}
	if diff := cmp.Diff([]error{supplement.ErrFilesystem, supplement.ErrFilesystem}, reported, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("conditions (-want +got):\n%s", diff)
	}

	if _, hit := cache.Probe(good); hit {
		t.Errorf("first probe of %s: unexpected cache hit", good)
	}
	entry, hit := cache.Probe(good)
	if !hit {
		t.Errorf("second probe of %s: want cache hit", good)
	}
	if entry.Resolver == nil {
		t.Errorf("want resolved entry for %s", good)
	}
	if got := cache.Len(); got != 1 {
		t.Errorf("cache len: want 1, got %d", got)
	}

	cache.Retain(map[string]bool{bad: true})
	if got := cache.Len(); got != 0 {
		t.Errorf("cache len after retain: want 0, got %d", got)
	}
}

func TestScriptStampEqual(t *testing.T) {
	base := scriptStamp{exists: true, size: 10, mode: 0o644}
	for name, tc := range map[string]struct {
		other scriptStamp
		want  bool
	}{
		"same":         {other: base, want: true},
		"size differs": {other: scriptStamp{exists: true, size: 11, mode: 0o644}},
		"mode differs": {other: scriptStamp{exists: true, size: 10, mode: 0}},
		"absent":       {other: scriptStamp{}},
	} {
		t.Run(name, func(t *testing.T) {
			if got := base.Equal(tc.other); got != tc.want {
				t.Errorf("Equal: want %v, got %v", tc.want, got)
			}
		})
	}
}
