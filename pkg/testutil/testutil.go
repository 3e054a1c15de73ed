package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
)

// MustPrepareTestFiles writes the given files into a fresh temporary
// directory, which is removed when the test completes.
func MustPrepareTestFiles(t *testing.T, files []testtools.FileSpec) (tmpDir string, filenames []string) {
	tmpDir = t.TempDir()
	filenames = MustWriteTestFiles(t, tmpDir, files)
	return tmpDir, filenames
}

// MustWriteTestFiles writes files under tmpDir.  A Path ending in a slash
// creates a directory; NotExist entries only create their parent directory.
func MustWriteTestFiles(t *testing.T, tmpDir string, files []testtools.FileSpec) []string {
	var filenames []string
	for _, file := range files {
		abs := filepath.Join(tmpDir, filepath.FromSlash(file.Path))
		if strings.HasSuffix(file.Path, "/") {
			if err := os.MkdirAll(abs, os.ModePerm); err != nil {
				t.Fatal(err)
			}
			filenames = append(filenames, abs)
			continue
		}
		dir := filepath.Dir(abs)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			t.Fatal(err)
		}
		if file.Symlink != "" {
			if err := os.Symlink(file.Symlink, abs); err != nil {
				t.Fatal(err)
			}
		} else if !file.NotExist {
			if err := os.WriteFile(abs, []byte(file.Content), 0o644); err != nil {
				t.Fatal(err)
			}
		}
		filenames = append(filenames, abs)
	}
	return filenames
}
