package supplement

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultResolver is the process-wide fallback resolver assigned to roots
// that have no override script of their own and no ancestor to inherit from.
var DefaultResolver = &BasicResolver{}

// BasicResolver looks in the directory of the current file for regular files
// with the same base name and a different extension from the given set. For
// example "src/foo.c" with extensions [".c", ".h"] resolves to "src/foo.h".
type BasicResolver struct{}

// Resolve implements the Resolver interface.  Matches are returned in
// directory listing order.
func (*BasicResolver) Resolve(filename string, extensions []string) ([]string, error) {
	exts := NormalizeExtensions(extensions)
	dir := filepath.Dir(filename)
	name := filepath.Base(filename)
	ext := SplitExtension(name, exts)
	base := strings.TrimSuffix(name, ext)

	candidates := make(map[string]bool, len(exts))
	for _, e := range exts {
		if e != ext {
			candidates[e] = true
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, FilesystemError("", dir, err)
	}

	var supplements []string
	for _, entry := range entries {
		// directories may share the base name; never offer them
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.HasPrefix(entry.Name(), base) {
			continue
		}
		if candidates[entry.Name()[len(base):]] {
			supplements = append(supplements, filepath.Join(dir, entry.Name()))
		}
	}

	return supplements, nil
}

// SplitExtension returns the extension of name: the longest member of exts
// that name ends with, or filepath.Ext(name) when none does.  Extensions
// must be normalized.
func SplitExtension(name string, exts []string) string {
	var longest string
	for _, e := range exts {
		if len(e) > len(longest) && len(e) < len(name) && strings.HasSuffix(name, e) {
			longest = e
		}
	}
	if longest != "" {
		return longest
	}
	return filepath.Ext(name)
}

// NormalizeExtensions prepends a dot to extensions that start with a letter or
// digit ("ts" -> ".ts", "d.ts" -> ".d.ts"), dropping empty and duplicate
// values.  Suffixes such as "_test.go" are kept as-is.  Order is preserved.
func NormalizeExtensions(extensions []string) []string {
	seen := make(map[string]bool, len(extensions))
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		if e == "" || e == "." {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(e); unicode.IsLetter(r) || unicode.IsDigit(r) {
			e = "." + e
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		exts = append(exts, e)
	}
	return exts
}
