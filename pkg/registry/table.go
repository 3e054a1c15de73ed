package registry

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dghubble/trie"

	"github.com/stackb/supplements/pkg/supplement"
)

// Entry pairs a project root with its resolver.  A nil Resolver means
// Unresolved: the root has no usable override script of its own.  Entries in
// a published Table are never Unresolved.
type Entry struct {
	// Root is the absolute project root.
	Root string
	// Resolver is the resolver responsible for files under Root.
	Resolver supplement.Resolver
	// Origin is the root whose override script supplied Resolver, or empty
	// when Resolver is the DefaultResolver.
	Origin string
}

// Inherited reports whether the entry's resolver came from an ancestor root.
func (e Entry) Inherited() bool {
	return e.Origin != "" && e.Origin != e.Root
}

// Table is an immutable snapshot of resolved entries, ordered most specific
// root first.
type Table struct {
	version uint64
	entries []Entry
	// roots maps slash-separated root keys to indexes in entries
	roots *trie.PathTrie
}

// NewTable sorts entries by descending root length, backpropagates
// resolvers to Unresolved entries, and indexes the result.  entries is not
// modified.
func NewTable(version uint64, entries []Entry) *Table {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sortEntries(sorted)
	backpropagate(sorted)

	t := &Table{
		version: version,
		entries: sorted,
		roots:   trie.NewPathTrie(),
	}
	for i, e := range sorted {
		t.roots.Put(rootKey(e.Root), i)
	}
	return t
}

// Version is incremented each time the owning registry rebuilds.
func (t *Table) Version() uint64 {
	return t.version
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries, most specific root first.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// Roots returns the project roots, most specific first.
func (t *Table) Roots() []string {
	roots := make([]string, len(t.entries))
	for i, e := range t.entries {
		roots[i] = e.Root
	}
	return roots
}

// Lookup returns the entry for exactly root.
func (t *Table) Lookup(root string) (Entry, bool) {
	if v := t.roots.Get(rootKey(filepath.Clean(root))); v != nil {
		return t.entries[v.(int)], true
	}
	return Entry{}, false
}

// Match returns the entry whose root is the longest path prefix of filename.
func (t *Table) Match(filename string) (Entry, bool) {
	var last interface{}
	t.roots.WalkPath(rootKey(filepath.Clean(filename)), func(key string, value interface{}) error {
		last = value
		return nil
	})
	if last == nil {
		return Entry{}, false
	}
	return t.entries[last.(int)], true
}

// ResolveFor finds the resolver responsible for filename and returns its
// result unchanged.  A file outside every root is an ErrNoApplicableResolver
// condition.
func (t *Table) ResolveFor(filename string, extensions []string) ([]string, error) {
	entry, ok := t.Match(filename)
	if !ok {
		return nil, supplement.NoApplicableResolver(filename)
	}
	return entry.Resolver.Resolve(filename, extensions)
}

// sortEntries orders by descending root length so that a root always
// precedes its ancestors.  Equal lengths fall back to lexical order.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Root, entries[j].Root
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
}

// backpropagate assigns each Unresolved entry the resolver of its nearest
// ancestor root that has one, or the DefaultResolver.  Entries must be
// sorted.  Ancestors are only found among entries, never on disk.
func backpropagate(entries []Entry) {
	for i := range entries {
		if entries[i].Resolver != nil {
			continue
		}
		// ancestors are strictly shorter, hence later in the slice and not
		// yet visited by this loop
		for _, ancestor := range entries[i+1:] {
			if ancestor.Resolver != nil && IsAncestor(ancestor.Root, entries[i].Root) {
				entries[i].Resolver = ancestor.Resolver
				entries[i].Origin = ancestor.Origin
				break
			}
		}
		if entries[i].Resolver == nil {
			entries[i].Resolver = supplement.DefaultResolver
			entries[i].Origin = ""
		}
	}
}

// IsAncestor reports whether root strictly contains path.  The comparison is
// by path segment: "/a/b" contains "/a/b/c" but not "/a/bc".
func IsAncestor(root, path string) bool {
	return root != path && HasPathPrefix(path, root)
}

// HasPathPrefix reports whether path is root or lies beneath it.
func HasPathPrefix(path, root string) bool {
	if !strings.HasPrefix(path, root) {
		return false
	}
	if len(path) == len(root) || strings.HasSuffix(root, string(filepath.Separator)) {
		return true
	}
	return path[len(root)] == filepath.Separator
}

// rootKey converts a cleaned path to a trie key.  The filesystem root maps to
// the empty key, which is the trie's own node.
func rootKey(path string) string {
	return strings.TrimSuffix(filepath.ToSlash(path), "/")
}
