// Package registry maps project roots to supplement resolvers.
//
// Each root may carry an override script (see ScriptName).  Roots without a
// usable script inherit the resolver of their nearest open ancestor root, or
// fall back to supplement.DefaultResolver.  The result is published as an
// immutable Table that is swapped atomically on every rebuild.
package registry

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/stackb/supplements/pkg/supplement"
)

// Registry owns the current Table.  Lookups are safe to run concurrently
// with a rebuild; they always see a complete Table.
type Registry struct {
	*options
	loader *Loader
	cache  *probeCache

	// mu serializes rebuilds
	mu      sync.Mutex
	version uint64
	current atomic.Pointer[Table]
}

// New constructs a Registry with an empty Table.
func New(opts ...Option) *Registry {
	o := newOptions(opts)
	loader := &Loader{options: o}
	r := &Registry{
		options: o,
		loader:  loader,
		cache:   newProbeCache(loader, o.cacheSize),
	}
	r.current.Store(NewTable(0, nil))
	return r
}

// Current returns the published Table.
func (r *Registry) Current() *Table {
	return r.current.Load()
}

// Build probes roots and returns a resolved Table without publishing it.
// Duplicate roots are collapsed, relative roots are skipped.
func (r *Registry) Build(roots []string) *Table {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, table := r.build(roots)
	return table
}

// OnRootsChanged rebuilds the Table for the new root set and publishes it.
// Cached probes of roots no longer in the set are discarded.
func (r *Registry) OnRootsChanged(roots []string) *Table {
	r.mu.Lock()
	defer r.mu.Unlock()

	keep, table := r.build(roots)
	r.cache.Retain(keep)
	r.current.Store(table)

	r.logger.Debug().
		Uint64("version", table.Version()).
		Int("roots", table.Len()).
		Msg("published resolver table")

	return table
}

// GetSupplementsFor resolves the supplements of filename against the
// current Table.  Conditions are also passed to the reporter.
func (r *Registry) GetSupplementsFor(filename string, extensions []string) ([]string, error) {
	files, err := r.Current().ResolveFor(filename, extensions)
	if err != nil {
		if c, ok := supplement.AsCondition(err); ok {
			r.reporter(c)
		}
		r.logger.Debug().Err(err).Str("file", filename).Msg("no supplements")
		return nil, err
	}
	return files, nil
}

func (r *Registry) build(roots []string) (map[string]bool, *Table) {
	seen := make(map[string]bool, len(roots))
	entries := make([]Entry, 0, len(roots))

	for _, root := range roots {
		if !filepath.IsAbs(root) {
			r.logger.Warn().Str("root", root).Msg("skipping relative project root")
			continue
		}
		root = filepath.Clean(root)
		if seen[root] {
			continue
		}
		seen[root] = true

		entry, hit := r.cache.Probe(root)
		if hit {
			r.logger.Debug().Str("root", root).Msg("reusing cached probe")
		}
		entries = append(entries, entry)
	}

	r.version++
	return seen, NewTable(r.version, entries)
}
