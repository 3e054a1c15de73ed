package registry

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// scriptStamp identifies a version of a root's override script.
type scriptStamp struct {
	exists  bool
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (s scriptStamp) Equal(o scriptStamp) bool {
	return s.exists == o.exists && s.size == o.size && s.mode == o.mode && s.modTime.Equal(o.modTime)
}

type cachedProbe struct {
	stamp scriptStamp
	entry Entry
}

// probeCache memoizes Loader.Probe by root while the script is unchanged.
type probeCache struct {
	loader *Loader
	probes *lru.Cache[string, cachedProbe]
}

func newProbeCache(loader *Loader, size int) *probeCache {
	if size <= 0 {
		size = 1
	}
	probes, err := lru.New[string, cachedProbe](size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &probeCache{loader: loader, probes: probes}
}

// Probe returns the cached entry for root when its script stamp matches,
// and probes otherwise.  The second result reports a cache hit.
func (c *probeCache) Probe(root string) (Entry, bool) {
	stamp, ok := stat(filepath.Join(root, ScriptName))
	if !ok {
		c.probes.Remove(root)
		return c.loader.Probe(root), false
	}
	if cached, hit := c.probes.Get(root); hit && cached.stamp.Equal(stamp) {
		return cached.entry, true
	}
	entry, readable := c.loader.probe(root)
	if readable {
		c.probes.Add(root, cachedProbe{stamp: stamp, entry: entry})
	} else {
		c.probes.Remove(root)
	}
	return entry, false
}

// Retain evicts every root not in keep.
func (c *probeCache) Retain(keep map[string]bool) {
	for _, root := range c.probes.Keys() {
		if !keep[root] {
			c.probes.Remove(root)
		}
	}
}

func (c *probeCache) Len() int {
	return c.probes.Len()
}

// stat returns the stamp of filename.  The second result is false when the
// file's state cannot be determined, in which case it must not be cached.
func stat(filename string) (scriptStamp, bool) {
	info, err := os.Stat(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return scriptStamp{}, true
		}
		return scriptStamp{}, false
	}
	return scriptStamp{exists: true, size: info.Size(), mode: info.Mode(), modTime: info.ModTime()}, true
}
