// Package filecache answers aggregate pattern queries over a repository's
// file set. A Cache is built once per repository root and shared across
// queries; a changed file set means a new Cache, never mutation in place.
package filecache

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"ownerlint/internal/codeowners"
	"ownerlint/internal/pattern"
)

// Cache holds an immutable file-path snapshot with memoized match
// results layered on top. Count and existence entries are created on
// first query and live for the Cache's lifetime; the pattern vocabulary
// is bounded by rule count, not file count, so the maps stay small.
type Cache struct {
	files []string

	// mu guards the maps below. Reads outnumber writes heavily; writes
	// are held only for map insertion, never across matching work, and
	// are idempotent under races.
	mu     sync.RWMutex
	counts map[string]int
	found  map[string]bool

	// group collapses concurrent computations of the same pattern.
	group singleflight.Group
}

// New builds a cache over repository-relative paths. The slice is copied;
// the caller's ordering is treated as ground truth and kept.
func New(files []string) *Cache {
	snapshot := make([]string, len(files))
	copy(snapshot, files)
	return &Cache{
		files:  snapshot,
		counts: make(map[string]int),
		found:  make(map[string]bool),
	}
}

// Files returns the snapshot. Callers must not mutate it.
func (c *Cache) Files() []string {
	return c.files
}

// Matches returns the files matching p, in snapshot order.
func (c *Cache) Matches(p string) []string {
	compiled := pattern.Compile(p)
	var out []string
	for _, f := range c.files {
		if compiled.Match(f) {
			out = append(out, f)
		}
	}
	return out
}

// CountMatches returns how many files match p. Memoized per pattern.
func (c *Cache) CountMatches(p string) int {
	c.mu.RLock()
	n, ok := c.counts[p]
	c.mu.RUnlock()
	if ok {
		return n
	}

	v, _, _ := c.group.Do("count:"+p, func() (any, error) {
		compiled := pattern.Compile(p)
		n := 0
		for _, f := range c.files {
			if compiled.Match(f) {
				n++
			}
		}
		c.mu.Lock()
		c.counts[p] = n
		c.found[p] = n > 0
		c.mu.Unlock()
		return n, nil
	})
	return v.(int)
}

// HasMatches reports whether any file matches p. A cached count answers
// without rescanning; otherwise the scan stops at the first match and a
// positive result is cached.
func (c *Cache) HasMatches(p string) bool {
	c.mu.RLock()
	v, ok := c.found[p]
	if !ok {
		var n int
		if n, ok = c.counts[p]; ok {
			v = n > 0
		}
	}
	c.mu.RUnlock()
	if ok {
		return v
	}

	r, _, _ := c.group.Do("has:"+p, func() (any, error) {
		compiled := pattern.Compile(p)
		for _, f := range c.files {
			if compiled.Match(f) {
				c.mu.Lock()
				c.found[p] = true
				c.mu.Unlock()
				return true, nil
			}
		}
		return false, nil
	})
	return r.(bool)
}

// FindPatternsWithMatches reports which of patterns match at least one
// file, as a set of indices into patterns.
//
// Cached patterns are answered directly. The uncached remainder is
// compiled once each, then resolved in a single pass over the file set:
// every file is tested against every not-yet-satisfied pattern, with a
// monotonic per-pattern flag cutting work off after the first hit. The
// pass runs in parallel over file chunks; flag updates are idempotent, so
// redundant writes by racing workers are harmless.
func (c *Cache) FindPatternsWithMatches(patterns []string) map[int]struct{} {
	result := make(map[int]struct{}, len(patterns))

	type pending struct {
		index    int
		pattern  string
		compiled *pattern.Compiled
	}
	var uncached []pending

	c.mu.RLock()
	for i, p := range patterns {
		if v, ok := c.found[p]; ok {
			if v {
				result[i] = struct{}{}
			}
			continue
		}
		if n, ok := c.counts[p]; ok {
			if n > 0 {
				result[i] = struct{}{}
			}
			continue
		}
		uncached = append(uncached, pending{index: i, pattern: p})
	}
	c.mu.RUnlock()

	if len(uncached) == 0 {
		return result
	}

	for i := range uncached {
		uncached[i].compiled = pattern.Compile(uncached[i].pattern)
	}

	flags := make([]atomic.Bool, len(uncached))

	var g errgroup.Group
	for _, span := range chunks(len(c.files)) {
		files := c.files[span.lo:span.hi]
		g.Go(func() error {
			for _, file := range files {
				for i := range uncached {
					if flags[i].Load() {
						continue
					}
					if uncached[i].compiled.Match(file) {
						flags[i].Store(true)
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	c.mu.Lock()
	for i := range uncached {
		v := flags[i].Load()
		c.found[uncached[i].pattern] = v
		if v {
			result[uncached[i].index] = struct{}{}
		}
	}
	c.mu.Unlock()

	return result
}

// UnownedFiles returns the files matched by none of the rules, in
// snapshot order. Recomputed on every call: rule lists change between
// analyses, compiled patterns and the parallel pass keep it fast.
func (c *Cache) UnownedFiles(rules []codeowners.Line) []string {
	var compiled []*pattern.Compiled
	for _, r := range rules {
		if r.Kind == codeowners.LineRule {
			compiled = append(compiled, pattern.Compile(r.Pattern))
		}
	}

	owned := make([]bool, len(c.files))
	var g errgroup.Group
	for _, span := range chunks(len(c.files)) {
		lo, hi := span.lo, span.hi
		g.Go(func() error {
			for j := lo; j < hi; j++ {
				for _, cp := range compiled {
					if cp.Match(c.files[j]) {
						owned[j] = true
						break
					}
				}
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	var unowned []string
	for j, ok := range owned {
		if !ok {
			unowned = append(unowned, c.files[j])
		}
	}
	return unowned
}

type span struct{ lo, hi int }

// chunks splits n items into contiguous per-worker spans.
func chunks(n int) []span {
	if n == 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	size := (n + workers - 1) / workers
	var out []span
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, span{lo: lo, hi: hi})
	}
	return out
}
