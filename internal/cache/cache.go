package cache

import (
	"image"
	"math"
	"sync"
)

// DefaultCapacity bounds the cache by entry count. Entries hold full-page
// rasters, so the bound keeps worst-case memory at a few dozen pages.
const DefaultCapacity = 32

// Key identifies one cached raster. Scale is quantized to thousandths so
// float drift from repeated zoom steps cannot split entries.
type Key struct {
	Doc        string
	Page       int
	ScaleMilli int
	Dark       bool
}

// NewKey builds a key for doc at the given page, scale and dark flag.
func NewKey(doc string, page int, scale float64, dark bool) Key {
	return Key{
		Doc:        doc,
		Page:       page,
		ScaleMilli: int(math.Round(scale * 1000)),
		Dark:       dark,
	}
}

// Result is what a lookup or decode produced: a raster or a terminal error.
type Result struct {
	Img *image.RGBA
	Err error
}

type entry struct {
	result   Result
	lastUsed uint64
}

// RenderCache holds decoded page rasters with LRU eviction. The displayed
// key may be pinned so eviction pressure from prefetch can never push the
// visible page out. Decode failures are cached as error markers: they are
// returned on lookup without re-decoding until Forget removes them.
type RenderCache struct {
	mu       sync.Mutex
	capacity int
	tick     uint64
	entries  map[Key]*entry
	pinned   Key
	hasPin   bool
}

func NewRenderCache(capacity int) *RenderCache {
	if capacity < 1 {
		capacity = 1
	}
	return &RenderCache{
		capacity: capacity,
		entries:  make(map[Key]*entry),
	}
}

// Lookup returns the cached result for key and marks it recently used.
func (c *RenderCache) Lookup(key Key) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Result{}, false
	}
	c.tick++
	e.lastUsed = c.tick
	return e.result, true
}

// Contains reports whether key is cached, without touching recency.
func (c *RenderCache) Contains(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Store inserts a decoded raster, evicting the least recently used unpinned
// entry when over capacity.
func (c *RenderCache) Store(key Key, img *image.RGBA) {
	c.store(key, Result{Img: img})
}

// StoreError records a terminal decode failure for key.
func (c *RenderCache) StoreError(key Key, err error) {
	c.store(key, Result{Err: err})
}

func (c *RenderCache) store(key Key, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick++
	c.entries[key] = &entry{result: r, lastUsed: c.tick}
	for len(c.entries) > c.capacity {
		if !c.evictOne() {
			break
		}
	}
}

// evictOne removes the least recently used unpinned entry. Caller holds mu.
func (c *RenderCache) evictOne() bool {
	var victim Key
	var oldest uint64 = math.MaxUint64
	found := false
	for k, e := range c.entries {
		if c.hasPin && k == c.pinned {
			continue
		}
		if e.lastUsed < oldest {
			oldest = e.lastUsed
			victim = k
			found = true
		}
	}
	if !found {
		return false
	}
	delete(c.entries, victim)
	return true
}

// Forget drops the entry for key. Used to clear an error marker before an
// explicit re-render.
func (c *RenderCache) Forget(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Pin protects key from eviction until the next Pin call. Only one key is
// pinned at a time: the raster currently on screen.
func (c *RenderCache) Pin(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinned = key
	c.hasPin = true
}

// DropDoc removes every entry belonging to doc, e.g. after the file changed
// on disk.
func (c *RenderCache) DropDoc(doc string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Doc == doc {
			delete(c.entries, k)
		}
	}
}

// Len reports the number of cached entries.
func (c *RenderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
