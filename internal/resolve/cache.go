package resolve

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the symbol cache bound used when no size is given.
const DefaultCacheSize = 1024

// Cache is the two-level symbol cache: source file identity, then symbol
// name. It distinguishes three states for a (file, name) pair: never
// queried, queried and found, and queried and confirmed absent, so a
// confirmed miss is never re-resolved.
//
// The cache performs no locking; it is intended for single-threaded use per
// project load.
type Cache struct {
	size  int
	files *lru.Cache[string, map[string]*ResolvedSymbol]
}

// NewCache creates a cache bounded to the given number of files.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	files, err := lru.New[string, map[string]*ResolvedSymbol](size)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &Cache{size: size, files: files}
}

// Lookup returns the cached entry for the pair. queried is false when the
// pair was never resolved; a queried pair with a nil symbol is a confirmed
// miss.
func (c *Cache) Lookup(file, name string) (sym *ResolvedSymbol, queried bool) {
	symbols, ok := c.files.Get(file)
	if !ok {
		return nil, false
	}
	sym, queried = symbols[name]
	return sym, queried
}

// Set records the resolution outcome for the pair. Entries are overwritten
// wholesale; a nil symbol records a confirmed miss.
func (c *Cache) Set(file, name string, sym *ResolvedSymbol) {
	symbols, ok := c.files.Get(file)
	if !ok {
		symbols = make(map[string]*ResolvedSymbol)
		c.files.Add(file, symbols)
	}
	symbols[name] = sym
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	return c.files.Len()
}

// Clear resets all cache state.
func (c *Cache) Clear() {
	c.files.Purge()
}
