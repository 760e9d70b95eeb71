package pattern

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of compiled matchers kept by a Cache.
const DefaultCacheSize = 256

type cacheKey struct {
	expr          string
	caseSensitive bool
	regex         bool
}

// Cache memoizes compiled matchers. Safe for concurrent use.
// Failed compilations are not cached.
type Cache struct {
	matchers *lru.Cache[cacheKey, *Matcher]
}

// NewCache creates a Cache holding at most size matchers (0 = DefaultCacheSize).
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[cacheKey, *Matcher](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern cache: %w", err)
	}
	return &Cache{matchers: c}, nil
}

// Compile returns the cached glob matcher for (glob, caseSensitive),
// compiling it on first use.
func (c *Cache) Compile(glob string, caseSensitive bool) (*Matcher, error) {
	return c.get(cacheKey{expr: glob, caseSensitive: caseSensitive}, Compile)
}

// CompileRegex is Compile for raw regular expressions.
func (c *Cache) CompileRegex(expr string, caseSensitive bool) (*Matcher, error) {
	return c.get(cacheKey{expr: expr, caseSensitive: caseSensitive, regex: true}, CompileRegex)
}

func (c *Cache) get(key cacheKey, build func(string, bool) (*Matcher, error)) (*Matcher, error) {
	if m, ok := c.matchers.Get(key); ok {
		return m, nil
	}

	m, err := build(key.expr, key.caseSensitive)
	if err != nil {
		return nil, err
	}

	c.matchers.Add(key, m)
	return m, nil
}

// Len returns the number of cached matchers.
func (c *Cache) Len() int {
	return c.matchers.Len()
}
