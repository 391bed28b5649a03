// Package cache holds computed results keyed by the full request tuple.
package cache

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Key identifies one request. Two requests with equal keys over the same
// data snapshot produce equal results.
type Key struct {
	Metric string
	Tipe   string
	Codes  string
	// Param is the horizon for forecasts and the test years for comparisons.
	Param   int
	Method  string
	Details bool
}

// NewKey builds a key with codes in canonical order.
func NewKey(metric, tipe string, codes []int, param int, method string, details bool) Key {
	sorted := slices.Clone(codes)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	parts := make([]string, len(sorted))
	for i, c := range sorted {
		parts[i] = strconv.Itoa(c)
	}
	return Key{
		Metric:  metric,
		Tipe:    tipe,
		Codes:   strings.Join(parts, ","),
		Param:   param,
		Method:  method,
		Details: details,
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/[%s]/%d/%s/%t", k.Metric, k.Tipe, k.Codes, k.Param, k.Method, k.Details)
}

// Recorder is notified of every lookup.
type Recorder interface {
	CacheHit()
	CacheMiss()
}

// Cache is a bounded least-recently-used result cache. It is safe for
// concurrent use.
type Cache[V any] struct {
	entries  *lru.Cache[Key, V]
	recorder Recorder
}

// New returns a cache holding at most size entries. recorder may be nil.
func New[V any](size int, recorder Recorder) (*Cache[V], error) {
	entries, err := lru.New[Key, V](size)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Cache[V]{entries: entries, recorder: recorder}, nil
}

// Get returns the cached value for key.
func (c *Cache[V]) Get(key Key) (V, bool) {
	v, ok := c.entries.Get(key)
	if c.recorder != nil {
		if ok {
			c.recorder.CacheHit()
		} else {
			c.recorder.CacheMiss()
		}
	}
	return v, ok
}

// Add stores value under key, evicting the least recently used entry when
// full. It reports whether an eviction happened.
func (c *Cache[V]) Add(key Key, value V) bool {
	return c.entries.Add(key, value)
}

// Purge removes every entry.
func (c *Cache[V]) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.entries.Len()
}
