package qwt

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is the default size for CachedIndex's LRU cache.
const DefaultCacheSize = 1024

type queryOp byte

const (
	opAccess queryOp = 'a'
	opRank   queryOp = 'r'
	opSelect queryOp = 's'
)

type queryKey struct {
	op  queryOp
	c   uint64
	arg uint64
}

type queryResult[S Symbol] struct {
	value  uint64
	symbol S
	ok     bool
}

// CachedIndex wraps a read-only Index with an LRU cache of recent
// query results, for workloads that repeatedly query the same hot
// positions/symbols. Concurrent identical cache misses are coalesced
// with a singleflight group so only one of them actually queries the
// underlying Index.
type CachedIndex[S Symbol] struct {
	idx   *Index[S]
	cache *lru.Cache[queryKey, queryResult[S]]
	group singleflight.Group
	mu    sync.RWMutex
}

// NewCachedIndex wraps idx with the default cache size.
func NewCachedIndex[S Symbol](idx *Index[S]) (*CachedIndex[S], error) {
	return NewCachedIndexWithSize(idx, DefaultCacheSize)
}

// NewCachedIndexWithSize wraps idx with a cache of the given size.
func NewCachedIndexWithSize[S Symbol](idx *Index[S], size int) (*CachedIndex[S], error) {
	cache, err := lru.New[queryKey, queryResult[S]](size)
	if err != nil {
		return nil, fmt.Errorf("create LRU cache: %w", err)
	}
	return &CachedIndex[S]{idx: idx, cache: cache}, nil
}

// Len returns the number of symbols in the underlying index.
func (c *CachedIndex[S]) Len() uint64 { return c.idx.Len() }

// Access is Index.Access with LRU memoization.
func (c *CachedIndex[S]) Access(i uint64) (S, bool) {
	key := queryKey{op: opAccess, arg: i}
	if res, ok := c.lookup(key); ok {
		return res.symbol, res.ok
	}
	res, _, _ := c.group.Do(fmt.Sprintf("a:%d", i), func() (interface{}, error) {
		sym, ok := c.idx.Access(i)
		return queryResult[S]{symbol: sym, ok: ok}, nil
	})
	r := res.(queryResult[S])
	c.store(key, r)
	return r.symbol, r.ok
}

// Rank is Index.Rank with LRU memoization.
func (c *CachedIndex[S]) Rank(sym S, i uint64) (uint64, bool) {
	key := queryKey{op: opRank, c: uint64(sym), arg: i}
	if res, ok := c.lookup(key); ok {
		return res.value, res.ok
	}
	res, _, _ := c.group.Do(fmt.Sprintf("r:%d:%d", sym, i), func() (interface{}, error) {
		v, ok := c.idx.Rank(sym, i)
		return queryResult[S]{value: v, ok: ok}, nil
	})
	r := res.(queryResult[S])
	c.store(key, r)
	return r.value, r.ok
}

// Select is Index.Select with LRU memoization.
func (c *CachedIndex[S]) Select(sym S, j uint64) (uint64, bool) {
	key := queryKey{op: opSelect, c: uint64(sym), arg: j}
	if res, ok := c.lookup(key); ok {
		return res.value, res.ok
	}
	res, _, _ := c.group.Do(fmt.Sprintf("s:%d:%d", sym, j), func() (interface{}, error) {
		v, ok := c.idx.Select(sym, j)
		return queryResult[S]{value: v, ok: ok}, nil
	})
	r := res.(queryResult[S])
	c.store(key, r)
	return r.value, r.ok
}

func (c *CachedIndex[S]) lookup(key queryKey) (queryResult[S], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache.Get(key)
}

func (c *CachedIndex[S]) store(key queryKey, res queryResult[S]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(key, res)
}

// ClearCache purges all cached query results.
func (c *CachedIndex[S]) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Purge()
}

// CacheLen returns the number of entries currently cached.
func (c *CachedIndex[S]) CacheLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache.Len()
}
