package command

import (
	"container/list"
	"sync"

	"github.com/dgryski/go-farm"
)

// chainCache is an LRU of parsed chains keyed by the farm hash of the
// command text. Chains are immutable, so cached values are shared freely.
type chainCache struct {
	mu        sync.Mutex
	cache     map[uint64]*list.Element
	evictList *list.List
	maxSize   int
	hits      int
	misses    int
}

type cacheEntry struct {
	hash  uint64
	text  string
	chain *Chain
}

// newChainCache creates a cache. maxSize <= 0 selects the default size.
func newChainCache(maxSize int) *chainCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &chainCache{
		cache:     make(map[uint64]*list.Element),
		evictList: list.New(),
		maxSize:   maxSize,
	}
}

func (c *chainCache) get(text string) (*Chain, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.cache[farm.Hash64([]byte(text))]
	if !ok || elem.Value.(*cacheEntry).text != text {
		c.misses++
		return nil, false
	}
	c.hits++
	c.evictList.MoveToFront(elem)
	return elem.Value.(*cacheEntry).chain, true
}

func (c *chainCache) put(text string, chain *Chain) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := farm.Hash64([]byte(text))
	if elem, ok := c.cache[h]; ok {
		c.evictList.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.text = text
		entry.chain = chain
		return
	}
	elem := c.evictList.PushFront(&cacheEntry{
		hash:  h,
		text:  text,
		chain: chain,
	})
	c.cache[h] = elem
	if c.evictList.Len() > c.maxSize {
		c.evictOldest()
	}
}

func (c *chainCache) evictOldest() {
	elem := c.evictList.Back()
	if elem != nil {
		c.evictList.Remove(elem)
		delete(c.cache, elem.Value.(*cacheEntry).hash)
	}
}

type CacheStats struct {
	Size    int
	MaxSize int
	Hits    int
	Misses  int
}

func (c *chainCache) stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Size:    len(c.cache),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
