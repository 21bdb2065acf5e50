package keyword

import (
	"container/list"
	"sync"
)

// CachedTokenizer is an LRU cache of tokenizations keyed by text. Morphological analysis
// dominates the cost of tokenizer extraction, and sessions search the same text repeatedly.
type CachedTokenizer struct {
	tokenizer Tokenizer
	capacity  int

	mu    sync.Mutex
	cache map[string]*list.Element
	lru   *list.List
	hits  uint64
	miss  uint64
}

type cacheEntry struct {
	key    string
	tokens []Token
}

// NewCachedTokenizer wraps t with a cache holding up to capacity texts.
// A capacity <= 0 returns t unwrapped.
func NewCachedTokenizer(t Tokenizer, capacity int) Tokenizer {
	if capacity <= 0 {
		return t
	}
	return &CachedTokenizer{
		tokenizer: t,
		capacity:  capacity,
		cache:     make(map[string]*list.Element),
		lru:       list.New(),
	}
}

// Tokenize implements Tokenizer. The returned slice is a copy.
func (c *CachedTokenizer) Tokenize(text string) []Token {
	c.mu.Lock()
	if elem, ok := c.cache[text]; ok {
		c.lru.MoveToFront(elem)
		c.hits++
		tokens := elem.Value.(*cacheEntry).tokens
		c.mu.Unlock()
		return append([]Token(nil), tokens...)
	}
	c.miss++
	c.mu.Unlock()

	tokens := c.tokenizer.Tokenize(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.cache[text]; ok {
		c.lru.MoveToFront(elem)
		return append([]Token(nil), tokens...)
	}
	c.cache[text] = c.lru.PushFront(&cacheEntry{key: text, tokens: tokens})
	if c.lru.Len() > c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
	return append([]Token(nil), tokens...)
}

// Stats returns cache hits and misses.
func (c *CachedTokenizer) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.miss
}

// Len returns the number of cached texts.
func (c *CachedTokenizer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
