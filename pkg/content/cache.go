package content

import (
	"container/list"
	"html/template"
	"sync"
)

type cacheEntry struct {
	key  uint64
	html template.HTML
}

// renderCache is a fixed-size LRU of rendered bodies.
type renderCache struct {
	mu       sync.Mutex
	capacity int
	items    map[uint64]*list.Element
	order    *list.List
}

func newRenderCache(capacity int) *renderCache {
	return &renderCache{
		capacity: capacity,
		items:    make(map[uint64]*list.Element, capacity),
		order:    list.New(),
	}
}

func (c *renderCache) get(key uint64) (template.HTML, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*cacheEntry).html, true
	}
	return "", false
}

func (c *renderCache) put(key uint64, html template.HTML) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).html = html
		return
	}
	c.items[key] = c.order.PushFront(&cacheEntry{key: key, html: html})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

