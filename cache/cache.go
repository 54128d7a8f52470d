// Package cache 提供统一的缓存抽象层
//
// 设计原则：
//  1. 简洁 - 只包含必需的功能
//  2. 类型安全 - 使用泛型提供编译时类型检查
//  3. 容量管理 - 防止 OOM，自动 LRU 驱逐
//  4. 并发安全 - 使用 RWMutex 保护
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config 缓存配置
type Config struct {
	// Name 缓存名称（用于日志和统计）
	Name string

	// MaxSize 最大缓存条目数，0 表示无限制（不推荐）
	MaxSize int

	// TTL 缓存过期时间，基于写入时间；0 表示永不过期
	TTL time.Duration
}

// Cache 通用泛型缓存（LRU + TTL）
type Cache[K comparable, V any] struct {
	config Config

	items   map[K]*entry[K, V]
	lruList *list.List

	mu sync.RWMutex

	stats Stats
}

type entry[K comparable, V any] struct {
	key        K
	value      V
	createdAt  time.Time
	lruElement *list.Element
}

// Stats 缓存统计
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
}

// New 创建缓存实例
func New[K comparable, V any](config Config) *Cache[K, V] {
	return &Cache[K, V]{
		config:  config,
		items:   make(map[K]*entry[K, V]),
		lruList: list.New(),
	}
}

// Get 读取缓存，过期条目视为 miss 并被移除
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	if c.expired(e) {
		c.removeLocked(e)
		c.stats.Misses++
		return zero, false
	}
	c.lruList.MoveToFront(e.lruElement)
	c.stats.Hits++
	return e.value, true
}

// Set 写入缓存，超容量时驱逐最久未使用的条目
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		e.createdAt = time.Now()
		c.lruList.MoveToFront(e.lruElement)
		return
	}

	e := &entry[K, V]{key: key, value: value, createdAt: time.Now()}
	e.lruElement = c.lruList.PushFront(e)
	c.items[key] = e

	if c.config.MaxSize > 0 && len(c.items) > c.config.MaxSize {
		if oldest := c.lruList.Back(); oldest != nil {
			c.removeLocked(oldest.Value.(*entry[K, V]))
			c.stats.Evictions++
		}
	}
}

// Delete 删除指定条目
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		c.removeLocked(e)
	}
}

// Len 返回当前条目数
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// GetStats 返回统计快照
func (c *Cache[K, V]) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Size = len(c.items)
	return s
}

func (c *Cache[K, V]) expired(e *entry[K, V]) bool {
	return c.config.TTL > 0 && time.Since(e.createdAt) > c.config.TTL
}

func (c *Cache[K, V]) removeLocked(e *entry[K, V]) {
	c.lruList.Remove(e.lruElement)
	delete(c.items, e.key)
}
