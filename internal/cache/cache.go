package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Config 缓存配置，容量和有效期都在构造时显式给定
type Config struct {
	TTL        time.Duration // 条目有效期，默认 5 分钟
	MaxEntries int           // 最大条目数，满时按 LRU 淘汰，默认 100
}

// item 包装实际的数据，增加过期时间
type item[T any] struct {
	value     T
	expiredAt time.Time
}

// TTLCache 带过期时间的有界缓存
// 底层 LRU 线程安全；缓存不拥有数据真相，过期条目永远不会被返回
type TTLCache[T any] struct {
	storage *lru.Cache[string, item[T]]
	ttl     time.Duration
}

// New 创建缓存实例
func New[T any](cfg Config) *TTLCache[T] {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 100
	}
	c, _ := lru.New[string, item[T]](cfg.MaxEntries)
	return &TTLCache[T]{
		storage: c,
		ttl:     cfg.TTL,
	}
}

// Set 写入缓存，使用默认有效期
func (c *TTLCache[T]) Set(key string, value T) {
	if c == nil || c.storage == nil {
		return
	}
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL 写入缓存并指定有效期
func (c *TTLCache[T]) SetWithTTL(key string, value T, ttl time.Duration) {
	if c == nil || c.storage == nil {
		return
	}
	c.storage.Add(key, item[T]{
		value:     value,
		expiredAt: time.Now().Add(ttl),
	})
}

// Get 读取缓存（带过期检查）
func (c *TTLCache[T]) Get(key string) (T, bool) {
	var zero T
	if c == nil || c.storage == nil {
		return zero, false
	}
	it, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	// 过期条目删除并按未命中处理
	if time.Now().After(it.expiredAt) {
		c.storage.Remove(key)
		return zero, false
	}

	return it.value, true
}

// Delete 删除指定键
func (c *TTLCache[T]) Delete(key string) {
	if c == nil || c.storage == nil {
		return
	}
	c.storage.Remove(key)
}

// Purge 清空所有条目
func (c *TTLCache[T]) Purge() {
	if c == nil || c.storage == nil {
		return
	}
	c.storage.Purge()
}

// Len 当前条目数
func (c *TTLCache[T]) Len() int {
	if c == nil || c.storage == nil {
		return 0
	}
	return c.storage.Len()
}
