package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New[string](Config{TTL: time.Minute, MaxEntries: 10})

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("期望命中 v，实际 (%q, %v)", got, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Fatal("不存在的键不应命中")
	}
}

func TestExpiry(t *testing.T) {
	c := New[int](Config{TTL: 20 * time.Millisecond, MaxEntries: 10})

	c.Set("k", 1)
	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("过期条目不应被返回")
	}
	if c.Len() != 0 {
		t.Fatalf("过期条目应在读取时删除，当前条目数 %d", c.Len())
	}
}

func TestCapacityEviction(t *testing.T) {
	c := New[int](Config{TTL: time.Minute, MaxEntries: 2})

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	if c.Len() != 2 {
		t.Fatalf("容量上限为 2，当前条目数 %d", c.Len())
	}
	// 最早写入的条目被 LRU 淘汰
	if _, ok := c.Get("k0"); ok {
		t.Fatal("k0 应已被淘汰")
	}
	if _, ok := c.Get("k2"); !ok {
		t.Fatal("k2 应仍在缓存中")
	}
}

func TestDeleteAndPurge(t *testing.T) {
	c := New[int](Config{TTL: time.Minute, MaxEntries: 10})

	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("删除后不应命中")
	}

	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("清空后条目数应为 0，实际 %d", c.Len())
	}
}

func TestSetWithTTL(t *testing.T) {
	c := New[int](Config{TTL: time.Minute, MaxEntries: 10})

	c.SetWithTTL("k", 1, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("自定义有效期应覆盖默认值")
	}
}

// 缓存故障不能影响正确性，nil 句柄按未命中处理
func TestNilCacheSafe(t *testing.T) {
	var c *TTLCache[int]

	c.Set("k", 1)
	c.SetWithTTL("k", 1, time.Minute)
	c.Delete("k")
	c.Purge()

	if _, ok := c.Get("k"); ok {
		t.Fatal("nil 缓存应按未命中处理")
	}
	if c.Len() != 0 {
		t.Fatal("nil 缓存条目数应为 0")
	}
}

func TestDefaultConfig(t *testing.T) {
	c := New[int](Config{})
	if c.ttl != 5*time.Minute {
		t.Fatalf("默认有效期应为 5 分钟，实际 %v", c.ttl)
	}
}
