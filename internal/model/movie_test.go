package model

import "testing"

// 不同查询条件必须映射到不同的缓存键，字段值不能跨边界串位
func TestCacheKeyDistinctFilters(t *testing.T) {
	a := MovieFilter{Search: "a_g", Genre: "b"}
	b := MovieFilter{Search: "a", Genre: "_gb"}
	a.Normalize()
	b.Normalize()

	if a.CacheKey() == b.CacheKey() {
		t.Fatalf("不同查询条件生成了相同的缓存键: %s", a.CacheKey())
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	a := MovieFilter{Page: 2, Limit: 10, Genre: "剧情", SortBy: "popularity"}
	b := MovieFilter{Page: 2, Limit: 10, Genre: "剧情", SortBy: "popularity"}
	a.Normalize()
	b.Normalize()

	if a.CacheKey() != b.CacheKey() {
		t.Fatalf("相同查询条件应生成相同的缓存键: %s / %s", a.CacheKey(), b.CacheKey())
	}
}
