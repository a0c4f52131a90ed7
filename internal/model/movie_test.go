package model

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestMovieFilterNormalize(t *testing.T) {
	f := &MovieFilter{}
	f.Normalize()
	if f.Page != 1 || f.Limit != 10 {
		t.Fatalf("期望默认 page=1 limit=10，实际 page=%d limit=%d", f.Page, f.Limit)
	}

	f = &MovieFilter{Page: 3, Limit: 25}
	f.Normalize()
	if f.Page != 3 || f.Limit != 25 {
		t.Fatalf("显式分页参数不应被覆盖，实际 page=%d limit=%d", f.Page, f.Limit)
	}

	if f.Offset() != 50 {
		t.Fatalf("期望 offset=50，实际 %d", f.Offset())
	}
}

func TestMovieFilterMatches(t *testing.T) {
	date := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}

	movie := &Movie{
		Title:       "The Matrix Reloaded",
		Genre:       "Action",
		Duration:    138,
		ReleaseDate: date("2003-05-15"),
	}

	cases := []struct {
		name   string
		filter MovieFilter
		want   bool
	}{
		{"空条件全部通过", MovieFilter{}, true},
		{"标题模糊匹配忽略大小写", MovieFilter{Search: "matrix"}, true},
		{"标题不含关键词", MovieFilter{Search: "inception"}, false},
		{"类型精确匹配忽略大小写", MovieFilter{Genre: "action"}, true},
		{"类型不匹配", MovieFilter{Genre: "Act"}, false},
		{"时长下限含边界", MovieFilter{MinDuration: intPtr(138)}, true},
		{"时长下限超出", MovieFilter{MinDuration: intPtr(139)}, false},
		{"时长上限含边界", MovieFilter{MaxDuration: intPtr(138)}, true},
		{"时长上限低于实际", MovieFilter{MaxDuration: intPtr(137)}, false},
		{"上映日期区间含边界", MovieFilter{
			ReleaseFrom: timePtr(date("2003-05-15")),
			ReleaseTo:   timePtr(date("2003-05-15")),
		}, true},
		{"上映日期早于下限", MovieFilter{ReleaseFrom: timePtr(date("2003-05-16"))}, false},
		{"只给单边范围", MovieFilter{ReleaseTo: timePtr(date("2010-01-01"))}, true},
		{"多条件 AND 其中一项不满足", MovieFilter{Search: "Matrix", Genre: "Drama"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Matches(movie); got != tc.want {
				t.Fatalf("Matches=%v，期望 %v", got, tc.want)
			}
		})
	}
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(15, 1, 10)
	if meta.Total != 15 || meta.TotalPages != 2 {
		t.Fatalf("期望 total=15 total_pages=2，实际 %+v", meta)
	}

	meta = NewPageMeta(0, 1, 10)
	if meta.TotalPages != 0 {
		t.Fatalf("total=0 时 total_pages 应为 0，实际 %d", meta.TotalPages)
	}

	meta = NewPageMeta(20, 2, 10)
	if meta.TotalPages != 2 {
		t.Fatalf("整除时不应多出一页，实际 %d", meta.TotalPages)
	}
}

func TestMovieFilterCacheKey(t *testing.T) {
	a := MovieFilter{Search: "Matrix", Genre: "Action", Page: 1, Limit: 10}
	b := MovieFilter{Search: "matrix", Genre: "action", Page: 1, Limit: 10}
	if a.CacheKey() != b.CacheKey() {
		t.Fatal("大小写不同的等价条件应命中同一个缓存键")
	}

	c := MovieFilter{Search: "Matrix", Genre: "Action", Page: 2, Limit: 10}
	if a.CacheKey() == c.CacheKey() {
		t.Fatal("不同页码不能共用缓存键")
	}

	d := MovieFilter{Search: "Matrix", Genre: "Action", MinDuration: intPtr(90), Page: 1, Limit: 10}
	if a.CacheKey() == d.CacheKey() {
		t.Fatal("不同过滤条件不能共用缓存键")
	}
}
