package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Movie 电影模型
type Movie struct {
	ID            string     `json:"id" gorm:"primaryKey;size:36"`
	Title         string     `json:"title" gorm:"not null;index"`
	OriginalTitle string     `json:"original_title,omitempty"`
	ReleaseDate   time.Time  `json:"release_date" gorm:"index"`
	Description   string     `json:"description" gorm:"not null"`
	Budget        *float64   `json:"budget,omitempty"`
	Duration      int        `json:"duration" gorm:"not null"`
	Genre         string     `json:"genre" gorm:"not null;index"`
	ImageURL      string     `json:"image_url,omitempty"`
	UserID        string     `json:"user_id" gorm:"size:36;index;not null"`
	User          *UserBrief `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	CreatedAt     time.Time  `json:"created_at" gorm:"index"`
}

// ReleasingMovie 上映提醒用的查询结果：电影 + 完整的创建者记录
// 提醒任务需要收件人邮箱和昵称，所以这里带的是完整 User 而不是精简视图
type ReleasingMovie struct {
	Movie Movie
	Owner User
}

// MovieFilter 电影列表的查询条件（每次请求临时构造，不落库）
// 所有条件之间是 AND 关系，零值字段不参与过滤
type MovieFilter struct {
	Search      string     // 标题模糊匹配（忽略大小写）
	Genre       string     // 类型精确匹配（忽略大小写）
	MinDuration *int       // 最短时长（分钟，含）
	MaxDuration *int       // 最长时长（分钟，含）
	ReleaseFrom *time.Time // 上映日期下限（含）
	ReleaseTo   *time.Time // 上映日期上限（含）
	Page        int
	Limit       int
}

// Normalize 补齐分页默认值：page 默认 1，limit 默认 10
func (f *MovieFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
}

// Offset 计算分页偏移量
func (f *MovieFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Matches 判断单部电影是否满足全部已给出的条件
// 语义必须与 repository 层拼出的 SQL 保持一致
func (f *MovieFilter) Matches(m *Movie) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(f.Search)) {
		return false
	}
	if f.Genre != "" && !strings.EqualFold(m.Genre, f.Genre) {
		return false
	}
	if f.MinDuration != nil && m.Duration < *f.MinDuration {
		return false
	}
	if f.MaxDuration != nil && m.Duration > *f.MaxDuration {
		return false
	}
	if f.ReleaseFrom != nil && m.ReleaseDate.Before(*f.ReleaseFrom) {
		return false
	}
	if f.ReleaseTo != nil && m.ReleaseDate.After(*f.ReleaseTo) {
		return false
	}
	return true
}

// CacheKey 生成列表缓存键，同一组条件命中同一个键
func (f *MovieFilter) CacheKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "movies:%s|%s|", strings.ToLower(f.Search), strings.ToLower(f.Genre))
	if f.MinDuration != nil {
		fmt.Fprintf(&b, "%d", *f.MinDuration)
	}
	b.WriteByte('-')
	if f.MaxDuration != nil {
		fmt.Fprintf(&b, "%d", *f.MaxDuration)
	}
	b.WriteByte('|')
	if f.ReleaseFrom != nil {
		b.WriteString(f.ReleaseFrom.Format("2006-01-02"))
	}
	b.WriteByte('-')
	if f.ReleaseTo != nil {
		b.WriteString(f.ReleaseTo.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "|p%d|l%d", f.Page, f.Limit)
	return b.String()
}

// PageMeta 分页元信息
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// MoviePage 电影列表响应（data + meta）
type MoviePage struct {
	Data []*Movie `json:"data"`
	Meta PageMeta `json:"meta"`
}

// NewPageMeta 根据总数和分页参数计算元信息，total 为 0 时 total_pages 也为 0
func NewPageMeta(total int64, page, limit int) PageMeta {
	return PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}
