package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/lib/pq"
)

// UserRating 单条用户评分（每个用户最多一条）
type UserRating struct {
	UserID    string    `json:"user_id"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingList 评分账本，整体存入 jsonb 列
type RatingList []UserRating

// Value 实现 driver.Valuer，序列化为 JSON
func (l RatingList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan 实现 sql.Scanner，从 JSON 反序列化
func (l *RatingList) Scan(value interface{}) error {
	if value == nil {
		*l = RatingList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("无法将 %T 扫描为 RatingList", value)
	}
	return json.Unmarshal(data, l)
}

// Movie 电影模型（TMDB 元数据 + 用户互动数据）
type Movie struct {
	ID               int            `json:"id" gorm:"primaryKey"`
	TMDBID           int            `json:"tmdb_id" gorm:"uniqueIndex;column:tmdb_id"`
	Title            string         `json:"title"`
	Overview         string         `json:"overview"`
	ReleaseDate      *time.Time     `json:"release_date" gorm:"index"`
	PosterPath       string         `json:"poster_path"`
	BackdropPath     string         `json:"backdrop_path"`
	Genres           pq.StringArray `json:"genres" gorm:"type:text[]"`
	GenreIDs         pq.Int64Array  `json:"genre_ids" gorm:"type:bigint[]"`
	TMDBVoteAverage  float64        `json:"tmdb_vote_average" gorm:"column:tmdb_vote_average"`
	TMDBVoteCount    int            `json:"tmdb_vote_count" gorm:"column:tmdb_vote_count"`
	Popularity       float64        `json:"popularity"`
	Runtime          int            `json:"runtime"`
	Budget           int64          `json:"budget"`
	Revenue          int64          `json:"revenue"`
	OriginalLanguage string         `json:"original_language"`
	UserRatings      RatingList     `json:"user_ratings" gorm:"type:jsonb"`
	WatchlistUsers   pq.StringArray `json:"watchlist_users" gorm:"type:text[]"`
	FavoriteUsers    pq.StringArray `json:"favorite_users" gorm:"type:text[]"`
	CreatedAt        time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// MovieDetail 读取边界上的电影视图，附带派生字段（不落库）
type MovieDetail struct {
	Movie
	AverageRating float64 `json:"average_rating"`
	RatingsCount  int     `json:"ratings_count"`
}

// WithStats 计算派生字段：平均分保留一位小数，无评分时为 0
func (m *Movie) WithStats() *MovieDetail {
	detail := &MovieDetail{Movie: *m, RatingsCount: len(m.UserRatings)}
	if len(m.UserRatings) == 0 {
		return detail
	}
	var sum float64
	for _, r := range m.UserRatings {
		sum += r.Rating
	}
	detail.AverageRating = math.Round(sum/float64(len(m.UserRatings))*10) / 10
	return detail
}

// PagedMovies 分页查询结果
type PagedMovies struct {
	Data       []*MovieDetail `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	HasNext    bool           `json:"has_next"`
	HasPrev    bool           `json:"has_prev"`
}

// MovieFilter 列表查询条件
type MovieFilter struct {
	Page      int    `form:"page" validate:"omitempty,min=1"`
	Limit     int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Search    string `form:"search"`
	Genre     string `form:"genre"`
	Year      int    `form:"year" validate:"omitempty,min=1870,max=2100"`
	SortBy    string `form:"sort_by" validate:"omitempty,oneof=title releaseDate popularity tmdbVoteAverage"`
	SortOrder string `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// Normalize 填充默认值：page=1、limit=20、按创建时间倒序
func (f *MovieFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
}

// CacheKey 由完整查询条件确定性导出的缓存键，不同查询映射到不同键
// 值经 URL 编码，字段之间不会串位
func (f *MovieFilter) CacheKey() string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(f.Page))
	v.Set("limit", strconv.Itoa(f.Limit))
	v.Set("search", f.Search)
	v.Set("genre", f.Genre)
	v.Set("year", strconv.Itoa(f.Year))
	v.Set("sort_by", f.SortBy)
	v.Set("sort_order", f.SortOrder)
	return "movies_" + v.Encode()
}
