package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const genreCacheKey = "tmdb_genres"

// TMDBMovie 列表接口返回的电影摘要
type TMDBMovie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	GenreIDs         []int64 `json:"genre_ids"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	OriginalLanguage string  `json:"original_language"`
}

// TMDBMovieDetails 详情接口返回的完整电影信息
type TMDBMovieDetails struct {
	TMDBMovie
	Runtime int         `json:"runtime"`
	Budget  int64       `json:"budget"`
	Revenue int64       `json:"revenue"`
	Genres  []TMDBGenre `json:"genres"`
}

// TMDBGenre 类型
type TMDBGenre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TMDBPage 一页列表结果
type TMDBPage struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// TMDBClient TMDB 元数据服务客户端
type TMDBClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	// 类型列表基本不变，进程内缓存一天，避免重复请求
	genreCache *gocache.Cache
}

// NewTMDBClient 创建 TMDB 客户端
func NewTMDBClient(baseURL, apiKey string) *TMDBClient {
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}
	return &TMDBClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		genreCache: gocache.New(24*time.Hour, 1*time.Hour),
	}
}

// get 发送请求并解码 JSON，所有接口共用
func (s *TMDBClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s 返回状态码 %d", ErrUpstream, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: 解析响应失败: %v", ErrUpstream, err)
	}
	return nil
}

// PopularMovies 获取热门电影列表（分页）
func (s *TMDBClient) PopularMovies(ctx context.Context, page int) (*TMDBPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var result TMDBPage
	if err := s.get(ctx, "/movie/popular", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MovieDetails 获取单部电影详情
func (s *TMDBClient) MovieDetails(ctx context.Context, tmdbID int) (*TMDBMovieDetails, error) {
	var result TMDBMovieDetails
	if err := s.get(ctx, fmt.Sprintf("/movie/%d", tmdbID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchMovies 按关键词搜索电影
func (s *TMDBClient) SearchMovies(ctx context.Context, query string, page int) (*TMDBPage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var result TMDBPage
	if err := s.get(ctx, "/search/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MoviesByGenre 按类型发现电影
func (s *TMDBClient) MoviesByGenre(ctx context.Context, genreID int64, page int) (*TMDBPage, error) {
	params := url.Values{}
	params.Set("with_genres", strconv.FormatInt(genreID, 10))
	params.Set("page", strconv.Itoa(page))

	var result TMDBPage
	if err := s.get(ctx, "/discover/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Genres 获取全部电影类型（进程内缓存）
func (s *TMDBClient) Genres(ctx context.Context) ([]TMDBGenre, error) {
	if cached, ok := s.genreCache.Get(genreCacheKey); ok {
		return cached.([]TMDBGenre), nil
	}

	var result struct {
		Genres []TMDBGenre `json:"genres"`
	}
	if err := s.get(ctx, "/genre/movie/list", nil, &result); err != nil {
		return nil, err
	}

	s.genreCache.Set(genreCacheKey, result.Genres, gocache.DefaultExpiration)
	return result.Genres, nil
}
