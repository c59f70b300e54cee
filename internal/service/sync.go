package service

import (
	"context"
	"log"
	"time"

	"github.com/user/cinevault/internal/model"
)

// MetadataProvider 远端电影元数据服务接口
type MetadataProvider interface {
	PopularMovies(ctx context.Context, page int) (*TMDBPage, error)
	MovieDetails(ctx context.Context, tmdbID int) (*TMDBMovieDetails, error)
}

// SyncSummary 一次同步的结果统计
type SyncSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// SyncService 批量导入服务
// 按页顺序拉取，逐条隔离失败：单页或单条出错只记日志并计入 skipped，
// 不回滚已导入的部分，不中断整个批次
type SyncService struct {
	store    MovieStore
	provider MetadataProvider
	movies   *MovieService
}

// NewSyncService 创建同步服务
func NewSyncService(store MovieStore, provider MetadataProvider, movies *MovieService) *SyncService {
	return &SyncService{
		store:    store,
		provider: provider,
		movies:   movies,
	}
}

// Sync 从元数据服务导入指定页数的热门电影
func (s *SyncService) Sync(ctx context.Context, pages int) (*SyncSummary, error) {
	if pages < 1 {
		pages = 1
	}
	summary := &SyncSummary{}

	for page := 1; page <= pages; page++ {
		listing, err := s.provider.PopularMovies(ctx, page)
		if err != nil {
			// 整页拉取失败：记日志后继续下一页
			log.Printf("[同步] 拉取第 %d 页失败: %v", page, err)
			continue
		}

		for _, item := range listing.Results {
			existing, err := s.store.FindByTMDBID(item.ID)
			if err != nil {
				log.Printf("[同步] 查询电影失败 (tmdb_id=%d): %v", item.ID, err)
				summary.Skipped++
				continue
			}
			if existing != nil {
				summary.Skipped++
				continue
			}

			detail, err := s.provider.MovieDetails(ctx, item.ID)
			if err != nil {
				log.Printf("[同步] 获取电影详情失败 (tmdb_id=%d): %v", item.ID, err)
				summary.Skipped++
				continue
			}

			movie := mapDetailToMovie(detail)
			if err := s.store.Create(movie); err != nil {
				log.Printf("[同步] 保存电影失败 (tmdb_id=%d): %v", item.ID, err)
				summary.Skipped++
				continue
			}
			summary.Imported++
		}
	}

	// 列表缓存整批只失效一次
	s.movies.InvalidateLists()
	log.Printf("[同步] 完成: 导入 %d 条，跳过 %d 条", summary.Imported, summary.Skipped)
	return summary, nil
}

// mapDetailToMovie 把详情响应映射为电影模型，新电影的互动数据为空
func mapDetailToMovie(detail *TMDBMovieDetails) *model.Movie {
	movie := &model.Movie{
		TMDBID:           detail.ID,
		Title:            detail.Title,
		Overview:         detail.Overview,
		PosterPath:       detail.PosterPath,
		BackdropPath:     detail.BackdropPath,
		TMDBVoteAverage:  detail.VoteAverage,
		TMDBVoteCount:    detail.VoteCount,
		Popularity:       detail.Popularity,
		Runtime:          detail.Runtime,
		Budget:           detail.Budget,
		Revenue:          detail.Revenue,
		OriginalLanguage: detail.OriginalLanguage,
		UserRatings:      model.RatingList{},
		WatchlistUsers:   []string{},
		FavoriteUsers:    []string{},
	}

	// 日期缺失或格式异常时保持为空
	if detail.ReleaseDate != "" {
		if t, err := time.Parse("2006-01-02", detail.ReleaseDate); err == nil {
			movie.ReleaseDate = &t
		}
	}

	for _, g := range detail.Genres {
		movie.Genres = append(movie.Genres, g.Name)
	}
	// 详情接口只给 genres 对象列表时，从中补齐 ID 列表
	movie.GenreIDs = detail.GenreIDs
	if len(movie.GenreIDs) == 0 {
		for _, g := range detail.Genres {
			movie.GenreIDs = append(movie.GenreIDs, g.ID)
		}
	}

	return movie
}
