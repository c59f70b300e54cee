package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/user/cinevault/internal/cache"
	"github.com/user/cinevault/internal/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var validate = validator.New()

// MovieStore 电影目录存储接口
// 未找到记录时返回 (nil, nil)，由服务层转换为 ErrMovieNotFound
type MovieStore interface {
	FindByID(id int) (*model.Movie, error)
	FindByTMDBID(tmdbID int) (*model.Movie, error)
	Find(ctx context.Context, f *model.MovieFilter) ([]*model.Movie, error)
	Count(ctx context.Context, f *model.MovieFilter) (int64, error)
	Create(movie *model.Movie) error
	Save(movie *model.Movie) error
	Delete(id int) error
}

// MovieService 电影查询与互动服务
// 单实体视图要求写后立即一致：每次变更都删除对应的 ID 缓存键；
// 列表视图接受最终一致：结构性变更整体清空列表缓存，其余情况靠 TTL 兜底
type MovieService struct {
	store      MovieStore
	movieCache *cache.TTLCache[*model.MovieDetail]
	listCache  *cache.TTLCache[*model.PagedMovies]
	sf         singleflight.Group
}

// NewMovieService 创建电影服务，缓存句柄由调用方构造后传入
func NewMovieService(store MovieStore, movieCache *cache.TTLCache[*model.MovieDetail], listCache *cache.TTLCache[*model.PagedMovies]) *MovieService {
	return &MovieService{
		store:      store,
		movieCache: movieCache,
		listCache:  listCache,
	}
}

func movieKey(id int) string {
	return fmt.Sprintf("movie_%d", id)
}

func tmdbKey(tmdbID int) string {
	return fmt.Sprintf("movie_tmdb_%d", tmdbID)
}

// invalidateMovie 删除单实体视图的两个缓存键
func (s *MovieService) invalidateMovie(movie *model.Movie) {
	s.movieCache.Delete(movieKey(movie.ID))
	s.movieCache.Delete(tmdbKey(movie.TMDBID))
}

// InvalidateLists 清空全部列表缓存（粗粒度失效，结构性变更后调用一次）
func (s *MovieService) InvalidateLists() {
	s.listCache.Purge()
}

// List 按条件分页查询电影列表
func (s *MovieService) List(ctx context.Context, f *model.MovieFilter) (*model.PagedMovies, error) {
	f.Normalize()
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	key := f.CacheKey()
	if cached, ok := s.listCache.Get(key); ok {
		return cached, nil
	}

	// singleflight 合并同一查询条件的并发回填
	val, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.queryList(ctx, f)
	})
	if err != nil {
		return nil, err
	}

	result := val.(*model.PagedMovies)
	s.listCache.Set(key, result)
	return result, nil
}

// queryList 绕过缓存查库，count 与 find 相互独立，可并发执行
func (s *MovieService) queryList(ctx context.Context, f *model.MovieFilter) (*model.PagedMovies, error) {
	var (
		movies []*model.Movie
		total  int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.store.Find(gctx, f)
		if err != nil {
			return fmt.Errorf("查询电影列表失败: %w", err)
		}
		movies = found
		return nil
	})
	g.Go(func() error {
		count, err := s.store.Count(gctx, f)
		if err != nil {
			return fmt.Errorf("统计电影数量失败: %w", err)
		}
		total = count
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := make([]*model.MovieDetail, 0, len(movies))
	for _, m := range movies {
		data = append(data, m.WithStats())
	}

	totalPages := int(math.Ceil(float64(total) / float64(f.Limit)))
	return &model.PagedMovies{
		Data:       data,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: totalPages,
		HasNext:    f.Page < totalPages,
		HasPrev:    f.Page > 1,
	}, nil
}

// GetByID 根据内部 ID 查询单部电影
func (s *MovieService) GetByID(id int) (*model.MovieDetail, error) {
	key := movieKey(id)
	if cached, ok := s.movieCache.Get(key); ok {
		return cached, nil
	}

	val, err, _ := s.sf.Do(key, func() (interface{}, error) {
		movie, err := s.store.FindByID(id)
		if err != nil {
			return nil, err
		}
		if movie == nil {
			return nil, fmt.Errorf("%w: id=%d", ErrMovieNotFound, id)
		}
		return movie.WithStats(), nil
	})
	if err != nil {
		return nil, err
	}

	detail := val.(*model.MovieDetail)
	s.movieCache.Set(key, detail)
	return detail, nil
}

// GetByTMDBID 根据 TMDB ID 查询单部电影
func (s *MovieService) GetByTMDBID(tmdbID int) (*model.MovieDetail, error) {
	key := tmdbKey(tmdbID)
	if cached, ok := s.movieCache.Get(key); ok {
		return cached, nil
	}

	val, err, _ := s.sf.Do(key, func() (interface{}, error) {
		movie, err := s.store.FindByTMDBID(tmdbID)
		if err != nil {
			return nil, err
		}
		if movie == nil {
			return nil, fmt.Errorf("%w: tmdb_id=%d", ErrMovieNotFound, tmdbID)
		}
		return movie.WithStats(), nil
	})
	if err != nil {
		return nil, err
	}

	detail := val.(*model.MovieDetail)
	s.movieCache.Set(key, detail)
	return detail, nil
}

// Create 创建电影，TMDB ID 已存在时拒绝
func (s *MovieService) Create(movie *model.Movie) (*model.MovieDetail, error) {
	existing, err := s.store.FindByTMDBID(movie.TMDBID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: tmdb_id=%d", ErrDuplicateMovie, movie.TMDBID)
	}

	if movie.UserRatings == nil {
		movie.UserRatings = model.RatingList{}
	}
	if err := s.store.Create(movie); err != nil {
		return nil, fmt.Errorf("创建电影失败: %w", err)
	}

	s.InvalidateLists()
	return movie.WithStats(), nil
}

// UpdateMovieInput 可更新字段，nil 表示不修改
type UpdateMovieInput struct {
	Title    *string
	Overview *string
	Genres   []string
}

// Update 更新电影基础字段
func (s *MovieService) Update(id int, input *UpdateMovieInput) (*model.MovieDetail, error) {
	movie, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: id=%d", ErrMovieNotFound, id)
	}

	if input.Title != nil {
		movie.Title = *input.Title
	}
	if input.Overview != nil {
		movie.Overview = *input.Overview
	}
	if input.Genres != nil {
		movie.Genres = input.Genres
	}

	if err := s.store.Save(movie); err != nil {
		return nil, fmt.Errorf("更新电影失败: %w", err)
	}

	// 标题/类型会影响列表的过滤与排序，属于结构性变更
	s.invalidateMovie(movie)
	s.InvalidateLists()
	return movie.WithStats(), nil
}

// Delete 删除电影
func (s *MovieService) Delete(id int) error {
	movie, err := s.store.FindByID(id)
	if err != nil {
		return err
	}
	if movie == nil {
		return fmt.Errorf("%w: id=%d", ErrMovieNotFound, id)
	}

	if err := s.store.Delete(id); err != nil {
		return fmt.Errorf("删除电影失败: %w", err)
	}

	s.invalidateMovie(movie)
	s.InvalidateLists()
	return nil
}

// Rate 用户评分，同一用户重复评分时覆盖原有记录
func (s *MovieService) Rate(id int, userID string, rating float64) (*model.MovieDetail, error) {
	if rating < 1 || rating > 10 {
		return nil, fmt.Errorf("%w: %.1f", ErrInvalidRating, rating)
	}

	movie, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: id=%d", ErrMovieNotFound, id)
	}

	updated := false
	for i := range movie.UserRatings {
		if movie.UserRatings[i].UserID == userID {
			movie.UserRatings[i].Rating = rating
			movie.UserRatings[i].CreatedAt = time.Now()
			updated = true
			break
		}
	}
	if !updated {
		movie.UserRatings = append(movie.UserRatings, model.UserRating{
			UserID:    userID,
			Rating:    rating,
			CreatedAt: time.Now(),
		})
	}

	if err := s.store.Save(movie); err != nil {
		return nil, fmt.Errorf("保存评分失败: %w", err)
	}

	s.invalidateMovie(movie)
	return movie.WithStats(), nil
}

// AddToWatchlist 加入想看列表，已在列表中时不产生任何副作用
func (s *MovieService) AddToWatchlist(id int, userID string) (*model.MovieDetail, error) {
	return s.addMember(id, userID, watchlistSet)
}

// RemoveFromWatchlist 移出想看列表，不在列表中也视为成功
func (s *MovieService) RemoveFromWatchlist(id int, userID string) (*model.MovieDetail, error) {
	return s.removeMember(id, userID, watchlistSet)
}

// AddToFavorites 加入收藏，已收藏时不产生任何副作用
func (s *MovieService) AddToFavorites(id int, userID string) (*model.MovieDetail, error) {
	return s.addMember(id, userID, favoriteSet)
}

// RemoveFromFavorites 取消收藏，未收藏也视为成功
func (s *MovieService) RemoveFromFavorites(id int, userID string) (*model.MovieDetail, error) {
	return s.removeMember(id, userID, favoriteSet)
}

type memberSet int

const (
	watchlistSet memberSet = iota
	favoriteSet
)

func (set memberSet) of(movie *model.Movie) []string {
	if set == watchlistSet {
		return movie.WatchlistUsers
	}
	return movie.FavoriteUsers
}

func (set memberSet) assign(movie *model.Movie, users []string) {
	if set == watchlistSet {
		movie.WatchlistUsers = users
	} else {
		movie.FavoriteUsers = users
	}
}

// addMember 幂等加入成员集合，已是成员时不落库、不失效缓存
func (s *MovieService) addMember(id int, userID string, set memberSet) (*model.MovieDetail, error) {
	movie, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: id=%d", ErrMovieNotFound, id)
	}

	for _, uid := range set.of(movie) {
		if uid == userID {
			return movie.WithStats(), nil
		}
	}

	set.assign(movie, append(set.of(movie), userID))
	if err := s.store.Save(movie); err != nil {
		return nil, fmt.Errorf("保存成员集合失败: %w", err)
	}

	s.invalidateMovie(movie)
	return movie.WithStats(), nil
}

// removeMember 无条件过滤成员，移除不存在的成员是无害的空写
func (s *MovieService) removeMember(id int, userID string, set memberSet) (*model.MovieDetail, error) {
	movie, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: id=%d", ErrMovieNotFound, id)
	}

	members := set.of(movie)
	filtered := make([]string, 0, len(members))
	for _, uid := range members {
		if uid != userID {
			filtered = append(filtered, uid)
		}
	}
	set.assign(movie, filtered)

	if err := s.store.Save(movie); err != nil {
		return nil, fmt.Errorf("保存成员集合失败: %w", err)
	}

	s.invalidateMovie(movie)
	return movie.WithStats(), nil
}
