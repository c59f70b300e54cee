package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/cinevault/internal/model"
	"gorm.io/gorm"
)

// sortColumns 过滤接口传入的排序字段，防止拼接任意列名
var sortColumns = map[string]string{
	"title":           "title",
	"releaseDate":     "release_date",
	"popularity":      "popularity",
	"tmdbVoteAverage": "tmdb_vote_average",
}

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// FindByID 根据内部 ID 查找电影，未找到返回 nil
func (r *MovieRepository) FindByID(id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.First(&movie, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &movie, nil
}

// FindByTMDBID 根据 TMDB ID 查找电影，未找到返回 nil
func (r *MovieRepository) FindByTMDBID(tmdbID int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.First(&movie, "tmdb_id = ?", tmdbID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &movie, nil
}

// buildQuery 根据查询条件构建 where 子句
func (r *MovieRepository) buildQuery(ctx context.Context, f *model.MovieFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Movie{})

	// 标题/简介 模糊搜索
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where("title ILIKE ? OR overview ILIKE ?", pattern, pattern)
	}

	// 按类型筛选（数组成员判断）
	if f.Genre != "" {
		query = query.Where("? = ANY(genres)", f.Genre)
	}

	// 按年份筛选（闭区间）
	if f.Year != 0 {
		start := time.Date(f.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(f.Year, 12, 31, 23, 59, 59, 0, time.UTC)
		query = query.Where("release_date >= ? AND release_date <= ?", start, end)
	}

	return query
}

// Find 按条件分页查询电影列表
func (r *MovieRepository) Find(ctx context.Context, f *model.MovieFilter) ([]*model.Movie, error) {
	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	order := "DESC"
	if f.SortOrder == "asc" {
		order = "ASC"
	}

	var movies []*model.Movie
	err := r.buildQuery(ctx, f).
		Order(fmt.Sprintf("%s %s", column, order)).
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&movies).Error
	return movies, err
}

// Count 按条件统计电影数量
func (r *MovieRepository) Count(ctx context.Context, f *model.MovieFilter) (int64, error) {
	var count int64
	err := r.buildQuery(ctx, f).Count(&count).Error
	return count, err
}

// Create 创建电影
func (r *MovieRepository) Create(movie *model.Movie) error {
	return r.db.Create(movie).Error
}

// Save 保存整条记录（评分账本、成员集合等变更后回写）
func (r *MovieRepository) Save(movie *model.Movie) error {
	return r.db.Save(movie).Error
}

// Delete 按 ID 删除电影
func (r *MovieRepository) Delete(id int) error {
	return r.db.Delete(&model.Movie{}, "id = ?", id).Error
}
