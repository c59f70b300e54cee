package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/user/cinevault/internal/model"
)

// fakeProvider 内存实现的元数据服务
type fakeProvider struct {
	pages      map[int]*TMDBPage
	pageErrs   map[int]error
	details    map[int]*TMDBMovieDetails
	detailErrs map[int]error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		pages:      map[int]*TMDBPage{},
		pageErrs:   map[int]error{},
		details:    map[int]*TMDBMovieDetails{},
		detailErrs: map[int]error{},
	}
}

func (p *fakeProvider) addMovie(page, tmdbID int, title string) {
	summary := TMDBMovie{ID: tmdbID, Title: title, ReleaseDate: "2024-06-01"}
	pg, ok := p.pages[page]
	if !ok {
		pg = &TMDBPage{Page: page}
		p.pages[page] = pg
	}
	pg.Results = append(pg.Results, summary)
	p.details[tmdbID] = &TMDBMovieDetails{
		TMDBMovie: summary,
		Runtime:   120,
		Genres:    []TMDBGenre{{ID: 28, Name: "Action"}},
	}
}

func (p *fakeProvider) PopularMovies(_ context.Context, page int) (*TMDBPage, error) {
	if err := p.pageErrs[page]; err != nil {
		return nil, err
	}
	pg, ok := p.pages[page]
	if !ok {
		return &TMDBPage{Page: page}, nil
	}
	return pg, nil
}

func (p *fakeProvider) MovieDetails(_ context.Context, tmdbID int) (*TMDBMovieDetails, error) {
	if err := p.detailErrs[tmdbID]; err != nil {
		return nil, err
	}
	d, ok := p.details[tmdbID]
	if !ok {
		return nil, fmt.Errorf("%w: 未知电影 %d", ErrUpstream, tmdbID)
	}
	return d, nil
}

func newTestSyncService(store *fakeMovieStore, provider *fakeProvider) (*SyncService, *MovieService) {
	movies := newTestMovieService(store)
	return NewSyncService(store, provider, movies), movies
}

func TestSyncImportsNewAndSkipsExisting(t *testing.T) {
	store := newFakeMovieStore()
	provider := newFakeProvider()
	provider.addMovie(1, 101, "新片一")
	provider.addMovie(1, 102, "新片二")
	provider.addMovie(1, 103, "已有的片")

	// tmdb_id=103 已在目录中
	seedMovie(t, store, &model.Movie{TMDBID: 103, Title: "已有的片"})

	svc, _ := newTestSyncService(store, provider)
	summary, err := svc.Sync(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Imported != 2 || summary.Skipped != 1 {
		t.Fatalf("期望 {imported:2, skipped:1}，实际 %+v", summary)
	}

	imported, _ := store.FindByTMDBID(101)
	if imported == nil {
		t.Fatal("tmdb_id=101 应已入库")
	}
	if len(imported.UserRatings) != 0 || len(imported.WatchlistUsers) != 0 {
		t.Fatal("新导入的电影互动数据应为空")
	}
	if len(imported.Genres) != 1 || imported.Genres[0] != "Action" {
		t.Fatalf("类型名应取自详情接口，实际 %v", imported.Genres)
	}
	// 详情响应没有 genre_ids 时，ID 从 genres 对象列表补齐
	if len(imported.GenreIDs) != 1 || imported.GenreIDs[0] != 28 {
		t.Fatalf("类型 ID 应从详情中补齐，实际 %v", imported.GenreIDs)
	}
	if imported.ReleaseDate == nil || imported.ReleaseDate.Year() != 2024 {
		t.Fatalf("上映日期解析错误: %v", imported.ReleaseDate)
	}
}

func TestSyncDetailFailureSkipsItem(t *testing.T) {
	store := newFakeMovieStore()
	provider := newFakeProvider()
	provider.addMovie(1, 101, "正常的片")
	provider.addMovie(1, 102, "详情接口坏掉的片")
	provider.detailErrs[102] = errors.New("详情接口超时")

	svc, _ := newTestSyncService(store, provider)
	summary, err := svc.Sync(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}

	// 单条失败只计入 skipped，批次继续
	if summary.Imported != 1 || summary.Skipped != 1 {
		t.Fatalf("期望 {imported:1, skipped:1}，实际 %+v", summary)
	}
}

func TestSyncPageFailureContinues(t *testing.T) {
	store := newFakeMovieStore()
	provider := newFakeProvider()
	provider.pageErrs[1] = errors.New("第一页拉取失败")
	provider.addMovie(2, 201, "第二页的片")

	svc, _ := newTestSyncService(store, provider)
	summary, err := svc.Sync(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Imported != 1 {
		t.Fatalf("整页失败不应中断后续页，实际 %+v", summary)
	}
}

func TestSyncAllPagesFailReturnsZeroSummary(t *testing.T) {
	store := newFakeMovieStore()
	provider := newFakeProvider()
	provider.pageErrs[1] = errors.New("拉取失败")

	svc, _ := newTestSyncService(store, provider)
	summary, err := svc.Sync(context.Background(), 1)
	if err != nil {
		t.Fatalf("全部页失败也应返回统计而不是错误: %v", err)
	}
	if summary.Imported != 0 || summary.Skipped != 0 {
		t.Fatalf("期望全零统计，实际 %+v", summary)
	}
}

func TestSyncPersistFailureSkipsItem(t *testing.T) {
	store := newFakeMovieStore()
	provider := newFakeProvider()
	provider.addMovie(1, 101, "入库会失败的片")
	store.createErr = errors.New("数据库写入失败")

	svc, _ := newTestSyncService(store, provider)
	summary, err := svc.Sync(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Imported != 0 || summary.Skipped != 1 {
		t.Fatalf("持久化失败应计入 skipped，实际 %+v", summary)
	}
}

func TestSyncInvalidatesListCache(t *testing.T) {
	store := newFakeMovieStore()
	provider := newFakeProvider()
	provider.addMovie(1, 101, "同步进来的片")
	seedMovie(t, store, &model.Movie{TMDBID: 1, Title: "原有的片"})

	svc, movies := newTestSyncService(store, provider)

	before, err := movies.List(context.Background(), &model.MovieFilter{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Sync(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	after, err := movies.List(context.Background(), &model.MovieFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if after.Total != before.Total+1 {
		t.Fatalf("同步完成后列表缓存应整体失效: before=%d after=%d", before.Total, after.Total)
	}
}
