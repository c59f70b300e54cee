package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinevault/internal/model"
	"github.com/user/cinevault/internal/service"
	"github.com/user/cinevault/internal/utils"
)

// ListMovies 分页查询电影列表
func (h *Handler) ListMovies(c *gin.Context) {
	var filter model.MovieFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.BadRequest(c, "查询参数不合法: "+err.Error())
		return
	}

	result, err := h.Movies.List(c.Request.Context(), &filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, result)
}

// GetMovie 根据 ID 查询单部电影
func (h *Handler) GetMovie(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	movie, err := h.Movies.GetByID(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, movie)
}

// GetMovieByTMDBID 根据 TMDB ID 查询单部电影
func (h *Handler) GetMovieByTMDBID(c *gin.Context) {
	tmdbID, ok := parseIDParam(c, "tmdbId")
	if !ok {
		return
	}

	movie, err := h.Movies.GetByTMDBID(tmdbID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, movie)
}

type createMovieRequest struct {
	TMDBID           int      `json:"tmdb_id" binding:"required,min=1"`
	Title            string   `json:"title" binding:"required"`
	Overview         string   `json:"overview"`
	ReleaseDate      string   `json:"release_date"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	Genres           []string `json:"genres"`
	GenreIDs         []int64  `json:"genre_ids"`
	TMDBVoteAverage  float64  `json:"tmdb_vote_average"`
	TMDBVoteCount    int      `json:"tmdb_vote_count"`
	Popularity       float64  `json:"popularity"`
	Runtime          int      `json:"runtime"`
	Budget           int64    `json:"budget"`
	Revenue          int64    `json:"revenue"`
	OriginalLanguage string   `json:"original_language"`
}

// CreateMovie 手工创建电影
func (h *Handler) CreateMovie(c *gin.Context) {
	var req createMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请求体不合法: "+err.Error())
		return
	}

	movie := &model.Movie{
		TMDBID:           req.TMDBID,
		Title:            req.Title,
		Overview:         req.Overview,
		PosterPath:       req.PosterPath,
		BackdropPath:     req.BackdropPath,
		Genres:           req.Genres,
		GenreIDs:         req.GenreIDs,
		TMDBVoteAverage:  req.TMDBVoteAverage,
		TMDBVoteCount:    req.TMDBVoteCount,
		Popularity:       req.Popularity,
		Runtime:          req.Runtime,
		Budget:           req.Budget,
		Revenue:          req.Revenue,
		OriginalLanguage: req.OriginalLanguage,
		WatchlistUsers:   []string{},
		FavoriteUsers:    []string{},
	}
	if req.ReleaseDate != "" {
		t, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			utils.BadRequest(c, "上映日期格式应为 YYYY-MM-DD")
			return
		}
		movie.ReleaseDate = &t
	}

	created, err := h.Movies.Create(movie)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, created)
}

type updateMovieRequest struct {
	Title    *string  `json:"title"`
	Overview *string  `json:"overview"`
	Genres   []string `json:"genres"`
}

// UpdateMovie 更新电影基础字段
func (h *Handler) UpdateMovie(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请求体不合法: "+err.Error())
		return
	}

	movie, err := h.Movies.Update(id, &service.UpdateMovieInput{
		Title:    req.Title,
		Overview: req.Overview,
		Genres:   req.Genres,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, movie)
}

// DeleteMovie 删除电影
func (h *Handler) DeleteMovie(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.Movies.Delete(id); err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, nil)
}

type rateMovieRequest struct {
	UserID string  `json:"user_id" binding:"required"`
	Rating float64 `json:"rating" binding:"required,min=1,max=10"`
}

// RateMovie 用户评分
func (h *Handler) RateMovie(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req rateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请求体不合法: "+err.Error())
		return
	}

	movie, err := h.Movies.Rate(id, req.UserID, req.Rating)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, movie)
}

type memberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// membershipOp 成员集合操作的公共壳
func (h *Handler) membershipOp(c *gin.Context, op func(id int, userID string) (*model.MovieDetail, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请求体不合法: "+err.Error())
		return
	}

	movie, err := op(id, req.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, movie)
}

// AddToWatchlist 加入想看列表
func (h *Handler) AddToWatchlist(c *gin.Context) {
	h.membershipOp(c, h.Movies.AddToWatchlist)
}

// RemoveFromWatchlist 移出想看列表
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	h.membershipOp(c, h.Movies.RemoveFromWatchlist)
}

// AddToFavorites 加入收藏
func (h *Handler) AddToFavorites(c *gin.Context) {
	h.membershipOp(c, h.Movies.AddToFavorites)
}

// RemoveFromFavorites 取消收藏
func (h *Handler) RemoveFromFavorites(c *gin.Context) {
	h.membershipOp(c, h.Movies.RemoveFromFavorites)
}

// SyncMovies 从 TMDB 批量导入热门电影
func (h *Handler) SyncMovies(c *gin.Context) {
	pages, err := strconv.Atoi(c.DefaultQuery("pages", "5"))
	if err != nil || pages < 1 {
		utils.BadRequest(c, "pages 必须是正整数")
		return
	}

	summary, err := h.Sync.Sync(c.Request.Context(), pages)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, summary)
}

// SearchTMDB 直接搜索 TMDB（读穿透，不落库）
func (h *Handler) SearchTMDB(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		utils.BadRequest(c, "缺少 query 参数")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	result, err := h.Provider.SearchMovies(c.Request.Context(), query, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, result)
}

// ListTMDBGenres 获取 TMDB 全部类型
func (h *Handler) ListTMDBGenres(c *gin.Context) {
	genres, err := h.Provider.Genres(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, genres)
}

// DiscoverByGenre 按类型发现 TMDB 电影
func (h *Handler) DiscoverByGenre(c *gin.Context) {
	genreID, err := strconv.ParseInt(c.Query("genre_id"), 10, 64)
	if err != nil || genreID < 1 {
		utils.BadRequest(c, "genre_id 必须是正整数")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	result, err := h.Provider.MoviesByGenre(c.Request.Context(), genreID, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, result)
}
