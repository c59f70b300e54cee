package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/cinevault/internal/handler"
	"github.com/user/cinevault/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 电影 ====================
	movies := r.Group("/movies")
	movies.Use(middleware.APIKeyAuth(h.Config.APIKey))
	{
		movies.GET("", h.ListMovies)
		movies.POST("", h.CreateMovie)
		movies.POST("/sync", h.SyncMovies)
		movies.GET("/tmdb/:tmdbId", h.GetMovieByTMDBID)
		movies.GET("/:id", h.GetMovie)
		movies.PATCH("/:id", h.UpdateMovie)
		movies.DELETE("/:id", h.DeleteMovie)

		// 互动
		movies.POST("/:id/rate", h.RateMovie)
		movies.POST("/:id/watchlist", h.AddToWatchlist)
		movies.DELETE("/:id/watchlist", h.RemoveFromWatchlist)
		movies.POST("/:id/favorites", h.AddToFavorites)
		movies.DELETE("/:id/favorites", h.RemoveFromFavorites)
	}

	// ==================== 用户 ====================
	users := r.Group("/users")
	users.Use(middleware.APIKeyAuth(h.Config.APIKey))
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/email/:email", h.GetUserByEmail)
		users.GET("/:id", h.GetUser)
		users.PATCH("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)

		users.POST("/:id/watchlist", h.AddUserWatchlist)
		users.DELETE("/:id/watchlist", h.RemoveUserWatchlist)
		users.POST("/:id/favorites", h.AddUserFavorites)
		users.DELETE("/:id/favorites", h.RemoveUserFavorites)
	}

	// ==================== TMDB 发现 ====================
	tmdb := r.Group("/tmdb")
	tmdb.Use(middleware.APIKeyAuth(h.Config.APIKey))
	{
		tmdb.GET("/search", h.SearchTMDB)
		tmdb.GET("/genres", h.ListTMDBGenres)
		tmdb.GET("/discover", h.DiscoverByGenre)
	}
}
