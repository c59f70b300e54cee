package handler

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/cinevault/internal/config"
	"github.com/user/cinevault/internal/service"
	"github.com/user/cinevault/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Config   *config.Config
	Movies   *service.MovieService
	Users    *service.UserService
	Sync     *service.SyncService
	Provider *service.TMDBClient
}

// NewHandler 创建处理器
func NewHandler(cfg *config.Config, movies *service.MovieService, users *service.UserService, sync *service.SyncService, provider *service.TMDBClient) *Handler {
	return &Handler{
		Config:   cfg,
		Movies:   movies,
		Users:    users,
		Sync:     sync,
		Provider: provider,
	}
}

// respondError 按错误分类映射 HTTP 状态码
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMovieNotFound), errors.Is(err, service.ErrUserNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, service.ErrDuplicateMovie),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrInvalidFilter),
		errors.Is(err, service.ErrInvalidRating):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUpstream):
		utils.BadGateway(c, err.Error())
	default:
		log.Printf("[接口] 未预期错误: %v", err)
		utils.InternalServerError(c, "")
	}
}

// parseIDParam 解析路径中的数字 ID
func parseIDParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		utils.BadRequest(c, "无效的 ID: "+c.Param(name))
		return 0, false
	}
	return id, true
}
