package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/cinevault/internal/model"
	"github.com/user/cinevault/internal/service"
	"github.com/user/cinevault/internal/utils"
)

type createUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

// CreateUser 创建用户
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请求体不合法: "+err.Error())
		return
	}

	user, err := h.Users.Create(req.Email, req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, user)
}

// ListUsers 查询全部用户
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List()
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, users)
}

// GetUser 根据 ID 查询用户
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.Users.GetByID(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, user)
}

// GetUserByEmail 根据邮箱查询用户
func (h *Handler) GetUserByEmail(c *gin.Context) {
	user, err := h.Users.GetByEmail(c.Param("email"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, user)
}

type updateUserRequest struct {
	Email *string `json:"email" binding:"omitempty,email"`
	Name  *string `json:"name"`
}

// UpdateUser 更新用户基础字段
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请求体不合法: "+err.Error())
		return
	}

	user, err := h.Users.Update(id, &service.UpdateUserInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, user)
}

// DeleteUser 删除用户
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.Users.Delete(id); err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, nil)
}

type userListRequest struct {
	MovieID string `json:"movie_id" binding:"required"`
}

// userListOp 用户侧想看/收藏列表操作的公共壳
func (h *Handler) userListOp(c *gin.Context, op func(userID int, movieID string) (*model.User, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req userListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请求体不合法: "+err.Error())
		return
	}

	user, err := op(id, req.MovieID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, user)
}

// AddUserWatchlist 将电影加入用户的想看列表
func (h *Handler) AddUserWatchlist(c *gin.Context) {
	h.userListOp(c, h.Users.AddToWatchlist)
}

// RemoveUserWatchlist 将电影移出用户的想看列表
func (h *Handler) RemoveUserWatchlist(c *gin.Context) {
	h.userListOp(c, h.Users.RemoveFromWatchlist)
}

// AddUserFavorites 将电影加入用户的收藏
func (h *Handler) AddUserFavorites(c *gin.Context) {
	h.userListOp(c, h.Users.AddToFavorites)
}

// RemoveUserFavorites 将电影移出用户的收藏
func (h *Handler) RemoveUserFavorites(c *gin.Context) {
	h.userListOp(c, h.Users.RemoveFromFavorites)
}
