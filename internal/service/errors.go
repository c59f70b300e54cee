package service

import "errors"

// 组件操作的错误分类，调用方用 errors.Is 匹配后映射为对应的 HTTP 状态
var (
	// ErrMovieNotFound 电影不存在（ID 或 TMDB ID 无匹配记录）
	ErrMovieNotFound = errors.New("电影不存在")

	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("用户不存在")

	// ErrDuplicateMovie 创建时 TMDB ID 已存在
	ErrDuplicateMovie = errors.New("该 TMDB ID 的电影已存在")

	// ErrDuplicateEmail 创建时邮箱已存在
	ErrDuplicateEmail = errors.New("该邮箱已被注册")

	// ErrInvalidFilter 查询条件不合法
	ErrInvalidFilter = errors.New("查询条件不合法")

	// ErrInvalidRating 评分超出 1-10 范围
	ErrInvalidRating = errors.New("评分必须在 1 到 10 之间")

	// ErrUpstream 远端元数据服务调用失败
	ErrUpstream = errors.New("上游元数据服务请求失败")
)
