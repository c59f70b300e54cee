package service

import (
	"fmt"

	"github.com/user/cinevault/internal/model"
)

// UserStore 用户存储接口，未找到返回 (nil, nil)
type UserStore interface {
	FindByID(id int) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll() ([]*model.User, error)
	Create(user *model.User) error
	Save(user *model.User) error
	Delete(id int) error
}

// UserService 用户服务
// 用户侧的想看/收藏列表与电影侧的成员集合互为镜像，二者之间不做引用完整性校验
type UserService struct {
	store UserStore
}

// NewUserService 创建用户服务
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// Create 创建用户，邮箱已存在时拒绝
func (s *UserService) Create(email, name string) (*model.User, error) {
	existing, err := s.store.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
	}

	user := &model.User{
		Email:     email,
		Name:      name,
		Watchlist: []string{},
		Favorites: []string{},
	}
	if err := s.store.Create(user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return user, nil
}

// List 查询全部用户
func (s *UserService) List() ([]*model.User, error) {
	return s.store.FindAll()
}

// GetByID 根据 ID 查询用户
func (s *UserService) GetByID(id int) (*model.User, error) {
	user, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: id=%d", ErrUserNotFound, id)
	}
	return user, nil
}

// GetByEmail 根据邮箱查询用户
func (s *UserService) GetByEmail(email string) (*model.User, error) {
	user, err := s.store.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: email=%s", ErrUserNotFound, email)
	}
	return user, nil
}

// UpdateUserInput 可更新字段，nil 表示不修改
type UpdateUserInput struct {
	Email *string
	Name  *string
}

// Update 更新用户基础字段
func (s *UserService) Update(id int, input *UpdateUserInput) (*model.User, error) {
	user, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: id=%d", ErrUserNotFound, id)
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}

	if err := s.store.Save(user); err != nil {
		return nil, fmt.Errorf("更新用户失败: %w", err)
	}
	return user, nil
}

// Delete 删除用户
func (s *UserService) Delete(id int) error {
	user, err := s.store.FindByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: id=%d", ErrUserNotFound, id)
	}
	return s.store.Delete(id)
}

// AddToWatchlist 将电影加入用户的想看列表（幂等）
func (s *UserService) AddToWatchlist(userID int, movieID string) (*model.User, error) {
	return s.addEntry(userID, movieID, true)
}

// RemoveFromWatchlist 将电影移出用户的想看列表
func (s *UserService) RemoveFromWatchlist(userID int, movieID string) (*model.User, error) {
	return s.removeEntry(userID, movieID, true)
}

// AddToFavorites 将电影加入用户的收藏（幂等）
func (s *UserService) AddToFavorites(userID int, movieID string) (*model.User, error) {
	return s.addEntry(userID, movieID, false)
}

// RemoveFromFavorites 将电影移出用户的收藏
func (s *UserService) RemoveFromFavorites(userID int, movieID string) (*model.User, error) {
	return s.removeEntry(userID, movieID, false)
}

func (s *UserService) addEntry(userID int, movieID string, watchlist bool) (*model.User, error) {
	user, err := s.store.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: id=%d", ErrUserNotFound, userID)
	}

	list := user.Favorites
	if watchlist {
		list = user.Watchlist
	}
	for _, id := range list {
		if id == movieID {
			return user, nil
		}
	}

	if watchlist {
		user.Watchlist = append(user.Watchlist, movieID)
	} else {
		user.Favorites = append(user.Favorites, movieID)
	}
	if err := s.store.Save(user); err != nil {
		return nil, fmt.Errorf("保存用户列表失败: %w", err)
	}
	return user, nil
}

func (s *UserService) removeEntry(userID int, movieID string, watchlist bool) (*model.User, error) {
	user, err := s.store.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: id=%d", ErrUserNotFound, userID)
	}

	filter := func(list []string) []string {
		out := make([]string, 0, len(list))
		for _, id := range list {
			if id != movieID {
				out = append(out, id)
			}
		}
		return out
	}

	if watchlist {
		user.Watchlist = filter(user.Watchlist)
	} else {
		user.Favorites = filter(user.Favorites)
	}
	if err := s.store.Save(user); err != nil {
		return nil, fmt.Errorf("保存用户列表失败: %w", err)
	}
	return user, nil
}
