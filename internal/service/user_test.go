package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/lib/pq"
	"github.com/user/cinevault/internal/model"
)

// fakeUserStore 内存实现的用户存储
type fakeUserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*model.User
	saves  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[int]*model.User{}}
}

func cloneUser(u *model.User) *model.User {
	c := *u
	c.Watchlist = append(pq.StringArray{}, u.Watchlist...)
	c.Favorites = append(pq.StringArray{}, u.Favorites...)
	return &c
}

func (s *fakeUserStore) FindByID(id int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (s *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindAll() ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.User
	for id := 1; id < s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (s *fakeUserStore) Create(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextID
	s.nextID++
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *fakeUserStore) Save(u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *fakeUserStore) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)

	if _, err := svc.Create("a@b.com", "甲"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create("a@b.com", "乙"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("重复邮箱应返回 ErrDuplicateEmail，实际 %v", err)
	}
}

func TestUserWatchlistIdempotent(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)
	user, err := svc.Create("a@b.com", "甲")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AddToWatchlist(user.ID, "42"); err != nil {
		t.Fatal(err)
	}
	savesAfterFirst := store.saves

	got, err := svc.AddToWatchlist(user.ID, "42")
	if err != nil {
		t.Fatal(err)
	}
	if store.saves != savesAfterFirst {
		t.Fatalf("重复加入不应落库，落库次数 %d -> %d", savesAfterFirst, store.saves)
	}
	if len(got.Watchlist) != 1 {
		t.Fatalf("想看列表应只有 1 条，实际 %v", got.Watchlist)
	}
}

func TestUserRemoveFavoritesNonMember(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)
	user, err := svc.Create("a@b.com", "甲")
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.RemoveFromFavorites(user.ID, "42")
	if err != nil {
		t.Fatalf("移除不存在的条目应成功: %v", err)
	}
	if len(got.Favorites) != 0 {
		t.Fatalf("收藏应保持为空，实际 %v", got.Favorites)
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	if _, err := svc.GetByID(99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("应返回 ErrUserNotFound，实际 %v", err)
	}
	if _, err := svc.GetByEmail("no@body.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("应返回 ErrUserNotFound，实际 %v", err)
	}
}
