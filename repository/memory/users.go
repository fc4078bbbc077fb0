// Package memory 进程内存储实现，用于测试和本地开发
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ChansereyGit/chat-rocket/model"
	"github.com/ChansereyGit/chat-rocket/repository"
)

type UserStore struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]model.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uint]model.User)}
}

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}

	s.nextID++
	user.ID = s.nextID
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id uint) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) FindByIDs(ctx context.Context, ids []uint) (map[uint]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[uint]*model.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			result[id] = &u
		}
	}
	return result, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return err == nil, nil
}

func (s *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) Save(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == 0 {
		s.nextID++
		user.ID = s.nextID
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) Search(ctx context.Context, query string, excludeID uint, limit int) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(query)
	var hits []model.User
	for _, u := range s.users {
		if u.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), term) ||
			strings.Contains(strings.ToLower(u.FullName), term) ||
			strings.Contains(strings.ToLower(u.Email), term) ||
			(u.PhoneNumber != nil && strings.Contains(*u.PhoneNumber, query)) {
			hits = append(hits, u)
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
