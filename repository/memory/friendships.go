package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ChansereyGit/chat-rocket/model"
	"github.com/ChansereyGit/chat-rocket/repository"
)

type FriendshipStore struct {
	mu          sync.RWMutex
	nextID      uint
	friendships map[uint]model.Friendship
}

func NewFriendshipStore() *FriendshipStore {
	return &FriendshipStore{friendships: make(map[uint]model.Friendship)}
}

func (s *FriendshipStore) Create(ctx context.Context, f *model.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	f.ID = s.nextID
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = now
	}
	s.friendships[f.ID] = *f
	return nil
}

func (s *FriendshipStore) FindByID(ctx context.Context, id uint) (*model.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.friendships[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (s *FriendshipStore) FindBetween(ctx context.Context, a, b uint) (*model.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.sortedLocked() {
		if (f.UserID == a && f.FriendID == b) || (f.UserID == b && f.FriendID == a) {
			return &f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *FriendshipStore) FindBetweenMany(ctx context.Context, userID uint, others []uint) (map[uint]*model.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[uint]bool, len(others))
	for _, id := range others {
		wanted[id] = true
	}

	result := make(map[uint]*model.Friendship)
	for _, f := range s.sortedLocked() {
		if !f.HasMember(userID) {
			continue
		}
		other := f.Counterpart(userID)
		if _, seen := result[other]; wanted[other] && !seen {
			f := f
			result[other] = &f
		}
	}
	return result, nil
}

func (s *FriendshipStore) ListByUserAndStatus(ctx context.Context, userID uint, status string) ([]model.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []model.Friendship
	for _, f := range s.friendships {
		if f.HasMember(userID) && f.Status == status {
			rows = append(rows, f)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].UpdatedAt.Equal(rows[j].UpdatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].UpdatedAt.After(rows[j].UpdatedAt)
	})
	return rows, nil
}

func (s *FriendshipStore) ListIncomingPending(ctx context.Context, userID uint) ([]model.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []model.Friendship
	for _, f := range s.friendships {
		if f.HasMember(userID) && f.Status == model.FriendshipPending && f.RequesterID != userID {
			rows = append(rows, f)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

func (s *FriendshipStore) Save(ctx context.Context, f *model.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == 0 {
		s.nextID++
		f.ID = s.nextID
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = time.Now()
	}
	s.friendships[f.ID] = *f
	return nil
}

func (s *FriendshipStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.friendships, id)
	return nil
}

// sortedLocked 按 ID 升序返回全部记录，调用方需持有锁
func (s *FriendshipStore) sortedLocked() []model.Friendship {
	rows := make([]model.Friendship, 0, len(s.friendships))
	for _, f := range s.friendships {
		rows = append(rows, f)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}
