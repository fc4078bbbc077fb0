package repository

import (
	"context"
	"fmt"

	"github.com/ChansereyGit/chat-rocket/model"

	"gorm.io/gorm"
)

type FriendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

func (r *FriendshipRepository) Create(ctx context.Context, f *model.Friendship) error {
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *FriendshipRepository) FindByID(ctx context.Context, id uint) (*model.Friendship, error) {
	var f model.Friendship
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

// FindBetween 按无序对查询两人之间的关系
func (r *FriendshipRepository) FindBetween(ctx context.Context, a, b uint) (*model.Friendship, error) {
	var f model.Friendship
	err := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		First(&f).Error
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

// FindBetweenMany 批量查询 userID 与 others 中每个人的关系，key 为对方 ID
func (r *FriendshipRepository) FindBetweenMany(ctx context.Context, userID uint, others []uint) (map[uint]*model.Friendship, error) {
	result := make(map[uint]*model.Friendship, len(others))
	if len(others) == 0 {
		return result, nil
	}

	var rows []model.Friendship
	err := r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id IN ?) OR (friend_id = ? AND user_id IN ?)", userID, others, userID, others).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query friendships: %w", err)
	}
	for i := range rows {
		result[rows[i].Counterpart(userID)] = &rows[i]
	}
	return result, nil
}

// ListByUserAndStatus 用户参与的指定状态关系，最近更新优先
func (r *FriendshipRepository) ListByUserAndStatus(ctx context.Context, userID uint, status string) ([]model.Friendship, error) {
	var rows []model.Friendship
	err := r.db.WithContext(ctx).
		Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, status).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query friendships: %w", err)
	}
	return rows, nil
}

// ListIncomingPending 别人发给 userID 的待处理请求，最新优先
func (r *FriendshipRepository) ListIncomingPending(ctx context.Context, userID uint) ([]model.Friendship, error) {
	var rows []model.Friendship
	err := r.db.WithContext(ctx).
		Where("(user_id = ? OR friend_id = ?) AND status = ? AND requester_id <> ?",
			userID, userID, model.FriendshipPending, userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query pending requests: %w", err)
	}
	return rows, nil
}

func (r *FriendshipRepository) Save(ctx context.Context, f *model.Friendship) error {
	return translate(r.db.WithContext(ctx).Save(f).Error)
}

func (r *FriendshipRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&model.Friendship{}, id).Error)
}
