package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ChansereyGit/chat-rocket/model"
	"github.com/ChansereyGit/chat-rocket/repository"
	"github.com/ChansereyGit/chat-rocket/utils"
)

// 用户搜索最多返回条数
const searchLimit = 20

// FriendshipService 好友关系状态机：NONE -> PENDING -> ACCEPTED，拒绝/删除直接删记录
type FriendshipService struct {
	friendships FriendshipStore
	users       UserStore
	now         func() time.Time
}

func NewFriendshipService(friendships FriendshipStore, users UserStore) *FriendshipService {
	return &FriendshipService{
		friendships: friendships,
		users:       users,
		now:         time.Now,
	}
}

// SendRequest 发送好友请求
func (s *FriendshipService) SendRequest(ctx context.Context, userID, friendID uint) (*model.FriendshipDTO, error) {
	if userID == friendID {
		return nil, utils.ValidationError("cannot send friend request to yourself")
	}

	// 无序对：A->B 与 B->A 视为同一关系
	_, err := s.friendships.FindBetween(ctx, userID, friendID)
	if err == nil {
		return nil, utils.ConflictError("friend request already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, utils.InternalError("failed to check friendship", err)
	}

	friend, err := s.users.FindByID(ctx, friendID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFoundError("user not found")
	}
	if err != nil {
		return nil, utils.InternalError("failed to query user", err)
	}

	now := s.now()
	friendship := &model.Friendship{
		UserID:      userID,
		FriendID:    friendID,
		Status:      model.FriendshipPending,
		RequesterID: userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.friendships.Create(ctx, friendship); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ConflictError("friend request already exists")
		}
		return nil, utils.InternalError("failed to create friend request", err)
	}

	dto := toFriendshipDTO(friendship, friend, userID)
	return &dto, nil
}

// Accept 接受好友请求
// 双方都可以接受处于 PENDING 的请求，不限制为被请求方
func (s *FriendshipService) Accept(ctx context.Context, userID, friendshipID uint) (*model.FriendshipDTO, error) {
	friendship, err := s.loadForMember(ctx, userID, friendshipID, "friend request not found")
	if err != nil {
		return nil, err
	}

	if friendship.Status != model.FriendshipPending {
		return nil, utils.ConflictError("friend request is not pending")
	}

	friendship.Status = model.FriendshipAccepted
	friendship.UpdatedAt = s.now()
	if err := s.friendships.Save(ctx, friendship); err != nil {
		return nil, utils.InternalError("failed to accept friend request", err)
	}

	return s.resolve(ctx, friendship, userID)
}

// Reject 拒绝好友请求（删除记录，不检查状态）
func (s *FriendshipService) Reject(ctx context.Context, userID, friendshipID uint) error {
	return s.delete(ctx, userID, friendshipID, "friend request not found")
}

// RemoveFriend 删除好友（删除记录，不检查状态）
func (s *FriendshipService) RemoveFriend(ctx context.Context, userID, friendshipID uint) error {
	return s.delete(ctx, userID, friendshipID, "friendship not found")
}

func (s *FriendshipService) delete(ctx context.Context, userID, friendshipID uint, notFoundMsg string) error {
	if _, err := s.loadForMember(ctx, userID, friendshipID, notFoundMsg); err != nil {
		return err
	}
	if err := s.friendships.Delete(ctx, friendshipID); err != nil {
		return utils.InternalError("failed to delete friendship", err)
	}
	return nil
}

// loadForMember 读取关系并校验 userID 是其中一方
func (s *FriendshipService) loadForMember(ctx context.Context, userID, friendshipID uint, notFoundMsg string) (*model.Friendship, error) {
	friendship, err := s.friendships.FindByID(ctx, friendshipID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, utils.InternalError("failed to query friendship", err)
	}

	if !friendship.HasMember(userID) {
		return nil, utils.AuthorizationError("you are not part of this friendship")
	}
	return friendship, nil
}

// ListFriends 已接受的好友，最近更新优先
func (s *FriendshipService) ListFriends(ctx context.Context, userID uint) ([]model.FriendshipDTO, error) {
	rows, err := s.friendships.ListByUserAndStatus(ctx, userID, model.FriendshipAccepted)
	if err != nil {
		return nil, utils.InternalError("failed to list friends", err)
	}
	return s.resolveAll(ctx, rows, userID)
}

// ListPending 收到的待处理请求（不含自己发出的），最新优先
func (s *FriendshipService) ListPending(ctx context.Context, userID uint) ([]model.FriendshipDTO, error) {
	rows, err := s.friendships.ListIncomingPending(ctx, userID)
	if err != nil {
		return nil, utils.InternalError("failed to list pending requests", err)
	}
	return s.resolveAll(ctx, rows, userID)
}

// SearchUsers 搜索用户并附带与当前用户的关系状态，空查询返回空列表
func (s *FriendshipService) SearchUsers(ctx context.Context, callerID uint, query string) ([]model.UserSearchDTO, error) {
	if strings.TrimSpace(query) == "" {
		return []model.UserSearchDTO{}, nil
	}

	users, err := s.users.Search(ctx, query, callerID, searchLimit)
	if err != nil {
		return nil, utils.InternalError("failed to search users", err)
	}

	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	relations, err := s.friendships.FindBetweenMany(ctx, callerID, ids)
	if err != nil {
		return nil, utils.InternalError("failed to query friendships", err)
	}

	results := make([]model.UserSearchDTO, 0, len(users))
	for i := range users {
		u := &users[i]
		item := model.UserSearchDTO{
			ID:          u.ID,
			Email:       u.Email,
			Username:    u.Username,
			FullName:    u.FullName,
			PhoneNumber: u.PhoneNumber,
			AvatarURL:   u.AvatarURL,
			Status:      u.Status,
			IsOnline:    u.IsOnline,
		}
		if f, ok := relations[u.ID]; ok {
			status := f.Status
			item.FriendshipStatus = &status
			item.IsFriend = status == model.FriendshipAccepted
		}
		results = append(results, item)
	}
	return results, nil
}

func (s *FriendshipService) resolve(ctx context.Context, f *model.Friendship, userID uint) (*model.FriendshipDTO, error) {
	friend, err := s.users.FindByID(ctx, f.Counterpart(userID))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFoundError("user not found")
	}
	if err != nil {
		return nil, utils.InternalError("failed to query user", err)
	}

	dto := toFriendshipDTO(f, friend, userID)
	return &dto, nil
}

// resolveAll 批量补充对方资料，保持原有顺序；对方已不存在的记录跳过
func (s *FriendshipService) resolveAll(ctx context.Context, rows []model.Friendship, userID uint) ([]model.FriendshipDTO, error) {
	ids := make([]uint, len(rows))
	for i := range rows {
		ids[i] = rows[i].Counterpart(userID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, utils.InternalError("failed to query users", err)
	}

	result := make([]model.FriendshipDTO, 0, len(rows))
	for i := range rows {
		friend, ok := users[rows[i].Counterpart(userID)]
		if !ok {
			continue
		}
		result = append(result, toFriendshipDTO(&rows[i], friend, userID))
	}
	return result, nil
}

func toFriendshipDTO(f *model.Friendship, friend *model.User, userID uint) model.FriendshipDTO {
	return model.FriendshipDTO{
		ID:          f.ID,
		Friend:      friend.ToDTO(),
		Status:      f.Status,
		IsRequester: f.RequesterID == userID,
		CreatedAt:   f.CreatedAt,
	}
}
