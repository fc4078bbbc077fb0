package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ChansereyGit/chat-rocket/model"
	"github.com/ChansereyGit/chat-rocket/repository"
	"github.com/ChansereyGit/chat-rocket/utils"
)

const presenceKeyPrefix = "online:"

// UserService 在线状态与个人资料
type UserService struct {
	users       UserStore
	rdb         utils.RedisClient // 可选，为 nil 时只写数据库
	sysSvc      *SystemSettingsService
	presenceTTL time.Duration
	now         func() time.Time
}

func NewUserService(users UserStore) *UserService {
	return &UserService{
		users: users,
		now:   time.Now,
	}
}

// NewUserServiceWithRedis 额外把在线状态写入 Redis（online:<id>，带 TTL）
func NewUserServiceWithRedis(users UserStore, rdb utils.RedisClient, sysSvc *SystemSettingsService, presenceTTL time.Duration) *UserService {
	svc := NewUserService(users)
	svc.rdb = rdb
	svc.sysSvc = sysSvc
	svc.presenceTTL = presenceTTL
	return svc
}

// SetOnline 标记上线
func (s *UserService) SetOnline(ctx context.Context, userID uint) error {
	return s.updatePresence(ctx, userID, true)
}

// SetOffline 标记下线
func (s *UserService) SetOffline(ctx context.Context, userID uint) error {
	return s.updatePresence(ctx, userID, false)
}

// Heartbeat 心跳，刷新 last_seen 并保持在线
func (s *UserService) Heartbeat(ctx context.Context, userID uint) error {
	return s.updatePresence(ctx, userID, true)
}

// updatePresence 重新读取用户后写回；用户不存在时静默忽略
func (s *UserService) updatePresence(ctx context.Context, userID uint, online bool) error {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return utils.InternalError("failed to query user", err)
	}

	now := s.now()
	user.IsOnline = online
	user.Status = model.UserStatusOffline
	if online {
		user.Status = model.UserStatusOnline
	}
	user.LastSeen = now
	user.UpdatedAt = now
	if err := s.users.Save(ctx, user); err != nil {
		return utils.InternalError("failed to update presence", err)
	}

	s.cachePresence(ctx, userID, online)
	return nil
}

// cachePresence Redis 只是加速层，失败只记日志
func (s *UserService) cachePresence(ctx context.Context, userID uint, online bool) {
	if !s.cacheEnabled() {
		return
	}

	key := presenceKey(userID)
	var err error
	if online {
		err = s.rdb.Set(ctx, key, "1", s.presenceTTL)
	} else {
		err = s.rdb.Del(ctx, key)
	}
	if err != nil {
		log.Printf("[WARN] Failed to update presence cache for user %d: %v", userID, err)
	}
}

// GetPresence 查询在线状态
// 启用缓存时，key 过期说明心跳已超时，即使数据库仍标记为在线也视为离线
func (s *UserService) GetPresence(ctx context.Context, userID uint) (*model.PresenceDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFoundError("user not found")
	}
	if err != nil {
		return nil, utils.InternalError("failed to query user", err)
	}

	presence := &model.PresenceDTO{
		UserID:   user.ID,
		IsOnline: user.IsOnline,
		LastSeen: user.LastSeen,
	}

	if s.cacheEnabled() {
		val, err := s.rdb.Get(ctx, presenceKey(userID))
		switch {
		case err == nil:
			presence.IsOnline = val == "1"
		case utils.IsRedisNil(err):
			presence.IsOnline = false
		default:
			log.Printf("[WARN] Presence cache unavailable for user %d: %v", userID, err)
		}
	}

	return presence, nil
}

func (s *UserService) cacheEnabled() bool {
	return s.rdb != nil && s.sysSvc.IsFeatureEnabled(model.SettingPresenceCache, true)
}

func presenceKey(userID uint) string {
	return presenceKeyPrefix + strconv.FormatUint(uint64(userID), 10)
}

// GetProfile 获取当前用户资料
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*model.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFoundError("user not found")
	}
	if err != nil {
		return nil, utils.InternalError("failed to query user", err)
	}

	dto := user.ToDTO()
	return &dto, nil
}

// UpdateProfileRequest 只更新非 nil 字段
type UpdateProfileRequest struct {
	FullName    *string `json:"fullName"`
	Bio         *string `json:"bio"`
	PhoneNumber *string `json:"phoneNumber"`
	AvatarURL   *string `json:"avatarUrl"`
}

// UpdateProfile 修改展示字段
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*model.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFoundError("user not found")
	}
	if err != nil {
		return nil, utils.InternalError("failed to query user", err)
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" || len(name) > 100 {
			return nil, utils.ValidationError("fullName must be 1-100 characters")
		}
		user.FullName = name
	}
	if req.PhoneNumber != nil {
		phone := strings.TrimSpace(*req.PhoneNumber)
		if len(phone) > 30 {
			return nil, utils.ValidationError("phoneNumber must be at most 30 characters")
		}
		user.PhoneNumber = optionalString(phone)
	}
	if req.Bio != nil {
		user.Bio = optionalString(*req.Bio)
	}
	if req.AvatarURL != nil {
		user.AvatarURL = optionalString(strings.TrimSpace(*req.AvatarURL))
	}

	user.UpdatedAt = s.now()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, utils.InternalError("failed to update profile", err)
	}

	dto := user.ToDTO()
	return &dto, nil
}

// optionalString 空串存为 NULL
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
