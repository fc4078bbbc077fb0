package service

import (
	"context"

	"github.com/ChansereyGit/chat-rocket/model"
)

// UserStore 用户存储，未找到返回 repository.ErrNotFound
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, user *model.User) error
	Search(ctx context.Context, query string, excludeID uint, limit int) ([]model.User, error)
}

// FriendshipStore 好友关系存储，两人之间的查询按无序对处理
type FriendshipStore interface {
	Create(ctx context.Context, f *model.Friendship) error
	FindByID(ctx context.Context, id uint) (*model.Friendship, error)
	FindBetween(ctx context.Context, a, b uint) (*model.Friendship, error)
	FindBetweenMany(ctx context.Context, userID uint, others []uint) (map[uint]*model.Friendship, error)
	ListByUserAndStatus(ctx context.Context, userID uint, status string) ([]model.Friendship, error)
	ListIncomingPending(ctx context.Context, userID uint) ([]model.Friendship, error)
	Save(ctx context.Context, f *model.Friendship) error
	Delete(ctx context.Context, id uint) error
}

// MessageStore 私信存储
type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) error
	FindByID(ctx context.Context, id uint) (*model.Message, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Message, error)
	ListConversation(ctx context.Context, a, b uint) ([]model.Message, error)
	Save(ctx context.Context, msg *model.Message) error
	MarkConversationRead(ctx context.Context, receiverID, senderID uint) (int64, error)
}

// SettingsStore 系统配置存储
type SettingsStore interface {
	List(ctx context.Context) ([]model.SystemSettings, error)
	Update(ctx context.Context, key, value string) error
}

// TokenIssuer 签发会话 token
type TokenIssuer interface {
	IssueToken(userID uint, email string) (string, error)
}
