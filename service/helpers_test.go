package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/ChansereyGit/chat-rocket/model"
	"github.com/ChansereyGit/chat-rocket/repository/memory"

	"github.com/stretchr/testify/require"
)

// fakeTokens 签发可预测的 token
type fakeTokens struct{}

func (fakeTokens) IssueToken(userID uint, email string) (string, error) {
	return fmt.Sprintf("token-%d-%s", userID, email), nil
}

type testEnv struct {
	users       *memory.UserStore
	friendships *memory.FriendshipStore
	messages    *memory.MessageStore

	auth    *AuthService
	userSvc *UserService
	friends *FriendshipService
	msgs    *MessageService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		users:       memory.NewUserStore(),
		friendships: memory.NewFriendshipStore(),
		messages:    memory.NewMessageStore(),
	}
	env.auth = NewAuthService(env.users, fakeTokens{})
	env.userSvc = NewUserService(env.users)
	env.friends = NewFriendshipService(env.friendships, env.users)
	env.msgs = NewMessageService(env.messages, env.users)
	return env
}

// createUser 直接写入存储，跳过 bcrypt 以加快测试
func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	u := &model.User{
		Email:    username + "@x.com",
		Username: username,
		FullName: username + " Tester",
		Password: "unused",
		Status:   model.UserStatusOffline,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}
