package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ChansereyGit/chat-rocket/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clockAt 每次调用前进一秒
func clockAt(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestSendMessage(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.createUser(t, "alice")
	b := env.createUser(t, "bob")

	msg, err := env.msgs.SendMessage(ctx, a.ID, SendMessageRequest{ReceiverID: b.ID, Content: "hello"})
	require.NoError(t, err)

	assert.NotZero(t, msg.ID)
	assert.Equal(t, a.ID, msg.SenderID)
	assert.Equal(t, b.ID, msg.ReceiverID)
	assert.Equal(t, "text", msg.MessageType)
	assert.False(t, msg.IsRead)
	require.NotNil(t, msg.Sender)
	require.NotNil(t, msg.Receiver)
	assert.Equal(t, "alice", msg.Sender.Username)
	assert.Equal(t, "bob", msg.Receiver.Username)
}

func TestSendMessage_Validation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.createUser(t, "alice")
	b := env.createUser(t, "bob")

	_, err := env.msgs.SendMessage(ctx, a.ID, SendMessageRequest{ReceiverID: b.ID, Content: "   "})
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = env.msgs.SendMessage(ctx, a.ID, SendMessageRequest{ReceiverID: b.ID, Content: strings.Repeat("好", 5001)})
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = env.msgs.SendMessage(ctx, a.ID, SendMessageRequest{ReceiverID: b.ID, Content: strings.Repeat("好", 5000)})
	assert.NoError(t, err)

	_, err = env.msgs.SendMessage(ctx, a.ID, SendMessageRequest{ReceiverID: 999, Content: "hi"})
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestGetConversations_LastMessageAndUnread(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.msgs.now = clockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	a := env.createUser(t, "alice")
	b := env.createUser(t, "bob")
	c := env.createUser(t, "carol")

	_, err := env.msgs.SendMessage(ctx, a.ID, SendMessageRequest{ReceiverID: b.ID, Content: "hi"})
	require.NoError(t, err)
	_, err = env.msgs.SendMessage(ctx, b.ID, SendMessageRequest{ReceiverID: a.ID, Content: "hey"})
	require.NoError(t, err)
	_, err = env.msgs.SendMessage(ctx, c.ID, SendMessageRequest{ReceiverID: b.ID, Content: "from carol"})
	require.NoError(t, err)
	last, err := env.msgs.SendMessage(ctx, a.ID, SendMessageRequest{ReceiverID: b.ID, Content: "again"})
	require.NoError(t, err)

	convs, err := env.msgs.GetConversations(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	// 最近的会话排在前面
	assert.Equal(t, a.ID, convs[0].Friend.ID)
	require.NotNil(t, convs[0].LastMessage)
	assert.Equal(t, last.ID, convs[0].LastMessage.ID)
	assert.Equal(t, "again", convs[0].LastMessage.Content)
	assert.Equal(t, 2, convs[0].UnreadCount)

	assert.Equal(t, c.ID, convs[1].Friend.ID)
	assert.Equal(t, 1, convs[1].UnreadCount)

	// 自己发出的消息不计入未读
	convsA, err := env.msgs.GetConversations(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, convsA, 1)
	assert.Equal(t, 1, convsA[0].UnreadCount)

	require.NoError(t, env.msgs.MarkConversationAsRead(ctx, b.ID, a.ID))
	convs, err = env.msgs.GetConversations(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, convs[0].UnreadCount)
	assert.Equal(t, 1, convs[1].UnreadCount, "other conversations are untouched")
}

func TestGetConversations_Empty(t *testing.T) {
	env := newTestEnv()
	a := env.createUser(t, "alice")

	convs, err := env.msgs.GetConversations(context.Background(), a.ID)
	require.NoError(t, err)
	assert.NotNil(t, convs)
	assert.Empty(t, convs)
}

func TestGetConversationMessages_Ordered(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.msgs.now = clockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	a := env.createUser(t, "alice")
	b := env.createUser(t, "bob")
	c := env.createUser(t, "carol")

	for _, step := range []struct {
		from, to uint
		text     string
	}{
		{a.ID, b.ID, "1"},
		{b.ID, a.ID, "2"},
		{c.ID, a.ID, "noise"},
		{a.ID, b.ID, "3"},
	} {
		_, err := env.msgs.SendMessage(ctx, step.from, SendMessageRequest{ReceiverID: step.to, Content: step.text})
		require.NoError(t, err)
	}

	msgs, err := env.msgs.GetConversationMessages(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "1", msgs[0].Content)
	assert.Equal(t, "2", msgs[1].Content)
	assert.Equal(t, "3", msgs[2].Content)
	require.NotNil(t, msgs[1].Sender)
	assert.Equal(t, b.ID, msgs[1].Sender.ID)
}

func TestMarkAsRead(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.createUser(t, "alice")
	b := env.createUser(t, "bob")

	msg, err := env.msgs.SendMessage(ctx, a.ID, SendMessageRequest{ReceiverID: b.ID, Content: "hi"})
	require.NoError(t, err)

	// 发送者标记无效
	require.NoError(t, env.msgs.MarkAsRead(ctx, a.ID, msg.ID))
	stored, err := env.messages.FindByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsRead)

	// 不存在的消息静默忽略
	assert.NoError(t, env.msgs.MarkAsRead(ctx, b.ID, 4242))

	require.NoError(t, env.msgs.MarkAsRead(ctx, b.ID, msg.ID))
	stored, err = env.messages.FindByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)

	// 幂等
	assert.NoError(t, env.msgs.MarkAsRead(ctx, b.ID, msg.ID))
}
