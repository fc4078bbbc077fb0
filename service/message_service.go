package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ChansereyGit/chat-rocket/model"
	"github.com/ChansereyGit/chat-rocket/repository"
	"github.com/ChansereyGit/chat-rocket/utils"
)

// 单条消息最大字符数
const maxContentLength = 5000

type MessageService struct {
	messages MessageStore
	users    UserStore
	now      func() time.Time
}

func NewMessageService(messages MessageStore, users UserStore) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		now:      time.Now,
	}
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	ReceiverID  uint   `json:"receiverId" binding:"required"`
	Content     string `json:"content"`
	MessageType string `json:"messageType"` // 默认 'text'
}

// SendMessage 发送私信，返回带双方资料的消息
func (s *MessageService) SendMessage(ctx context.Context, senderID uint, req SendMessageRequest) (*model.MessageDTO, error) {
	if req.ReceiverID == 0 {
		return nil, utils.ValidationError("receiverId is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, utils.ValidationError("content is required")
	}
	if utf8.RuneCountInString(req.Content) > maxContentLength {
		return nil, utils.ValidationError("content is too long")
	}
	if req.MessageType == "" {
		req.MessageType = model.MessageTypeText
	}

	receiver, err := s.users.FindByID(ctx, req.ReceiverID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFoundError("receiver not found")
	}
	if err != nil {
		return nil, utils.InternalError("failed to query receiver", err)
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NotFoundError("sender not found")
	}
	if err != nil {
		return nil, utils.InternalError("failed to query sender", err)
	}

	message := &model.Message{
		SenderID:    senderID,
		ReceiverID:  req.ReceiverID,
		Content:     req.Content,
		MessageType: req.MessageType,
		IsRead:      false,
		CreatedAt:   s.now(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, utils.InternalError("failed to save message", err)
	}

	return toMessageDTO(message, sender, receiver), nil
}

// GetConversationMessages 两人之间的全部消息，最早优先
func (s *MessageService) GetConversationMessages(ctx context.Context, userID, friendID uint) ([]model.MessageDTO, error) {
	msgs, err := s.messages.ListConversation(ctx, userID, friendID)
	if err != nil {
		return nil, utils.InternalError("failed to query messages", err)
	}

	users, err := s.users.FindByIDs(ctx, []uint{userID, friendID})
	if err != nil {
		return nil, utils.InternalError("failed to query users", err)
	}

	result := make([]model.MessageDTO, 0, len(msgs))
	for i := range msgs {
		result = append(result, *toMessageDTO(&msgs[i], users[msgs[i].SenderID], users[msgs[i].ReceiverID]))
	}
	return result, nil
}

// GetConversations 按对方分组聚合：最后一条消息 + 发给自己的未读数
func (s *MessageService) GetConversations(ctx context.Context, userID uint) ([]model.ConversationDTO, error) {
	msgs, err := s.messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.InternalError("failed to query messages", err)
	}

	type bucket struct {
		last   *model.Message
		unread int
	}
	buckets := make(map[uint]*bucket)
	order := make([]uint, 0)
	for i := range msgs {
		m := &msgs[i]
		other := m.Counterpart(userID)
		b, ok := buckets[other]
		if !ok {
			b = &bucket{}
			buckets[other] = b
			order = append(order, other)
		}
		if b.last == nil || m.CreatedAt.After(b.last.CreatedAt) {
			b.last = m
		}
		if m.ReceiverID == userID && !m.IsRead {
			b.unread++
		}
	}

	friends, err := s.users.FindByIDs(ctx, order)
	if err != nil {
		return nil, utils.InternalError("failed to query users", err)
	}

	conversations := make([]model.ConversationDTO, 0, len(order))
	for _, friendID := range order {
		friend, ok := friends[friendID]
		if !ok {
			continue
		}
		b := buckets[friendID]
		conv := model.ConversationDTO{
			Friend:      friend.ToDTO(),
			UnreadCount: b.unread,
		}
		if b.last != nil {
			conv.LastMessage = toMessageDTO(b.last, nil, nil)
		}
		conversations = append(conversations, conv)
	}

	// 最近一条消息时间倒序，没有消息的排最后
	sort.SliceStable(conversations, func(i, j int) bool {
		li, lj := conversations[i].LastMessage, conversations[j].LastMessage
		if li == nil || lj == nil {
			return li != nil
		}
		return li.CreatedAt.After(lj.CreatedAt)
	})
	return conversations, nil
}

// MarkAsRead 标记单条消息已读；消息不存在或不是接收者时不做任何事
func (s *MessageService) MarkAsRead(ctx context.Context, userID, messageID uint) error {
	msg, err := s.messages.FindByID(ctx, messageID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return utils.InternalError("failed to query message", err)
	}

	if msg.ReceiverID != userID || msg.IsRead {
		return nil
	}

	msg.IsRead = true
	if err := s.messages.Save(ctx, msg); err != nil {
		return utils.InternalError("failed to mark message read", err)
	}
	return nil
}

// MarkConversationAsRead 把 friendID 发给 userID 的未读消息全部置为已读
func (s *MessageService) MarkConversationAsRead(ctx context.Context, userID, friendID uint) error {
	if _, err := s.messages.MarkConversationRead(ctx, userID, friendID); err != nil {
		return utils.InternalError("failed to mark conversation read", err)
	}
	return nil
}

func toMessageDTO(m *model.Message, sender, receiver *model.User) *model.MessageDTO {
	dto := &model.MessageDTO{
		ID:          m.ID,
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		Content:     m.Content,
		MessageType: m.MessageType,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt,
	}
	if sender != nil {
		d := sender.ToDTO()
		dto.Sender = &d
	}
	if receiver != nil {
		d := receiver.ToDTO()
		dto.Receiver = &d
	}
	return dto
}
