package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ChansereyGit/chat-rocket/model"
	"github.com/ChansereyGit/chat-rocket/repository"
)

type MessageStore struct {
	mu       sync.RWMutex
	nextID   uint
	messages map[uint]model.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{messages: make(map[uint]model.Message)}
}

func (s *MessageStore) Create(ctx context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	msg.ID = s.nextID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.messages[msg.ID] = *msg
	return nil
}

func (s *MessageStore) FindByID(ctx context.Context, id uint) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &msg, nil
}

func (s *MessageStore) ListByUser(ctx context.Context, userID uint) ([]model.Message, error) {
	msgs := s.filter(func(m model.Message) bool {
		return m.SenderID == userID || m.ReceiverID == userID
	})
	// 最新优先
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *MessageStore) ListConversation(ctx context.Context, a, b uint) ([]model.Message, error) {
	return s.filter(func(m model.Message) bool {
		return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
	}), nil
}

func (s *MessageStore) Save(ctx context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.ID == 0 {
		s.nextID++
		msg.ID = s.nextID
	}
	s.messages[msg.ID] = *msg
	return nil
}

func (s *MessageStore) MarkConversationRead(ctx context.Context, receiverID, senderID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, m := range s.messages {
		if m.ReceiverID == receiverID && m.SenderID == senderID && !m.IsRead {
			m.IsRead = true
			s.messages[id] = m
			n++
		}
	}
	return n, nil
}

// filter 按 created_at、id 升序返回匹配的消息
func (s *MessageStore) filter(match func(model.Message) bool) []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var msgs []model.Message
	for _, m := range s.messages {
		if match(m) {
			msgs = append(msgs, m)
		}
	}
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs
}
