package model

import (
	"time"
)

const MessageTypeText = "text"

// Message 私信表，创建后只有 is_read 会变化
type Message struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SenderID    uint      `json:"senderId" gorm:"not null;index"`
	ReceiverID  uint      `json:"receiverId" gorm:"not null;index"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	MessageType string    `json:"messageType" gorm:"type:varchar(20);not null;default:text"`
	IsRead      bool      `json:"isRead" gorm:"default:false"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
}

func (Message) TableName() string {
	return "messages"
}

// Counterpart 返回消息中另一方的用户 ID
func (m *Message) Counterpart(userID uint) uint {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// MessageDTO 消息详情（包含收发双方资料）
type MessageDTO struct {
	ID          uint      `json:"id"`
	SenderID    uint      `json:"senderId"`
	ReceiverID  uint      `json:"receiverId"`
	Content     string    `json:"content"`
	MessageType string    `json:"messageType,omitempty"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
	Sender      *UserDTO  `json:"sender,omitempty"`
	Receiver    *UserDTO  `json:"receiver,omitempty"`
}

// ConversationDTO 会话摘要（按对方聚合，不落库）
type ConversationDTO struct {
	Friend      UserDTO     `json:"friend"`
	LastMessage *MessageDTO `json:"lastMessage"`
	UnreadCount int         `json:"unreadCount"`
}
