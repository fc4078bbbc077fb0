package model

import (
	"time"
)

// 好友关系状态
const (
	FriendshipPending  = "PENDING"
	FriendshipAccepted = "ACCEPTED"
	FriendshipRejected = "REJECTED"
	FriendshipBlocked  = "BLOCKED" // 预留，没有接口会写入该状态
)

// Friendship 好友关系表，(user_id, friend_id) 按无序对查询
type Friendship struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"userId" gorm:"not null;index"`
	FriendID    uint      `json:"friendId" gorm:"not null;index"`
	Status      string    `json:"status" gorm:"type:varchar(20);not null"`
	RequesterID uint      `json:"requesterId" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// HasMember 判断用户是否为关系的一方
func (f *Friendship) HasMember(userID uint) bool {
	return f.UserID == userID || f.FriendID == userID
}

// Counterpart 返回关系中另一方的用户 ID
func (f *Friendship) Counterpart(userID uint) uint {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

// FriendshipDTO 好友关系（从当前用户视角）
type FriendshipDTO struct {
	ID          uint      `json:"id"`
	Friend      UserDTO   `json:"friend"`
	Status      string    `json:"status"`
	IsRequester bool      `json:"isRequester"`
	CreatedAt   time.Time `json:"createdAt"`
}
