package model

import (
	"time"
)

// User 用户表
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Email       string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Username    string    `json:"username" gorm:"type:varchar(50);not null;uniqueIndex"`
	FullName    string    `json:"fullName" gorm:"type:varchar(100)"`
	Password    string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt 哈希
	PhoneNumber *string   `json:"phoneNumber,omitempty" gorm:"type:varchar(30)"`
	AvatarURL   *string   `json:"avatarUrl,omitempty" gorm:"type:text"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:offline"` // 'online' | 'offline'
	Bio         *string   `json:"bio,omitempty" gorm:"type:text"`
	IsOnline    bool      `json:"isOnline" gorm:"default:false"`
	LastSeen    time.Time `json:"lastSeen"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

const (
	UserStatusOnline  = "online"
	UserStatusOffline = "offline"
)

// UserDTO 对外暴露的用户资料（不含密码）
type UserDTO struct {
	ID              uint      `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	FullName        string    `json:"fullName"`
	PhoneNumber     *string   `json:"phoneNumber,omitempty"`
	AvatarURL       *string   `json:"avatarUrl,omitempty"`
	Status          string    `json:"status"`
	Bio             *string   `json:"bio,omitempty"`
	IsOnline        bool      `json:"isOnline"`
	LastSeen        time.Time `json:"lastSeen"`
	IsAuthenticated bool      `json:"isAuthenticated,omitempty"`
}

// ToDTO 转换为公开资料
func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		AvatarURL:   u.AvatarURL,
		Status:      u.Status,
		Bio:         u.Bio,
		IsOnline:    u.IsOnline,
		LastSeen:    u.LastSeen,
	}
}

// UserSearchDTO 用户搜索结果，附带与当前用户的好友关系
type UserSearchDTO struct {
	ID               uint    `json:"id"`
	Email            string  `json:"email"`
	Username         string  `json:"username"`
	FullName         string  `json:"fullName"`
	PhoneNumber      *string `json:"phoneNumber,omitempty"`
	AvatarURL        *string `json:"avatarUrl,omitempty"`
	Status           string  `json:"status"`
	IsOnline         bool    `json:"isOnline"`
	FriendshipStatus *string `json:"friendshipStatus"` // null | PENDING | ACCEPTED | BLOCKED
	IsFriend         bool    `json:"isFriend"`
}

// PresenceDTO 在线状态
type PresenceDTO struct {
	UserID   uint      `json:"userId"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen"`
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
