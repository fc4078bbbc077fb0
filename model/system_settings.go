package model

import (
	"time"
)

// SystemSettings 系统配置（功能开关）
type SystemSettings struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SettingKey   string    `json:"setting_key" gorm:"type:varchar(100);uniqueIndex;not null"`
	SettingValue string    `json:"setting_value" gorm:"not null"`
	Description  string    `json:"description"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (SystemSettings) TableName() string {
	return "system_settings"
}

// 功能开关 key
const (
	SettingPresenceCache = "enable_presence_cache"
)
