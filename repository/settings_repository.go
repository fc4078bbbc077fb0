package repository

import (
	"context"
	"fmt"

	"github.com/ChansereyGit/chat-rocket/model"

	"gorm.io/gorm"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) List(ctx context.Context) ([]model.SystemSettings, error) {
	var settings []model.SystemSettings
	if err := r.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to load system settings: %w", err)
	}
	return settings, nil
}

// Update 修改已有配置，key 不存在时返回 ErrNotFound
func (r *SettingsRepository) Update(ctx context.Context, key, value string) error {
	result := r.db.WithContext(ctx).Model(&model.SystemSettings{}).
		Where("setting_key = ?", key).
		Update("setting_value", value)
	if result.Error != nil {
		return fmt.Errorf("failed to update setting: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
