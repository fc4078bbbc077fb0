package service

import (
	"context"
	"errors"
	"sync"

	"github.com/ChansereyGit/chat-rocket/repository"
	"github.com/ChansereyGit/chat-rocket/utils"
)

// SystemSettingsService 系统配置服务（功能开关，内存缓存）
type SystemSettingsService struct {
	store           SettingsStore
	settingsCache   map[string]string
	settingsCacheMu sync.RWMutex
}

func NewSystemSettingsService(store SettingsStore) *SystemSettingsService {
	return &SystemSettingsService{
		store:         store,
		settingsCache: make(map[string]string),
	}
}

// LoadSettings 从存储加载所有配置到内存缓存
func (s *SystemSettingsService) LoadSettings(ctx context.Context) error {
	settings, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	fresh := make(map[string]string, len(settings))
	for _, setting := range settings {
		fresh[setting.SettingKey] = setting.SettingValue
	}

	s.settingsCacheMu.Lock()
	s.settingsCache = fresh
	s.settingsCacheMu.Unlock()
	return nil
}

// GetSetting 获取配置值（从缓存）
func (s *SystemSettingsService) GetSetting(key string) (string, bool) {
	s.settingsCacheMu.RLock()
	defer s.settingsCacheMu.RUnlock()

	value, exists := s.settingsCache[key]
	return value, exists
}

// GetBoolSetting 获取布尔类型配置
func (s *SystemSettingsService) GetBoolSetting(key string, defaultValue bool) bool {
	value, exists := s.GetSetting(key)
	if !exists {
		return defaultValue
	}
	return value == "true"
}

// IsFeatureEnabled 功能开关，未配置时使用 defaultValue
func (s *SystemSettingsService) IsFeatureEnabled(featureKey string, defaultValue bool) bool {
	if s == nil {
		return defaultValue
	}
	return s.GetBoolSetting(featureKey, defaultValue)
}

// UpdateSetting 更新配置（先写存储，成功后更新缓存）
func (s *SystemSettingsService) UpdateSetting(ctx context.Context, key, value string) error {
	if err := s.store.Update(ctx, key, value); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFoundError("setting key not found: " + key)
		}
		return utils.InternalError("failed to update setting", err)
	}

	s.settingsCacheMu.Lock()
	s.settingsCache[key] = value
	s.settingsCacheMu.Unlock()
	return nil
}
