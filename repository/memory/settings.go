package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ChansereyGit/chat-rocket/model"
	"github.com/ChansereyGit/chat-rocket/repository"
)

type SettingsStore struct {
	mu       sync.RWMutex
	settings map[string]model.SystemSettings
}

func NewSettingsStore(settings ...model.SystemSettings) *SettingsStore {
	s := &SettingsStore{settings: make(map[string]model.SystemSettings)}
	for _, setting := range settings {
		s.settings[setting.SettingKey] = setting
	}
	return s
}

func (s *SettingsStore) List(ctx context.Context) ([]model.SystemSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SystemSettings, 0, len(s.settings))
	for _, setting := range s.settings {
		out = append(out, setting)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SettingKey < out[j].SettingKey })
	return out, nil
}

func (s *SettingsStore) Update(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	setting, ok := s.settings[key]
	if !ok {
		return repository.ErrNotFound
	}
	setting.SettingValue = value
	setting.UpdatedAt = time.Now()
	s.settings[key] = setting
	return nil
}
