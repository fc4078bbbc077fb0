package service

import (
	"context"
	"testing"
	"time"

	"github.com/ChansereyGit/chat-rocket/model"
	"github.com/ChansereyGit/chat-rocket/repository/memory"
	"github.com/ChansereyGit/chat-rocket/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemSettings(t *testing.T) {
	store := memory.NewSettingsStore(
		model.SystemSettings{SettingKey: "feature_a", SettingValue: "true"},
		model.SystemSettings{SettingKey: "feature_b", SettingValue: "false"},
		model.SystemSettings{SettingKey: "greeting", SettingValue: "hello"},
	)
	svc := NewSystemSettingsService(store)

	// 加载前全部走默认值
	assert.False(t, svc.IsFeatureEnabled("feature_a", false))

	require.NoError(t, svc.LoadSettings(context.Background()))

	v, ok := svc.GetSetting("greeting")
	assert.True(t, ok)
	assert.Equal(t, "hello", v)

	assert.True(t, svc.IsFeatureEnabled("feature_a", false))
	assert.False(t, svc.IsFeatureEnabled("feature_b", true))
	assert.True(t, svc.IsFeatureEnabled("missing", true))
	assert.False(t, svc.GetBoolSetting("greeting", true))
}

func TestSystemSettings_NilService(t *testing.T) {
	var svc *SystemSettingsService
	assert.True(t, svc.IsFeatureEnabled(model.SettingPresenceCache, true))
}

func TestUpdateSetting_DisablesPresenceCacheAtRuntime(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.createUser(t, "alice")

	settings := NewSystemSettingsService(memory.NewSettingsStore(model.SystemSettings{
		SettingKey:   model.SettingPresenceCache,
		SettingValue: "true",
	}))
	require.NoError(t, settings.LoadSettings(ctx))

	rdb := newFakeRedis()
	svc := NewUserServiceWithRedis(env.users, rdb, settings, time.Minute)

	require.NoError(t, svc.SetOnline(ctx, a.ID))
	assert.Equal(t, "1", rdb.values["online:1"])

	require.NoError(t, settings.UpdateSetting(ctx, model.SettingPresenceCache, "false"))
	assert.False(t, settings.IsFeatureEnabled(model.SettingPresenceCache, true))

	// 关闭后不再写 Redis，下线也不会删 key
	require.NoError(t, svc.SetOffline(ctx, a.ID))
	assert.Equal(t, "1", rdb.values["online:1"])

	p, err := svc.GetPresence(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, p.IsOnline, "presence comes from the database when the cache is off")

	// 存储里也已更新，重新加载后保持关闭
	reloaded := NewSystemSettingsService(settings.store)
	require.NoError(t, reloaded.LoadSettings(ctx))
	assert.False(t, reloaded.IsFeatureEnabled(model.SettingPresenceCache, true))
}

func TestUpdateSetting_UnknownKey(t *testing.T) {
	svc := NewSystemSettingsService(memory.NewSettingsStore())

	err := svc.UpdateSetting(context.Background(), "missing", "true")
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	_, ok := svc.GetSetting("missing")
	assert.False(t, ok, "cache is untouched when the store rejects the update")
}
