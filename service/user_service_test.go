package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ChansereyGit/chat-rocket/model"
	"github.com/ChansereyGit/chat-rocket/repository/memory"
	"github.com/ChansereyGit/chat-rocket/utils"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis 内存版 RedisClient，记录 TTL
type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, k := range keys {
		delete(f.values, k)
		delete(f.ttls, k)
	}
	return nil
}

func TestPresence_DatabaseOnly(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.createUser(t, "alice")

	require.NoError(t, env.userSvc.SetOnline(ctx, a.ID))
	p, err := env.userSvc.GetPresence(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, p.IsOnline)
	firstSeen := p.LastSeen

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, env.userSvc.Heartbeat(ctx, a.ID))
	p, err = env.userSvc.GetPresence(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, p.IsOnline)
	assert.True(t, p.LastSeen.After(firstSeen))

	require.NoError(t, env.userSvc.SetOffline(ctx, a.ID))
	stored, err := env.users.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsOnline)
	assert.Equal(t, model.UserStatusOffline, stored.Status)
}

func TestPresence_UnknownUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	assert.NoError(t, env.userSvc.SetOnline(ctx, 404))
	assert.NoError(t, env.userSvc.SetOffline(ctx, 404))
	assert.NoError(t, env.userSvc.Heartbeat(ctx, 404))

	_, err := env.userSvc.GetPresence(ctx, 404)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestPresence_RedisCache(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.createUser(t, "alice")

	rdb := newFakeRedis()
	svc := NewUserServiceWithRedis(env.users, rdb, nil, time.Minute)

	require.NoError(t, svc.SetOnline(ctx, a.ID))
	assert.Equal(t, "1", rdb.values["online:1"])
	assert.Equal(t, time.Minute, rdb.ttls["online:1"])

	p, err := svc.GetPresence(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, p.IsOnline)

	// key 过期：数据库仍为在线，但视为离线
	delete(rdb.values, "online:1")
	p, err = svc.GetPresence(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, p.IsOnline)

	require.NoError(t, svc.Heartbeat(ctx, a.ID))
	require.NoError(t, svc.SetOffline(ctx, a.ID))
	_, ok := rdb.values["online:1"]
	assert.False(t, ok)
}

func TestPresence_RedisFailureFallsBackToDatabase(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.createUser(t, "alice")

	rdb := newFakeRedis()
	rdb.err = errors.New("connection refused")
	svc := NewUserServiceWithRedis(env.users, rdb, nil, time.Minute)

	require.NoError(t, svc.SetOnline(ctx, a.ID), "cache errors must not fail the update")
	p, err := svc.GetPresence(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, p.IsOnline)
}

func TestPresence_CacheDisabledBySetting(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.createUser(t, "alice")

	settings := NewSystemSettingsService(memory.NewSettingsStore(model.SystemSettings{
		SettingKey:   model.SettingPresenceCache,
		SettingValue: "false",
	}))
	require.NoError(t, settings.LoadSettings(ctx))

	rdb := newFakeRedis()
	svc := NewUserServiceWithRedis(env.users, rdb, settings, time.Minute)

	require.NoError(t, svc.SetOnline(ctx, a.ID))
	assert.Empty(t, rdb.values)

	p, err := svc.GetPresence(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, p.IsOnline)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	a := env.createUser(t, "alice")

	name := "  Alice Cooper "
	bio := "hi there"
	phone := "+1 555"
	dto, err := env.userSvc.UpdateProfile(ctx, a.ID, UpdateProfileRequest{FullName: &name, Bio: &bio, PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", dto.FullName)
	require.NotNil(t, dto.Bio)
	assert.Equal(t, "hi there", *dto.Bio)

	empty := ""
	dto, err = env.userSvc.UpdateProfile(ctx, a.ID, UpdateProfileRequest{PhoneNumber: &empty})
	require.NoError(t, err)
	assert.Nil(t, dto.PhoneNumber)
	assert.Equal(t, "Alice Cooper", dto.FullName, "nil fields are left untouched")

	blank := "   "
	_, err = env.userSvc.UpdateProfile(ctx, a.ID, UpdateProfileRequest{FullName: &blank})
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = env.userSvc.GetProfile(ctx, 999)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}
