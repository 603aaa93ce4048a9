package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BatuhanK/huawei-inapp/pkg/huawei"
	"github.com/BatuhanK/huawei-inapp/pkg/huaweitest"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	store := NewRedis(rdb)
	store.now = func() time.Time { return testNow }
	return mr, store
}

func TestRedis_LoadMissing(t *testing.T) {
	t.Parallel()
	_, store := newTestRedis(t)

	token, err := store.Load(context.Background(), "A")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestRedis_SaveLoad(t *testing.T) {
	t.Parallel()
	mr, store := newTestRedis(t)

	saved := &huawei.AccessToken{
		AccessToken: "T1",
		ExpiresIn:   3600,
		ExpiresAt:   testNow.Add(time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), "A", saved))

	// key expires with the token
	assert.Equal(t, time.Hour, mr.TTL("huawei-iap:token:A"))

	loaded, err := store.Load(context.Background(), "A")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "T1", loaded.AccessToken)
	assert.Equal(t, int64(3600), loaded.ExpiresIn)
	assert.True(t, saved.ExpiresAt.Equal(loaded.ExpiresAt))
}

func TestRedis_KeysArePerClient(t *testing.T) {
	t.Parallel()
	_, store := newTestRedis(t)

	token := &huawei.AccessToken{AccessToken: "T1", ExpiresAt: testNow.Add(time.Hour)}
	require.NoError(t, store.Save(context.Background(), "A", token))

	other, err := store.Load(context.Background(), "B")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestRedis_TokenGoneAfterTTL(t *testing.T) {
	t.Parallel()
	mr, store := newTestRedis(t)

	token := &huawei.AccessToken{AccessToken: "T1", ExpiresAt: testNow.Add(time.Minute)}
	require.NoError(t, store.Save(context.Background(), "A", token))

	mr.FastForward(2 * time.Minute)

	loaded, err := store.Load(context.Background(), "A")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedis_SaveExpiredDeletes(t *testing.T) {
	t.Parallel()
	mr, store := newTestRedis(t)

	fresh := &huawei.AccessToken{AccessToken: "T1", ExpiresAt: testNow.Add(time.Hour)}
	require.NoError(t, store.Save(context.Background(), "A", fresh))

	expired := &huawei.AccessToken{AccessToken: "T2", ExpiresAt: testNow}
	require.NoError(t, store.Save(context.Background(), "A", expired))

	assert.False(t, mr.Exists("huawei-iap:token:A"))
}

func TestRedis_Unavailable(t *testing.T) {
	t.Parallel()
	mr, store := newTestRedis(t)
	mr.Close()

	_, err := store.Load(context.Background(), "A")
	assert.ErrorIs(t, err, ErrRedisUnavailable)
}

func TestRedis_SharedBetweenClients(t *testing.T) {
	t.Parallel()
	_, store := newTestRedis(t)
	store.now = time.Now
	fake := huaweitest.NewServer(t, huaweitest.DefaultCredentials)

	req := huawei.OrderRequest{ProductID: "p1", PurchaseToken: "tok"}
	for i := 0; i < 2; i++ {
		// a fresh registry stands in for another replica
		registry := huawei.NewRegistry(
			huawei.WithEndpoints(fake.Endpoints()),
			huawei.WithTokenStore(store),
		)
		_, err := registry.Get(huaweitest.DefaultCredentials).GetOrder(context.Background(), req)
		require.NoError(t, err)
	}

	assert.Equal(t, 1, fake.TokenRequests())
	assert.Equal(t, 2, fake.OrderRequests())
}
