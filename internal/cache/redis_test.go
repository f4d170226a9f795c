package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMock(t *testing.T) redismock.ClientMock {
	t.Helper()
	client, mock := redismock.NewClientMock()
	UseClient(client, "test")
	t.Cleanup(func() {
		redisClient = nil
		redisPrefix = defaultPrefix
	})
	return mock
}

func TestDisabledCacheIsNoop(t *testing.T) {
	redisClient = nil
	var dest map[string]string
	hit, err := GetJSON(context.Background(), "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, SetJSON(context.Background(), "k", "v", time.Minute))
	assert.NoError(t, Del(context.Background(), "k"))
	v, err := CatalogVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
}

func TestGetSetJSON(t *testing.T) {
	mock := useMock(t)
	ctx := context.Background()

	mock.ExpectSet("test:greeting", []byte(`{"hello":"world"}`), time.Minute).SetVal("OK")
	require.NoError(t, SetJSON(ctx, "greeting", map[string]string{"hello": "world"}, time.Minute))

	mock.ExpectGet("test:greeting").SetVal(`{"hello":"world"}`)
	var dest map[string]string
	hit, err := GetJSON(ctx, "greeting", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "world", dest["hello"])

	mock.ExpectGet("test:missing").RedisNil()
	hit, err = GetJSON(ctx, "missing", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogVersion(t *testing.T) {
	mock := useMock(t)
	ctx := context.Background()

	mock.ExpectGet("test:catalog:version").RedisNil()
	v, err := CatalogVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	mock.ExpectIncr("test:catalog:version").SetVal(1)
	require.NoError(t, BumpCatalogVersion(ctx))

	mock.ExpectGet("test:catalog:version").SetVal("1")
	v, err = CatalogVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogListKeyIsCaseInsensitive(t *testing.T) {
	a := CatalogListKey(3, "Pens", "Gel", "under-10", 1, 20)
	b := CatalogListKey(3, "pens", "gel", "under-10", 1, 20)
	c := CatalogListKey(4, "pens", "gel", "under-10", 1, 20)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "catalog:v3:")
}
