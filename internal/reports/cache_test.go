package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCacheVersionInitialises(t *testing.T) {
	cache, _ := newTestCache(t)
	ver, err := cache.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)
}

func TestCacheFetchJSONPopulatesOnce(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, ResultKey("account-statement", "abc")...)
	require.NoError(t, err)
	assert.Equal(t, "reports:account-statement:abc:1", key)

	loads := 0
	loader := func(context.Context) (interface{}, error) {
		loads++
		return Result{Rows: []Row{{"debit": 10.0}}}, nil
	}

	var first, second Result
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))

	assert.Equal(t, 1, loads)
	require.Len(t, second.Rows, 1)
	assert.Equal(t, 10.0, second.Rows[0].Float("debit"))
}

func TestCacheBumpChangesKeys(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, ResultKey("account-statement", "abc")...)
	require.NoError(t, err)
	require.NoError(t, cache.Bump(ctx))
	after, err := cache.BuildKey(ctx, ResultKey("account-statement", "abc")...)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestCacheNilClientFallsThrough(t *testing.T) {
	var cache *Cache
	var out Result
	err := cache.FetchJSON(context.Background(), "k", &out, func(context.Context) (interface{}, error) {
		return Result{Rows: []Row{{"credit": 5.0}}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, out.Rows[0].Float("credit"))
}
