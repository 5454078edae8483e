package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/myErrors"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRecordViewDeduplicatesViewer(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewPostViewRepository(client, zap.NewNop(), config.ViewSyncConfig{ScanBatchSize: 10})
	ctx := context.Background()

	counted, err := repo.RecordView(ctx, 42, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, counted)

	counted, err = repo.RecordView(ctx, 42, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, counted)

	counted, err = repo.RecordView(ctx, 42, "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, counted)

	// 去重窗口过期后重新计数
	mr.FastForward(13 * time.Hour)
	counted, err = repo.RecordView(ctx, 42, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, counted)

	counted, err = repo.RecordView(ctx, 7, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, counted)

	drained, err := repo.DrainViewCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[uint64]int64{42: 3, 7: 1}, drained)

	again, err := repo.DrainViewCounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, again, "counters are removed once drained")
}

func TestPopularPostsCache(t *testing.T) {
	_, client := newTestRedis(t)
	cache := NewPopularPostsCache(client, zap.NewNop())
	ctx := context.Background()

	_, err := cache.GetPopularPostIDs(ctx)
	assert.ErrorIs(t, err, myErrors.ErrCacheMiss)

	require.NoError(t, cache.SetPopularPostIDs(ctx, []uint64{3, 1, 2}, time.Minute))
	ids, err := cache.GetPopularPostIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 1, 2}, ids)
}
