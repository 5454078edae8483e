package tasks

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/internal/testdb"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/repo/mysql"
	"github.com/Xushengqwer/blog_service/repo/redis"
)

func newRedis(t *testing.T) *goredis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestViewCountSyncRunOnce(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	logger := zap.NewNop()
	client := newRedis(t)

	posts := []*entities.Post{
		{Title: "a", Content: "a", Category: "World", AuthorID: 1, Views: 10},
		{Title: "b", Content: "b", Category: "World", AuthorID: 1},
	}
	require.NoError(t, db.Create(&posts).Error)

	viewRepo := redis.NewPostViewRepository(client, logger, config.ViewSyncConfig{ScanBatchSize: 10})
	batchRepo := mysql.NewPostBatchOperationsRepository(db, logger, config.ViewSyncConfig{BatchSize: 1, ConcurrencyLevel: 1})

	task, err := NewViewCountSyncTask(viewRepo, batchRepo, config.ViewSyncConfig{}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { <-task.Stop().Done() })

	for _, viewer := range []string{"v1", "v2", "v1"} {
		_, err := viewRepo.RecordView(ctx, posts[0].ID, viewer)
		require.NoError(t, err)
	}
	_, err = viewRepo.RecordView(ctx, posts[1].ID, "v1")
	require.NoError(t, err)

	n, err := task.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var got []entities.Post
	require.NoError(t, db.Order("id ASC").Find(&got).Error)
	assert.EqualValues(t, 12, got[0].Views)
	assert.EqualValues(t, 1, got[1].Views)

	// 增量已被取走，再次执行不会重复累加
	n, err = task.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPopularPostsCacheRunOnce(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	logger := zap.NewNop()

	posts := []*entities.Post{
		{Title: "low", Content: "x", Category: "World", AuthorID: 1, Views: 1},
		{Title: "high", Content: "x", Category: "World", AuthorID: 1, Views: 100},
		{Title: "mid", Content: "x", Category: "World", AuthorID: 1, Views: 50},
	}
	require.NoError(t, db.Create(&posts).Error)

	cache := redis.NewPopularPostsCache(newRedis(t), logger)
	batchRepo := mysql.NewPostBatchOperationsRepository(db, logger, config.ViewSyncConfig{ConcurrencyLevel: 1})

	task, err := NewPopularPostsCacheTask(cache, batchRepo, config.PopularPostsConfig{Limit: 2}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { <-task.Stop().Done() })

	require.NoError(t, task.RunOnce(ctx))
	ids, err := cache.GetPopularPostIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint64{posts[1].ID, posts[2].ID}, ids)
}

func TestInvalidScheduleIsRejected(t *testing.T) {
	logger := zap.NewNop()
	_, err := NewViewCountSyncTask(nil, nil, config.ViewSyncConfig{Schedule: "not a schedule"}, logger)
	assert.Error(t, err)
	_, err = NewPopularPostsCacheTask(nil, nil, config.PopularPostsConfig{Schedule: "@every nope"}, logger)
	assert.Error(t, err)
}
