package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/internal/testdb"
)

func TestBatchAddPostViews(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	posts := NewPostRepository(db, zap.NewNop())
	batch := NewPostBatchOperationsRepository(db, zap.NewNop(), config.ViewSyncConfig{BatchSize: 2, ConcurrencyLevel: 1})

	var ids []uint64
	for i, title := range []string{"a", "b", "c", "d", "e"} {
		p := newPost(title, title, "World", time.Now().Add(time.Duration(i)*time.Second))
		require.NoError(t, posts.CreatePost(ctx, db, p))
		ids = append(ids, p.ID)
	}

	deltas := map[uint64]int64{ids[0]: 3, ids[1]: 10, ids[2]: 1, ids[4]: 7}
	require.NoError(t, batch.BatchAddPostViews(ctx, deltas))
	require.NoError(t, batch.BatchAddPostViews(ctx, map[uint64]int64{ids[0]: 2}))

	p0, err := posts.GetPostByID(ctx, ids[0])
	require.NoError(t, err)
	assert.EqualValues(t, 5, p0.Views)
	p3, err := posts.GetPostByID(ctx, ids[3])
	require.NoError(t, err)
	assert.EqualValues(t, 0, p3.Views)

	top, err := batch.GetTopPostIDsByViews(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint64{ids[1], ids[4], ids[0]}, top)

	ordered, err := batch.GetPostsByIDs(ctx, []uint64{ids[4], 9999, ids[1]})
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, ids[4], ordered[0].ID)
	assert.Equal(t, ids[1], ordered[1].ID)
}

func TestBatchAddPostViewsEmpty(t *testing.T) {
	db := testdb.New(t)
	batch := NewPostBatchOperationsRepository(db, zap.NewNop(), config.ViewSyncConfig{})
	assert.NoError(t, batch.BatchAddPostViews(context.Background(), nil))
}
