package service

import (
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/blog_service/constant"
)

func TestAddTopLevelComment(t *testing.T) {
	f := newFixture(t)
	post := f.createPost(t, "Discussed", "")

	_, err := f.comments.AddTopLevelComment(f.ctx, 9999, "Ann", "ann@example.com", "hi")
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)

	c, err := f.comments.AddTopLevelComment(f.ctx, post.ID, "Ann", "", "hi")
	require.NoError(t, err)
	assert.Nil(t, c, "missing fields create nothing")

	c, err = f.comments.AddTopLevelComment(f.ctx, post.ID, " Ann ", "ann@example.com", " first ")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Ann", c.Name)
	assert.Equal(t, "first", c.Content)
	assert.Nil(t, c.ParentID)
	assert.False(t, c.IsAdminReply)
}

func TestAdminReplyAndThreads(t *testing.T) {
	f := newFixture(t)
	post := f.createPost(t, "Threads", "")
	other := f.createPost(t, "Other", "")

	first, err := f.comments.AddTopLevelComment(f.ctx, post.ID, "Ann", "ann@example.com", "first")
	require.NoError(t, err)
	second, err := f.comments.AddTopLevelComment(f.ctx, post.ID, "Bob", "bob@example.com", "second")
	require.NoError(t, err)
	_, err = f.comments.AddTopLevelComment(f.ctx, other.ID, "Cy", "cy@example.com", "elsewhere")
	require.NoError(t, err)

	reply1, err := f.comments.AddAdminReply(f.ctx, first.ID, "thanks")
	require.NoError(t, err)
	require.NotNil(t, reply1)
	assert.Equal(t, post.ID, reply1.PostID)
	assert.Equal(t, first.ID, *reply1.ParentID)
	assert.True(t, reply1.IsAdminReply)
	assert.Equal(t, constant.OperatorReplyName, reply1.Name)
	assert.Equal(t, constant.OperatorReplyEmail, reply1.Email)

	reply2, err := f.comments.AddAdminReply(f.ctx, first.ID, "again")
	require.NoError(t, err)

	empty, err := f.comments.AddAdminReply(f.ctx, first.ID, "   ")
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = f.comments.AddAdminReply(f.ctx, 9999, "x")
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)

	top, err := f.comments.ListTopLevelForPost(f.ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, top, 2, "replies are not top-level")
	assert.Equal(t, second.ID, top[0].ID, "newest first")

	threads, err := f.comments.ListThreadsForPost(f.ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Empty(t, threads[0].Replies)
	require.Len(t, threads[1].Replies, 2)
	assert.Equal(t, reply1.ID, threads[1].Replies[0].ID, "replies oldest first")
	assert.Equal(t, reply2.ID, threads[1].Replies[1].ID)
}
