package service

import (
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/enums"
	"github.com/Xushengqwer/blog_service/myErrors"
)

func (f *fixture) submit(t *testing.T, title, category string) *entities.Submission {
	t.Helper()
	sub, err := f.submissions.Submit(f.ctx, &dto.SubmitArticleRequest{
		AuthorName:  "Jane Writer",
		AuthorEmail: "jane@example.com",
		Title:       title,
		Content:     "draft of " + title,
		Category:    category,
	})
	require.NoError(t, err)
	return sub
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)

	sub := f.submit(t, "Guest post", "Gardening")
	assert.Equal(t, enums.SubmissionPending, sub.Status)
	assert.Equal(t, constant.DefaultCategory, sub.Category, "unknown category falls back")

	sub = f.submit(t, "Tech guest post", "Tech")
	assert.Equal(t, "Tech", sub.Category)

	_, err := f.submissions.Submit(f.ctx, &dto.SubmitArticleRequest{
		AuthorName: "X", AuthorEmail: "not-an-email", Title: "T", Content: "C",
	})
	assert.True(t, myErrors.IsValidation(err))

	_, err = f.submissions.Submit(f.ctx, &dto.SubmitArticleRequest{
		AuthorName: "X", AuthorEmail: "x@example.com", Title: "", Content: "C",
	})
	assert.Equal(t, "Title is required", myErrors.ValidationMessage(err))

	assert.Eventually(t, func() bool { return f.producer.count("submission_received") == 2 }, time.Second, 10*time.Millisecond)
}

func TestApproveSubmission(t *testing.T) {
	f := newFixture(t)
	f.createPost(t, "Guest post", "")
	sub := f.submit(t, "Guest post", "Business")

	post, err := f.submissions.Approve(f.ctx, sub.ID, f.operatorID)
	require.NoError(t, err)
	assert.Equal(t, "guest-post-1", post.SlugValue())
	assert.Equal(t, "Business", post.Category)
	assert.Equal(t, f.operatorID, post.AuthorID)
	assert.Equal(t, "Jane Writer", post.ContributorName.String)

	stored, err := f.submissions.Get(f.ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.SubmissionApproved, stored.Status)

	// 再次审核不会产生第二篇文章
	_, err = f.submissions.Approve(f.ctx, sub.ID, f.operatorID)
	assert.ErrorIs(t, err, myErrors.ErrSubmissionNotPending)
	assert.ErrorIs(t, f.submissions.Reject(f.ctx, sub.ID, ""), myErrors.ErrSubmissionNotPending)

	var posts int64
	require.NoError(t, f.db.Model(&entities.Post{}).Count(&posts).Error)
	assert.EqualValues(t, 2, posts)

	_, err = f.submissions.Approve(f.ctx, sub.ID, 0)
	assert.True(t, myErrors.IsValidation(err))
	_, err = f.submissions.Approve(f.ctx, 9999, f.operatorID)
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)

	assert.Eventually(t, func() bool {
		return f.producer.count("submission_approved") == 1 && f.producer.count("post_published") == 2
	}, time.Second, 10*time.Millisecond)
}

func TestRejectSubmission(t *testing.T) {
	f := newFixture(t)
	sub := f.submit(t, "Not good", "")

	require.NoError(t, f.submissions.Reject(f.ctx, sub.ID, "  off topic "))
	stored, err := f.submissions.Get(f.ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.SubmissionRejected, stored.Status)
	assert.Equal(t, "off topic", stored.AdminNotes.String)

	// 重复拒绝是幂等的
	require.NoError(t, f.submissions.Reject(f.ctx, sub.ID, ""))

	_, err = f.submissions.Approve(f.ctx, sub.ID, f.operatorID)
	assert.ErrorIs(t, err, myErrors.ErrSubmissionNotPending)

	assert.ErrorIs(t, f.submissions.Reject(f.ctx, 9999, ""), commonerrors.ErrRepoNotFound)
}

func TestEditSubmission(t *testing.T) {
	f := newFixture(t)
	sub := f.submit(t, "Rough", "")

	edited, err := f.submissions.Edit(f.ctx, sub.ID, &dto.EditSubmissionForm{Title: " Polished ", Content: "better", Category: "Tech"})
	require.NoError(t, err)
	assert.Equal(t, "Polished", edited.Title)
	assert.Equal(t, "Tech", edited.Category)

	_, err = f.submissions.Edit(f.ctx, sub.ID, &dto.EditSubmissionForm{Title: "x", Content: "y", Category: "Nope"})
	assert.ErrorIs(t, err, myErrors.ErrUnknownCategory)

	post, err := f.submissions.Approve(f.ctx, sub.ID, f.operatorID)
	require.NoError(t, err)
	assert.Equal(t, "polished", post.SlugValue())

	// 审核后仍可编辑投稿，已发布的文章不受影响
	_, err = f.submissions.Edit(f.ctx, sub.ID, &dto.EditSubmissionForm{Title: "Later", Content: "z"})
	require.NoError(t, err)
	stored, err := f.posts.GetPostByID(f.ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Polished", stored.Title)

	_, err = f.submissions.Edit(f.ctx, 9999, &dto.EditSubmissionForm{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}
