package service

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/myErrors"
)

func (f *fixture) createPost(t *testing.T, title, category string) *entities.Post {
	t.Helper()
	post, err := f.posts.CreatePost(f.ctx, &dto.CreatePostRequest{
		Title:    title,
		Content:  "content of " + title,
		Category: category,
		AuthorID: f.operatorID,
	})
	require.NoError(t, err)
	return post
}

func TestCreatePostSlugs(t *testing.T) {
	f := newFixture(t)

	first := f.createPost(t, "Hello, World!", "")
	second := f.createPost(t, "hello world", "Tech")
	third := f.createPost(t, "!!!", "")

	assert.Equal(t, "hello-world", first.SlugValue())
	assert.Equal(t, "hello-world-1", second.SlugValue())
	assert.Equal(t, "-1", third.SlugValue())
	assert.Equal(t, constant.DefaultCategory, first.Category)
	assert.Equal(t, "Tech", second.Category)

	assert.Eventually(t, func() bool { return f.producer.count("post_published") == 3 }, time.Second, 10*time.Millisecond)
}

func TestCreatePostValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.posts.CreatePost(f.ctx, &dto.CreatePostRequest{Title: "T", Content: "C", Category: "Nope", AuthorID: f.operatorID})
	assert.ErrorIs(t, err, myErrors.ErrUnknownCategory)
	assert.True(t, myErrors.IsValidation(err))

	_, err = f.posts.CreatePost(f.ctx, &dto.CreatePostRequest{Title: "T", Content: "C"})
	assert.True(t, myErrors.IsValidation(err), "author is required")

	// 校验失败时已经保存的上传文件会被清理
	ref, err := f.uploads.Accept(f.ctx, formFile(t, "cover.png", "img"), constant.UploadSubdirImages)
	require.NoError(t, err)
	_, err = f.posts.CreatePost(f.ctx, &dto.CreatePostRequest{Title: "  ", Content: "C", ImageURL: ref, AuthorID: f.operatorID})
	assert.True(t, myErrors.IsValidation(err))
	_, statErr := os.Stat(filepath.Join(f.uploadRoot, filepath.FromSlash(ref)))
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreatePostWithAttachmentsAndDelete(t *testing.T) {
	f := newFixture(t)

	var files []dto.UploadedFile
	for _, name := range []string{"a.pdf", "b.docx"} {
		ref, err := f.uploads.Accept(f.ctx, formFile(t, name, name), constant.UploadSubdirAttachments)
		require.NoError(t, err)
		files = append(files, dto.UploadedFile{OriginalName: name, Ref: ref})
	}
	post, err := f.posts.CreatePost(f.ctx, &dto.CreatePostRequest{
		Title: "With files", Content: "body", AuthorID: f.operatorID, Attachments: files,
	})
	require.NoError(t, err)

	got, err := f.posts.GetPostBySlug(f.ctx, "with-files", "")
	require.NoError(t, err)
	require.Len(t, got.Attachments, 2)
	assert.Equal(t, "a.pdf", got.Attachments[0].Filename)

	comment, err := f.comments.AddTopLevelComment(f.ctx, post.ID, "Ann", "ann@example.com", "nice")
	require.NoError(t, err)
	require.NotNil(t, comment)

	require.NoError(t, f.posts.DeletePost(f.ctx, post.ID))

	var attachments int64
	require.NoError(t, f.db.Model(&entities.Attachment{}).Where("post_id = ?", post.ID).Count(&attachments).Error)
	assert.Zero(t, attachments)
	for _, file := range files {
		_, statErr := os.Stat(filepath.Join(f.uploadRoot, filepath.FromSlash(file.Ref)))
		assert.True(t, os.IsNotExist(statErr), file.Ref)
	}

	// 评论不级联删除，仍可按 ID 查询
	orphan, err := f.comments.GetComment(f.ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, orphan.PostID)

	assert.ErrorIs(t, f.posts.DeletePost(f.ctx, post.ID), commonerrors.ErrRepoNotFound)
	assert.Eventually(t, func() bool { return f.producer.count("post_deleted") == 1 }, time.Second, 10*time.Millisecond)
}

func TestEditPost(t *testing.T) {
	f := newFixture(t)
	a := f.createPost(t, "Alpha", "")
	b := f.createPost(t, "Beta", "")

	edited, err := f.posts.EditPost(f.ctx, a.ID, &dto.EditPostRequest{Title: "Alpha", Content: "new", Category: "Business", Featured: true})
	require.NoError(t, err)
	assert.Equal(t, "alpha", edited.SlugValue(), "unchanged title keeps its own slug")
	assert.True(t, edited.Featured)

	edited, err = f.posts.EditPost(f.ctx, b.ID, &dto.EditPostRequest{Title: "Alpha", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "alpha-1", edited.SlugValue())

	image := "uploads/new.png"
	edited, err = f.posts.EditPost(f.ctx, a.ID, &dto.EditPostRequest{Title: "Alpha Prime", Content: "x", ImageURL: &image})
	require.NoError(t, err)
	assert.Equal(t, "alpha-prime", edited.SlugValue())
	assert.Equal(t, image, edited.ImageURL.String)

	stored, err := f.posts.GetPostByID(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alpha-prime", stored.SlugValue())
	assert.Equal(t, constant.DefaultCategory, stored.Category)

	_, err = f.posts.EditPost(f.ctx, 9999, &dto.EditPostRequest{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

func TestGetPostBySlugCountsViews(t *testing.T) {
	f := newFixture(t)
	f.createPost(t, "Counted", "")

	_, err := f.posts.GetPostBySlug(f.ctx, "counted", "")
	require.NoError(t, err)
	got, err := f.posts.GetPostBySlug(f.ctx, "counted", "visitor-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Views)

	_, err = f.posts.GetPostBySlug(f.ctx, "missing", "visitor-1")
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

func TestBackfillSlugs(t *testing.T) {
	f := newFixture(t)
	f.createPost(t, "Legacy", "")
	for i := 0; i < 2; i++ {
		require.NoError(t, f.db.Create(&entities.Post{
			Title: "Legacy", Content: "old", Category: constant.DefaultCategory,
			AuthorID: f.operatorID, Slug: sql.NullString{},
		}).Error)
	}

	n, err := f.posts.BackfillSlugs(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var slugs []string
	require.NoError(t, f.db.Model(&entities.Post{}).Order("id ASC").Pluck("slug", &slugs).Error)
	assert.Equal(t, []string{"legacy", "legacy-1", "legacy-2"}, slugs)

	n, err = f.posts.BackfillSlugs(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListPostsAndSearch(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 7; i++ {
		f.createPost(t, "Tech post "+string(rune('A'+i)), "Tech")
	}
	featured, err := f.posts.CreatePost(f.ctx, &dto.CreatePostRequest{
		Title: "Markets 100% up", Content: "growth", Category: "Business", Featured: true, AuthorID: f.operatorID,
	})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&entities.Post{}).Where("id = ?", featured.ID).Update("views", 50).Error)

	page, err := f.lists.ListPosts(f.ctx, &dto.ListPostsQuery{Category: "Tech"})
	require.NoError(t, err)
	assert.Len(t, page.Posts, constant.DefaultPageSize)
	assert.True(t, page.HasNext)
	assert.Empty(t, page.Featured, "featured only on the unfiltered listing")
	assert.Equal(t, "Tech post G", page.Posts[0].Title)

	page, err = f.lists.ListPosts(f.ctx, &dto.ListPostsQuery{Category: "Tech", Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 1)
	assert.False(t, page.HasNext)

	page, err = f.lists.ListPosts(f.ctx, &dto.ListPostsQuery{})
	require.NoError(t, err)
	require.Len(t, page.Featured, 1)
	assert.Equal(t, featured.ID, page.Featured[0].ID)
	require.NotEmpty(t, page.Popular)
	assert.Equal(t, featured.ID, page.Popular[0].ID)
	assert.LessOrEqual(t, len(page.Popular), 3)

	page, err = f.lists.ListPosts(f.ctx, &dto.ListPostsQuery{LoadMore: true, Page: 2})
	require.NoError(t, err)
	assert.Nil(t, page.Featured)
	assert.Nil(t, page.Popular)
	assert.Len(t, page.Posts, 2)

	res, err := f.lists.Search(f.ctx, "100%")
	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, featured.ID, res.Posts[0].ID)

	res, err = f.lists.Search(f.ctx, "TECH POST")
	require.NoError(t, err)
	assert.Len(t, res.Posts, 7)

	res, err = f.lists.Search(f.ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, res.Posts)
}
