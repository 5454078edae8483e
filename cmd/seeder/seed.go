package main

import (
	"context"
	"sync/atomic"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/service"
)

type seedServices struct {
	posts       service.PostService
	submissions service.SubmissionService
	categories  service.CategoryService
	auth        service.AuthService
}

// Seed 通过服务层生成文章和待审核投稿，返回成功的数量。
// 单条失败只记录日志，不影响其他条目。
func Seed(ctx context.Context, svc seedServices, authorID uint64, numPosts, numSubmissions, concurrency int, logger *zap.Logger) (int, int) {
	if concurrency <= 0 {
		concurrency = 1
	}
	var postsOK, submissionsOK atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := 0; i < numPosts; i++ {
		g.Go(func() error {
			req := &dto.CreatePostRequest{
				Title:    fakeTitle(),
				Content:  gofakeit.Paragraph(3, 5, 20, "\n\n"),
				Category: randomCategory(),
				Featured: gofakeit.Number(1, 10) == 1,
				AuthorID: authorID,
			}
			post, err := svc.posts.CreatePost(gctx, req)
			if err != nil {
				logger.Error("创建文章失败", zap.Int("index", i), zap.String("title", req.Title), zap.Error(err))
				return nil
			}
			postsOK.Add(1)
			logger.Debug("成功创建文章", zap.Uint64("post_id", post.ID), zap.String("slug", post.Slug.String))
			return nil
		})
	}

	for i := 0; i < numSubmissions; i++ {
		g.Go(func() error {
			req := &dto.SubmitArticleRequest{
				AuthorName:  gofakeit.Name(),
				AuthorEmail: gofakeit.Email(),
				Title:       fakeTitle(),
				Content:     gofakeit.Paragraph(2, 4, 15, "\n\n"),
				Category:    randomCategory(),
			}
			submission, err := svc.submissions.Submit(gctx, req)
			if err != nil {
				logger.Error("创建投稿失败", zap.Int("index", i), zap.String("title", req.Title), zap.Error(err))
				return nil
			}
			submissionsOK.Add(1)
			logger.Debug("成功创建投稿", zap.Uint64("submission_id", submission.ID))
			return nil
		})
	}

	_ = g.Wait()
	return int(postsOK.Load()), int(submissionsOK.Load())
}

// fakeTitle 生成不带句号的标题
func fakeTitle() string {
	title := gofakeit.Sentence(gofakeit.Number(3, 8))
	if n := len(title); n > 0 && title[n-1] == '.' {
		title = title[:n-1]
	}
	return title
}

func randomCategory() string {
	return gofakeit.RandomString(constant.DefaultCategories)
}
