package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/enums"
	"github.com/Xushengqwer/blog_service/mq/producer"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/repo/mysql"
)

// SubmissionService 实现投稿审核流程：pending -> approved | rejected，两者均为终态。
type SubmissionService interface {
	// Submit 保存访客投稿，状态为 pending。未知分类回退到默认分类。
	Submit(ctx context.Context, req *dto.SubmitArticleRequest) (*entities.Submission, error)

	// Approve 把 pending 投稿发布为文章。
	// 文章写入与状态变更在同一事务中完成；非 pending 投稿返回 myErrors.ErrSubmissionNotPending。
	Approve(ctx context.Context, submissionID, actingUserID uint64) (*entities.Post, error)

	// Reject 拒绝投稿。已拒绝的投稿再次拒绝为空操作；已通过的投稿返回 ErrSubmissionNotPending。
	Reject(ctx context.Context, submissionID uint64, adminNotes string) error

	// Edit 修改投稿的标题、正文与分类，任何状态下都允许。
	Edit(ctx context.Context, submissionID uint64, form *dto.EditSubmissionForm) (*entities.Submission, error)

	Get(ctx context.Context, submissionID uint64) (*entities.Submission, error)
}

type submissionService struct {
	db             *gorm.DB
	submissionRepo mysql.SubmissionRepository
	postRepo       mysql.PostRepository
	producer       producer.EventProducer
	slugs          *slugWriter
	categories     *categoryResolver
	logger         *zap.Logger
}

func NewSubmissionService(
	db *gorm.DB,
	submissionRepo mysql.SubmissionRepository,
	postRepo mysql.PostRepository,
	categoryRepo mysql.CategoryRepository,
	eventProducer producer.EventProducer,
	logger *zap.Logger,
) SubmissionService {
	return &submissionService{
		db:             db,
		submissionRepo: submissionRepo,
		postRepo:       postRepo,
		producer:       eventProducer,
		slugs:          &slugWriter{db: db, postRepo: postRepo, logger: logger},
		categories:     &categoryResolver{categoryRepo: categoryRepo},
		logger:         logger,
	}
}

func (s *submissionService) Submit(ctx context.Context, req *dto.SubmitArticleRequest) (*entities.Submission, error) {
	if err := requireFields(
		[2]string{"Name", req.AuthorName},
		[2]string{"Email", req.AuthorEmail},
		[2]string{"Title", req.Title},
		[2]string{"Content", req.Content},
	); err != nil {
		return nil, err
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.AuthorEmail)); err != nil {
		return nil, myErrors.NewValidationError("Please provide a valid email address", err)
	}
	category, err := s.categories.resolve(ctx, req.Category, false)
	if err != nil {
		return nil, err
	}

	submission := &entities.Submission{
		AuthorName:  strings.TrimSpace(req.AuthorName),
		AuthorEmail: strings.TrimSpace(req.AuthorEmail),
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		Category:    category,
		ImageURL:    nullString(req.ImageURL),
		Status:      enums.SubmissionPending,
	}
	if err := s.submissionRepo.CreateSubmission(ctx, s.db, submission); err != nil {
		return nil, fmt.Errorf("保存投稿失败: %w", err)
	}
	s.logger.Info("收到新投稿", zap.Uint64("submissionID", submission.ID), zap.String("title", submission.Title))

	publishAsync(s.logger, "submission_received", func(ctx context.Context) error {
		return s.producer.SendSubmissionReceivedEvent(ctx, submission)
	})
	return submission, nil
}

func (s *submissionService) Approve(ctx context.Context, submissionID, actingUserID uint64) (*entities.Post, error) {
	if actingUserID == 0 {
		return nil, myErrors.NewValidationError("Operator is required", nil)
	}
	submission, err := s.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.Status != enums.SubmissionPending {
		s.logger.Warn("尝试审核非 pending 投稿",
			zap.Uint64("submissionID", submissionID),
			zap.String("status", submission.Status.String()))
		return nil, myErrors.ErrSubmissionNotPending
	}

	post := &entities.Post{
		Title:           submission.Title,
		Content:         submission.Content,
		Category:        submission.Category,
		ImageURL:        submission.ImageURL,
		AuthorID:        actingUserID,
		ContributorName: sql.NullString{String: submission.AuthorName, Valid: submission.AuthorName != ""},
	}
	_, err = s.slugs.write(ctx, submission.Title, nil, func(tx *gorm.DB, slug string) error {
		// 条件更新兜住并发审核：只有一个请求能把 pending 改为 approved
		ok, err := s.submissionRepo.TransitionStatus(ctx, tx, submissionID, enums.SubmissionPending, enums.SubmissionApproved, nil)
		if err != nil {
			return err
		}
		if !ok {
			return myErrors.ErrSubmissionNotPending
		}
		post.ID = 0
		post.Slug = sql.NullString{String: slug, Valid: true}
		return s.postRepo.CreatePost(ctx, tx, post)
	})
	if err != nil {
		if errors.Is(err, myErrors.ErrSubmissionNotPending) {
			return nil, err
		}
		s.logger.Error("审核通过投稿失败", zap.Uint64("submissionID", submissionID), zap.Error(err))
		return nil, fmt.Errorf("审核通过投稿失败: %w", err)
	}

	s.logger.Info("投稿已发布为文章",
		zap.Uint64("submissionID", submissionID),
		zap.Uint64("postID", post.ID),
		zap.String("slug", post.SlugValue()))

	postID := post.ID
	publishAsync(s.logger, "submission_reviewed", func(ctx context.Context) error {
		return s.producer.SendSubmissionReviewedEvent(ctx, submissionID, enums.SubmissionApproved, &postID)
	})
	publishAsync(s.logger, "post_published", func(ctx context.Context) error {
		return s.producer.SendPostPublishedEvent(ctx, post, &submissionID)
	})
	return post, nil
}

func (s *submissionService) Reject(ctx context.Context, submissionID uint64, adminNotes string) error {
	var notes *string
	if trimmed := strings.TrimSpace(adminNotes); trimmed != "" {
		notes = &trimmed
	}

	ok, err := s.submissionRepo.TransitionStatus(ctx, s.db, submissionID, enums.SubmissionPending, enums.SubmissionRejected, notes)
	if err != nil {
		return fmt.Errorf("拒绝投稿失败: %w", err)
	}
	if !ok {
		submission, err := s.Get(ctx, submissionID)
		if err != nil {
			return err
		}
		if submission.Status == enums.SubmissionRejected {
			return nil
		}
		return myErrors.ErrSubmissionNotPending
	}

	s.logger.Info("投稿已拒绝", zap.Uint64("submissionID", submissionID))
	publishAsync(s.logger, "submission_reviewed", func(ctx context.Context) error {
		return s.producer.SendSubmissionReviewedEvent(ctx, submissionID, enums.SubmissionRejected, nil)
	})
	return nil
}

func (s *submissionService) Edit(ctx context.Context, submissionID uint64, form *dto.EditSubmissionForm) (*entities.Submission, error) {
	submission, err := s.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := requireFields([2]string{"Title", form.Title}, [2]string{"Content", form.Content}); err != nil {
		return nil, err
	}
	category, err := s.categories.resolve(ctx, form.Category, true)
	if err != nil {
		return nil, err
	}

	submission.Title = strings.TrimSpace(form.Title)
	submission.Content = form.Content
	submission.Category = category
	if err := s.submissionRepo.UpdateSubmissionFields(ctx, s.db, submissionID, submission.Title, submission.Content, submission.Category); err != nil {
		return nil, fmt.Errorf("编辑投稿失败: %w", err)
	}
	s.logger.Info("投稿已编辑", zap.Uint64("submissionID", submissionID), zap.String("status", submission.Status.String()))
	return submission, nil
}

func (s *submissionService) Get(ctx context.Context, submissionID uint64) (*entities.Submission, error) {
	submission, err := s.submissionRepo.GetSubmissionByID(ctx, s.db, submissionID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("投稿不存在", zap.Uint64("submissionID", submissionID))
		}
		return nil, err
	}
	return submission, nil
}
