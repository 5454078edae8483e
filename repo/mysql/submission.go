package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/enums"
)

// SubmissionRepository 投稿的持久化操作
type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, db *gorm.DB, submission *entities.Submission) error

	// GetSubmissionByID 未找到时返回 commonerrors.ErrRepoNotFound
	GetSubmissionByID(ctx context.Context, db *gorm.DB, id uint64) (*entities.Submission, error)

	// TransitionStatus 以条件更新的方式把状态从 from 改为 to。
	// 返回 false 表示当前状态不是 from (或记录不存在)，调用方据此判断是否发生并发审核。
	// notes 非 nil 时同时写入 admin_notes。
	TransitionStatus(ctx context.Context, db *gorm.DB, id uint64, from, to enums.SubmissionStatus, notes *string) (bool, error)

	// UpdateSubmissionFields 修改标题、正文与分类，不限制当前状态。
	UpdateSubmissionFields(ctx context.Context, db *gorm.DB, id uint64, title, content, category string) error

	// ListSubmissions 按投稿时间倒序返回全部投稿
	ListSubmissions(ctx context.Context) ([]*entities.Submission, error)

	ReassignCategory(ctx context.Context, db *gorm.DB, from, to string) (int64, error)
}

type submissionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSubmissionRepository(db *gorm.DB, logger *zap.Logger) SubmissionRepository {
	return &submissionRepository{db: db, logger: logger}
}

func (r *submissionRepository) CreateSubmission(ctx context.Context, db *gorm.DB, submission *entities.Submission) error {
	if submission.Status == "" {
		submission.Status = enums.SubmissionPending
	}
	if err := db.WithContext(ctx).Create(submission).Error; err != nil {
		r.logger.Error("插入投稿失败", zap.String("title", submission.Title), zap.Error(err))
		return err
	}
	return nil
}

func (r *submissionRepository) GetSubmissionByID(ctx context.Context, db *gorm.DB, id uint64) (*entities.Submission, error) {
	var submission entities.Submission
	if err := db.WithContext(ctx).First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("查询投稿失败", zap.Uint64("submissionID", id), zap.Error(err))
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) TransitionStatus(ctx context.Context, db *gorm.DB, id uint64, from, to enums.SubmissionStatus, notes *string) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if notes != nil {
		updates["admin_notes"] = sql.NullString{String: *notes, Valid: *notes != ""}
	}
	result := db.WithContext(ctx).Model(&entities.Submission{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("更新投稿状态失败",
			zap.Uint64("submissionID", id),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
			zap.Error(result.Error),
		)
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *submissionRepository) UpdateSubmissionFields(ctx context.Context, db *gorm.DB, id uint64, title, content, category string) error {
	err := db.WithContext(ctx).Model(&entities.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "content": content, "category": category}).Error
	if err != nil {
		r.logger.Error("编辑投稿失败", zap.Uint64("submissionID", id), zap.Error(err))
	}
	return err
}

func (r *submissionRepository) ListSubmissions(ctx context.Context) ([]*entities.Submission, error) {
	var submissions []*entities.Submission
	if err := r.db.WithContext(ctx).Order("submitted_at DESC").Order("id DESC").Find(&submissions).Error; err != nil {
		r.logger.Error("查询投稿列表失败", zap.Error(err))
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) ReassignCategory(ctx context.Context, db *gorm.DB, from, to string) (int64, error) {
	result := db.WithContext(ctx).Model(&entities.Submission{}).Where("category = ?", from).Update("category", to)
	if result.Error != nil {
		r.logger.Error("重新归类投稿失败", zap.String("from", from), zap.String("to", to), zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
