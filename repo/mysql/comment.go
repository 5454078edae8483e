package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/models/entities"
)

// CommentRepository 评论的持久化操作
type CommentRepository interface {
	CreateComment(ctx context.Context, db *gorm.DB, comment *entities.Comment) error
	GetCommentByID(ctx context.Context, id uint64) (*entities.Comment, error)
	// ListTopLevel 返回文章的顶层评论 (parent_id IS NULL)，按创建时间倒序
	ListTopLevel(ctx context.Context, postID uint64) ([]*entities.Comment, error)
	// ListReplies 返回 parentIDs 下的全部回复，按创建时间正序
	ListReplies(ctx context.Context, parentIDs []uint64) ([]*entities.Comment, error)
}

type commentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCommentRepository(db *gorm.DB, logger *zap.Logger) CommentRepository {
	return &commentRepository{db: db, logger: logger}
}

func (r *commentRepository) CreateComment(ctx context.Context, db *gorm.DB, comment *entities.Comment) error {
	if err := db.WithContext(ctx).Create(comment).Error; err != nil {
		r.logger.Error("插入评论失败", zap.Uint64("postID", comment.PostID), zap.Error(err))
		return err
	}
	return nil
}

func (r *commentRepository) GetCommentByID(ctx context.Context, id uint64) (*entities.Comment, error) {
	var comment entities.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("查询评论失败", zap.Uint64("commentID", id), zap.Error(err))
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListTopLevel(ctx context.Context, postID uint64) ([]*entities.Comment, error) {
	var comments []*entities.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error
	if err != nil {
		r.logger.Error("查询顶层评论失败", zap.Uint64("postID", postID), zap.Error(err))
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) ListReplies(ctx context.Context, parentIDs []uint64) ([]*entities.Comment, error) {
	var replies []*entities.Comment
	if len(parentIDs) == 0 {
		return replies, nil
	}
	err := r.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("created_at ASC").Order("id ASC").
		Find(&replies).Error
	if err != nil {
		r.logger.Error("查询评论回复失败", zap.Int("parentCount", len(parentIDs)), zap.Error(err))
		return nil, err
	}
	return replies, nil
}
