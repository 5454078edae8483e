package mysql

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/models/entities"
)

// AttachmentRepository 文章附件的持久化操作
type AttachmentRepository interface {
	// CreateAttachments 批量插入附件，attachments 为空时直接返回
	CreateAttachments(ctx context.Context, db *gorm.DB, attachments []*entities.Attachment) error
	// DeleteByPostID 删除文章的全部附件，返回被删除的附件以便清理存储
	DeleteByPostID(ctx context.Context, db *gorm.DB, postID uint64) ([]*entities.Attachment, error)
}

type attachmentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAttachmentRepository(db *gorm.DB, logger *zap.Logger) AttachmentRepository {
	return &attachmentRepository{db: db, logger: logger}
}

func (r *attachmentRepository) CreateAttachments(ctx context.Context, db *gorm.DB, attachments []*entities.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Create(&attachments).Error; err != nil {
		r.logger.Error("批量插入附件失败", zap.Int("count", len(attachments)), zap.Error(err))
		return err
	}
	return nil
}

func (r *attachmentRepository) DeleteByPostID(ctx context.Context, db *gorm.DB, postID uint64) ([]*entities.Attachment, error) {
	var attachments []*entities.Attachment
	if err := db.WithContext(ctx).Where("post_id = ?", postID).Find(&attachments).Error; err != nil {
		r.logger.Error("查询文章附件失败", zap.Uint64("postID", postID), zap.Error(err))
		return nil, err
	}
	if len(attachments) == 0 {
		return nil, nil
	}
	if err := db.WithContext(ctx).Where("post_id = ?", postID).Delete(&entities.Attachment{}).Error; err != nil {
		r.logger.Error("删除文章附件失败", zap.Uint64("postID", postID), zap.Error(err))
		return nil, err
	}
	return attachments, nil
}
