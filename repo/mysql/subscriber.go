package mysql

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/models/entities"
)

type SubscriberRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// CreateSubscriber 邮箱重复时返回的错误满足 IsDuplicateKey
	CreateSubscriber(ctx context.Context, subscriber *entities.Subscriber) error
	ListSubscribers(ctx context.Context) ([]*entities.Subscriber, error)
}

type subscriberRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSubscriberRepository(db *gorm.DB, logger *zap.Logger) SubscriberRepository {
	return &subscriberRepository{db: db, logger: logger}
}

func (r *subscriberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Subscriber{}).Where("email = ?", email).Count(&count).Error; err != nil {
		r.logger.Error("查询订阅者失败", zap.Error(err))
		return false, err
	}
	return count > 0, nil
}

func (r *subscriberRepository) CreateSubscriber(ctx context.Context, subscriber *entities.Subscriber) error {
	err := r.db.WithContext(ctx).Create(subscriber).Error
	if err != nil && !IsDuplicateKey(err) {
		r.logger.Error("插入订阅者失败", zap.Error(err))
	}
	return err
}

func (r *subscriberRepository) ListSubscribers(ctx context.Context) ([]*entities.Subscriber, error) {
	var subscribers []*entities.Subscriber
	if err := r.db.WithContext(ctx).Order("subscribed_at DESC").Order("id DESC").Find(&subscribers).Error; err != nil {
		r.logger.Error("查询订阅者列表失败", zap.Error(err))
		return nil, err
	}
	return subscribers, nil
}
