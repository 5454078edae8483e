package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/repo/mysql"
)

// SubscriberService 处理邮件订阅
type SubscriberService interface {
	// Subscribe 对同一邮箱幂等：已订阅时返回 created=false 且不报错。
	Subscribe(ctx context.Context, email string) (created bool, err error)
}

type subscriberService struct {
	subscriberRepo mysql.SubscriberRepository
	logger         *zap.Logger
}

func NewSubscriberService(subscriberRepo mysql.SubscriberRepository, logger *zap.Logger) SubscriberService {
	return &subscriberService{subscriberRepo: subscriberRepo, logger: logger}
}

func (s *subscriberService) Subscribe(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, myErrors.NewValidationError("Email is required", nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return false, myErrors.NewValidationError("Please provide a valid email address", err)
	}

	exists, err := s.subscriberRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("查询订阅者失败: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := s.subscriberRepo.CreateSubscriber(ctx, &entities.Subscriber{Email: email}); err != nil {
		// 预检查与插入之间被并发请求抢先，唯一索引兜底
		if mysql.IsDuplicateKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("保存订阅者失败: %w", err)
	}
	s.logger.Info("新增订阅者")
	return true, nil
}
