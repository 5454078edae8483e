package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/repo/mysql"
	"github.com/Xushengqwer/blog_service/slug"
)

// eventTimeout 限制后台发送单个事件的时间
const eventTimeout = 10 * time.Second

// publishAsync 在后台 goroutine 中发送事件，失败只记录日志。
// 事件在事务提交之后发送，生命周期独立于原始请求。
func publishAsync(logger *zap.Logger, event string, send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			logger.Error("发送 Kafka 事件失败", zap.String("event", event), zap.Error(err))
			return
		}
		logger.Debug("成功发送 Kafka 事件", zap.String("event", event))
	}()
}

// slugWriter 为需要写入 slug 的事务分配唯一 slug。
// slug 在事务外计算 (只读查询)，事务内写入；唯一索引冲突时重新计算并重试。
type slugWriter struct {
	db       *gorm.DB
	postRepo mysql.PostRepository
	logger   *zap.Logger
}

// write 执行 fn，fn 在同一事务内完成全部写操作
func (w *slugWriter) write(ctx context.Context, title string, excludingID *uint64, fn func(tx *gorm.DB, slug string) error) (string, error) {
	for attempt := 1; attempt <= constant.SlugMaxAttempts; attempt++ {
		candidate, err := slug.EnsureUnique(ctx, title, w.postRepo, excludingID)
		if err != nil {
			return "", err
		}
		err = w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(tx, candidate)
		})
		if err == nil {
			return candidate, nil
		}
		if !mysql.IsDuplicateKey(err) {
			return "", err
		}
		w.logger.Warn("slug 写入时发生唯一约束冲突，重新生成",
			zap.String("slug", candidate),
			zap.Int("attempt", attempt))
	}
	return "", myErrors.ErrSlugExhausted
}

// categoryResolver 把用户输入的分类名映射为已存在的分类
type categoryResolver struct {
	categoryRepo mysql.CategoryRepository
}

// resolve 空值返回默认分类；分类不存在时 strict 返回 ValidationError，否则回退到默认分类
func (r *categoryResolver) resolve(ctx context.Context, name string, strict bool) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return constant.DefaultCategory, nil
	}
	exists, err := r.categoryRepo.ExistsByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("查询分类失败: %w", err)
	}
	if exists {
		return name, nil
	}
	if strict {
		return "", myErrors.NewValidationError(fmt.Sprintf("Unknown category: %s", name), myErrors.ErrUnknownCategory)
	}
	return constant.DefaultCategory, nil
}

// requireFields 对必填文本字段做非空检查
func requireFields(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return myErrors.NewValidationError(fmt.Sprintf("%s is required", f[0]), nil)
		}
	}
	return nil
}
