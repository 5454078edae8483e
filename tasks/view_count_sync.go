package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/repo/mysql"
	"github.com/Xushengqwer/blog_service/repo/redis"
)

// ViewCountSyncTask 负责定时将 Redis 中累积的文章浏览量增量写回数据库。
type ViewCountSyncTask struct {
	postViewRepo  redis.PostViewRepository            // 取走 (GETDEL) 浏览量增量
	postBatchRepo mysql.PostBatchOperationsRepository // 批量累加到 posts.views
	cron          *cron.Cron
	schedule      string
	logger        *zap.Logger
}

// NewViewCountSyncTask 初始化并启动浏览量同步的定时任务。
// 调度表达式无效时返回错误。
func NewViewCountSyncTask(
	postViewRepo redis.PostViewRepository,
	postBatchRepo mysql.PostBatchOperationsRepository,
	cfg config.ViewSyncConfig,
	logger *zap.Logger,
) (*ViewCountSyncTask, error) {
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = constant.SyncViewCountInterval
	}
	task := &ViewCountSyncTask{
		postViewRepo:  postViewRepo,
		postBatchRepo: postBatchRepo,
		cron:          cron.New(),
		schedule:      schedule,
		logger:        logger,
	}
	if err := task.startCronJob(); err != nil {
		return nil, err
	}
	return task, nil
}

func (t *ViewCountSyncTask) startCronJob() error {
	t.logger.Info("准备启动文章浏览量同步定时任务", zap.String("schedule", t.schedule))

	entryID, err := t.cron.AddFunc(t.schedule, func() {
		startTime := time.Now()
		// 单次执行的超时需覆盖 Redis 扫描与数据库批量更新
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		n, err := t.RunOnce(ctx)
		if err != nil {
			t.logger.Error("文章浏览量同步失败", zap.Error(err), zap.Int("posts", n))
			return
		}
		t.logger.Info("文章浏览量同步任务执行完毕",
			zap.Int("posts", n),
			zap.Duration("duration", time.Since(startTime)))
	})
	if err != nil {
		return fmt.Errorf("添加浏览量同步 cron 作业失败 (schedule=%s): %w", t.schedule, err)
	}

	t.cron.Start()
	t.logger.Info("文章浏览量同步定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
	return nil
}

// RunOnce 执行一次同步，返回写回的文章数量。
// 增量在 Redis 中被取走后才写库；写库失败的增量会丢失，浏览量只是近似值。
func (t *ViewCountSyncTask) RunOnce(ctx context.Context) (int, error) {
	deltas, err := t.postViewRepo.DrainViewCounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("从 Redis 取走浏览量增量失败: %w", err)
	}
	if len(deltas) == 0 {
		t.logger.Debug("没有需要同步的浏览量增量")
		return 0, nil
	}
	if err := t.postBatchRepo.BatchAddPostViews(ctx, deltas); err != nil {
		return len(deltas), fmt.Errorf("批量写回浏览量失败: %w", err)
	}
	return len(deltas), nil
}

// Stop 停止调度，返回的 context 在正在执行的任务结束后关闭。
func (t *ViewCountSyncTask) Stop() context.Context {
	t.logger.Info("正在停止文章浏览量同步定时任务...")
	return t.cron.Stop()
}
