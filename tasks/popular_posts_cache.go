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

// PopularPostsCacheTask 定时按浏览量重算热门文章榜单并写入 Redis。
type PopularPostsCacheTask struct {
	cache     redis.PopularPostsCache
	batchRepo mysql.PostBatchOperationsRepository
	cron      *cron.Cron
	schedule  string
	limit     int
	ttl       time.Duration
	logger    *zap.Logger
}

// NewPopularPostsCacheTask 初始化并启动热门文章缓存刷新任务。
func NewPopularPostsCacheTask(
	cache redis.PopularPostsCache,
	batchRepo mysql.PostBatchOperationsRepository,
	cfg config.PopularPostsConfig,
	logger *zap.Logger,
) (*PopularPostsCacheTask, error) {
	task := &PopularPostsCacheTask{
		cache:     cache,
		batchRepo: batchRepo,
		cron:      cron.New(),
		schedule:  cfg.Schedule,
		limit:     cfg.Limit,
		ttl:       time.Duration(cfg.TTLMin) * time.Minute,
		logger:    logger,
	}
	if task.schedule == "" {
		task.schedule = constant.RefreshPopularPostsSpec
	}
	if task.limit <= 0 {
		task.limit = constant.DefaultPopularLimit
	}
	if task.ttl <= 0 {
		// 比调度周期长，任务偶尔失败时榜单仍可用
		task.ttl = 30 * time.Minute
	}
	if err := task.startCronJob(); err != nil {
		return nil, err
	}
	return task, nil
}

func (t *PopularPostsCacheTask) startCronJob() error {
	t.logger.Info("准备启动热门文章缓存刷新定时任务", zap.String("schedule", t.schedule))

	entryID, err := t.cron.AddFunc(t.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := t.RunOnce(ctx); err != nil {
			t.logger.Error("刷新热门文章缓存失败", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("添加热门文章缓存 cron 作业失败 (schedule=%s): %w", t.schedule, err)
	}

	t.cron.Start()
	t.logger.Info("热门文章缓存刷新定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
	return nil
}

// RunOnce 重算一次榜单。启动时调用一次，避免首个调度周期内缓存为空。
func (t *PopularPostsCacheTask) RunOnce(ctx context.Context) error {
	ids, err := t.batchRepo.GetTopPostIDsByViews(ctx, t.limit)
	if err != nil {
		return fmt.Errorf("查询热门文章 ID 失败: %w", err)
	}
	if err := t.cache.SetPopularPostIDs(ctx, ids, t.ttl); err != nil {
		return err
	}
	t.logger.Debug("热门文章缓存已刷新", zap.Int("count", len(ids)))
	return nil
}

// Stop 停止调度，返回的 context 在正在执行的任务结束后关闭。
func (t *PopularPostsCacheTask) Stop() context.Context {
	t.logger.Info("正在停止热门文章缓存刷新定时任务...")
	return t.cron.Stop()
}
