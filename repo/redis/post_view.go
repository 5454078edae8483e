package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/constant"
)

// PostViewRepository 定义了文章浏览计数相关的 Redis 操作接口。
// Redis 只保存自上次同步以来的增量，定时任务把增量写回数据库。
type PostViewRepository interface {
	// RecordView 为 viewerKey 记录一次对 postID 的浏览。
	// 同一访客在 constant.ViewerDedupeTTL 内重复浏览不计数，返回 counted=false。
	RecordView(ctx context.Context, postID uint64, viewerKey string) (counted bool, err error)

	// DrainViewCounts 使用 SCAN 遍历全部增量计数器并用 GETDEL 原子取走。
	// 返回 文章ID -> 增量；取走后的计数器从 0 重新开始。
	DrainViewCounts(ctx context.Context) (map[uint64]int64, error)
}

type postViewRepository struct {
	redisClient *redis.Client
	logger      *zap.Logger
	viewSyncCfg config.ViewSyncConfig
	dedupeTTL   time.Duration
}

// 去重标记与计数器在同一脚本中更新，保证“标记成功才计数”。
var recordViewScript = redis.NewScript(`
if redis.call("SET", KEYS[1], "1", "NX", "EX", ARGV[1]) then
    return redis.call("INCR", KEYS[2])
end
return 0
`)

func NewPostViewRepository(redisClient *redis.Client, logger *zap.Logger, viewSyncCfg config.ViewSyncConfig) PostViewRepository {
	return &postViewRepository{
		redisClient: redisClient,
		logger:      logger,
		viewSyncCfg: viewSyncCfg,
		dedupeTTL:   constant.ViewerDedupeTTL,
	}
}

func (r *postViewRepository) RecordView(ctx context.Context, postID uint64, viewerKey string) (bool, error) {
	viewerRedisKey := fmt.Sprintf("%s%d:%s", constant.PostViewerPrefix, postID, viewerKey)
	viewCountKey := fmt.Sprintf("%s%d", constant.PostViewCountPrefix, postID)

	n, err := recordViewScript.Run(ctx, r.redisClient,
		[]string{viewerRedisKey, viewCountKey},
		int64(r.dedupeTTL/time.Second),
	).Int64()
	if err != nil {
		r.logger.Error("Lua 脚本执行失败：记录文章浏览", zap.Uint64("postID", postID), zap.Error(err))
		return false, fmt.Errorf("记录文章浏览失败 (PostID: %d): %w", postID, err)
	}
	if n == 0 {
		r.logger.Debug("访客已在去重窗口内浏览过，跳过计数", zap.Uint64("postID", postID))
		return false, nil
	}
	return true, nil
}

func (r *postViewRepository) DrainViewCounts(ctx context.Context) (map[uint64]int64, error) {
	viewCounts := make(map[uint64]int64)
	var cursor uint64
	matchPattern := constant.PostViewCountPrefix + "*"
	scanCount := r.viewSyncCfg.ScanBatchSize
	if scanCount <= 0 {
		scanCount = 1000
	}

	startTime := time.Now()
	for {
		keys, nextCursor, err := r.redisClient.Scan(ctx, cursor, matchPattern, scanCount).Result()
		if err != nil {
			r.logger.Error("执行 Redis SCAN 命令失败", zap.Error(err), zap.Uint64("cursor", cursor))
			return nil, fmt.Errorf("扫描 Redis Keys 失败 (模式: %s): %w", matchPattern, err)
		}

		if len(keys) > 0 {
			pipe := r.redisClient.Pipeline()
			cmds := make([]*redis.StringCmd, len(keys))
			for i, key := range keys {
				cmds[i] = pipe.GetDel(ctx, key)
			}
			if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
				r.logger.Error("批量 GETDEL 浏览量计数器失败", zap.Error(err), zap.Int("keys", len(keys)))
				return nil, fmt.Errorf("批量取走浏览量失败 (%d keys): %w", len(keys), err)
			}

			for i, key := range keys {
				postID, parseErr := strconv.ParseUint(strings.TrimPrefix(key, constant.PostViewCountPrefix), 10, 64)
				if parseErr != nil {
					r.logger.Error("从 Redis Key 解析 PostID 失败，已跳过该 Key", zap.String("key", key), zap.Error(parseErr))
					continue
				}
				val, getErr := cmds[i].Result()
				if getErr != nil {
					// 计数器在 SCAN 与 GETDEL 之间已被其它实例取走
					continue
				}
				count, parseErr := strconv.ParseInt(val, 10, 64)
				if parseErr != nil {
					r.logger.Error("解析 Redis 中的浏览量值失败", zap.String("key", key), zap.String("value", val), zap.Error(parseErr))
					continue
				}
				viewCounts[postID] += count
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	r.logger.Info("完成取走 Redis 浏览量增量",
		zap.Int("posts", len(viewCounts)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return viewCounts, nil
}
