package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/myErrors"
)

// PopularPostsCache 缓存按浏览量排序的热门文章 ID
type PopularPostsCache interface {
	SetPopularPostIDs(ctx context.Context, ids []uint64, ttl time.Duration) error
	// GetPopularPostIDs 缓存不存在时返回 myErrors.ErrCacheMiss
	GetPopularPostIDs(ctx context.Context) ([]uint64, error)
}

type popularPostsCache struct {
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewPopularPostsCache(redisClient *redis.Client, logger *zap.Logger) PopularPostsCache {
	return &popularPostsCache{redisClient: redisClient, logger: logger}
}

func (c *popularPostsCache) SetPopularPostIDs(ctx context.Context, ids []uint64, ttl time.Duration) error {
	payload, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("序列化热门文章 ID 失败: %w", err)
	}
	if err := c.redisClient.Set(ctx, constant.PopularPostsKey, payload, ttl).Err(); err != nil {
		c.logger.Error("写入热门文章缓存失败", zap.Error(err))
		return fmt.Errorf("写入热门文章缓存失败: %w", err)
	}
	c.logger.Debug("热门文章缓存已刷新", zap.Int("count", len(ids)))
	return nil
}

func (c *popularPostsCache) GetPopularPostIDs(ctx context.Context) ([]uint64, error) {
	raw, err := c.redisClient.Get(ctx, constant.PopularPostsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, myErrors.ErrCacheMiss
		}
		c.logger.Error("读取热门文章缓存失败", zap.Error(err))
		return nil, fmt.Errorf("读取热门文章缓存失败: %w", err)
	}
	var ids []uint64
	if err := json.Unmarshal(raw, &ids); err != nil {
		c.logger.Warn("热门文章缓存内容损坏，视为未命中", zap.Error(err))
		return nil, myErrors.ErrCacheMiss
	}
	return ids, nil
}
