package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/repo/mysql"
	"github.com/Xushengqwer/blog_service/repo/redis"
)

// PopularPostService 提供按浏览量排序的热门文章
type PopularPostService interface {
	// GetPopularPosts 优先读取 Redis 缓存的 ID 列表，未命中或未启用 Redis 时回源数据库。
	GetPopularPosts(ctx context.Context) ([]*entities.Post, error)
}

type popularPostService struct {
	cache     redis.PopularPostsCache // 可为 nil
	batchRepo mysql.PostBatchOperationsRepository
	limit     int
	logger    *zap.Logger
}

// NewPopularPostService 创建热门文章服务，cache 为 nil 表示未启用 Redis
func NewPopularPostService(cache redis.PopularPostsCache, batchRepo mysql.PostBatchOperationsRepository, limit int, logger *zap.Logger) PopularPostService {
	if limit <= 0 {
		limit = constant.DefaultPopularLimit
	}
	return &popularPostService{cache: cache, batchRepo: batchRepo, limit: limit, logger: logger}
}

func (s *popularPostService) GetPopularPosts(ctx context.Context) ([]*entities.Post, error) {
	ids, err := s.cachedIDs(ctx)
	if err != nil {
		ids, err = s.batchRepo.GetTopPostIDsByViews(ctx, s.limit)
		if err != nil {
			return nil, fmt.Errorf("查询热门文章失败: %w", err)
		}
	}
	if len(ids) > s.limit {
		ids = ids[:s.limit]
	}
	if len(ids) == 0 {
		return []*entities.Post{}, nil
	}
	posts, err := s.batchRepo.GetPostsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("批量获取热门文章失败: %w", err)
	}
	return posts, nil
}

func (s *popularPostService) cachedIDs(ctx context.Context) ([]uint64, error) {
	if s.cache == nil {
		return nil, myErrors.ErrCacheMiss
	}
	ids, err := s.cache.GetPopularPostIDs(ctx)
	if err != nil {
		if !errors.Is(err, myErrors.ErrCacheMiss) {
			s.logger.Warn("读取热门文章缓存失败，回源数据库", zap.Error(err))
		}
		return nil, err
	}
	return ids, nil
}
