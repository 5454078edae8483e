package mysql

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/models/entities"
)

// PostBatchOperationsRepository 为浏览量同步与热门文章缓存提供批量数据库操作。
type PostBatchOperationsRepository interface {
	// BatchAddPostViews 把 Redis 中累积的浏览量增量并发地分批累加到 posts.views。
	// 部分批次失败不会中断其它批次，失败信息聚合后返回。
	BatchAddPostViews(ctx context.Context, deltas map[uint64]int64) error

	// GetTopPostIDsByViews 返回浏览量最高的文章 ID，按浏览量降序。
	GetTopPostIDsByViews(ctx context.Context, limit int) ([]uint64, error)

	// GetPostsByIDs 批量获取文章，结果顺序与 ids 一致，不存在的 ID 被跳过。
	GetPostsByIDs(ctx context.Context, ids []uint64) ([]*entities.Post, error)
}

type postBatchOperationsRepository struct {
	db          *gorm.DB
	logger      *zap.Logger
	viewSyncCfg config.ViewSyncConfig
}

func NewPostBatchOperationsRepository(db *gorm.DB, logger *zap.Logger, viewSyncCfg config.ViewSyncConfig) PostBatchOperationsRepository {
	return &postBatchOperationsRepository{db: db, logger: logger, viewSyncCfg: viewSyncCfg}
}

// deltaItem 是单篇文章的浏览量增量
type deltaItem struct {
	ID    uint64
	Delta int64
}

// BatchAddPostViews 把浏览量增量分批写回 posts.views。
// 批次之间互不影响，最多 ConcurrencyLevel 个批次同时执行；任一批次失败时返回汇总错误，
// 已成功的批次不回滚。
func (r *postBatchOperationsRepository) BatchAddPostViews(ctx context.Context, deltas map[uint64]int64) error {
	items := make([]deltaItem, 0, len(deltas))
	for id, delta := range deltas {
		if delta != 0 {
			items = append(items, deltaItem{ID: id, Delta: delta})
		}
	}
	if len(items) == 0 {
		r.logger.Debug("没有需要写回的浏览量增量")
		return nil
	}

	batchSize := r.viewSyncCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	concurrency := max(r.viewSyncCfg.ConcurrencyLevel, 1)
	batches := chunkDeltas(items, batchSize)

	var (
		mu     sync.Mutex
		failed []string
	)
	start := time.Now()
	g := new(errgroup.Group)
	g.SetLimit(concurrency)
	for i, batch := range batches {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := r.processBatch(ctx, batch, i); err != nil {
				mu.Lock()
				failed = append(failed, err.Error())
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	r.logger.Info("浏览量增量写回完成",
		zap.Int("文章数", len(items)),
		zap.Int("批次数", len(batches)),
		zap.Int("失败批次数", len(failed)),
		zap.Duration("耗时", time.Since(start)))
	if len(failed) > 0 {
		return fmt.Errorf("批量写回浏览量时发生错误 (%d / %d 个批次失败): %s", len(failed), len(batches), strings.Join(failed, "; "))
	}
	return ctx.Err()
}

func chunkDeltas(items []deltaItem, size int) [][]deltaItem {
	batches := make([][]deltaItem, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		batches = append(batches, items[start:min(start+size, len(items))])
	}
	return batches
}

// processBatch 负责处理单个批次的数据库更新。
func (r *postBatchOperationsRepository) processBatch(ctx context.Context, batch []deltaItem, batchNo int) error {
	ids := make([]uint64, 0, len(batch))
	params := make([]interface{}, 0, len(batch)*2)
	var sqlCase strings.Builder
	sqlCase.WriteString("views + CASE id ")
	for _, item := range batch {
		ids = append(ids, item.ID)
		sqlCase.WriteString("WHEN ? THEN ? ")
		params = append(params, item.ID, item.Delta)
	}
	sqlCase.WriteString("ELSE 0 END")

	err := r.db.WithContext(ctx).Model(&entities.Post{}).
		Where("id IN ?", ids).
		UpdateColumn("views", gorm.Expr(sqlCase.String(), params...)).Error
	if err != nil {
		r.logger.Error("processBatch: 数据库更新批次失败",
			zap.Int("batchNo", batchNo),
			zap.Int("batchSize", len(batch)),
			zap.Error(err),
		)
		return fmt.Errorf("批次 %d (大小 %d) 写回失败: %w", batchNo, len(batch), err)
	}
	return nil
}

func (r *postBatchOperationsRepository) GetTopPostIDsByViews(ctx context.Context, limit int) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).Model(&entities.Post{}).
		Where("views > 0").
		Order("views DESC").Order("id DESC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		r.logger.Error("查询热门文章 ID 失败", zap.Error(err))
		return nil, err
	}
	return ids, nil
}

func (r *postBatchOperationsRepository) GetPostsByIDs(ctx context.Context, ids []uint64) ([]*entities.Post, error) {
	if len(ids) == 0 {
		return []*entities.Post{}, nil
	}
	var found []*entities.Post
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		r.logger.Error("GetPostsByIDs: 查询文章失败", zap.Error(err))
		return nil, err
	}
	byID := make(map[uint64]*entities.Post, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]*entities.Post, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}
