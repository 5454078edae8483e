package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/models/entities"
)

// PostRepository 定义了文章数据的持久化操作接口。
// 需要参与事务的写操作显式接收 db 参数，调用方可以传入事务对象 tx。
type PostRepository interface {
	// CreatePost 插入文章，slug 冲突时返回的错误满足 IsDuplicateKey。
	CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error

	// UpdatePostContent 覆盖文章的标题、slug、正文、分类、图片与精选标记。
	UpdatePostContent(ctx context.Context, db *gorm.DB, post *entities.Post) error

	// DeletePost 物理删除文章，附件由调用方在同一事务中删除。
	// 文章不存在时返回 commonerrors.ErrRepoNotFound。
	DeletePost(ctx context.Context, db *gorm.DB, id uint64) error

	GetPostByID(ctx context.Context, id uint64) (*entities.Post, error)

	// GetPostBySlug 同时预加载附件
	GetPostBySlug(ctx context.Context, slug string) (*entities.Post, error)

	// SlugExists 实现 slug.Checker
	SlugExists(ctx context.Context, slug string, excludingID *uint64) (bool, error)

	// ListPosts 按创建时间倒序分页，category 为空表示不筛选。
	ListPosts(ctx context.Context, category string, offset, limit int) ([]*entities.Post, error)

	// ListFeatured 返回最新的精选文章
	ListFeatured(ctx context.Context, limit int) ([]*entities.Post, error)

	// SearchPosts 标题或正文包含 q (不区分大小写)，按创建时间倒序。
	SearchPosts(ctx context.Context, q string) ([]*entities.Post, error)

	// ListAllPosts 按创建时间倒序返回全部文章，用于管理后台。
	ListAllPosts(ctx context.Context) ([]*entities.Post, error)

	// ListPostsMissingSlug 返回 slug 为 NULL 的历史文章
	ListPostsMissingSlug(ctx context.Context) ([]*entities.Post, error)

	UpdateSlug(ctx context.Context, db *gorm.DB, id uint64, slug string) error

	// ReassignCategory 把使用 from 分类的文章改为 to，返回受影响行数。
	ReassignCategory(ctx context.Context, db *gorm.DB, from, to string) (int64, error)

	// IncrementViews 直接在数据库中累加浏览量，未启用 Redis 时使用。
	IncrementViews(ctx context.Context, id uint64, delta int64) error
}

type postRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPostRepository 是 postRepository 的构造函数。
func NewPostRepository(db *gorm.DB, logger *zap.Logger) PostRepository {
	return &postRepository{db: db, logger: logger}
}

func (r *postRepository) CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error {
	// 附件单独写入，避免 GORM 关联保存带来的隐式 upsert
	if err := db.WithContext(ctx).Omit("Attachments").Create(post).Error; err != nil {
		if !IsDuplicateKey(err) {
			r.logger.Error("插入文章失败", zap.String("title", post.Title), zap.Error(err))
		}
		return err
	}
	return nil
}

func (r *postRepository) UpdatePostContent(ctx context.Context, db *gorm.DB, post *entities.Post) error {
	updates := map[string]interface{}{
		"title":     post.Title,
		"slug":      post.Slug,
		"content":   post.Content,
		"category":  post.Category,
		"image_url": post.ImageURL,
		"featured":  post.Featured,
	}
	err := db.WithContext(ctx).Model(&entities.Post{}).Where("id = ?", post.ID).Updates(updates).Error
	if err != nil {
		if !IsDuplicateKey(err) {
			r.logger.Error("更新文章失败", zap.Uint64("postID", post.ID), zap.Error(err))
		}
		return err
	}
	r.logger.Info("文章信息更新成功", zap.Uint64("postID", post.ID))
	return nil
}

func (r *postRepository) DeletePost(ctx context.Context, db *gorm.DB, id uint64) error {
	result := db.WithContext(ctx).Delete(&entities.Post{}, id)
	if result.Error != nil {
		r.logger.Error("删除文章失败", zap.Uint64("postID", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("尝试删除文章但未找到记录", zap.Uint64("postID", id))
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

func (r *postRepository) GetPostByID(ctx context.Context, id uint64) (*entities.Post, error) {
	var post entities.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("按 ID 查询文章失败", zap.Uint64("postID", id), zap.Error(err))
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetPostBySlug(ctx context.Context, slug string) (*entities.Post, error) {
	var post entities.Post
	err := r.db.WithContext(ctx).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("按 slug 查询文章失败", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) SlugExists(ctx context.Context, slug string, excludingID *uint64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entities.Post{}).Where("slug = ?", slug)
	if excludingID != nil {
		query = query.Where("id <> ?", *excludingID)
	}
	if err := query.Count(&count).Error; err != nil {
		r.logger.Error("检查 slug 是否存在失败", zap.String("slug", slug), zap.Error(err))
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) ListPosts(ctx context.Context, category string, offset, limit int) ([]*entities.Post, error) {
	var posts []*entities.Post
	query := r.db.WithContext(ctx).Model(&entities.Post{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&posts).Error
	if err != nil {
		r.logger.Error("分页查询文章失败",
			zap.String("category", category),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
			zap.Error(err),
		)
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListFeatured(ctx context.Context, limit int) ([]*entities.Post, error) {
	var posts []*entities.Post
	err := r.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		r.logger.Error("查询精选文章失败", zap.Error(err))
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) SearchPosts(ctx context.Context, q string) ([]*entities.Post, error) {
	var posts []*entities.Post
	pattern := likePattern(q)
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE LOWER(?) ESCAPE '!' OR LOWER(content) LIKE LOWER(?) ESCAPE '!'", pattern, pattern).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	if err != nil {
		r.logger.Error("搜索文章失败", zap.String("q", q), zap.Error(err))
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListAllPosts(ctx context.Context) ([]*entities.Post, error) {
	var posts []*entities.Post
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		r.logger.Error("查询全部文章失败", zap.Error(err))
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListPostsMissingSlug(ctx context.Context) ([]*entities.Post, error) {
	var posts []*entities.Post
	if err := r.db.WithContext(ctx).Where("slug IS NULL").Order("id ASC").Find(&posts).Error; err != nil {
		r.logger.Error("查询缺少 slug 的文章失败", zap.Error(err))
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) UpdateSlug(ctx context.Context, db *gorm.DB, id uint64, slug string) error {
	err := db.WithContext(ctx).Model(&entities.Post{}).Where("id = ?", id).Update("slug", slug).Error
	if err != nil && !IsDuplicateKey(err) {
		r.logger.Error("更新文章 slug 失败", zap.Uint64("postID", id), zap.Error(err))
	}
	return err
}

func (r *postRepository) ReassignCategory(ctx context.Context, db *gorm.DB, from, to string) (int64, error) {
	result := db.WithContext(ctx).Model(&entities.Post{}).Where("category = ?", from).Update("category", to)
	if result.Error != nil {
		r.logger.Error("重新归类文章失败", zap.String("from", from), zap.String("to", to), zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id uint64, delta int64) error {
	err := r.db.WithContext(ctx).Model(&entities.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", delta)).Error
	if err != nil {
		r.logger.Error("累加文章浏览量失败", zap.Uint64("postID", id), zap.Error(err))
	}
	return err
}
