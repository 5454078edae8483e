package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/blog_service/models/entities"
)

type CategoryRepository interface {
	// CreateCategory 名称重复时返回的错误满足 IsDuplicateKey
	CreateCategory(ctx context.Context, db *gorm.DB, category *entities.Category) error
	// EnsureCategory 不存在时插入，已存在时什么也不做
	EnsureCategory(ctx context.Context, name string) error
	GetCategoryByID(ctx context.Context, db *gorm.DB, id uint64) (*entities.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	// ListCategories 按名称升序
	ListCategories(ctx context.Context) ([]*entities.Category, error)
	DeleteCategory(ctx context.Context, db *gorm.DB, id uint64) error
}

type categoryRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCategoryRepository(db *gorm.DB, logger *zap.Logger) CategoryRepository {
	return &categoryRepository{db: db, logger: logger}
}

func (r *categoryRepository) CreateCategory(ctx context.Context, db *gorm.DB, category *entities.Category) error {
	err := db.WithContext(ctx).Create(category).Error
	if err != nil && !IsDuplicateKey(err) {
		r.logger.Error("插入分类失败", zap.String("name", category.Name), zap.Error(err))
	}
	return err
}

func (r *categoryRepository) EnsureCategory(ctx context.Context, name string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&entities.Category{Name: name}).Error
	if err != nil {
		r.logger.Error("确保分类存在失败", zap.String("name", name), zap.Error(err))
	}
	return err
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, db *gorm.DB, id uint64) (*entities.Category, error) {
	var category entities.Category
	if err := db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("查询分类失败", zap.Uint64("categoryID", id), zap.Error(err))
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		r.logger.Error("查询分类是否存在失败", zap.String("name", name), zap.Error(err))
		return false, err
	}
	return count > 0, nil
}

func (r *categoryRepository) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	var categories []*entities.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		r.logger.Error("查询分类列表失败", zap.Error(err))
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, db *gorm.DB, id uint64) error {
	result := db.WithContext(ctx).Delete(&entities.Category{}, id)
	if result.Error != nil {
		r.logger.Error("删除分类失败", zap.Uint64("categoryID", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
