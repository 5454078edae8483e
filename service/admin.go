package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/vo"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/repo/mysql"
)

// DashboardService 汇总管理后台需要的全部数据。
type DashboardService interface {
	// LoadDashboard 并发执行相互独立的只读查询，唯一的副作用是按需创建站点设置。
	LoadDashboard(ctx context.Context) (*vo.Dashboard, error)
}

type dashboardService struct {
	postRepo         mysql.PostRepository
	subscriberRepo   mysql.SubscriberRepository
	submissionRepo   mysql.SubmissionRepository
	categoryRepo     mysql.CategoryRepository
	settingsRepo     mysql.SettingsRepository
	serviceOrderRepo mysql.ServiceOrderRepository
	logger           *zap.Logger
}

func NewDashboardService(
	postRepo mysql.PostRepository,
	subscriberRepo mysql.SubscriberRepository,
	submissionRepo mysql.SubmissionRepository,
	categoryRepo mysql.CategoryRepository,
	settingsRepo mysql.SettingsRepository,
	serviceOrderRepo mysql.ServiceOrderRepository,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		postRepo:         postRepo,
		subscriberRepo:   subscriberRepo,
		submissionRepo:   submissionRepo,
		categoryRepo:     categoryRepo,
		settingsRepo:     settingsRepo,
		serviceOrderRepo: serviceOrderRepo,
		logger:           logger,
	}
}

func (s *dashboardService) LoadDashboard(ctx context.Context) (*vo.Dashboard, error) {
	d := &vo.Dashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Posts, err = s.postRepo.ListAllPosts(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Subscribers, err = s.subscriberRepo.ListSubscribers(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Submissions, err = s.submissionRepo.ListSubmissions(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Categories, err = s.categoryRepo.ListCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Settings, err = s.settingsRepo.GetOrCreateSettings(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.ServiceOrders, err = s.serviceOrderRepo.ListServiceOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("加载管理后台数据失败", zap.Error(err))
		return nil, fmt.Errorf("加载管理后台数据失败: %w", err)
	}
	return d, nil
}

// CategoryService 管理文章分类
type CategoryService interface {
	List(ctx context.Context) ([]*entities.Category, error)
	// Add 新增分类，名称重复返回包装 myErrors.ErrCategoryExists 的 ValidationError
	Add(ctx context.Context, name string) (*entities.Category, error)
	// Delete 删除分类并把使用该分类的文章与投稿归入默认分类，返回被删除的分类。
	Delete(ctx context.Context, categoryID uint64) (*entities.Category, error)
	// EnsureDefaults 确保默认分类存在，启动时调用
	EnsureDefaults(ctx context.Context) error
}

type categoryService struct {
	db             *gorm.DB
	categoryRepo   mysql.CategoryRepository
	postRepo       mysql.PostRepository
	submissionRepo mysql.SubmissionRepository
	logger         *zap.Logger
}

func NewCategoryService(db *gorm.DB, categoryRepo mysql.CategoryRepository, postRepo mysql.PostRepository, submissionRepo mysql.SubmissionRepository, logger *zap.Logger) CategoryService {
	return &categoryService{db: db, categoryRepo: categoryRepo, postRepo: postRepo, submissionRepo: submissionRepo, logger: logger}
}

func (s *categoryService) List(ctx context.Context) ([]*entities.Category, error) {
	return s.categoryRepo.ListCategories(ctx)
}

func (s *categoryService) Add(ctx context.Context, name string) (*entities.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, myErrors.NewValidationError("Category name is required", nil)
	}
	category := &entities.Category{Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.categoryRepo.CreateCategory(ctx, tx, category)
	})
	if err != nil {
		if mysql.IsDuplicateKey(err) {
			return nil, myErrors.NewValidationError(fmt.Sprintf("Category %q already exists.", name), myErrors.ErrCategoryExists)
		}
		return nil, fmt.Errorf("新增分类失败: %w", err)
	}
	s.logger.Info("新增分类", zap.String("name", name))
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, categoryID uint64) (*entities.Category, error) {
	var (
		deleted          *entities.Category
		posts, submitted int64
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := s.categoryRepo.GetCategoryByID(ctx, tx, categoryID)
		if err != nil {
			return err
		}
		if category.Name == constant.DefaultCategory {
			return myErrors.NewValidationError("The default category cannot be deleted.", myErrors.ErrDefaultCategoryDelete)
		}
		if posts, err = s.postRepo.ReassignCategory(ctx, tx, category.Name, constant.DefaultCategory); err != nil {
			return err
		}
		if submitted, err = s.submissionRepo.ReassignCategory(ctx, tx, category.Name, constant.DefaultCategory); err != nil {
			return err
		}
		if err := s.categoryRepo.DeleteCategory(ctx, tx, categoryID); err != nil {
			return err
		}
		deleted = category
		return nil
	})
	if err != nil {
		if myErrors.IsValidation(err) || errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, err
		}
		s.logger.Error("删除分类失败", zap.Uint64("categoryID", categoryID), zap.Error(err))
		return nil, fmt.Errorf("删除分类失败: %w", err)
	}
	s.logger.Info("分类已删除",
		zap.String("name", deleted.Name),
		zap.Int64("reassignedPosts", posts),
		zap.Int64("reassignedSubmissions", submitted))
	return deleted, nil
}

func (s *categoryService) EnsureDefaults(ctx context.Context) error {
	for _, name := range constant.DefaultCategories {
		if err := s.categoryRepo.EnsureCategory(ctx, name); err != nil {
			return fmt.Errorf("初始化默认分类 %s 失败: %w", name, err)
		}
	}
	return nil
}

// SettingsService 读写站点社交链接单行设置
type SettingsService interface {
	Get(ctx context.Context) (*entities.SiteSettings, error)
	Save(ctx context.Context, form *dto.SettingsForm) (*entities.SiteSettings, error)
}

type settingsService struct {
	settingsRepo mysql.SettingsRepository
	logger       *zap.Logger
}

func NewSettingsService(settingsRepo mysql.SettingsRepository, logger *zap.Logger) SettingsService {
	return &settingsService{settingsRepo: settingsRepo, logger: logger}
}

func (s *settingsService) Get(ctx context.Context) (*entities.SiteSettings, error) {
	return s.settingsRepo.GetOrCreateSettings(ctx)
}

func (s *settingsService) Save(ctx context.Context, form *dto.SettingsForm) (*entities.SiteSettings, error) {
	settings := &entities.SiteSettings{
		ID:        entities.SiteSettingsID,
		Facebook:  nullString(form.Facebook),
		Instagram: nullString(form.Instagram),
		Twitter:   nullString(form.Twitter),
		WhatsApp:  nullString(form.WhatsApp),
		YouTube:   nullString(form.YouTube),
	}
	if err := s.settingsRepo.SaveSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("保存站点设置失败: %w", err)
	}
	s.logger.Info("站点社交链接已更新")
	return settings, nil
}
