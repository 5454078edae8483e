package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/vo"
	"github.com/Xushengqwer/blog_service/repo/mysql"
)

// PostListService 定义了首页列表与搜索等只读查询。
type PostListService interface {
	// ListPosts 按创建时间倒序分页，可按分类筛选。
	// - 未筛选分类且不是 load_more 请求时附带精选文章。
	// - load_more 请求只返回文章本身，不查询精选与热门。
	ListPosts(ctx context.Context, query *dto.ListPostsQuery) (*vo.PostListPage, error)

	// Search 在标题或正文中做大小写无关的子串匹配，空查询返回空结果。
	Search(ctx context.Context, q string) (*vo.SearchResult, error)
}

type postListService struct {
	postRepo       mysql.PostRepository
	popularService PopularPostService
	pageSize       int
	featuredLimit  int
	logger         *zap.Logger
}

// NewPostListService 创建一个新的 PostListService 实例。
func NewPostListService(postRepo mysql.PostRepository, popularService PopularPostService, siteCfg config.SiteConfig, logger *zap.Logger) PostListService {
	pageSize := siteCfg.PageSize
	if pageSize <= 0 {
		pageSize = constant.DefaultPageSize
	}
	featuredLimit := siteCfg.FeaturedLimit
	if featuredLimit <= 0 {
		featuredLimit = constant.DefaultFeaturedLimit
	}
	return &postListService{
		postRepo:       postRepo,
		popularService: popularService,
		pageSize:       pageSize,
		featuredLimit:  featuredLimit,
		logger:         logger,
	}
}

func (s *postListService) ListPosts(ctx context.Context, query *dto.ListPostsQuery) (*vo.PostListPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	category := strings.TrimSpace(query.Category)

	// 多取一条用于判断是否还有下一页
	posts, err := s.postRepo.ListPosts(ctx, category, (page-1)*s.pageSize, s.pageSize+1)
	if err != nil {
		return nil, fmt.Errorf("查询文章列表失败: %w", err)
	}
	result := &vo.PostListPage{Category: category, Page: page}
	if len(posts) > s.pageSize {
		result.HasNext = true
		posts = posts[:s.pageSize]
	}
	result.Posts = posts

	if query.LoadMore {
		return result, nil
	}

	if category == "" {
		featured, err := s.postRepo.ListFeatured(ctx, s.featuredLimit)
		if err != nil {
			return nil, fmt.Errorf("查询精选文章失败: %w", err)
		}
		result.Featured = featured
	}

	if s.popularService != nil {
		popular, err := s.popularService.GetPopularPosts(ctx)
		if err != nil {
			// 热门文章只是侧栏装饰，失败不影响列表
			s.logger.Warn("获取热门文章失败", zap.Error(err))
			popular = []*entities.Post{}
		}
		result.Popular = popular
	}

	s.logger.Debug("文章列表查询完成",
		zap.String("category", category),
		zap.Int("page", page),
		zap.Int("count", len(result.Posts)),
		zap.Bool("hasNext", result.HasNext))
	return result, nil
}

func (s *postListService) Search(ctx context.Context, q string) (*vo.SearchResult, error) {
	q = strings.TrimSpace(q)
	result := &vo.SearchResult{Query: q, Posts: []*entities.Post{}}
	if q == "" {
		return result, nil
	}
	posts, err := s.postRepo.SearchPosts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("搜索文章失败: %w", err)
	}
	result.Posts = posts
	return result, nil
}
