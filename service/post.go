package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/mq/producer"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/repo/mysql"
	"github.com/Xushengqwer/blog_service/repo/redis"
)

// PostService 定义了管理员发布、编辑、删除文章以及访客阅读文章的业务逻辑。
type PostService interface {
	// CreatePost 创建文章及其附件。
	// - 分类为空时使用默认分类，分类不存在返回 ValidationError。
	// - slug 由标题生成并保证唯一，唯一约束冲突时自动重试。
	// - 事务失败时清理本次请求已保存的上传文件。
	CreatePost(ctx context.Context, req *dto.CreatePostRequest) (*entities.Post, error)

	// EditPost 更新文章并追加新附件，slug 按新标题重新计算 (排除自身)。
	EditPost(ctx context.Context, postID uint64, req *dto.EditPostRequest) (*entities.Post, error)

	// DeletePost 删除文章并级联删除附件；评论保留。
	DeletePost(ctx context.Context, postID uint64) error

	// GetPostByID 供后台编辑页使用
	GetPostByID(ctx context.Context, postID uint64) (*entities.Post, error)

	// GetPostBySlug 获取文章详情 (含附件) 并为 viewerKey 记录一次浏览。
	// viewerKey 为空时不计数。
	GetPostBySlug(ctx context.Context, slug, viewerKey string) (*entities.Post, error)

	// BackfillSlugs 为历史数据中 slug 为 NULL 的文章补齐 slug，返回处理的数量。
	BackfillSlugs(ctx context.Context) (int, error)
}

// postService 是 PostService 接口的具体实现。
type postService struct {
	db             *gorm.DB
	postRepo       mysql.PostRepository
	attachmentRepo mysql.AttachmentRepository
	postViewRepo   redis.PostViewRepository // 为 nil 时浏览量直接写数据库
	uploads        UploadService
	producer       producer.EventProducer
	slugs          *slugWriter
	categories     *categoryResolver
	logger         *zap.Logger
}

// NewPostService 是 postService 的构造函数，通过依赖注入初始化服务实例。
func NewPostService(
	db *gorm.DB,
	postRepo mysql.PostRepository,
	attachmentRepo mysql.AttachmentRepository,
	categoryRepo mysql.CategoryRepository,
	postViewRepo redis.PostViewRepository,
	uploads UploadService,
	eventProducer producer.EventProducer,
	logger *zap.Logger,
) PostService {
	return &postService{
		db:             db,
		postRepo:       postRepo,
		attachmentRepo: attachmentRepo,
		postViewRepo:   postViewRepo,
		uploads:        uploads,
		producer:       eventProducer,
		slugs:          &slugWriter{db: db, postRepo: postRepo, logger: logger},
		categories:     &categoryResolver{categoryRepo: categoryRepo},
		logger:         logger,
	}
}

func (s *postService) CreatePost(ctx context.Context, req *dto.CreatePostRequest) (*entities.Post, error) {
	post, err := s.createPost(ctx, req)
	if err != nil {
		// 数据库没有写入成功，本次请求保存的文件成为孤立文件，需要清理
		s.discardUploads(req.ImageURL, req.Attachments)
		return nil, err
	}

	publishAsync(s.logger, "post_published", func(ctx context.Context) error {
		return s.producer.SendPostPublishedEvent(ctx, post, nil)
	})
	return post, nil
}

func (s *postService) createPost(ctx context.Context, req *dto.CreatePostRequest) (*entities.Post, error) {
	if err := requireFields([2]string{"Title", req.Title}, [2]string{"Content", req.Content}); err != nil {
		return nil, err
	}
	if req.AuthorID == 0 {
		return nil, myErrors.NewValidationError("Author is required", nil)
	}
	category, err := s.categories.resolve(ctx, req.Category, true)
	if err != nil {
		return nil, err
	}

	post := &entities.Post{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Category: category,
		ImageURL: nullString(req.ImageURL),
		Featured: req.Featured,
		AuthorID: req.AuthorID,
	}
	attachments := attachmentsFrom(req.Attachments)

	_, err = s.slugs.write(ctx, post.Title, nil, func(tx *gorm.DB, slug string) error {
		post.ID = 0
		post.Slug = sql.NullString{String: slug, Valid: true}
		if err := s.postRepo.CreatePost(ctx, tx, post); err != nil {
			return err
		}
		return s.saveAttachments(ctx, tx, post.ID, attachments)
	})
	if err != nil {
		s.logger.Error("创建文章事务失败", zap.String("title", post.Title), zap.Error(err))
		return nil, fmt.Errorf("创建文章失败: %w", err)
	}
	post.Attachments = derefAttachments(attachments)

	s.logger.Info("文章创建成功",
		zap.Uint64("postID", post.ID),
		zap.String("slug", post.SlugValue()),
		zap.Int("attachments", len(attachments)))
	return post, nil
}

func (s *postService) EditPost(ctx context.Context, postID uint64, req *dto.EditPostRequest) (*entities.Post, error) {
	post, err := s.editPost(ctx, postID, req)
	if err != nil {
		var newImage string
		if req.ImageURL != nil {
			newImage = *req.ImageURL
		}
		s.discardUploads(newImage, req.Attachments)
		return nil, err
	}
	return post, nil
}

func (s *postService) editPost(ctx context.Context, postID uint64, req *dto.EditPostRequest) (*entities.Post, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("尝试编辑不存在的文章", zap.Uint64("postID", postID))
		}
		return nil, err
	}
	if err := requireFields([2]string{"Title", req.Title}, [2]string{"Content", req.Content}); err != nil {
		return nil, err
	}
	category, err := s.categories.resolve(ctx, req.Category, true)
	if err != nil {
		return nil, err
	}

	post.Title = strings.TrimSpace(req.Title)
	post.Content = req.Content
	post.Category = category
	post.Featured = req.Featured
	if req.ImageURL != nil && *req.ImageURL != "" {
		post.ImageURL = nullString(*req.ImageURL)
	}
	attachments := attachmentsFrom(req.Attachments)

	_, err = s.slugs.write(ctx, post.Title, &post.ID, func(tx *gorm.DB, slug string) error {
		post.Slug = sql.NullString{String: slug, Valid: true}
		if err := s.postRepo.UpdatePostContent(ctx, tx, post); err != nil {
			return err
		}
		return s.saveAttachments(ctx, tx, post.ID, attachments)
	})
	if err != nil {
		s.logger.Error("编辑文章事务失败", zap.Uint64("postID", postID), zap.Error(err))
		return nil, fmt.Errorf("编辑文章失败: %w", err)
	}
	s.logger.Info("文章编辑成功", zap.Uint64("postID", postID), zap.String("slug", post.SlugValue()))
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, postID uint64) error {
	var removed []*entities.Attachment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if removed, err = s.attachmentRepo.DeleteByPostID(ctx, tx, postID); err != nil {
			return fmt.Errorf("删除文章附件失败: %w", err)
		}
		return s.postRepo.DeletePost(ctx, tx, postID)
	})
	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Error("删除文章事务失败", zap.Uint64("postID", postID), zap.Error(err))
		}
		return err
	}

	// 事务提交后再删除附件文件；文件删除失败只留下孤立文件
	for _, a := range removed {
		s.uploads.Discard(ctx, a.FilePath)
	}

	publishAsync(s.logger, "post_deleted", func(ctx context.Context) error {
		return s.producer.SendPostDeletedEvent(ctx, postID)
	})
	s.logger.Info("文章及其附件已删除", zap.Uint64("postID", postID), zap.Int("attachments", len(removed)))
	return nil
}

func (s *postService) GetPostByID(ctx context.Context, postID uint64) (*entities.Post, error) {
	return s.postRepo.GetPostByID(ctx, postID)
}

func (s *postService) GetPostBySlug(ctx context.Context, slug, viewerKey string) (*entities.Post, error) {
	post, err := s.postRepo.GetPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("文章未找到", zap.String("slug", slug))
		}
		return nil, err
	}
	if viewerKey != "" {
		s.recordView(ctx, post, viewerKey)
	}
	return post, nil
}

// recordView 浏览计数失败不影响阅读
func (s *postService) recordView(ctx context.Context, post *entities.Post, viewerKey string) {
	if s.postViewRepo == nil {
		if err := s.postRepo.IncrementViews(ctx, post.ID, 1); err != nil {
			s.logger.Warn("累加浏览量失败", zap.Uint64("postID", post.ID), zap.Error(err))
			return
		}
		post.Views++
		return
	}
	if _, err := s.postViewRepo.RecordView(ctx, post.ID, viewerKey); err != nil {
		s.logger.Warn("记录浏览失败", zap.Uint64("postID", post.ID), zap.Error(err))
	}
}

func (s *postService) BackfillSlugs(ctx context.Context) (int, error) {
	posts, err := s.postRepo.ListPostsMissingSlug(ctx)
	if err != nil {
		return 0, fmt.Errorf("查询缺少 slug 的文章失败: %w", err)
	}
	for i, post := range posts {
		id := post.ID
		slug, err := s.slugs.write(ctx, post.Title, &id, func(tx *gorm.DB, slug string) error {
			return s.postRepo.UpdateSlug(ctx, tx, id, slug)
		})
		if err != nil {
			return i, fmt.Errorf("回填文章 %d 的 slug 失败: %w", id, err)
		}
		s.logger.Info("已回填文章 slug", zap.Uint64("postID", id), zap.String("slug", slug))
	}
	return len(posts), nil
}

func (s *postService) saveAttachments(ctx context.Context, tx *gorm.DB, postID uint64, attachments []*entities.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	for _, a := range attachments {
		a.ID = 0
		a.PostID = postID
	}
	return s.attachmentRepo.CreateAttachments(ctx, tx, attachments)
}

func (s *postService) discardUploads(image string, files []dto.UploadedFile) {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()
	s.uploads.Discard(ctx, image)
	for _, f := range files {
		s.uploads.Discard(ctx, f.Ref)
	}
}

func attachmentsFrom(files []dto.UploadedFile) []*entities.Attachment {
	attachments := make([]*entities.Attachment, 0, len(files))
	for _, f := range files {
		if f.Ref == "" {
			continue
		}
		attachments = append(attachments, &entities.Attachment{Filename: f.OriginalName, FilePath: f.Ref})
	}
	return attachments
}

func derefAttachments(in []*entities.Attachment) []entities.Attachment {
	out := make([]entities.Attachment, 0, len(in))
	for _, a := range in {
		out = append(out, *a)
	}
	return out
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
