package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Xushengqwer/go-common/commonerrors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/vo"
	"github.com/Xushengqwer/blog_service/repo/mysql"
)

// CommentService 管理文章评论树：访客顶层评论与管理员回复。
type CommentService interface {
	// AddTopLevelComment 添加访客评论。文章不存在返回 NotFound；
	// name、email、content 任一为空时不创建，返回 (nil, nil)。
	AddTopLevelComment(ctx context.Context, postID uint64, name, email, content string) (*entities.Comment, error)

	// AddAdminReply 以固定的管理员身份回复评论，post_id 继承自父评论。
	// content 为空时不创建，返回 (nil, nil)。
	AddAdminReply(ctx context.Context, parentCommentID uint64, content string) (*entities.Comment, error)

	// ListTopLevelForPost 返回文章的顶层评论，按创建时间倒序。
	ListTopLevelForPost(ctx context.Context, postID uint64) ([]*entities.Comment, error)

	// ListThreadsForPost 返回顶层评论及其回复 (回复按时间正序)。
	ListThreadsForPost(ctx context.Context, postID uint64) ([]vo.CommentThread, error)

	GetComment(ctx context.Context, commentID uint64) (*entities.Comment, error)
}

type commentService struct {
	db          *gorm.DB
	commentRepo mysql.CommentRepository
	postRepo    mysql.PostRepository
	logger      *zap.Logger
}

func NewCommentService(db *gorm.DB, commentRepo mysql.CommentRepository, postRepo mysql.PostRepository, logger *zap.Logger) CommentService {
	return &commentService{db: db, commentRepo: commentRepo, postRepo: postRepo, logger: logger}
}

func (s *commentService) AddTopLevelComment(ctx context.Context, postID uint64, name, email, content string) (*entities.Comment, error) {
	if _, err := s.postRepo.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("评论的文章不存在", zap.Uint64("postID", postID))
		}
		return nil, err
	}
	name, email, content = strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(content)
	if name == "" || email == "" || content == "" {
		return nil, nil
	}

	comment := &entities.Comment{Name: name, Email: email, Content: content, PostID: postID}
	if err := s.create(ctx, comment); err != nil {
		return nil, err
	}
	s.logger.Info("新增评论", zap.Uint64("postID", postID), zap.Uint64("commentID", comment.ID))
	return comment, nil
}

func (s *commentService) AddAdminReply(ctx context.Context, parentCommentID uint64, content string) (*entities.Comment, error) {
	parent, err := s.GetComment(ctx, parentCommentID)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	parentID := parent.ID
	reply := &entities.Comment{
		Name:         constant.OperatorReplyName,
		Email:        constant.OperatorReplyEmail,
		Content:      content,
		PostID:       parent.PostID,
		ParentID:     &parentID,
		IsAdminReply: true,
	}
	if err := s.create(ctx, reply); err != nil {
		return nil, err
	}
	s.logger.Info("管理员回复评论",
		zap.Uint64("postID", reply.PostID),
		zap.Uint64("parentID", parentID),
		zap.Uint64("commentID", reply.ID))
	return reply, nil
}

func (s *commentService) create(ctx context.Context, comment *entities.Comment) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.commentRepo.CreateComment(ctx, tx, comment)
	})
	if err != nil {
		return fmt.Errorf("保存评论失败: %w", err)
	}
	return nil
}

func (s *commentService) ListTopLevelForPost(ctx context.Context, postID uint64) ([]*entities.Comment, error) {
	comments, err := s.commentRepo.ListTopLevel(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("查询评论失败: %w", err)
	}
	return comments, nil
}

func (s *commentService) ListThreadsForPost(ctx context.Context, postID uint64) ([]vo.CommentThread, error) {
	top, err := s.ListTopLevelForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(top))
	for _, c := range top {
		ids = append(ids, c.ID)
	}
	replies, err := s.commentRepo.ListReplies(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("查询评论回复失败: %w", err)
	}

	byParent := make(map[uint64][]*entities.Comment, len(top))
	for _, r := range replies {
		if r.ParentID != nil {
			byParent[*r.ParentID] = append(byParent[*r.ParentID], r)
		}
	}
	threads := make([]vo.CommentThread, 0, len(top))
	for _, c := range top {
		threads = append(threads, vo.CommentThread{Comment: c, Replies: byParent[c.ID]})
	}
	return threads, nil
}

func (s *commentService) GetComment(ctx context.Context, commentID uint64) (*entities.Comment, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("评论不存在", zap.Uint64("commentID", commentID))
		}
		return nil, err
	}
	return comment, nil
}
