package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/events"
	"github.com/Xushengqwer/blog_service/myErrors"
)

// ArticleSubmitter 是投稿入口需要的服务能力
type ArticleSubmitter interface {
	Submit(ctx context.Context, req *dto.SubmitArticleRequest) (*entities.Submission, error)
}

// SubmissionIntakeHandler 把外部系统投递的投稿写入待审核队列
type SubmissionIntakeHandler struct {
	logger    *zap.Logger
	submitter ArticleSubmitter
}

func NewSubmissionIntakeHandler(logger *zap.Logger, submitter ArticleSubmitter) *SubmissionIntakeHandler {
	return &SubmissionIntakeHandler{logger: logger, submitter: submitter}
}

func (h *SubmissionIntakeHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.SubmissionIntakeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("反序列化投稿消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	req := &dto.SubmitArticleRequest{
		AuthorName:  strings.TrimSpace(event.AuthorName),
		AuthorEmail: strings.TrimSpace(event.AuthorEmail),
		Title:       strings.TrimSpace(event.Title),
		Content:     event.Content,
		Category:    strings.TrimSpace(event.Category),
	}
	submission, err := h.submitter.Submit(ctx, req)
	if err != nil {
		if myErrors.IsValidation(err) {
			h.logger.Warn("外部投稿未通过校验，已丢弃",
				zap.String("event_id", event.EventID),
				zap.String("reason", myErrors.ValidationMessage(err)))
			return nil
		}
		return fmt.Errorf("保存外部投稿失败: %w", err)
	}

	h.logger.Info("外部投稿已进入待审核队列",
		zap.String("event_id", event.EventID),
		zap.Uint64("submissionID", submission.ID))
	return nil
}
