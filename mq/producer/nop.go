package producer

import (
	"context"

	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/enums"
)

// NopProducer 在未配置 Kafka broker 时使用，丢弃所有事件
type NopProducer struct{}

func (NopProducer) SendPostPublishedEvent(context.Context, *entities.Post, *uint64) error {
	return nil
}

func (NopProducer) SendPostDeletedEvent(context.Context, uint64) error { return nil }

func (NopProducer) SendSubmissionReceivedEvent(context.Context, *entities.Submission) error {
	return nil
}

func (NopProducer) SendSubmissionReviewedEvent(context.Context, uint64, enums.SubmissionStatus, *uint64) error {
	return nil
}
