package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/enums"
	"github.com/Xushengqwer/blog_service/models/events"
)

// EventProducer 发布内容生命周期事件。
// 事件是通知性质的，发送失败不会回滚已经提交的数据库事务。
type EventProducer interface {
	SendPostPublishedEvent(ctx context.Context, post *entities.Post, submissionID *uint64) error
	SendPostDeletedEvent(ctx context.Context, postID uint64) error
	SendSubmissionReceivedEvent(ctx context.Context, submission *entities.Submission) error
	SendSubmissionReviewedEvent(ctx context.Context, submissionID uint64, status enums.SubmissionStatus, postID *uint64) error
}

// KafkaProducer Kafka 消息生产者
type KafkaProducer struct {
	writer *kafka.Writer
	logger *zap.Logger
	topics config.Topics
}

// NewKafkaProducer 创建一个新的 Kafka 生产者实例
func NewKafkaProducer(cfg config.KafkaConfig, logger *zap.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger,
		topics: cfg.Topics,
	}
}

// Close 刷新并关闭底层 writer
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// SendEvent 序列化事件并写入指定主题
func (p *KafkaProducer) SendEvent(ctx context.Context, topic, key string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("序列化 Kafka 事件失败", zap.Error(err), zap.String("topic", topic))
		return err
	}

	p.logger.Debug("发送 Kafka 消息", zap.String("topic", topic), zap.ByteString("payload", eventBytes))

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: eventBytes,
	})
	if err != nil {
		p.logger.Error("写入 Kafka 消息失败", zap.Error(err), zap.String("topic", topic))
	} else {
		p.logger.Info("Kafka 消息发送成功", zap.String("topic", topic))
	}
	return err
}

// SendPostPublishedEvent 文章发布后通知下游 (例如订阅邮件、搜索索引)
func (p *KafkaProducer) SendPostPublishedEvent(ctx context.Context, post *entities.Post, submissionID *uint64) error {
	event := events.PostPublishedEvent{
		EventID:      uuid.New().String(),
		Timestamp:    time.Now(),
		PostID:       post.ID,
		Slug:         post.SlugValue(),
		Title:        post.Title,
		Category:     post.Category,
		SubmissionID: submissionID,
	}
	return p.SendEvent(ctx, p.topics.PostPublished, post.SlugValue(), event)
}

func (p *KafkaProducer) SendPostDeletedEvent(ctx context.Context, postID uint64) error {
	event := events.PostDeletedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		PostID:    postID,
	}
	return p.SendEvent(ctx, p.topics.PostDeleted, "", event)
}

func (p *KafkaProducer) SendSubmissionReceivedEvent(ctx context.Context, submission *entities.Submission) error {
	event := events.SubmissionReceivedEvent{
		EventID:      uuid.New().String(),
		Timestamp:    time.Now(),
		SubmissionID: submission.ID,
		Title:        submission.Title,
		AuthorEmail:  submission.AuthorEmail,
	}
	return p.SendEvent(ctx, p.topics.SubmissionReceived, "", event)
}

func (p *KafkaProducer) SendSubmissionReviewedEvent(ctx context.Context, submissionID uint64, status enums.SubmissionStatus, postID *uint64) error {
	event := events.SubmissionReviewedEvent{
		EventID:      uuid.New().String(),
		Timestamp:    time.Now(),
		SubmissionID: submissionID,
		Status:       status.String(),
		PostID:       postID,
	}
	return p.SendEvent(ctx, p.topics.SubmissionReviewed, "", event)
}
