package consumer

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/blog_service/config"
)

// MessageHandler 定义了处理 Kafka 消息的接口
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// MessageReader 是 kafka.Reader 中消费循环用到的部分
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// 消费循环参数
const (
	handleTimeout = 30 * time.Second
	readRetryWait = time.Second
)

// Consumer 从单个 topic 读取消息并交给 MessageHandler。
// 处理失败只记录日志，消息照常提交，投稿入口不做死信队列。
type Consumer struct {
	reader  MessageReader
	handler MessageHandler
	logger  *zap.Logger
	topic   string
}

// NewConsumer 按 KafkaConfig 创建消费组成员
func NewConsumer(cfg *appConfig.KafkaConfig, topicName string, handler MessageHandler, logger *zap.Logger) (*Consumer, error) {
	switch {
	case topicName == "":
		return nil, errors.New("kafka topic 名称不能为空")
	case len(cfg.Brokers) == 0:
		return nil, errors.New("kafka brokers 配置不能为空")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          topicName,
		GroupID:        cfg.ConsumerGroupID,
		MinBytes:       1,
		MaxBytes:       1 << 20, // 投稿正文不会超过 1MB
		CommitInterval: time.Second,
		MaxWait:        3 * time.Second,
	})
	logger.Info("Kafka 消费者已创建",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", topicName),
		zap.String("groupID", cfg.ConsumerGroupID))
	return newConsumerWithReader(reader, topicName, handler, logger), nil
}

func newConsumerWithReader(reader MessageReader, topic string, handler MessageHandler, logger *zap.Logger) *Consumer {
	return &Consumer{reader: reader, handler: handler, logger: logger.With(zap.String("topic", topic)), topic: topic}
}

// Start 阻塞运行消费循环，直到 ctx 取消或 reader 被关闭
func (c *Consumer) Start(ctx context.Context) {
	c.logger.Info("Kafka 消费者开始消费")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || isReaderClosed(err) {
				c.logger.Info("Kafka 消费者停止消费", zap.NamedError("reason", err))
				return
			}
			c.logger.Error("读取 Kafka 消息失败，稍后重试", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(readRetryWait):
			}
			continue
		}
		c.dispatch(ctx, msg)
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg kafka.Message) {
	handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()
	if err := c.handler.Handle(handleCtx, msg); err != nil {
		c.logger.Error("处理 Kafka 消息失败",
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
	}
}

func isReaderClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed)
}

// Close 关闭底层 reader，Start 随后返回
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("关闭 Kafka Reader 失败", zap.Error(err))
		return err
	}
	return nil
}
