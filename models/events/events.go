// Package events 定义服务向 Kafka 发布或从 Kafka 消费的事件结构。
package events

import "time"

// PostPublishedEvent 文章被创建（直接发布或由投稿审核通过产生）
type PostPublishedEvent struct {
	EventID      string    `json:"event_id"`
	Timestamp    time.Time `json:"timestamp"`
	PostID       uint64    `json:"post_id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	SubmissionID *uint64   `json:"submission_id,omitempty"`
}

// PostDeletedEvent 文章被删除
type PostDeletedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	PostID    uint64    `json:"post_id"`
}

// SubmissionReceivedEvent 收到新的投稿
type SubmissionReceivedEvent struct {
	EventID      string    `json:"event_id"`
	Timestamp    time.Time `json:"timestamp"`
	SubmissionID uint64    `json:"submission_id"`
	Title        string    `json:"title"`
	AuthorEmail  string    `json:"author_email"`
}

// SubmissionReviewedEvent 投稿审核结果
type SubmissionReviewedEvent struct {
	EventID      string    `json:"event_id"`
	Timestamp    time.Time `json:"timestamp"`
	SubmissionID uint64    `json:"submission_id"`
	Status       string    `json:"status"`
	PostID       *uint64   `json:"post_id,omitempty"`
}

// SubmissionIntakeEvent 由外部系统（例如邮件网关）投递的投稿
type SubmissionIntakeEvent struct {
	EventID     string `json:"event_id"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Category    string `json:"category"`
}
