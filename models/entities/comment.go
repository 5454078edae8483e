package entities

import "time"

// Comment 文章评论
//   - ParentID 为 nil 表示顶层评论；管理员回复总是带 ParentID。
//   - PostID 没有级联约束，文章删除后评论仍保留。
type Comment struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(120);not null"`
	Content      string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
	PostID       uint64    `gorm:"not null;index:idx_comment_post_parent,priority:1"`
	ParentID     *uint64   `gorm:"index:idx_comment_post_parent,priority:2"`
	IsAdminReply bool      `gorm:"not null;default:false"`
}
