package entities

import (
	"database/sql"
	"time"
)

// Post 已发布的文章
//   - 表名: posts
//   - Slug 全局唯一，由唯一索引兜底；只有迁移前的历史数据可能为 NULL，启动时会被回填。
//   - Category 是分类名称的冗余字符串，不是外键。
//   - ContributorName 在文章来自投稿审核通过时记录投稿人署名。
//   - 删除文章会级联删除其附件，但不会删除评论。
type Post struct {
	ID              uint64         `gorm:"primaryKey;autoIncrement"`
	Title           string         `gorm:"type:varchar(200);not null"`
	Slug            sql.NullString `gorm:"type:varchar(255);uniqueIndex"`
	Content         string         `gorm:"type:text;not null"`
	Category        string         `gorm:"type:varchar(50);not null;default:'World';index"`
	ImageURL        sql.NullString `gorm:"type:varchar(500)"`
	Featured        bool           `gorm:"not null;default:false;index"`
	Views           int64          `gorm:"not null;default:0"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index"`
	AuthorID        uint64         `gorm:"not null;index"`
	ContributorName sql.NullString `gorm:"type:varchar(100)"`

	Attachments []Attachment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// SlugValue 返回 slug，历史数据为 NULL 时返回空串
func (p *Post) SlugValue() string {
	if p.Slug.Valid {
		return p.Slug.String
	}
	return ""
}
