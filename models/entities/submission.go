package entities

import (
	"database/sql"
	"time"

	"github.com/Xushengqwer/blog_service/models/enums"
)

// Submission 访客投稿
//   - 状态只能 pending -> approved 或 pending -> rejected，两者都是终态。
//   - 投稿永不删除。
type Submission struct {
	ID          uint64                 `gorm:"primaryKey;autoIncrement"`
	AuthorName  string                 `gorm:"type:varchar(100);not null"`
	AuthorEmail string                 `gorm:"type:varchar(120);not null"`
	Title       string                 `gorm:"type:varchar(200);not null"`
	Content     string                 `gorm:"type:text;not null"`
	Category    string                 `gorm:"type:varchar(50);not null;default:'World'"`
	ImageURL    sql.NullString         `gorm:"type:varchar(500)"`
	Status      enums.SubmissionStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	SubmittedAt time.Time              `gorm:"autoCreateTime;index"`
	AdminNotes  sql.NullString         `gorm:"type:text"`
}
