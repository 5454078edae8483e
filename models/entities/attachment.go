package entities

import "time"

// Attachment 文章附件，只随文章的创建或编辑一起写入。
type Attachment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Filename  string    `gorm:"type:varchar(255);not null"` // 用户上传时的原始文件名
	FilePath  string    `gorm:"type:varchar(500);not null"` // 相对于静态资源根目录的存储引用
	CreatedAt time.Time `gorm:"autoCreateTime"`
	PostID    uint64    `gorm:"not null;index"`
}
