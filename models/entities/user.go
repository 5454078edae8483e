package entities

import "time"

// User 管理员账号
// - 由 cmd/seeder 创建或重置密码，正常运行中不会被删除。
// - PasswordHash 为 bcrypt 摘要，明文密码不落库也不写日志。
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"type:varchar(80);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}
