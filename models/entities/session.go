package entities

import "time"

// Session 对应 scs mysqlstore 使用的 sessions 表结构，仅用于自动迁移建表。
type Session struct {
	Token  string    `gorm:"column:token;type:char(43);primaryKey"`
	Data   []byte    `gorm:"column:data;type:blob;not null"`
	Expiry time.Time `gorm:"column:expiry;type:timestamp(6);not null;index:sessions_expiry_idx"`
}
