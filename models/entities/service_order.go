package entities

import (
	"database/sql"
	"time"

	"github.com/Xushengqwer/blog_service/models/enums"
)

// ServiceOrder 访客提交的服务咨询单
type ServiceOrder struct {
	ID            uint64                   `gorm:"primaryKey;autoIncrement"`
	ServiceName   string                   `gorm:"type:varchar(100);not null"`
	CustomerName  string                   `gorm:"type:varchar(100);not null"`
	ContactNumber string                   `gorm:"type:varchar(50);not null"`
	Age           sql.NullInt64            `gorm:"type:int"`
	Sex           sql.NullString           `gorm:"type:varchar(20)"`
	Location      sql.NullString           `gorm:"type:varchar(200)"`
	Message       sql.NullString           `gorm:"type:text"`
	Status        enums.ServiceOrderStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt     time.Time                `gorm:"autoCreateTime;index"`
}
