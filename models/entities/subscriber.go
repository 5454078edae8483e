package entities

import "time"

type Subscriber struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"type:varchar(120);uniqueIndex;not null"`
	SubscribedAt time.Time `gorm:"autoCreateTime"`
}
