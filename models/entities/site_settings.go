package entities

import "database/sql"

// SiteSettingsID 是站点设置单行记录的固定主键
const SiteSettingsID uint64 = 1

// SiteSettings 站点社交链接，全表至多一行 (ID 固定为 SiteSettingsID)。
type SiteSettings struct {
	ID        uint64         `gorm:"primaryKey"`
	Facebook  sql.NullString `gorm:"column:facebook_url;type:varchar(500)"`
	Instagram sql.NullString `gorm:"column:instagram_url;type:varchar(500)"`
	Twitter   sql.NullString `gorm:"column:twitter_url;type:varchar(500)"`
	WhatsApp  sql.NullString `gorm:"column:whatsapp_url;type:varchar(500)"`
	YouTube   sql.NullString `gorm:"column:youtube_url;type:varchar(500)"`
}
