package entities

// All 返回需要自动迁移的全部实体
func All() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Attachment{},
		&Comment{},
		&Subscriber{},
		&Submission{},
		&Category{},
		&SiteSettings{},
		&ServiceOrder{},
	}
}
