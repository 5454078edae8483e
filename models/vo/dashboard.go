package vo

import "github.com/Xushengqwer/blog_service/models/entities"

// Dashboard 管理后台快照，各部分独立读取，不保证相互一致。
type Dashboard struct {
	Posts         []*entities.Post
	Subscribers   []*entities.Subscriber
	Submissions   []*entities.Submission
	Categories    []*entities.Category
	Settings      *entities.SiteSettings
	ServiceOrders []*entities.ServiceOrder
}
