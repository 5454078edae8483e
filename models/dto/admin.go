package dto

// SubscribeForm 订阅表单
type SubscribeForm struct {
	Email string `form:"email" binding:"required,email,max=120"`
}

// SettingsForm 站点社交链接，空串表示清除
type SettingsForm struct {
	Facebook  string `form:"facebook_url" binding:"omitempty,url,max=500"`
	Instagram string `form:"instagram_url" binding:"omitempty,url,max=500"`
	Twitter   string `form:"twitter_url" binding:"omitempty,url,max=500"`
	WhatsApp  string `form:"whatsapp_url" binding:"omitempty,url,max=500"`
	YouTube   string `form:"youtube_url" binding:"omitempty,url,max=500"`
}

// CategoryForm 新增分类
type CategoryForm struct {
	Name string `form:"name" binding:"required,max=50"`
}

// ServiceOrderForm 公开服务咨询表单
type ServiceOrderForm struct {
	ServiceName   string `form:"service_name" binding:"required,max=100"`
	CustomerName  string `form:"customer_name" binding:"required,max=100"`
	ContactNumber string `form:"contact_number" binding:"required,max=50"`
	Age           *int   `form:"age" binding:"omitempty,gte=0,lte=150"`
	Sex           string `form:"sex" binding:"omitempty,max=20"`
	Location      string `form:"location" binding:"omitempty,max=200"`
	Message       string `form:"message" binding:"omitempty,max=5000"`
}

// ServiceOrderStatusForm 管理员修改服务单状态
type ServiceOrderStatusForm struct {
	Status string `form:"status" binding:"required"`
}

// LoginForm 管理员登录
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}
