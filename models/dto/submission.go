package dto

// SubmitArticleForm 公开投稿表单
// - captcha 为算术验证题的答案，正确答案保存在会话中
type SubmitArticleForm struct {
	AuthorName  string `form:"author_name" binding:"required,max=100"`
	AuthorEmail string `form:"author_email" binding:"required,email,max=120"`
	Title       string `form:"title" binding:"required,max=200"`
	Content     string `form:"content" binding:"required"`
	Category    string `form:"category" binding:"omitempty,max=50"`
	Captcha     string `form:"captcha" binding:"required"`
}

// SubmitArticleRequest 服务层投稿输入
type SubmitArticleRequest struct {
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url,omitempty"`
}

// EditSubmissionForm 管理员编辑投稿
type EditSubmissionForm struct {
	Title    string `form:"title" binding:"required,max=200"`
	Content  string `form:"content" binding:"required"`
	Category string `form:"category" binding:"omitempty,max=50"`
}

// RejectSubmissionForm 拒绝投稿时可附带备注
type RejectSubmissionForm struct {
	AdminNotes string `form:"admin_notes" binding:"omitempty,max=2000"`
}
