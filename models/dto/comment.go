package dto

// CommentForm 访客评论表单；字段缺失时不报错，直接跳回文章页
type CommentForm struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Content string `form:"content"`
}

// ReplyForm 管理员回复表单
type ReplyForm struct {
	Content string `form:"content" binding:"required"`
}
