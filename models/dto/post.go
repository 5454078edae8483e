package dto

// PostForm 定义管理员创建/编辑文章的表单数据
// - 图片与附件作为 multipart/form-data 中的文件字段 (image, attachments) 单独读取
type PostForm struct {
	Title    string `form:"title" binding:"required,max=200"`
	Content  string `form:"content" binding:"required"`
	Category string `form:"category" binding:"omitempty,max=50"` // 为空时使用默认分类
	Featured string `form:"featured"` // 复选框提交 "on"
}

// IsFeatured 解析复选框取值
func (f *PostForm) IsFeatured() bool {
	switch f.Featured {
	case "on", "true", "1":
		return true
	}
	return false
}

// UploadedFile 是上传网关接受后的文件引用
type UploadedFile struct {
	OriginalName string // 用户上传时的文件名
	Ref          string // 相对于静态资源根目录的存储引用
}

// CreatePostRequest 服务层创建文章的输入
type CreatePostRequest struct {
	Title       string
	Content     string
	Category    string
	Featured    bool
	ImageURL    string // 已存储的图片引用，可为空
	AuthorID    uint64
	Attachments []UploadedFile
}

// EditPostRequest 服务层编辑文章的输入；ImageURL 为 nil 表示保持原图
type EditPostRequest struct {
	Title       string
	Content     string
	Category    string
	Featured    bool
	ImageURL    *string
	Attachments []UploadedFile
}

// ListPostsQuery 首页列表查询参数
type ListPostsQuery struct {
	Category string `form:"category"`
	Page     int    `form:"page"`
	LoadMore bool   `form:"load_more"`
}

// SearchQuery 搜索参数
type SearchQuery struct {
	Q string `form:"q"`
}
