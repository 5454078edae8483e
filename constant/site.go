package constant

// 分类
const (
	// DefaultCategory 是文章未指定分类时使用的分类，也是删除分类时文章被重新归入的分类。
	DefaultCategory = "World"
)

// DefaultCategories 在启动时确保存在。
var DefaultCategories = []string{"World", "Business", "Tech"}

// 管理员回复评论时使用的固定身份
const (
	OperatorReplyName  = "Mind Economists"
	OperatorReplyEmail = "admin@economist.com"
)

// 列表分页
const (
	DefaultPageSize      = 6
	DefaultFeaturedLimit = 5
	DefaultPopularLimit  = 5
)

// DefaultAllowedExtensions 是上传文件扩展名白名单 (小写，不含点)。
var DefaultAllowedExtensions = []string{
	"png", "jpg", "jpeg", "gif", "webp",
	"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx",
	"zip", "rar", "exe", "msi", "txt",
}

// 上传子目录
const (
	UploadSubdirImages      = ""
	UploadSubdirAttachments = "attachments"
)

// 定时任务默认调度
const (
	SyncViewCountInterval   = "@every 1m"
	RefreshPopularPostsSpec = "@every 5m"
)

// 会话 Key
const (
	SessionOperatorIDKey    = "operator_id"
	SessionFlashKey         = "flash"
	SessionCaptchaAnswerKey = "captcha_answer"
)

// SlugMaxAttempts 是插入文章时因唯一约束冲突重新生成 slug 的最大次数。
const SlugMaxAttempts = 3
