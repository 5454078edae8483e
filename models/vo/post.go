package vo

import "github.com/Xushengqwer/blog_service/models/entities"

// PostListPage 首页/分类列表页数据
type PostListPage struct {
	Posts    []*entities.Post
	Featured []*entities.Post // 只在未按分类筛选时填充
	Popular  []*entities.Post // 来自热门文章缓存，可为空
	Category string
	Page     int
	HasNext  bool
}

// CommentThread 顶层评论及其回复
type CommentThread struct {
	Comment *entities.Comment
	Replies []*entities.Comment
}

// PostDetailPage 文章详情页数据
type PostDetailPage struct {
	Post     *entities.Post
	Comments []CommentThread
}

// SearchResult 搜索结果页
type SearchResult struct {
	Query string
	Posts []*entities.Post
}
