package constant

import "time"

// Redis Key 相关常量
const (
	// PostViewCountPrefix 是帖子浏览量增量计数器的 Key 前缀。
	// 计数器只保存自上次同步以来的增量，同步任务会用 GETDEL 取走。
	// 示例 Key: "post_view_count:123"
	// Redis 类型: String
	PostViewCountPrefix = "post_view_count:"

	// PostViewerPrefix 是单个访客浏览去重标记的 Key 前缀。
	// 示例 Key: "post_viewer:123:203.0.113.7"
	// Redis 类型: String (SET NX EX)
	PostViewerPrefix = "post_viewer:"

	// PopularPostsKey 是热门文章榜单缓存的 Key，值为按浏览量降序排列的文章 ID 列表 (JSON)。
	// Redis 类型: String
	PopularPostsKey = "popular_posts"
)

// ViewerDedupeTTL 决定了同一访客在多长时间内对同一文章只计一次浏览。
const ViewerDedupeTTL time.Duration = 12 * time.Hour
