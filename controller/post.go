package controller

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/vo"
	"github.com/Xushengqwer/blog_service/service"
)

// PostController 处理访客可见的文章页面：首页列表、详情、搜索、评论与订阅。
type PostController struct {
	render      *Renderer
	postService service.PostService
	listService service.PostListService
	comments    service.CommentService
	subscribers service.SubscriberService
	logger      *zap.Logger
}

// NewPostController 构造函数，用于创建 PostController 实例
func NewPostController(
	render *Renderer,
	postService service.PostService,
	listService service.PostListService,
	comments service.CommentService,
	subscribers service.SubscriberService,
	logger *zap.Logger,
) *PostController {
	return &PostController{
		render:      render,
		postService: postService,
		listService: listService,
		comments:    comments,
		subscribers: subscribers,
		logger:      logger,
	}
}

// Index 首页文章列表
// @Summary      文章列表
// @Description  按创建时间倒序分页 (每页 6 篇)，可按分类筛选；load_more 只返回文章卡片片段。
// @Tags         public
// @Produce      html
// @Param        category query string false "分类名称"
// @Param        page query int false "页码 (从1开始)" minimum(1) default(1)
// @Param        load_more query bool false "只返回文章卡片片段"
// @Success      200 {string} string "HTML 页面"
// @Router       / [get]
func (ctrl *PostController) Index(c *gin.Context) {
	var query dto.ListPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		// 非法参数按默认值处理，与直接访问首页一致
		query = dto.ListPostsQuery{Category: c.Query("category")}
	}

	page, err := ctrl.listService.ListPosts(c.Request.Context(), &query)
	if err != nil {
		ctrl.logger.Error("加载文章列表失败", zap.Error(err))
		c.String(http.StatusInternalServerError, genericFailureMessage)
		return
	}
	if query.LoadMore {
		c.HTML(http.StatusOK, "post_grid_items.html", gin.H{"Posts": page.Posts})
		return
	}
	ctrl.render.HTML(c, http.StatusOK, "index.html", gin.H{"Page": page})
}

// Detail 文章详情
// @Summary      文章详情
// @Description  显示文章、附件与评论；每个访客在去重窗口内只计一次浏览。
// @Tags         public
// @Produce      html
// @Param        slug path string true "文章 slug"
// @Success      200 {string} string "HTML 页面"
// @Failure      404 {string} string "文章不存在"
// @Router       /post/{slug} [get]
func (ctrl *PostController) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	post, err := ctrl.postService.GetPostBySlug(ctx, c.Param("slug"), c.ClientIP())
	if err != nil {
		ctrl.render.Fail(c, err, "/")
		return
	}
	threads, err := ctrl.comments.ListThreadsForPost(ctx, post.ID)
	if err != nil {
		ctrl.render.Fail(c, err, "/")
		return
	}
	ctrl.render.HTML(c, http.StatusOK, "post.html", gin.H{
		"Detail": &vo.PostDetailPage{Post: post, Comments: threads},
	})
}

// Search 标题或正文子串搜索
// @Summary      搜索文章
// @Tags         public
// @Produce      html
// @Param        q query string false "关键词，为空时不返回结果"
// @Success      200 {string} string "HTML 页面"
// @Router       /search [get]
func (ctrl *PostController) Search(c *gin.Context) {
	var query dto.SearchQuery
	ctrl.render.bindLenient(c, &query)

	result, err := ctrl.listService.Search(c.Request.Context(), query.Q)
	if err != nil {
		ctrl.render.Fail(c, err, "/")
		return
	}
	ctrl.render.HTML(c, http.StatusOK, "search.html", gin.H{"Result": result})
}

// AddComment 访客评论；字段不全时不创建评论，直接跳回文章
// @Summary      发表评论
// @Tags         public
// @Accept       x-www-form-urlencoded
// @Param        id path int true "文章 ID"
// @Param        name formData string true "昵称"
// @Param        email formData string true "邮箱"
// @Param        content formData string true "内容"
// @Success      303 {string} string "跳转回文章页"
// @Failure      404 {string} string "文章不存在"
// @Router       /post/{id}/comment [post]
func (ctrl *PostController) AddComment(c *gin.Context) {
	postID, ok := ctrl.render.paramID(c, "id")
	if !ok {
		return
	}
	var form dto.CommentForm
	ctrl.render.bindLenient(c, &form)

	ctx := c.Request.Context()
	comment, err := ctrl.comments.AddTopLevelComment(ctx, postID, form.Name, form.Email, form.Content)
	if err != nil {
		ctrl.render.Fail(c, err, "/")
		return
	}
	post, err := ctrl.postService.GetPostByID(ctx, postID)
	if err != nil {
		ctrl.render.Fail(c, err, "/")
		return
	}
	if comment != nil {
		ctrl.render.Flash(c, "Your comment has been posted!")
	}
	ctrl.render.Redirect(c, "/post/"+post.SlugValue()+"#comments")
}

// Subscribe 邮件订阅，同一邮箱重复订阅视为成功
// @Summary      订阅
// @Tags         public
// @Accept       x-www-form-urlencoded
// @Param        email formData string true "邮箱"
// @Success      303 {string} string "跳转回来源页"
// @Router       /subscribe [post]
func (ctrl *PostController) Subscribe(c *gin.Context) {
	back := refererOr(c, "/")
	var form dto.SubscribeForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.render.Flash(c, "Please provide a valid email address.")
		ctrl.render.Redirect(c, back)
		return
	}
	created, err := ctrl.subscribers.Subscribe(c.Request.Context(), form.Email)
	if err != nil {
		ctrl.render.Fail(c, err, back)
		return
	}
	if created {
		ctrl.render.Flash(c, "Thank you for subscribing!")
	} else {
		ctrl.render.Flash(c, "You are already subscribed!")
	}
	ctrl.render.Redirect(c, back)
}

// About 静态介绍页
func (ctrl *PostController) About(c *gin.Context) {
	ctrl.render.HTML(c, http.StatusOK, "about.html", nil)
}

// RegisterRoutes 注册 PostController 的路由
func (ctrl *PostController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/", ctrl.Index)
	group.GET("/post/:slug", ctrl.Detail)
	group.GET("/search", ctrl.Search)
	group.GET("/about", ctrl.About)
	group.POST("/post/:id/comment", ctrl.AddComment)
	group.POST("/subscribe", ctrl.Subscribe)
}

// refererOr 只接受站内相对路径的 Referer，避免开放重定向
func refererOr(c *gin.Context, fallback string) string {
	u, err := url.Parse(c.Request.Referer())
	if err != nil || u.Path == "" || (u.Host != "" && u.Host != c.Request.Host) {
		return fallback
	}
	ref := u.RequestURI()
	if !strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "//") {
		return fallback
	}
	return ref
}
