package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/service"
)

// AdminController 管理后台：仪表盘、站点设置、分类与评论回复
type AdminController struct {
	render     *Renderer
	dashboard  service.DashboardService
	settings   service.SettingsService
	categories service.CategoryService
	comments   service.CommentService
	posts      service.PostService
	logger     *zap.Logger
}

func NewAdminController(
	render *Renderer,
	dashboard service.DashboardService,
	settings service.SettingsService,
	categories service.CategoryService,
	comments service.CommentService,
	posts service.PostService,
	logger *zap.Logger,
) *AdminController {
	return &AdminController{
		render:     render,
		dashboard:  dashboard,
		settings:   settings,
		categories: categories,
		comments:   comments,
		posts:      posts,
		logger:     logger,
	}
}

// Dashboard 管理后台首页
// @Summary      管理后台
// @Tags         operator
// @Produce      html
// @Success      200 {string} string "HTML 页面"
// @Router       /dashboard [get]
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	d, err := ctrl.dashboard.LoadDashboard(c.Request.Context())
	if err != nil {
		ctrl.logger.Error("渲染管理后台失败", zap.Error(err))
		c.String(http.StatusInternalServerError, genericFailureMessage)
		return
	}
	ctrl.render.HTML(c, http.StatusOK, "dashboard.html", gin.H{"Dashboard": d})
}

// SaveSettings 更新社交链接，空值表示清除
// @Summary      保存社交链接
// @Tags         operator
// @Accept       x-www-form-urlencoded
// @Param        facebook_url formData string false "Facebook"
// @Param        instagram_url formData string false "Instagram"
// @Param        twitter_url formData string false "Twitter"
// @Param        whatsapp_url formData string false "WhatsApp"
// @Param        youtube_url formData string false "YouTube"
// @Success      303 {string} string "跳转到管理后台"
// @Router       /settings [post]
func (ctrl *AdminController) SaveSettings(c *gin.Context) {
	const back = "/dashboard#settings"
	var form dto.SettingsForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.render.Flash(c, "Please enter valid URLs.")
		ctrl.render.Redirect(c, back)
		return
	}
	if _, err := ctrl.settings.Save(c.Request.Context(), &form); err != nil {
		ctrl.render.Fail(c, err, back)
		return
	}
	ctrl.render.Flash(c, "Social links saved successfully!")
	ctrl.render.Redirect(c, back)
}

// AddCategory 新增分类
// @Summary      新增分类
// @Tags         operator
// @Param        name formData string true "分类名称"
// @Success      303 {string} string "跳转到管理后台"
// @Router       /category/add [post]
func (ctrl *AdminController) AddCategory(c *gin.Context) {
	const back = "/dashboard#categories"
	var form dto.CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.render.Flash(c, "Category name is required.")
		ctrl.render.Redirect(c, back)
		return
	}
	category, err := ctrl.categories.Add(c.Request.Context(), form.Name)
	if err != nil {
		ctrl.render.Fail(c, err, back)
		return
	}
	ctrl.render.Flash(c, fmt.Sprintf("Category %q added successfully!", category.Name))
	ctrl.render.Redirect(c, back)
}

// DeleteCategory 删除分类，使用该分类的文章与投稿归入默认分类
// @Summary      删除分类
// @Tags         operator
// @Param        id path int true "分类 ID"
// @Success      303 {string} string "跳转到管理后台"
// @Failure      404 {string} string "分类不存在"
// @Router       /category/delete/{id} [post]
func (ctrl *AdminController) DeleteCategory(c *gin.Context) {
	const back = "/dashboard#categories"
	id, ok := ctrl.render.paramID(c, "id")
	if !ok {
		return
	}
	category, err := ctrl.categories.Delete(c.Request.Context(), id)
	if err != nil {
		ctrl.render.Fail(c, err, back)
		return
	}
	ctrl.render.Flash(c, fmt.Sprintf("Category %q deleted.", category.Name))
	ctrl.render.Redirect(c, back)
}

// ReplyComment 以管理员身份回复评论
// @Summary      回复评论
// @Tags         operator
// @Param        id path int true "被回复的评论 ID"
// @Param        content formData string true "回复内容"
// @Success      303 {string} string "跳转回文章页"
// @Failure      404 {string} string "评论不存在"
// @Router       /comment/{id}/reply [post]
func (ctrl *AdminController) ReplyComment(c *gin.Context) {
	id, ok := ctrl.render.paramID(c, "id")
	if !ok {
		return
	}
	var form dto.ReplyForm
	ctrl.render.bindLenient(c, &form)

	ctx := c.Request.Context()
	parent, err := ctrl.comments.GetComment(ctx, id)
	if err != nil {
		ctrl.render.Fail(c, err, "/dashboard")
		return
	}
	reply, err := ctrl.comments.AddAdminReply(ctx, id, form.Content)
	if err != nil {
		ctrl.render.Fail(c, err, "/dashboard")
		return
	}
	if reply != nil {
		ctrl.render.Flash(c, "Reply posted!")
	}

	// 文章已删除时评论成为孤立数据，无处可跳转
	post, err := ctrl.posts.GetPostByID(ctx, parent.PostID)
	if err != nil {
		ctrl.render.Redirect(c, "/dashboard")
		return
	}
	ctrl.render.Redirect(c, fmt.Sprintf("/post/%s#comment-%d", post.SlugValue(), id))
}

// RegisterRoutes 注册管理后台路由
func (ctrl *AdminController) RegisterRoutes(operator *gin.RouterGroup) {
	operator.GET("/dashboard", ctrl.Dashboard)
	operator.POST("/settings", ctrl.SaveSettings)
	operator.POST("/category/add", ctrl.AddCategory)
	operator.POST("/category/delete/:id", ctrl.DeleteCategory)
	operator.POST("/comment/:id/reply", ctrl.ReplyComment)
}
