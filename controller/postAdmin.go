package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/middleware"
	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/service"
)

// PostAdminController 处理管理员创建、编辑、删除文章
type PostAdminController struct {
	render        *Renderer
	postService   service.PostService
	categories    service.CategoryService
	uploads       service.UploadService
	maxFormMemory int64
	logger        *zap.Logger
}

// NewPostAdminController 构造函数，maxFormMemory 为解析 multipart 表单时使用的内存上限 (字节)
func NewPostAdminController(
	render *Renderer,
	postService service.PostService,
	categories service.CategoryService,
	uploads service.UploadService,
	maxFormMemory int64,
	logger *zap.Logger,
) *PostAdminController {
	if maxFormMemory <= 0 {
		maxFormMemory = 32 << 20
	}
	return &PostAdminController{
		render:        render,
		postService:   postService,
		categories:    categories,
		uploads:       uploads,
		maxFormMemory: maxFormMemory,
		logger:        logger,
	}
}

// CreateForm 显示新建文章页
func (ctrl *PostAdminController) CreateForm(c *gin.Context) {
	categories, err := ctrl.categories.List(c.Request.Context())
	if err != nil {
		ctrl.render.Fail(c, err, "/dashboard")
		return
	}
	ctrl.render.HTML(c, http.StatusOK, "create_post.html", gin.H{"Categories": categories})
}

// CreatePost 处理创建文章的请求，包含配图与附件上传。
// @Summary      创建文章
// @Description  表单字段与文件 (image, attachments) 一起以 multipart/form-data 提交。
// @Tags         operator
// @Accept       multipart/form-data
// @Param        title formData string true "标题" maxLength(200)
// @Param        content formData string true "正文"
// @Param        category formData string false "分类，为空时使用默认分类"
// @Param        featured formData bool false "是否精选"
// @Param        image formData file false "配图"
// @Param        attachments formData file false "附件 (可多选)"
// @Success      303 {string} string "跳转到管理后台"
// @Router       /create [post]
func (ctrl *PostAdminController) CreatePost(c *gin.Context) {
	// 1. 解析 Multipart Form，超出内存上限的部分写入临时文件
	if err := c.Request.ParseMultipartForm(ctrl.maxFormMemory); err != nil && err != http.ErrNotMultipart {
		ctrl.render.Flash(c, "Could not read the uploaded form.")
		ctrl.render.Redirect(c, "/create")
		return
	}

	// 2. 绑定表单字段
	var form dto.PostForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.render.Flash(c, "Title and Content are required!")
		ctrl.render.Redirect(c, "/create")
		return
	}

	// 3. 保存上传文件，失败时由服务层或此处清理
	ctx := c.Request.Context()
	imageRef, attachments, err := ctrl.acceptFiles(c)
	if err != nil {
		ctrl.render.Fail(c, err, "/create")
		return
	}

	// 4. 调用服务层
	post, err := ctrl.postService.CreatePost(ctx, &dto.CreatePostRequest{
		Title:       form.Title,
		Content:     form.Content,
		Category:    form.Category,
		Featured:    form.IsFeatured(),
		ImageURL:    imageRef,
		AuthorID:    middleware.OperatorID(c),
		Attachments: attachments,
	})
	if err != nil {
		ctrl.render.Fail(c, err, "/create")
		return
	}
	ctrl.logger.Info("管理员发布文章", zap.Uint64("postID", post.ID), zap.Uint64("operatorID", middleware.OperatorID(c)))
	ctrl.render.Redirect(c, "/dashboard")
}

// EditForm 显示编辑文章页
func (ctrl *PostAdminController) EditForm(c *gin.Context) {
	id, ok := ctrl.render.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	post, err := ctrl.postService.GetPostByID(ctx, id)
	if err != nil {
		ctrl.render.Fail(c, err, "/dashboard")
		return
	}
	categories, err := ctrl.categories.List(ctx)
	if err != nil {
		ctrl.render.Fail(c, err, "/dashboard")
		return
	}
	ctrl.render.HTML(c, http.StatusOK, "create_post.html", gin.H{"Post": post, "Categories": categories})
}

// EditPost 更新文章；未上传新图片时保留原图，新附件追加到已有附件之后。
// @Summary      编辑文章
// @Tags         operator
// @Accept       multipart/form-data
// @Param        id path int true "文章 ID"
// @Param        title formData string true "标题"
// @Param        content formData string true "正文"
// @Param        category formData string false "分类"
// @Param        featured formData bool false "是否精选"
// @Param        image formData file false "新配图"
// @Param        attachments formData file false "追加附件"
// @Success      303 {string} string "跳转到管理后台"
// @Failure      404 {string} string "文章不存在"
// @Router       /edit/{id} [post]
func (ctrl *PostAdminController) EditPost(c *gin.Context) {
	id, ok := ctrl.render.paramID(c, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("/edit/%d", id)
	if err := c.Request.ParseMultipartForm(ctrl.maxFormMemory); err != nil && err != http.ErrNotMultipart {
		ctrl.render.Flash(c, "Could not read the uploaded form.")
		ctrl.render.Redirect(c, back)
		return
	}
	var form dto.PostForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.render.Flash(c, "Title and Content are required!")
		ctrl.render.Redirect(c, back)
		return
	}

	imageRef, attachments, err := ctrl.acceptFiles(c)
	if err != nil {
		ctrl.render.Fail(c, err, back)
		return
	}
	req := &dto.EditPostRequest{
		Title:       form.Title,
		Content:     form.Content,
		Category:    form.Category,
		Featured:    form.IsFeatured(),
		Attachments: attachments,
	}
	if imageRef != "" {
		req.ImageURL = &imageRef
	}
	if _, err := ctrl.postService.EditPost(c.Request.Context(), id, req); err != nil {
		ctrl.render.Fail(c, err, back)
		return
	}
	ctrl.render.Redirect(c, "/dashboard")
}

// DeletePost 删除文章及其附件
// @Summary      删除文章
// @Tags         operator
// @Param        id path int true "文章 ID"
// @Success      303 {string} string "跳转到管理后台"
// @Failure      404 {string} string "文章不存在"
// @Router       /delete/{id} [get]
func (ctrl *PostAdminController) DeletePost(c *gin.Context) {
	id, ok := ctrl.render.paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.postService.DeletePost(c.Request.Context(), id); err != nil {
		ctrl.render.Fail(c, err, "/dashboard")
		return
	}
	ctrl.render.Redirect(c, "/dashboard")
}

// acceptFiles 保存配图与附件；附件被拒绝时连同已保存的配图一起清理
func (ctrl *PostAdminController) acceptFiles(c *gin.Context) (string, []dto.UploadedFile, error) {
	ctx := c.Request.Context()
	image, err := formFile(c, "image")
	if err != nil {
		return "", nil, err
	}
	imageRef, err := ctrl.uploads.Accept(ctx, image, constant.UploadSubdirImages)
	if err != nil {
		return "", nil, err
	}
	attachments, err := acceptAttachments(ctx, ctrl.uploads, formFiles(c, "attachments"))
	if err != nil {
		ctrl.uploads.Discard(ctx, imageRef)
		return "", nil, err
	}
	return imageRef, attachments, nil
}

// RegisterRoutes 注册 PostAdminController 的路由
func (ctrl *PostAdminController) RegisterRoutes(operator *gin.RouterGroup) {
	operator.GET("/create", ctrl.CreateForm)
	operator.POST("/create", ctrl.CreatePost)
	operator.GET("/edit/:id", ctrl.EditForm)
	operator.POST("/edit/:id", ctrl.EditPost)
	operator.GET("/delete/:id", ctrl.DeletePost)
}
