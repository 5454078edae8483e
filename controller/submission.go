package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/middleware"
	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/service"
)

const dashboardSubmissions = "/dashboard#submissions"

// SubmissionController 处理访客投稿与管理员审核
type SubmissionController struct {
	render      *Renderer
	captcha     mathCaptcha
	submissions service.SubmissionService
	categories  service.CategoryService
	uploads     service.UploadService
	logger      *zap.Logger
}

func NewSubmissionController(
	render *Renderer,
	submissions service.SubmissionService,
	categories service.CategoryService,
	uploads service.UploadService,
	logger *zap.Logger,
) *SubmissionController {
	return &SubmissionController{
		render:      render,
		captcha:     mathCaptcha{sessions: render.sessions},
		submissions: submissions,
		categories:  categories,
		uploads:     uploads,
		logger:      logger,
	}
}

// SubmitForm 显示投稿表单并生成新的算术验证题
// @Summary      投稿表单
// @Tags         public
// @Produce      html
// @Success      200 {string} string "HTML 页面"
// @Router       /submit [get]
func (ctrl *SubmissionController) SubmitForm(c *gin.Context) {
	ctrl.renderSubmitForm(c, http.StatusOK, nil)
}

func (ctrl *SubmissionController) renderSubmitForm(c *gin.Context, status int, form *dto.SubmitArticleForm) {
	a, b := ctrl.captcha.challenge(c.Request.Context())
	ctrl.render.HTML(c, status, "submit.html", gin.H{"Num1": a, "Num2": b, "Form": form})
}

// Submit 接收访客投稿
// @Summary      提交投稿
// @Description  验证题答对后保存为 pending 投稿；可附带一张图片。分类不存在时归入默认分类。
// @Tags         public
// @Accept       multipart/form-data
// @Param        author_name formData string true "作者署名"
// @Param        author_email formData string true "作者邮箱"
// @Param        title formData string true "标题"
// @Param        content formData string true "正文"
// @Param        category formData string false "分类"
// @Param        captcha formData string true "验证题答案"
// @Param        image formData file false "配图"
// @Success      303 {string} string "跳转回投稿页"
// @Router       /submit [post]
func (ctrl *SubmissionController) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	var form dto.SubmitArticleForm
	bindErr := c.ShouldBind(&form)

	if err := ctrl.captcha.verify(ctx, form.Captcha); err != nil {
		ctrl.logger.Info("投稿验证题答案错误", zap.String("clientIP", c.ClientIP()), zap.Error(err))
		ctrl.render.Flash(c, "Please solve the math puzzle correctly.")
		ctrl.renderSubmitForm(c, http.StatusOK, &form)
		return
	}
	if bindErr != nil {
		ctrl.render.Flash(c, "Please fill in all required fields.")
		ctrl.renderSubmitForm(c, http.StatusOK, &form)
		return
	}

	image, err := formFile(c, "image")
	if err != nil {
		ctrl.render.Fail(c, err, "/submit")
		return
	}
	imageRef, err := ctrl.uploads.Accept(ctx, image, constant.UploadSubdirImages)
	if err != nil {
		ctrl.render.Fail(c, err, "/submit")
		return
	}

	_, err = ctrl.submissions.Submit(ctx, &dto.SubmitArticleRequest{
		AuthorName:  form.AuthorName,
		AuthorEmail: form.AuthorEmail,
		Title:       form.Title,
		Content:     form.Content,
		Category:    form.Category,
		ImageURL:    imageRef,
	})
	if err != nil {
		ctrl.uploads.Discard(ctx, imageRef)
		ctrl.render.Fail(c, err, "/submit")
		return
	}
	ctrl.render.Flash(c, "Thank you! Your article has been submitted for review.")
	ctrl.render.Redirect(c, "/submit")
}

// Approve 审核通过投稿并发布为文章
// @Summary      审核通过投稿
// @Tags         operator
// @Param        id path int true "投稿 ID"
// @Success      303 {string} string "跳转回管理后台"
// @Failure      404 {string} string "投稿不存在"
// @Router       /submission/{id}/approve [post]
func (ctrl *SubmissionController) Approve(c *gin.Context) {
	id, ok := ctrl.render.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	submission, err := ctrl.submissions.Get(ctx, id)
	if err != nil {
		ctrl.render.Fail(c, err, dashboardSubmissions)
		return
	}
	if _, err := ctrl.submissions.Approve(ctx, id, middleware.OperatorID(c)); err != nil {
		if errors.Is(err, myErrors.ErrSubmissionNotPending) {
			ctrl.render.Flash(c, "This submission has already been reviewed.")
			ctrl.render.Redirect(c, dashboardSubmissions)
			return
		}
		ctrl.render.Fail(c, err, dashboardSubmissions)
		return
	}
	ctrl.render.Flash(c, fmt.Sprintf("Article %q by %s has been published!", submission.Title, submission.AuthorName))
	ctrl.render.Redirect(c, dashboardSubmissions)
}

// Reject 拒绝投稿，可附带管理员备注
// @Summary      拒绝投稿
// @Tags         operator
// @Param        id path int true "投稿 ID"
// @Param        admin_notes formData string false "备注"
// @Success      303 {string} string "跳转回管理后台"
// @Failure      404 {string} string "投稿不存在"
// @Router       /submission/{id}/reject [post]
func (ctrl *SubmissionController) Reject(c *gin.Context) {
	id, ok := ctrl.render.paramID(c, "id")
	if !ok {
		return
	}
	var form dto.RejectSubmissionForm
	ctrl.render.bindLenient(c, &form)

	ctx := c.Request.Context()
	if err := ctrl.submissions.Reject(ctx, id, form.AdminNotes); err != nil {
		if errors.Is(err, myErrors.ErrSubmissionNotPending) {
			ctrl.render.Flash(c, "This submission has already been published.")
			ctrl.render.Redirect(c, dashboardSubmissions)
			return
		}
		ctrl.render.Fail(c, err, dashboardSubmissions)
		return
	}
	submission, err := ctrl.submissions.Get(ctx, id)
	if err != nil {
		ctrl.render.Fail(c, err, dashboardSubmissions)
		return
	}
	ctrl.render.Flash(c, fmt.Sprintf("Submission %q has been rejected.", submission.Title))
	ctrl.render.Redirect(c, dashboardSubmissions)
}

// EditForm 显示投稿编辑页
func (ctrl *SubmissionController) EditForm(c *gin.Context) {
	id, ok := ctrl.render.paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	submission, err := ctrl.submissions.Get(ctx, id)
	if err != nil {
		ctrl.render.Fail(c, err, dashboardSubmissions)
		return
	}
	categories, err := ctrl.categories.List(ctx)
	if err != nil {
		ctrl.render.Fail(c, err, dashboardSubmissions)
		return
	}
	ctrl.render.HTML(c, http.StatusOK, "edit_submission.html", gin.H{"Submission": submission, "Categories": categories})
}

// Edit 保存投稿修改
// @Summary      编辑投稿
// @Tags         operator
// @Accept       x-www-form-urlencoded
// @Param        id path int true "投稿 ID"
// @Param        title formData string true "标题"
// @Param        content formData string true "正文"
// @Param        category formData string false "分类"
// @Success      303 {string} string "跳转回管理后台"
// @Router       /submission/{id}/edit [post]
func (ctrl *SubmissionController) Edit(c *gin.Context) {
	id, ok := ctrl.render.paramID(c, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("/submission/%d/edit", id)
	var form dto.EditSubmissionForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.render.Flash(c, "Title and Content are required!")
		ctrl.render.Redirect(c, back)
		return
	}
	if _, err := ctrl.submissions.Edit(c.Request.Context(), id, &form); err != nil {
		ctrl.render.Fail(c, err, back)
		return
	}
	ctrl.render.Flash(c, "Submission updated!")
	ctrl.render.Redirect(c, dashboardSubmissions)
}

// RegisterRoutes 注册公开投稿与管理员审核路由
func (ctrl *SubmissionController) RegisterRoutes(public, operator *gin.RouterGroup) {
	public.GET("/submit", ctrl.SubmitForm)
	public.POST("/submit", ctrl.Submit)

	submissions := operator.Group("/submission/:id")
	{
		submissions.POST("/approve", ctrl.Approve)
		submissions.POST("/reject", ctrl.Reject)
		submissions.GET("/edit", ctrl.EditForm)
		submissions.POST("/edit", ctrl.Edit)
	}
}
