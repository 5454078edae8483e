package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/service"
)

// genericFailureMessage 持久化失败时展示给用户的提示，具体原因只写日志
const genericFailureMessage = "Something went wrong. Please try again."

// Renderer 负责页面渲染、闪现消息与错误到 HTTP 响应的映射，被所有控制器共享。
type Renderer struct {
	sessions   *scs.SessionManager
	settings   service.SettingsService
	categories service.CategoryService
	logger     *zap.Logger
}

// NewRenderer 创建 Renderer
func NewRenderer(sessions *scs.SessionManager, settings service.SettingsService, categories service.CategoryService, logger *zap.Logger) *Renderer {
	return &Renderer{sessions: sessions, settings: settings, categories: categories, logger: logger}
}

// HTML 渲染页面，并注入每个页面都需要的社交链接、导航分类、闪现消息与登录状态。
func (r *Renderer) HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	ctx := c.Request.Context()

	settings, err := r.settings.Get(ctx)
	if err != nil {
		r.logger.Warn("读取站点设置失败，页面将不显示社交链接", zap.Error(err))
	}
	categories, err := r.categories.List(ctx)
	if err != nil {
		r.logger.Warn("读取导航分类失败", zap.Error(err))
	}
	data["SocialLinks"] = settings
	data["NavCategories"] = categories
	data["Flashes"] = r.popFlashes(ctx)
	data["LoggedIn"] = r.sessions.GetInt(ctx, constant.SessionOperatorIDKey) > 0

	c.HTML(status, name, data)
}

// Flash 追加一条在下一次页面渲染时展示的消息
func (r *Renderer) Flash(c *gin.Context, message string) {
	ctx := c.Request.Context()
	flashes, _ := r.sessions.Get(ctx, constant.SessionFlashKey).([]string)
	r.sessions.Put(ctx, constant.SessionFlashKey, append(flashes, message))
}

func (r *Renderer) popFlashes(ctx context.Context) []string {
	flashes, _ := r.sessions.Pop(ctx, constant.SessionFlashKey).([]string)
	return flashes
}

// Redirect 以 303 跳转，表单提交后浏览器改用 GET
func (r *Renderer) Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// NotFound 渲染 404 页面
func (r *Renderer) NotFound(c *gin.Context) {
	r.HTML(c, http.StatusNotFound, "not_found.html", nil)
}

// Fail 把服务层错误映射为响应：
// - NotFound 渲染 404；
// - ValidationError 闪现提示并跳回 back；
// - 其他错误记录 Error 日志，闪现通用提示并跳回 back。
func (r *Renderer) Fail(c *gin.Context, err error, back string) {
	switch {
	case errors.Is(err, commonerrors.ErrRepoNotFound):
		r.NotFound(c)
	case myErrors.IsValidation(err):
		r.Flash(c, myErrors.ValidationMessage(err))
		r.Redirect(c, back)
	default:
		r.logger.Error("请求处理失败",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		r.Flash(c, genericFailureMessage)
		r.Redirect(c, back)
	}
}

// paramID 解析路径中的数字 ID，非法时渲染 404 并返回 false
func (r *Renderer) paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		r.NotFound(c)
		return 0, false
	}
	return id, true
}

// bindLenient 绑定表单，校验失败不中断请求：空字段由 service 层按业务规则处理，错误只记 Debug 便于排查
func (r *Renderer) bindLenient(c *gin.Context, obj any) {
	if err := c.ShouldBind(obj); err != nil {
		r.logger.Debug("表单绑定失败，按已解析字段继续处理",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
}
