package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/service"
)

// AuthController 处理管理员登录与退出
type AuthController struct {
	render *Renderer
	auth   service.AuthService
	logger *zap.Logger
}

func NewAuthController(render *Renderer, auth service.AuthService, logger *zap.Logger) *AuthController {
	return &AuthController{render: render, auth: auth, logger: logger}
}

// LoginForm 登录页
func (ctrl *AuthController) LoginForm(c *gin.Context) {
	ctrl.render.HTML(c, http.StatusOK, "login.html", nil)
}

// Login 校验账号密码，成功后轮换会话 token 并写入管理员 ID
// @Summary      管理员登录
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        username formData string true "用户名"
// @Param        password formData string true "密码"
// @Success      303 {string} string "跳转到管理后台"
// @Router       /login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.render.Flash(c, "Please enter your username and password.")
		ctrl.render.Redirect(c, "/login")
		return
	}
	ctx := c.Request.Context()
	user, err := ctrl.auth.Authenticate(ctx, form.Username, form.Password)
	if err != nil {
		if errors.Is(err, myErrors.ErrInvalidCredentials) {
			ctrl.render.Flash(c, "Invalid username or password.")
			ctrl.render.Redirect(c, "/login")
			return
		}
		ctrl.render.Fail(c, err, "/login")
		return
	}

	// 登录前后使用不同的会话 token，防止会话固定攻击
	if err := ctrl.render.sessions.RenewToken(ctx); err != nil {
		ctrl.render.Fail(c, err, "/login")
		return
	}
	ctrl.render.sessions.Put(ctx, constant.SessionOperatorIDKey, int(user.ID))
	ctrl.render.Redirect(c, "/dashboard")
}

// Logout 退出登录
// @Summary      退出登录
// @Tags         auth
// @Success      303 {string} string "跳转到首页"
// @Router       /logout [get]
func (ctrl *AuthController) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if err := ctrl.render.sessions.RenewToken(ctx); err != nil {
		ctrl.logger.Warn("退出登录时轮换会话 token 失败", zap.Error(err))
	}
	ctrl.render.sessions.Remove(ctx, constant.SessionOperatorIDKey)
	ctrl.render.Redirect(c, "/")
}

// RegisterRoutes 注册登录相关路由
func (ctrl *AuthController) RegisterRoutes(public, operator *gin.RouterGroup) {
	public.GET("/login", ctrl.LoginForm)
	public.POST("/login", ctrl.Login)
	operator.GET("/logout", ctrl.Logout)
}
