package router

import (
	"html/template"
	"net/http"
	"time"

	"github.com/Xushengqwer/go-common/core"
	commonMiddleware "github.com/Xushengqwer/go-common/middleware"
	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/controller"
	"github.com/Xushengqwer/blog_service/middleware"
)

// Controllers 汇总所有需要注册路由的控制器
type Controllers struct {
	Render       *controller.Renderer
	Post         *controller.PostController
	PostAdmin    *controller.PostAdminController
	Submission   *controller.SubmissionController
	Admin        *controller.AdminController
	ServiceOrder *controller.ServiceOrderController
	Auth         *controller.AuthController
}

// StaticMount 描述本地上传目录的访问前缀，使用 COS 时为 nil
type StaticMount struct {
	URLPrefix string
	Root      string
}

// SetupRouter 配置 Gin 引擎、全局中间件和路由，返回挂好会话中间件的 http.Handler。
func SetupRouter(
	logger *core.ZapLogger,
	cfg *appConfig.BlogConfig,
	sessions *scs.SessionManager,
	templates *template.Template,
	static *StaticMount,
	controllers Controllers,
) http.Handler {
	logger.Info("开始设置 Gin 路由...")

	// 使用 gin.New() 而不是 gin.Default()，Recovery 和访问日志由公共中间件负责
	engine := gin.New()

	// 1. OTel 追踪最先执行，后续中间件的日志才能带上 TraceID
	engine.Use(otelgin.Middleware(constant.ServiceName))
	// 2. Panic Recovery
	engine.Use(commonMiddleware.ErrorHandlingMiddleware(logger))
	// 3. 访问日志
	engine.Use(commonMiddleware.RequestLoggerMiddleware(logger.Logger()))
	// 4. 超时控制，配置单位为秒
	if cfg.ServerConfig.RequestTimeout > 0 {
		requestTimeout := time.Duration(cfg.ServerConfig.RequestTimeout) * time.Second
		engine.Use(commonMiddleware.RequestTimeoutMiddleware(logger, requestTimeout))
	}
	logger.Debug("已注册全局中间件")

	registerRoutes(engine, sessions, templates, static, controllers, logger.Logger())

	// 访问 /swagger/index.html 查看接口文档
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	logger.Info("Gin 路由器设置完成")
	return sessions.LoadAndSave(engine)
}

// registerRoutes 注册模板、静态目录、健康检查和各控制器路由
func registerRoutes(
	engine *gin.Engine,
	sessions *scs.SessionManager,
	templates *template.Template,
	static *StaticMount,
	controllers Controllers,
	logger *zap.Logger,
) {
	engine.SetHTMLTemplate(templates)

	if static != nil {
		engine.Static(static.URLPrefix, static.Root)
		logger.Info("本地上传目录已挂载",
			zap.String("prefix", static.URLPrefix),
			zap.String("root", static.Root))
	}

	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	public := engine.Group("/")
	operator := engine.Group("/", middleware.RequireOperator(sessions, logger))

	controllers.Post.RegisterRoutes(public)
	controllers.Submission.RegisterRoutes(public, operator)
	controllers.ServiceOrder.RegisterRoutes(public, operator)
	controllers.Auth.RegisterRoutes(public, operator)
	controllers.PostAdmin.RegisterRoutes(operator)
	controllers.Admin.RegisterRoutes(operator)

	engine.NoRoute(controllers.Render.NotFound)
	logger.Info("所有控制器路由已注册")
}
