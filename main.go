package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	sharedCore "github.com/Xushengqwer/go-common/core"
	sharedTracing "github.com/Xushengqwer/go-common/core/tracing"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/controller"
	"github.com/Xushengqwer/blog_service/dependencies"
	_ "github.com/Xushengqwer/blog_service/docs"
	"github.com/Xushengqwer/blog_service/mq/consumer"
	"github.com/Xushengqwer/blog_service/mq/producer"
	"github.com/Xushengqwer/blog_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/blog_service/repo/redis"
	"github.com/Xushengqwer/blog_service/router"
	"github.com/Xushengqwer/blog_service/service"
	"github.com/Xushengqwer/blog_service/tasks"
	"github.com/Xushengqwer/blog_service/web"
)

// @title           Blog Service
// @version         1.0
// @description     内容发布平台：文章、投稿审核、评论、订阅与服务咨询。

// @host      localhost:8080
// @schemes http https
func main() {
	var configFile, operatorUser, operatorPass, legacyUser string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.StringVar(&operatorUser, "admin-user", os.Getenv("BLOG_ADMIN_USER"), "Operator username to create or update at startup")
	flag.StringVar(&operatorPass, "admin-pass", os.Getenv("BLOG_ADMIN_PASS"), "Operator password to set at startup")
	flag.StringVar(&legacyUser, "legacy-user", "", "Legacy operator account to rename to -admin-user")
	flag.Parse()

	// 1. 加载配置
	var cfg appConfig.BlogConfig
	if err := sharedCore.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	// 2. 初始化 Logger
	logger, loggerErr := sharedCore.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	zl := logger.Logger()
	logger.Info("Logger 初始化成功")

	// 3. 初始化 TracerProvider
	if cfg.TracerConfig.Enabled {
		tracerShutdown, err := sharedTracing.InitTracerProvider(constant.ServiceName, constant.ServiceVersion, cfg.TracerConfig)
		if err != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			}
		}()
		logger.Info("分布式追踪已初始化")
	} else {
		logger.Info("分布式追踪已禁用")
	}

	// --- 4. 初始化核心依赖 ---
	db, err := dependencies.InitDB(&cfg, logger)
	if err != nil {
		logger.Fatal("初始化数据库失败", zap.Error(err))
	}

	storage, err := dependencies.InitFileStorage(&cfg, logger)
	if err != nil {
		logger.Fatal("初始化上传存储失败", zap.Error(err))
	}

	sessions, err := dependencies.InitSessionManager(&cfg, db, logger)
	if err != nil {
		logger.Fatal("初始化会话管理器失败", zap.Error(err))
	}

	var eventProducer producer.EventProducer = producer.NopProducer{}
	var kafkaProducer *producer.KafkaProducer
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, zl)
		eventProducer = kafkaProducer
		logger.Info("Kafka 生产者已初始化")
	} else {
		logger.Warn("未配置 Kafka brokers，内容事件不会发布")
	}

	// --- 5. 初始化数据仓库层 ---
	postRepo := mysql.NewPostRepository(db, zl)
	attachmentRepo := mysql.NewAttachmentRepository(db, zl)
	commentRepo := mysql.NewCommentRepository(db, zl)
	categoryRepo := mysql.NewCategoryRepository(db, zl)
	submissionRepo := mysql.NewSubmissionRepository(db, zl)
	subscriberRepo := mysql.NewSubscriberRepository(db, zl)
	settingsRepo := mysql.NewSettingsRepository(db, zl)
	orderRepo := mysql.NewServiceOrderRepository(db, zl)
	userRepo := mysql.NewUserRepository(db, zl)
	postBatchRepo := mysql.NewPostBatchOperationsRepository(db, zl, cfg.ViewSyncConfig)

	// Redis 未配置时浏览量直接写库，热门文章每次回源数据库
	var (
		postViewRepo redisrepo.PostViewRepository
		popularCache redisrepo.PopularPostsCache
	)
	if cfg.RedisConfig.Enabled() {
		rdb, err := dependencies.InitRedis(&cfg.RedisConfig, logger)
		if err != nil {
			logger.Fatal("初始化 Redis 失败", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		postViewRepo = redisrepo.NewPostViewRepository(rdb, zl, cfg.ViewSyncConfig)
		popularCache = redisrepo.NewPopularPostsCache(rdb, zl)
	} else {
		logger.Warn("未配置 Redis，浏览量将直接写入数据库")
	}

	// --- 6. 初始化服务层 ---
	allowed := cfg.UploadConfig.AllowedExtensions
	if len(allowed) == 0 {
		allowed = constant.DefaultAllowedExtensions
	}
	uploadService := service.NewUploadService(storage, allowed, zl)
	postService := service.NewPostService(db, postRepo, attachmentRepo, categoryRepo, postViewRepo, uploadService, eventProducer, zl)
	popularService := service.NewPopularPostService(popularCache, postBatchRepo, cfg.PopularPostsConfig.Limit, zl)
	listService := service.NewPostListService(postRepo, popularService, cfg.SiteConfig, zl)
	submissionService := service.NewSubmissionService(db, submissionRepo, postRepo, categoryRepo, eventProducer, zl)
	commentService := service.NewCommentService(db, commentRepo, postRepo, zl)
	categoryService := service.NewCategoryService(db, categoryRepo, postRepo, submissionRepo, zl)
	settingsService := service.NewSettingsService(settingsRepo, zl)
	subscriberService := service.NewSubscriberService(subscriberRepo, zl)
	orderService := service.NewServiceOrderService(orderRepo, zl)
	dashboardService := service.NewDashboardService(postRepo, subscriberRepo, submissionRepo, categoryRepo, settingsRepo, orderRepo, zl)
	authService := service.NewAuthService(userRepo, zl)

	// --- 7. 启动前的数据准备 ---
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := categoryService.EnsureDefaults(startupCtx); err != nil {
		logger.Fatal("初始化默认分类失败", zap.Error(err))
	}
	if n, err := postService.BackfillSlugs(startupCtx); err != nil {
		logger.Fatal("补齐文章 slug 失败", zap.Error(err))
	} else if n > 0 {
		logger.Info("已为历史文章补齐 slug", zap.Int("count", n))
	}
	if operatorUser != "" && operatorPass != "" {
		created, err := authService.EnsureOperator(startupCtx, operatorUser, operatorPass, legacyUser)
		if err != nil {
			logger.Fatal("初始化管理员账号失败", zap.Error(err))
		}
		logger.Info("管理员账号已就绪", zap.String("username", operatorUser), zap.Bool("created", created))
	}
	startupCancel()

	// --- 8. 初始化控制器与路由 ---
	render := controller.NewRenderer(sessions, settingsService, categoryService, zl)
	controllers := router.Controllers{
		Render:       render,
		Post:         controller.NewPostController(render, postService, listService, commentService, subscriberService, zl),
		PostAdmin:    controller.NewPostAdminController(render, postService, categoryService, uploadService, cfg.UploadConfig.MaxMultipartMB<<20, zl),
		Submission:   controller.NewSubmissionController(render, submissionService, categoryService, uploadService, zl),
		Admin:        controller.NewAdminController(render, dashboardService, settingsService, categoryService, commentService, postService, zl),
		ServiceOrder: controller.NewServiceOrderController(render, orderService, zl),
		Auth:         controller.NewAuthController(render, authService, zl),
	}

	templates, err := web.Templates(uploadService.URL)
	if err != nil {
		logger.Fatal("解析页面模板失败", zap.Error(err))
	}

	var static *router.StaticMount
	if local, ok := storage.(*dependencies.LocalStorage); ok {
		static = &router.StaticMount{URLPrefix: local.URLPrefix(), Root: local.Root()}
	}
	handler := router.SetupRouter(logger, &cfg, sessions, templates, static, controllers)

	// --- 9. Kafka 投稿入口消费者 ---
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	var consumers []*consumer.Consumer
	var consumerWg sync.WaitGroup
	if topic := cfg.KafkaConfig.Topics.SubmissionIntake; len(cfg.KafkaConfig.Brokers) > 0 && topic != "" {
		intake, err := consumer.NewConsumer(&cfg.KafkaConfig, topic, consumer.NewSubmissionIntakeHandler(zl, submissionService), zl)
		if err != nil {
			logger.Fatal("初始化投稿入口消费者失败", zap.Error(err))
		}
		consumers = append(consumers, intake)
	} else {
		logger.Info("未配置投稿入口 topic，跳过 Kafka 消费者")
	}
	for _, c := range consumers {
		consumerWg.Add(1)
		go func(cons *consumer.Consumer) {
			defer consumerWg.Done()
			cons.Start(consumerCtx)
		}(c)
	}

	// --- 10. 定时任务，只在启用 Redis 时需要 ---
	var stoppers []interface{ Stop() context.Context }
	if postViewRepo != nil {
		syncTask, err := tasks.NewViewCountSyncTask(postViewRepo, postBatchRepo, cfg.ViewSyncConfig, zl)
		if err != nil {
			logger.Fatal("初始化浏览量同步任务失败", zap.Error(err))
		}
		popularTask, err := tasks.NewPopularPostsCacheTask(popularCache, postBatchRepo, cfg.PopularPostsConfig, zl)
		if err != nil {
			logger.Fatal("初始化热门文章缓存任务失败", zap.Error(err))
		}
		if err := popularTask.RunOnce(context.Background()); err != nil {
			logger.Warn("预热热门文章缓存失败", zap.Error(err))
		}
		stoppers = append(stoppers, syncTask, popularTask)
		logger.Info("后台定时任务已启动")
	}

	// --- 11. 启动 HTTP 服务器 ---
	serverAddr := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
	}()

	// --- 12. 优雅关停 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	logger.Info("收到关停信号，开始优雅退出...", zap.String("signal", receivedSignal.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭 HTTP 服务器失败", zap.Error(err))
	}

	consumerCancel()
	consumerWg.Wait()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Error("关闭 Kafka 消费者时出错", zap.Error(err))
		}
	}

	// cron.Stop 返回的 context 在正在运行的任务结束后关闭
	for _, s := range stoppers {
		select {
		case <-s.Stop().Done():
		case <-shutdownCtx.Done():
			logger.Error("等待定时任务停止超时", zap.Error(shutdownCtx.Err()))
		}
	}

	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			logger.Error("关闭 Kafka 生产者失败", zap.Error(err))
		}
	}
	logger.Info("服务已成功关闭")
}
