package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/dependencies"
	"github.com/Xushengqwer/blog_service/mq/producer"
	"github.com/Xushengqwer/blog_service/repo/mysql"
	"github.com/Xushengqwer/blog_service/service"
)

func main() {
	// --- 0. 解析命令行参数 ---
	var (
		configFile     string
		numPosts       int
		numSubmissions int
		concurrency    int
		adminUser      string
		adminPass      string
		legacyUser     string
	)
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "配置文件路径")
	flag.IntVar(&numPosts, "n", 30, "要生成的文章数量")
	flag.IntVar(&numSubmissions, "submissions", 10, "要生成的待审核投稿数量")
	flag.IntVar(&concurrency, "c", 1, "并发数，SQLite 下保持为 1")
	flag.StringVar(&adminUser, "admin-user", "admin", "作为文章作者的管理员用户名")
	flag.StringVar(&adminPass, "admin-pass", "", "管理员密码，为空时不创建或修改管理员")
	flag.StringVar(&legacyUser, "legacy-user", "", "需要改名为 -admin-user 的旧管理员账号")
	flag.Parse()

	if numPosts < 0 || numSubmissions < 0 {
		fmt.Println("错误: 生成数量不能为负")
		os.Exit(1)
	}

	// --- 1. 加载配置 ---
	var cfg appConfig.BlogConfig
	if err := core.LoadConfig(configFile, &cfg); err != nil {
		fmt.Printf("加载配置失败 (%s): %v\n", configFile, err)
		os.Exit(1)
	}

	// --- 2. 初始化日志记录器 ---
	logger, err := core.NewZapLogger(cfg.ZapConfig)
	if err != nil {
		fmt.Printf("初始化 ZapLogger 失败: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Logger().Sync() }()
	zl := logger.Logger()

	// --- 3. 初始化数据库与上传存储 ---
	db, err := dependencies.InitDB(&cfg, logger)
	if err != nil {
		logger.Fatal("初始化数据库失败 (Seeder)", zap.Error(err))
	}
	storage, err := dependencies.InitFileStorage(&cfg, logger)
	if err != nil {
		logger.Fatal("初始化上传存储失败 (Seeder)", zap.Error(err))
	}

	// --- 4. 初始化 Repositories 与 Services ---
	// 填充数据不发布事件
	events := producer.NopProducer{}
	postRepo := mysql.NewPostRepository(db, zl)
	categoryRepo := mysql.NewCategoryRepository(db, zl)
	submissionRepo := mysql.NewSubmissionRepository(db, zl)
	userRepo := mysql.NewUserRepository(db, zl)

	uploads := service.NewUploadService(storage, constant.DefaultAllowedExtensions, zl)
	svc := seedServices{
		posts:       service.NewPostService(db, postRepo, mysql.NewAttachmentRepository(db, zl), categoryRepo, nil, uploads, events, zl),
		submissions: service.NewSubmissionService(db, submissionRepo, postRepo, categoryRepo, events, zl),
		categories:  service.NewCategoryService(db, categoryRepo, postRepo, submissionRepo, zl),
		auth:        service.NewAuthService(userRepo, zl),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := svc.categories.EnsureDefaults(ctx); err != nil {
		logger.Fatal("初始化默认分类失败", zap.Error(err))
	}
	if adminPass != "" {
		if _, err := svc.auth.EnsureOperator(ctx, adminUser, adminPass, legacyUser); err != nil {
			logger.Fatal("初始化管理员账号失败", zap.Error(err))
		}
	}
	author, err := userRepo.GetUserByUsername(ctx, strings.TrimSpace(adminUser))
	if err != nil {
		logger.Fatal("找不到作为作者的管理员账号，请通过 -admin-pass 创建", zap.String("username", adminUser), zap.Error(err))
	}

	// --- 5. 执行数据填充 ---
	startTime := time.Now()
	posts, submissions := Seed(ctx, svc, author.ID, numPosts, numSubmissions, concurrency, zl)
	logger.Info("数据填充完成",
		zap.Int("posts", posts),
		zap.Int("submissions", submissions),
		zap.Duration("耗时", time.Since(startTime)))
}
