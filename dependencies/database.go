package dependencies

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	appConfig "github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/models/entities"
)

// InitDB 按配置打开 MySQL 或 SQLite，并执行自动迁移。
func InitDB(cfg *appConfig.BlogConfig, logger *core.ZapLogger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         core.NewGormLogger(logger, cfg.GormLogConfig),
		TranslateError: true, // 唯一索引冲突翻译为 gorm.ErrDuplicatedKey
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driver := strings.ToLower(cfg.DatabaseConfig.Driver); driver {
	case appConfig.DriverMySQL:
		db, err = openMySQL(cfg.DatabaseConfig.MySQLConfig, gormConfig, logger)
	case appConfig.DriverSQLite, "":
		db, err = openSQLite(cfg.DatabaseConfig.SQLite, gormConfig, logger)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("开始执行数据库自动迁移...")
	models := entities.All()
	if cfg.SessionConfig.PersistStore && strings.EqualFold(cfg.DatabaseConfig.Driver, appConfig.DriverMySQL) {
		models = append(models, &entities.Session{})
	}
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("数据库自动迁移失败", zap.Error(err))
		return nil, fmt.Errorf("数据库自动迁移失败: %w", err)
	}
	logger.Info("数据库自动迁移完成")
	return db, nil
}

func openSQLite(cfg appConfig.SQLiteConfig, gormConfig *gorm.Config, logger *core.ZapLogger) (*gorm.DB, error) {
	path := cfg.Path
	if path == "" {
		path = "blog.db"
	}
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	}
	if err := RegisterSQLiteFunctions(); err != nil {
		return nil, fmt.Errorf("注册 SQLite 函数失败: %w", err)
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		logger.Error("打开 SQLite 数据库失败", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("打开 SQLite 数据库失败: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取数据库对象: %w", err)
	}
	if path == ":memory:" {
		// 内存库只存在于单个连接中
		sqlDB.SetMaxOpenConns(1)
	}
	logger.Info("成功打开 SQLite 数据库", zap.String("path", path))
	return db, nil
}

// openMySQL 连接主库 (带重试)，并在配置了从库时启用读写分离
func openMySQL(mysqlCfg appConfig.MySQLConfig, gormConfig *gorm.Config, logger *core.ZapLogger) (*gorm.DB, error) {
	if mysqlCfg.Write.DSN == "" {
		return nil, fmt.Errorf("主数据库 DSN (mysql.write.dsn) 未配置")
	}

	var db *gorm.DB
	var err error
	maxRetries := 5
	retryInterval := 2 * time.Second

	logger.Info("开始连接主数据库...")
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(mysql.Open(mysqlCfg.Write.DSN), gormConfig)
		if err == nil {
			var sqlDB *sql.DB
			sqlDB, err = db.DB()
			if err == nil {
				if err = sqlDB.Ping(); err == nil {
					break
				}
			}
		}
		logger.Warn("无法连接到主数据库，尝试重试", zap.Int("retry", i+1), zap.Int("maxRetries", maxRetries), zap.Error(err))
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}
	if err != nil {
		logger.Error("无法连接到主数据库", zap.Error(err))
		return nil, fmt.Errorf("无法连接到主数据库: %w", err)
	}
	logger.Info("成功连接到主数据库")

	readReplicas := make([]gorm.Dialector, 0, len(mysqlCfg.Read))
	for i, replicaCfg := range mysqlCfg.Read {
		if replicaCfg.DSN == "" {
			logger.Warn("发现空的从库 DSN 配置，已跳过", zap.Int("index", i))
			continue
		}
		readReplicas = append(readReplicas, mysql.Open(replicaCfg.DSN))
	}
	if len(readReplicas) > 0 {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Sources:  []gorm.Dialector{mysql.Open(mysqlCfg.Write.DSN)},
			Replicas: readReplicas,
			Policy:   dbresolver.StrictRoundRobinPolicy(),
		}))
		if err != nil {
			logger.Error("配置 GORM 读写分离插件失败", zap.Error(err))
			return nil, fmt.Errorf("配置 GORM 读写分离失败: %w", err)
		}
		logger.Info("成功配置 GORM 读写分离插件", zap.Int("从库数量", len(readReplicas)))
	} else {
		logger.Info("未配置有效的从数据库，不启用读写分离")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取数据库对象: %w", err)
	}
	maxIdle := mysqlCfg.SharedMaxIdleConns
	maxOpen := mysqlCfg.SharedMaxOpenConns
	maxLife := mysqlCfg.SharedConnMaxLifetime
	if mysqlCfg.Write.MaxIdleConns != nil {
		maxIdle = *mysqlCfg.Write.MaxIdleConns
	}
	if mysqlCfg.Write.MaxOpenConns != nil {
		maxOpen = *mysqlCfg.Write.MaxOpenConns
	}
	if mysqlCfg.Write.ConnMaxLifetime != nil {
		maxLife = *mysqlCfg.Write.ConnMaxLifetime
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(maxLife) * time.Second)
	logger.Info("配置数据库连接池",
		zap.Int("最大空闲连接数", maxIdle),
		zap.Int("最大打开连接数", maxOpen),
		zap.Int("连接最大生命周期(秒)", maxLife),
	)
	return db, nil
}
