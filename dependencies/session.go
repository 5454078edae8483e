package dependencies

import (
	"net/http"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"gorm.io/gorm"

	appConfig "github.com/Xushengqwer/blog_service/config"
)

// InitSessionManager 创建管理员会话管理器。
// 只有 persistStore 打开且使用 MySQL 时才把会话写入 sessions 表，其余情况使用内存存储。
func InitSessionManager(cfg *appConfig.BlogConfig, db *gorm.DB, logger *core.ZapLogger) (*scs.SessionManager, error) {
	sessionCfg := cfg.SessionConfig
	sm := scs.New()
	sm.Store = memstore.New()

	if sessionCfg.PersistStore && strings.EqualFold(cfg.DatabaseConfig.Driver, appConfig.DriverMySQL) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sm.Store = mysqlstore.New(sqlDB)
		logger.Info("会话存储使用 MySQL sessions 表")
	} else {
		logger.Info("会话存储使用内存，服务重启后需要重新登录")
	}

	if sessionCfg.CookieName != "" {
		sm.Cookie.Name = sessionCfg.CookieName
	}
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = sessionCfg.Secure
	sm.Lifetime = hoursOr(sessionCfg.LifetimeHours, 24)
	sm.IdleTimeout = hoursOr(sessionCfg.IdleHours, 12)
	return sm, nil
}

func hoursOr(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Hour
}
