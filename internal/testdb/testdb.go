// Package testdb 为测试提供迁移好的内存 SQLite 数据库。
package testdb

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Xushengqwer/blog_service/dependencies"
	"github.com/Xushengqwer/blog_service/models/entities"
)

// New 打开一个独立的内存数据库并执行自动迁移。
// 连接池限制为单连接，":memory:" 库只存在于该连接中；事务内的查询必须使用事务对象。
func New(t testing.TB) *gorm.DB {
	t.Helper()
	require.NoError(t, dependencies.RegisterSQLiteFunctions())
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(entities.All()...))
	return db
}
