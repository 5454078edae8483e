package dependencies

import (
	"database/sql/driver"
	"strings"
	"sync"

	gosqlite "github.com/glebarez/go-sqlite"
)

var (
	sqliteFuncOnce sync.Once
	sqliteFuncErr  error
)

// RegisterSQLiteFunctions 用 Unicode 大小写规则覆盖 SQLite 内置的 lower()。
// 内置实现只处理 ASCII，搜索时 "Über" 与 "über" 会被当成不同的串。
// 只对之后新建的连接生效，必须在打开数据库之前调用；重复调用是安全的。
func RegisterSQLiteFunctions() error {
	sqliteFuncOnce.Do(func() {
		sqliteFuncErr = gosqlite.RegisterDeterministicScalarFunction("lower", 1, unicodeLower)
	})
	return sqliteFuncErr
}

func unicodeLower(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		// NULL 与数值原样返回
		return v, nil
	}
}
