package config

// 支持的数据库驱动
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// DatabaseConfig 选择存储后端。driver 为空时按 sqlite 处理。
type DatabaseConfig struct {
	Driver      string       `mapstructure:"driver" json:"driver" yaml:"driver"`
	MySQLConfig MySQLConfig  `mapstructure:"mysql" json:"mysql" yaml:"mysql"`
	SQLite      SQLiteConfig `mapstructure:"sqlite" json:"sqlite" yaml:"sqlite"`
}

// SQLiteConfig 本地开发与单机部署使用的嵌入式数据库
type SQLiteConfig struct {
	Path string `mapstructure:"path" json:"path" yaml:"path"` // 例如 "blog.db"，":memory:" 表示内存库
}

// SourceConfig 代表一个数据库源（主库或从库）的配置
type SourceConfig struct {
	DSN string `mapstructure:"dsn" json:"-" yaml:"dsn"`
	// 独立的连接池设置，允许覆盖共享设置 (可选)
	MaxIdleConns    *int `mapstructure:"max_idle_conns,omitempty" json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty"`
	MaxOpenConns    *int `mapstructure:"max_open_conns,omitempty" json:"max_open_conns,omitempty" yaml:"max_open_conns,omitempty"`
	ConnMaxLifetime *int `mapstructure:"conn_max_lifetime,omitempty" json:"conn_max_lifetime,omitempty" yaml:"conn_max_lifetime,omitempty"` // 秒
}

// MySQLConfig 包含主库和从库的配置 (使用 DSN)
type MySQLConfig struct {
	Write SourceConfig   `mapstructure:"write" json:"write" yaml:"write"`
	Read  []SourceConfig `mapstructure:"read" json:"read" yaml:"read"` // 为空表示不启用读写分离

	// 共享/默认连接池设置
	SharedMaxIdleConns    int `mapstructure:"max_idle_conns" json:"max_idle_conns" yaml:"max_idle_conns"`
	SharedMaxOpenConns    int `mapstructure:"max_open_conns" json:"max_open_conns" yaml:"max_open_conns"`
	SharedConnMaxLifetime int `mapstructure:"conn_max_lifetime" json:"conn_max_lifetime" yaml:"conn_max_lifetime"` // 秒
}
