package config

// SessionConfig 管理员会话 Cookie 配置
type SessionConfig struct {
	CookieName    string `mapstructure:"cookieName" json:"cookieName" yaml:"cookieName"`
	LifetimeHours int    `mapstructure:"lifetimeHours" json:"lifetimeHours" yaml:"lifetimeHours"`
	IdleHours     int    `mapstructure:"idleHours" json:"idleHours" yaml:"idleHours"`
	Secure        bool   `mapstructure:"secure" json:"secure" yaml:"secure"`
	// PersistStore 为 true 且数据库驱动为 mysql 时，会话写入 sessions 表，否则保存在内存中
	PersistStore bool `mapstructure:"persistStore" json:"persistStore" yaml:"persistStore"`
}
