package config

// ViewSyncConfig 包含浏览量同步任务相关的配置
type ViewSyncConfig struct {
	// Schedule 是同步任务的 cron 表达式，为空时使用 constant.SyncViewCountInterval。
	Schedule string `mapstructure:"schedule" json:"schedule" yaml:"schedule"`

	// BatchSize 是将 Redis 中的浏览量增量写回数据库时，每个批次处理的文章数量。
	// 每个批次是一条 `views = views + CASE id WHEN ? THEN ? ... END` 语句。
	BatchSize int `mapstructure:"batchSize" json:"batchSize" yaml:"batchSize"`

	// ConcurrencyLevel 是同时执行的批次数量上限。
	// 使用 sqlite 时应保持为 1。
	ConcurrencyLevel int `mapstructure:"concurrencyLevel" json:"concurrencyLevel" yaml:"concurrencyLevel"`

	// ScanBatchSize 是 SCAN 命令的 COUNT 提示值。
	ScanBatchSize int64 `mapstructure:"scanBatchSize" json:"scanBatchSize" yaml:"scanBatchSize"`
}

// PopularPostsConfig 热门文章缓存任务
type PopularPostsConfig struct {
	Schedule string `mapstructure:"schedule" json:"schedule" yaml:"schedule"` // 为空时使用 constant.RefreshPopularPostsSpec
	Limit    int    `mapstructure:"limit" json:"limit" yaml:"limit"`
	TTLMin   int    `mapstructure:"ttlMinutes" json:"ttlMinutes" yaml:"ttlMinutes"` // 缓存过期时间 (分钟)
}
