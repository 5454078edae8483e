package config

import "github.com/Xushengqwer/go-common/config"

// BlogConfig 是服务的根配置，由 core.LoadConfig 从 YAML 文件加载。
type BlogConfig struct {
	ZapConfig          config.ZapConfig     `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	GormLogConfig      config.GormLogConfig `mapstructure:"gormLogConfig" json:"gormLogConfig" yaml:"gormLogConfig"`
	ServerConfig       config.ServerConfig  `mapstructure:"serverConfig" json:"serverConfig" yaml:"serverConfig"`
	TracerConfig       config.TracerConfig  `mapstructure:"tracerConfig" json:"tracerConfig" yaml:"tracerConfig"`
	DatabaseConfig     DatabaseConfig       `mapstructure:"databaseConfig" json:"databaseConfig" yaml:"databaseConfig"`
	RedisConfig        RedisConfig          `mapstructure:"redisConfig" json:"redisConfig" yaml:"redisConfig"`
	KafkaConfig        KafkaConfig          `mapstructure:"kafkaConfig" json:"kafkaConfig" yaml:"kafkaConfig"`
	UploadConfig       UploadConfig         `mapstructure:"uploadConfig" json:"uploadConfig" yaml:"uploadConfig"`
	COSConfig          COSConfig            `mapstructure:"cosConfig" json:"cosConfig" yaml:"cosConfig"`
	SessionConfig      SessionConfig        `mapstructure:"sessionConfig" json:"sessionConfig" yaml:"sessionConfig"`
	ViewSyncConfig     ViewSyncConfig       `mapstructure:"viewSyncConfig" json:"viewSyncConfig" yaml:"viewSyncConfig"`
	PopularPostsConfig PopularPostsConfig   `mapstructure:"popularPostsConfig" json:"popularPostsConfig" yaml:"popularPostsConfig"`
	SiteConfig         SiteConfig           `mapstructure:"siteConfig" json:"siteConfig" yaml:"siteConfig"`
}
