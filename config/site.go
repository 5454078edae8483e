package config

// SiteConfig 列表分页等站点级参数，零值使用 constant 包中的默认值
type SiteConfig struct {
	PageSize      int `mapstructure:"pageSize" json:"pageSize" yaml:"pageSize"`
	FeaturedLimit int `mapstructure:"featuredLimit" json:"featuredLimit" yaml:"featuredLimit"`
}
