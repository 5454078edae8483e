package config

// RedisConfig 配置浏览量计数与热门文章缓存。Addr 为空时不启用 Redis，浏览量直接写库。
type RedisConfig struct {
	Addr         string `mapstructure:"addr" json:"addr" yaml:"addr"`
	Password     string `mapstructure:"password" json:"-" yaml:"password"`
	DB           int    `mapstructure:"db" json:"db" yaml:"db"`
	PoolSize     int    `mapstructure:"poolSize" json:"poolSize" yaml:"poolSize"`
	DialTimeout  int    `mapstructure:"dialTimeout" json:"dialTimeout" yaml:"dialTimeout"`    // 秒
	ReadTimeout  int    `mapstructure:"readTimeout" json:"readTimeout" yaml:"readTimeout"`    // 秒
	WriteTimeout int    `mapstructure:"writeTimeout" json:"writeTimeout" yaml:"writeTimeout"` // 秒
}

// Enabled 报告是否配置了 Redis
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}
