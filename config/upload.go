package config

// 上传存储后端
const (
	StorageLocal = "local"
	StorageCOS   = "cos"
)

// UploadConfig 上传文件的校验与存储位置
type UploadConfig struct {
	Backend           string   `mapstructure:"backend" json:"backend" yaml:"backend"`                               // local | cos
	RootDir           string   `mapstructure:"rootDir" json:"rootDir" yaml:"rootDir"`                               // 本地静态资源根目录，例如 "static"
	URLPrefix         string   `mapstructure:"urlPrefix" json:"urlPrefix" yaml:"urlPrefix"`                         // 静态资源访问前缀，例如 "/static"
	AllowedExtensions []string `mapstructure:"allowedExtensions" json:"allowedExtensions" yaml:"allowedExtensions"` // 为空时使用默认白名单
	MaxMultipartMB    int64    `mapstructure:"maxMultipartMB" json:"maxMultipartMB" yaml:"maxMultipartMB"`
}

// COSConfig 腾讯云对象存储配置，仅在 backend 为 cos 时使用
type COSConfig struct {
	SecretID   string `mapstructure:"secretID" json:"-" yaml:"secretID"`
	SecretKey  string `mapstructure:"secretKey" json:"-" yaml:"secretKey"`
	BucketName string `mapstructure:"bucketName" json:"bucketName" yaml:"bucketName"`
	AppID      string `mapstructure:"appID" json:"appID" yaml:"appID"`
	Region     string `mapstructure:"region" json:"region" yaml:"region"`
	BaseURL    string `mapstructure:"baseURL" json:"baseURL" yaml:"baseURL"` // 可选，CDN 或自定义域名
}
