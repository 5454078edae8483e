package dependencies

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tencentyun/cos-go-sdk-v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/blog_service/config"
)

// COSStorage 把上传文件保存到腾讯云 COS，ref 直接作为对象键
type COSStorage struct {
	client        *cos.Client
	publicURLBase *url.URL
	logger        *zap.Logger
}

// InitCOS 初始化腾讯云 COS 存储后端
func InitCOS(cfg *appConfig.COSConfig, logger *zap.Logger) (*COSStorage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("COS 配置不能为nil")
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" || cfg.BucketName == "" || cfg.AppID == "" || cfg.Region == "" {
		logger.Error("COS 配置不完整", zap.String("bucket", cfg.BucketName), zap.String("region", cfg.Region))
		return nil, fmt.Errorf("COS 配置不完整，缺少关键字段 (SecretID, SecretKey, BucketName, AppID, Region)")
	}

	bucketURLStr := fmt.Sprintf("https://%s-%s.cos.%s.myqcloud.com", cfg.BucketName, cfg.AppID, cfg.Region)
	bucketURL, err := url.Parse(bucketURLStr)
	if err != nil {
		return nil, fmt.Errorf("解析 COS 存储桶 URL '%s' 失败: %w", bucketURLStr, err)
	}

	publicBase := bucketURL
	if cfg.BaseURL != "" {
		if publicBase, err = url.Parse(cfg.BaseURL); err != nil {
			return nil, fmt.Errorf("解析 COS 公共访问 BaseURL '%s' 失败: %w", cfg.BaseURL, err)
		}
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: bucketURL}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	})

	logger.Info("COS 存储初始化成功",
		zap.String("存储桶名称", cfg.BucketName),
		zap.String("地域", cfg.Region),
		zap.String("公共访问基础URL", publicBase.String()),
	)
	return &COSStorage{client: client, publicURLBase: publicBase, logger: logger}, nil
}

func (c *COSStorage) URL(ref string) string {
	basePath := c.publicURLBase.Path
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	u := *c.publicURLBase
	u.Path = basePath + strings.TrimPrefix(ref, "/")
	return u.String()
}

func (c *COSStorage) Save(ctx context.Context, ref string, reader io.Reader, size int64, contentType string) error {
	opts := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   contentType,
			ContentLength: size,
		},
	}
	resp, err := c.client.Object.Put(ctx, ref, reader, opts)
	if err != nil {
		c.logger.Error("COS 文件上传 API 调用失败", zap.String("对象键", ref), zap.Error(err))
		return fmt.Errorf("上传文件 '%s' 到 COS 失败: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		c.logger.Error("COS 文件上传返回非200状态码", zap.String("对象键", ref), zap.Int("状态码", resp.StatusCode))
		return fmt.Errorf("COS 文件上传失败，状态码: %d, 响应: %s", resp.StatusCode, msg)
	}
	c.logger.Info("COS 文件上传成功", zap.String("对象键", ref))
	return nil
}

func (c *COSStorage) Delete(ctx context.Context, ref string) error {
	resp, err := c.client.Object.Delete(ctx, ref)
	if err != nil {
		c.logger.Error("COS 对象删除 API 调用失败", zap.String("对象键", ref), zap.Error(err))
		return fmt.Errorf("从 COS 删除对象 '%s' 失败: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("COS 对象删除失败，状态码: %d, 响应: %s", resp.StatusCode, msg)
	}
	return nil
}
