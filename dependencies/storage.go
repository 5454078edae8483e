package dependencies

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/blog_service/config"
)

// ErrOutsideRoot 表示存储引用解析后不在存储根目录内
var ErrOutsideRoot = errors.New("storage reference escapes the storage root")

// FileStorage 定义上传文件的持久化后端。
// ref 是以 "/" 分隔的相对引用 (例如 "uploads/attachments/x.pdf")，原样保存在数据库中。
type FileStorage interface {
	Save(ctx context.Context, ref string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, ref string) error
	// URL 返回引用的公开访问地址
	URL(ref string) string
}

// InitFileStorage 按配置选择本地目录或 COS 作为上传后端
func InitFileStorage(cfg *appConfig.BlogConfig, logger *core.ZapLogger) (FileStorage, error) {
	switch strings.ToLower(cfg.UploadConfig.Backend) {
	case appConfig.StorageCOS:
		storage, err := InitCOS(&cfg.COSConfig, logger.Logger())
		if err != nil {
			return nil, err
		}
		return storage, nil
	case appConfig.StorageLocal, "":
		storage, err := NewLocalStorage(cfg.UploadConfig.RootDir, cfg.UploadConfig.URLPrefix, logger.Logger())
		if err != nil {
			return nil, err
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("不支持的上传存储后端: %q", cfg.UploadConfig.Backend)
	}
}

// LocalStorage 把文件写入本地静态资源根目录
type LocalStorage struct {
	root      string
	urlPrefix string
	logger    *zap.Logger
}

// NewLocalStorage 创建本地存储，root 不存在时自动创建
func NewLocalStorage(root, urlPrefix string, logger *zap.Logger) (*LocalStorage, error) {
	if root == "" {
		root = "static"
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("解析上传根目录 %q 失败: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传根目录 %q 失败: %w", abs, err)
	}
	if urlPrefix == "" {
		urlPrefix = "/static"
	}
	return &LocalStorage{root: abs, urlPrefix: strings.TrimSuffix(urlPrefix, "/"), logger: logger}, nil
}

// Root 返回存储根目录的绝对路径
func (s *LocalStorage) Root() string { return s.root }

// URLPrefix 返回静态资源访问前缀
func (s *LocalStorage) URLPrefix() string { return s.urlPrefix }

// resolve 把引用转换为根目录内的绝对路径
func (s *LocalStorage) resolve(ref string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+ref)))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", ErrOutsideRoot
	}
	return full, nil
}

func (s *LocalStorage) Save(ctx context.Context, ref string, reader io.Reader, _ int64, _ string) error {
	full, err := s.resolve(ref)
	if err != nil {
		return err
	}
	// 已取消的请求不落盘；写入完成后不再看 ctx，否则调用方拿不到 ref 无法清理文件
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		s.logger.Error("创建上传目录失败", zap.String("dir", filepath.Dir(full)), zap.Error(err))
		return fmt.Errorf("创建上传目录失败: %w", err)
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		s.logger.Error("创建上传文件失败", zap.String("ref", ref), zap.Error(err))
		return fmt.Errorf("创建上传文件失败: %w", err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		s.logger.Error("写入上传文件失败", zap.String("ref", ref), zap.Error(err))
		return fmt.Errorf("写入上传文件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return fmt.Errorf("关闭上传文件失败: %w", err)
	}
	s.logger.Info("文件已保存到本地存储", zap.String("ref", ref))
	return nil
}

func (s *LocalStorage) Delete(_ context.Context, ref string) error {
	full, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		s.logger.Error("删除本地文件失败", zap.String("ref", ref), zap.Error(err))
		return fmt.Errorf("删除本地文件失败: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(ref string) string {
	return s.urlPrefix + "/" + strings.TrimPrefix(ref, "/")
}
