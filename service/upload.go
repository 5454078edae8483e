package service

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/Xushengqwer/blog_service/dependencies"
	"github.com/Xushengqwer/blog_service/myErrors"
)

// uploadRefRoot 是所有上传引用的公共前缀，相对于静态资源根目录
const uploadRefRoot = "uploads"

// UploadService 校验并保存上传文件，返回可写入数据库的相对引用。
type UploadService interface {
	// Accept 保存一个上传文件。
	// - 未提供文件或文件名为空时返回 ("", nil)，调用方视为“没有文件”。
	// - 扩展名不在白名单中时返回 ValidationError (包装 myErrors.ErrDisallowedFileType)。
	Accept(ctx context.Context, file *multipart.FileHeader, subdir string) (string, error)

	// Discard 删除已保存的文件，失败只记录日志。
	Discard(ctx context.Context, ref string)

	// URL 返回引用的公开访问地址
	URL(ref string) string
}

type uploadService struct {
	storage dependencies.FileStorage
	allowed map[string]struct{}
	logger  *zap.Logger
}

// NewUploadService 创建上传服务，allowedExtensions 为小写且不含点的扩展名
func NewUploadService(storage dependencies.FileStorage, allowedExtensions []string, logger *zap.Logger) UploadService {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &uploadService{storage: storage, allowed: allowed, logger: logger}
}

func (s *uploadService) Accept(ctx context.Context, file *multipart.FileHeader, subdir string) (string, error) {
	if file == nil || file.Filename == "" {
		return "", nil
	}
	if !s.isAllowed(file.Filename) {
		s.logger.Warn("拒绝不在白名单内的上传文件", zap.String("filename", file.Filename))
		return "", myErrors.NewValidationError(
			fmt.Sprintf("File type not allowed: %s", file.Filename), myErrors.ErrDisallowedFileType)
	}

	ref := path.Join(uploadRefRoot, subdir, uuid.NewString()+"_"+secureFilename(file.Filename))

	src, err := file.Open()
	if err != nil {
		s.logger.Error("打开上传文件失败", zap.String("filename", file.Filename), zap.Error(err))
		return "", fmt.Errorf("打开上传文件 %s 失败: %w", file.Filename, err)
	}
	defer src.Close()

	if err := s.storage.Save(ctx, ref, src, file.Size, contentTypeOf(file)); err != nil {
		return "", fmt.Errorf("保存上传文件 %s 失败: %w", file.Filename, err)
	}
	s.logger.Info("上传文件已保存", zap.String("filename", file.Filename), zap.String("ref", ref))
	return ref, nil
}

func (s *uploadService) Discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.storage.Delete(ctx, ref); err != nil {
		s.logger.Error("清理上传文件失败", zap.String("ref", ref), zap.Error(err))
	}
}

func (s *uploadService) URL(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return s.storage.URL(ref)
}

// isAllowed 按最后一个扩展名做大小写无关的白名单匹配
func (s *uploadService) isAllowed(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	_, ok := s.allowed[strings.ToLower(filename[i+1:])]
	return ok
}

func contentTypeOf(file *multipart.FileHeader) string {
	if ct := file.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(file.Filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// secureFilename 只保留文件名的最后一段并折叠为 ASCII 安全字符。
// 结果不含路径分隔符，也不以点开头。
func secureFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))

	ext := strings.ToLower(path.Ext(name))
	stem := strings.TrimSuffix(name, path.Ext(name))
	ext = unsafeFilenameChars.ReplaceAllString(ext, "")

	stem = strings.Join(strings.Fields(toASCII(stem)), "_")
	stem = unsafeFilenameChars.ReplaceAllString(stem, "")
	stem = strings.Trim(stem, "._")
	if stem == "" {
		stem = "file"
	}
	return stem + ext
}

// toASCII 做 NFKD 分解后丢弃非 ASCII 字符，例如 "café" -> "cafe"
func toASCII(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}
