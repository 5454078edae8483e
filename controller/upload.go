package controller

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/service"
)

// formFile 读取单个上传字段，字段缺失或请求不是 multipart 时返回 nil
func formFile(c *gin.Context, name string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	return fh, err
}

// formFiles 读取多文件上传字段
func formFiles(c *gin.Context, name string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[name]
}

// acceptAttachments 保存全部附件；任一文件被拒绝时清理已保存的文件并返回错误
func acceptAttachments(ctx context.Context, uploads service.UploadService, files []*multipart.FileHeader) ([]dto.UploadedFile, error) {
	accepted := make([]dto.UploadedFile, 0, len(files))
	for _, fh := range files {
		ref, err := uploads.Accept(ctx, fh, constant.UploadSubdirAttachments)
		if err != nil {
			for _, a := range accepted {
				uploads.Discard(ctx, a.Ref)
			}
			return nil, err
		}
		if ref != "" {
			accepted = append(accepted, dto.UploadedFile{OriginalName: fh.Filename, Ref: ref})
		}
	}
	return accepted, nil
}
