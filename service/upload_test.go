package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/dependencies"
	"github.com/Xushengqwer/blog_service/myErrors"
)

// formFile 通过真实的 multipart 解析构造 FileHeader，再覆盖文件名
func formFile(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "placeholder.bin")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	fh := form.File["file"][0]
	fh.Filename = filename
	return fh
}

func newTestUploads(t *testing.T) (UploadService, string) {
	t.Helper()
	root := t.TempDir()
	storage, err := dependencies.NewLocalStorage(root, "/static", zap.NewNop())
	require.NoError(t, err)
	return NewUploadService(storage, constant.DefaultAllowedExtensions, zap.NewNop()), root
}

func TestSecureFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":           "report.pdf",
		"../../etc/passwd.png": "passwd.png",
		`C:\temp\photo.JPG`:    "photo.jpg",
		"my summer photo.png":  "my_summer_photo.png",
		"café crème.jpg":       "cafe_creme.jpg",
		"....png":              "file.png",
		"привет.png":           "file.png",
		".hidden.txt":          "hidden.txt",
	}
	for in, want := range cases {
		assert.Equal(t, want, secureFilename(in), "input %q", in)
	}
}

func TestUploadAccept(t *testing.T) {
	ctx := context.Background()
	uploads, root := newTestUploads(t)

	t.Run("no file means no reference", func(t *testing.T) {
		ref, err := uploads.Accept(ctx, nil, constant.UploadSubdirImages)
		require.NoError(t, err)
		assert.Empty(t, ref)

		ref, err = uploads.Accept(ctx, formFile(t, "", "x"), constant.UploadSubdirImages)
		require.NoError(t, err)
		assert.Empty(t, ref)
	})

	t.Run("disallowed extension is a validation failure", func(t *testing.T) {
		ref, err := uploads.Accept(ctx, formFile(t, "script.sh", "echo"), constant.UploadSubdirImages)
		assert.Empty(t, ref)
		assert.ErrorIs(t, err, myErrors.ErrDisallowedFileType)
		assert.True(t, myErrors.IsValidation(err))

		_, err = uploads.Accept(ctx, formFile(t, "noextension", "x"), constant.UploadSubdirImages)
		assert.ErrorIs(t, err, myErrors.ErrDisallowedFileType)
	})

	t.Run("extension match is case-insensitive", func(t *testing.T) {
		ref, err := uploads.Accept(ctx, formFile(t, "IMAGE.PNG", "png"), constant.UploadSubdirImages)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(ref, "_IMAGE.png"), ref)
	})

	t.Run("path traversal is neutralised", func(t *testing.T) {
		ref, err := uploads.Accept(ctx, formFile(t, "../../etc/passwd.png", "pwn"), constant.UploadSubdirImages)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(ref, "uploads/"), ref)
		name := strings.TrimPrefix(ref, "uploads/")
		assert.NotContains(t, name, "/")
		assert.True(t, strings.HasSuffix(name, "_passwd.png"), name)

		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(ref)))
		require.NoError(t, err)
		assert.Equal(t, "pwn", string(content))
	})

	t.Run("attachments go to their own subdirectory", func(t *testing.T) {
		ref, err := uploads.Accept(ctx, formFile(t, "deck.pptx", "slides"), constant.UploadSubdirAttachments)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(ref, "uploads/attachments/"), ref)
		assert.Equal(t, "/static/"+ref, uploads.URL(ref))

		uploads.Discard(ctx, ref)
		_, err = os.Stat(filepath.Join(root, filepath.FromSlash(ref)))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("same name twice yields distinct references", func(t *testing.T) {
		a, err := uploads.Accept(ctx, formFile(t, "a.txt", "1"), constant.UploadSubdirImages)
		require.NoError(t, err)
		b, err := uploads.Accept(ctx, formFile(t, "a.txt", "2"), constant.UploadSubdirImages)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("absolute urls pass through", func(t *testing.T) {
		assert.Equal(t, "https://cdn.example.com/x.png", uploads.URL("https://cdn.example.com/x.png"))
		assert.Empty(t, uploads.URL(""))
	})
}
