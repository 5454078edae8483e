package dependencies

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	storage, err := NewLocalStorage(root, "/static/", zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	ref := "uploads/attachments/abc_report.pdf"
	require.NoError(t, storage.Save(ctx, ref, strings.NewReader("data"), 4, "application/pdf"))

	content, err := os.ReadFile(filepath.Join(root, "uploads", "attachments", "abc_report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
	assert.Equal(t, "/static/uploads/attachments/abc_report.pdf", storage.URL(ref))

	// 同名文件不会被覆盖
	assert.Error(t, storage.Save(ctx, ref, strings.NewReader("other"), 5, ""))

	require.NoError(t, storage.Delete(ctx, ref))
	require.NoError(t, storage.Delete(ctx, ref), "deleting a missing file is not an error")
	_, err = os.Stat(filepath.Join(root, "uploads", "attachments", "abc_report.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageStaysInsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "static")
	storage, err := NewLocalStorage(root, "", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, storage.Save(context.Background(), "../../escape.txt", strings.NewReader("x"), 1, ""))
	_, err = os.Stat(filepath.Join(parent, "escape.txt"))
	assert.True(t, os.IsNotExist(err), "file must not be written outside the root")
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.NoError(t, err, "cleaned reference lands inside the root")

	assert.ErrorIs(t, storage.Save(context.Background(), "", strings.NewReader("x"), 1, ""), ErrOutsideRoot)
}

func TestLocalStorageSaveHonoursCancelledContext(t *testing.T) {
	root := t.TempDir()
	storage, err := NewLocalStorage(root, "", zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, storage.Save(ctx, "uploads/late.txt", strings.NewReader("x"), 1, ""), context.Canceled)
	_, err = os.Stat(filepath.Join(root, "uploads", "late.txt"))
	assert.True(t, os.IsNotExist(err), "nothing is written for a cancelled request")

	// 写入成功即返回 nil，调用方据此登记 ref
	require.NoError(t, storage.Save(context.Background(), "uploads/ok.txt", strings.NewReader("x"), 1, ""))
	_, err = os.Stat(filepath.Join(root, "uploads", "ok.txt"))
	assert.NoError(t, err)
}
