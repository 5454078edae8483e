package controller

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Xushengqwer/blog_service/models/dto"
)

func TestBindLenientLogsBindErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	render := NewRenderer(nil, nil, nil, zap.New(core))

	bind := func(body url.Values) dto.ReplyForm {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/comment/1/reply", strings.NewReader(body.Encode()))
		c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		var form dto.ReplyForm
		render.bindLenient(c, &form)
		return form
	}

	form := bind(url.Values{"content": {"thanks"}})
	assert.Equal(t, "thanks", form.Content)
	assert.Zero(t, logs.Len())

	// content 为 required，校验失败时记录 Debug，请求继续由 service 层处理
	form = bind(url.Values{})
	assert.Empty(t, form.Content)
	entries := logs.FilterMessage("表单绑定失败，按已解析字段继续处理").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap(), "error")
}
