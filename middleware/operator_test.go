package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/constant"
)

func newEngine(sessions *scs.SessionManager) http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/login-as/:id", func(c *gin.Context) {
		sessions.Put(c.Request.Context(), constant.SessionOperatorIDKey, 7)
		c.Status(http.StatusNoContent)
	})
	admin := r.Group("/", RequireOperator(sessions, zap.NewNop()))
	admin.GET("/dashboard", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": OperatorID(c)})
	})
	return sessions.LoadAndSave(r)
}

func TestRequireOperator(t *testing.T) {
	sessions := scs.New()
	h := newEngine(sessions)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login-as/7", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7}`, w.Body.String())
}
