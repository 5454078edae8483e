package middleware

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/constant"
)

// OperatorIDKey 是 gin.Context 中保存当前管理员 ID 的 Key
const OperatorIDKey = "operatorID"

// RequireOperator 要求请求携带已登录的管理员会话，否则重定向到登录页。
// 必须注册在 sessions.LoadAndSave 包裹的处理链内。
func RequireOperator(sessions *scs.SessionManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := sessions.GetInt(c.Request.Context(), constant.SessionOperatorIDKey)
		if id <= 0 {
			logger.Debug("未登录访问管理页面，重定向到登录页",
				zap.String("path", c.Request.URL.Path),
				zap.String("clientIP", c.ClientIP()))
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Set(OperatorIDKey, uint64(id))
		c.Next()
	}
}

// OperatorID 返回 RequireOperator 写入的管理员 ID，未登录时为 0
func OperatorID(c *gin.Context) uint64 {
	v, ok := c.Get(OperatorIDKey)
	if !ok {
		return 0
	}
	id, _ := v.(uint64)
	return id
}
