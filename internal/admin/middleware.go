package admin

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/config"
)

// RequireAdminToken 校验管理端点的Bearer令牌。
// 管理端点会改写身份分配，必须在服务端鉴权，
// 不能依赖前端对按钮的隐藏。未配置令牌时全部拒绝。
func RequireAdminToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := config.Cfg.Admin.Token
		if expected == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "管理端点未启用"})
			return
		}

		provided := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		// 恒定时间比较防止时序攻击
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "管理令牌无效"})
			return
		}

		c.Next()
	}
}
