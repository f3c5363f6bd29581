package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/config"
)

// newAdminRouter 搭一个只挂了鉴权中间件的最小路由。
func newAdminRouter(adminToken string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	config.Cfg = &config.Config{Admin: config.AdminConfig{Token: adminToken}}

	r := gin.New()
	r.GET("/api/admin/ping", RequireAdminToken(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func requestWithBearer(t *testing.T, router *gin.Engine, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestAdminTokenAccepted 确认正确的Bearer令牌放行。
func TestAdminTokenAccepted(t *testing.T) {
	router := newAdminRouter("top-secret")

	if w := requestWithBearer(t, router, "top-secret"); w.Code != http.StatusOK {
		t.Fatalf("正确令牌应放行，实际状态码 %d", w.Code)
	}
}

// TestAdminTokenRejected 确认错误或缺失的令牌返回401。
func TestAdminTokenRejected(t *testing.T) {
	router := newAdminRouter("top-secret")

	if w := requestWithBearer(t, router, "wrong-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("错误令牌应返回401，实际 %d", w.Code)
	}

	// 完全不带Authorization头
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("缺失令牌应返回401，实际 %d", w.Code)
	}

	// 前缀正确但令牌为空
	if w := requestWithBearer(t, router, " "); w.Code != http.StatusUnauthorized {
		t.Fatalf("空令牌应返回401，实际 %d", w.Code)
	}
}

// TestAdminEndpointsDisabledWithoutToken 确认未配置令牌时管理端点全部拒绝，
// 包括携带空Bearer的请求。
func TestAdminEndpointsDisabledWithoutToken(t *testing.T) {
	router := newAdminRouter("")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("未配置令牌时应返回403，实际 %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer ")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("未配置令牌时空Bearer也应返回403，实际 %d", w.Code)
	}
}
