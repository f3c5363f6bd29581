package api

import (
	"github.com/gin-gonic/gin"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/admin"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/apostate"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/liquidator"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/user"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 用户相关的路由
		api.GET("/user/:username", user.GetUser)
		api.POST("/user/login", user.Login)

		// 背道者相关的路由组 /api/apostate
		apostateRoutes := api.Group("/apostate")
		{
			apostateRoutes.GET("/questions", apostate.GetQuestions)
			apostateRoutes.POST("/screening", apostate.SubmitScreening)
			apostateRoutes.GET("/ability", apostate.GetAbility)
			apostateRoutes.POST("/ability/execute", apostate.ExecuteAbilityHandler)
		}

		// 清算人的扫描路由
		api.POST("/liquidator/scan", liquidator.SubmitScan)

		// 管理相关的路由组 /api/admin，全部要求Bearer令牌
		adminRoutes := api.Group("/admin", admin.RequireAdminToken())
		{
			adminRoutes.GET("/stats", admin.GetStatsHandler)
			adminRoutes.POST("/lottery", admin.RunLotteryHandler)
			adminRoutes.POST("/liquidator-select", admin.RunLiquidatorSelectHandler)
			adminRoutes.POST("/reset/confirm", admin.ConfirmResetHandler)
			adminRoutes.POST("/reset", admin.ExecuteResetHandler)
			adminRoutes.GET("/candidates", admin.GetCandidatesHandler)
			adminRoutes.GET("/registry", admin.GetRegistryHandler)
		}
	}
}
