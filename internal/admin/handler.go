package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/platform/config"
	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/selection"
	"github.com/lingulin69-debug/Project-Turbid-Dust/pkg/token"
)

// resetAction 是第一章身份重置在确认令牌里的操作名。
const resetAction = "reset-chapter-one"

// SelectionRequestBody 定义了抽选类请求体的JSON结构
type SelectionRequestBody struct {
	CountPerFaction int    `json:"countPerFaction" binding:"required"`
	Chapter         string `json:"chapter" binding:"required"`
}

// ResetRequestBody 定义了执行重置时携带确认令牌的请求体
type ResetRequestBody struct {
	Token string `json:"token" binding:"required"`
}

// GetStatsHandler 返回身份分布统计
func GetStatsHandler(c *gin.Context) {
	stats, err := GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取统计数据失败"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RunLotteryHandler 触发一次背道者抽选
func RunLotteryHandler(c *gin.Context) {
	var body SelectionRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	result, err := selection.RunLottery(body.Chapter, body.CountPerFaction)
	if err != nil {
		respondSelectionError(c, err)
		return
	}

	InvalidateStatsCache()
	c.JSON(http.StatusOK, gin.H{"success": true, "selected": result.Selected})
}

// RunLiquidatorSelectHandler 触发一次清算人选拔
func RunLiquidatorSelectHandler(c *gin.Context) {
	var body SelectionRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	result, err := selection.RunLiquidatorDraft(body.Chapter, body.CountPerFaction)
	if err != nil {
		respondSelectionError(c, err)
		return
	}

	InvalidateStatsCache()
	c.JSON(http.StatusOK, gin.H{"success": true, "selected": result.Selected})
}

// ConfirmResetHandler 签发第一章重置的确认令牌。
// 重置会撤销已授予的身份，是破坏性操作，必须两步确认。
func ConfirmResetHandler(c *gin.Context) {
	confirmToken, err := token.IssueConfirmation(resetAction, config.Cfg.Admin.ResetTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "签发确认令牌失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":   confirmToken,
		"warning": "重置将清空所有特殊身份分配，凭此令牌执行 POST /api/admin/reset",
	})
}

// ExecuteResetHandler 凭确认令牌执行第一章身份重置
func ExecuteResetHandler(c *gin.Context) {
	var body ResetRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	if err := token.ValidateConfirmation(body.Token, resetAction); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	affected, err := selection.ResetChapterOne()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "重置失败"})
		return
	}

	InvalidateStatsCache()
	c.JSON(http.StatusOK, gin.H{"success": true, "reset": affected})
}

// GetCandidatesHandler 返回高适性候选者审查列表
func GetCandidatesHandler(c *gin.Context) {
	views, err := GetCandidates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取候选者列表失败"})
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetRegistryHandler 返回全员名册
func GetRegistryHandler(c *gin.Context) {
	views, err := GetRegistry()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取全员名册失败"})
		return
	}
	c.JSON(http.StatusOK, views)
}

// respondSelectionError 把抽选引擎的错误映射为HTTP响应
func respondSelectionError(c *gin.Context, err error) {
	if errors.Is(err, selection.ErrInvalidChapter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "抽选执行失败"})
}
