package liquidator

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/user"
)

// ScanRequestBody 定义了扫描请求体的JSON结构。
// actorUid 和 chapter 用于服务端执行每章一次的限制，
// 仅靠客户端本地标记是可以被直接调用API绕过的。
type ScanRequestBody struct {
	ActorUid         string `json:"actorUid" binding:"required"`
	TargetUid        string `json:"targetUid" binding:"required"`
	RequesterFaction string `json:"requesterFaction" binding:"required"`
	Chapter          string `json:"chapter" binding:"required"`
}

// SubmitScan 处理清算人的扫描请求
func SubmitScan(c *gin.Context) {
	var body ScanRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	verdict, err := Scan(body.ActorUid, body.TargetUid, body.RequesterFaction, body.Chapter)
	if err != nil {
		switch {
		case errors.Is(err, ErrTargetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Target not found"})
		case errors.Is(err, user.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, ErrCrossFaction):
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot scan different faction"})
		case errors.Is(err, ErrNotLiquidator):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInvalidChapter):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrScanUsed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "扫描失败"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": verdict})
}
