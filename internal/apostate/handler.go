package apostate

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingulin69-debug/Project-Turbid-Dust/internal/user"
)

// ScreeningRequestBody 定义了提交适性检测答案的请求体
type ScreeningRequestBody struct {
	Username string   `json:"username" binding:"required"`
	Answers  []Answer `json:"answers" binding:"required"`
}

// AbilityRequestBody 定义了能力执行请求的请求体
type AbilityRequestBody struct {
	Username string `json:"username" binding:"required"`
	Chapter  string `json:"chapter" binding:"required"`
}

// GetQuestions 下发一组随机抽取的检测题（不含适性权重）
func GetQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": DrawQuestions()})
}

// SubmitScreening 接收作答并完成适性检测
func SubmitScreening(c *gin.Context) {
	var body ScreeningRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	result, err := CompleteScreening(body.Username, body.Answers)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, ErrAlreadyScreened):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrWrongAnswerCount), errors.Is(err, ErrUnknownQuestion):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "适性检测失败"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAbility 查询（必要时指派）用户在某章节的能力状态
func GetAbility(c *gin.Context) {
	username := c.Query("username")
	chapterTag := c.Query("chapter")
	if username == "" || chapterTag == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "必须提供 username 和 chapter"})
		return
	}

	status, err := GetOrAssignAbility(username, chapterTag)
	if err != nil {
		respondAbilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ExecuteAbilityHandler 执行本章节的一次性能力
func ExecuteAbilityHandler(c *gin.Context) {
	var body AbilityRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	effect, err := ExecuteAbility(body.Username, body.Chapter)
	if err != nil {
		respondAbilityError(c, err)
		return
	}
	c.JSON(http.StatusOK, effect)
}

// respondAbilityError 把能力相关的服务错误映射为HTTP响应。
// 已使用（409）与临时失败（500）必须可区分：前者不应重试。
func respondAbilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, ErrNotApostate):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidChapter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAbilityUsed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "能力结算失败"})
	}
}
