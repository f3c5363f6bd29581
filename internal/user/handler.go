package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginRequestBody 定义了登录/注册请求体的JSON结构
type LoginRequestBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	// Faction 仅在首次登录（自动注册）时生效
	Faction string `json:"faction"`
}

// GetUser 按OC名返回完整用户记录
func GetUser(c *gin.Context) {
	username := c.Param("username")

	u, err := GetByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "数据库查询失败"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// Login 处理登录请求，首次登录自动注册
func Login(c *gin.Context) {
	var body LoginRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	u, err := LoginOrRegister(body.Username, body.Password, body.Faction)
	if err != nil {
		switch {
		case errors.Is(err, ErrWrongPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotWhitelisted):
			c.JSON(http.StatusForbidden, gin.H{"error": "身份尚未核實，或許這一次的故事...不該由你續寫。"})
		case errors.Is(err, ErrInvalidFaction):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败"})
		}
		return
	}

	c.JSON(http.StatusOK, u)
}
