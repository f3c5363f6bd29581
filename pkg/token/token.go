package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// secretKey 是服务器在启动时生成的32字节密钥。
// 密钥不持久化：服务重启后所有未使用的确认令牌自动失效。
var secretKey []byte

// ErrInvalidToken 表示令牌签名不匹配或格式损坏。
var ErrInvalidToken = errors.New("确认令牌无效")

// ErrExpiredToken 表示令牌已超过有效期。
var ErrExpiredToken = errors.New("确认令牌已过期")

// confirmationPayload 定义了需要被签名的数据结构。
// 危险的管理操作（如第一章身份重置）必须先取得签名令牌，再凭令牌执行。
type confirmationPayload struct {
	Action    string `json:"a"`
	ExpiresAt int64  `json:"e"`
}

// GenerateSecretKey 生成一个密码学安全的32字节随机密钥。
func GenerateSecretKey() {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		panic("无法生成安全的密钥: " + err.Error())
	}
	secretKey = key
	fmt.Println("HMAC密钥已成功生成。")
}

// sign 使用HMAC-SHA256对payload字节签名，返回Base64编码。
func sign(payloadBytes []byte) string {
	mac := hmac.New(sha256.New, secretKey)
	mac.Write(payloadBytes)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// IssueConfirmation 为指定操作签发一个有时效的确认令牌。
// 令牌格式为 base64(payload) + "." + base64(signature)。
func IssueConfirmation(action string, ttl time.Duration) (string, error) {
	payload := confirmationPayload{
		Action:    action,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", errors.New("无法序列化确认令牌payload")
	}
	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	return encodedPayload + "." + sign(payloadBytes), nil
}

// ValidateConfirmation 校验令牌是否为指定操作签发、签名有效且未过期。
func ValidateConfirmation(tokenStr string, action string) error {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 2 {
		return ErrInvalidToken
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return ErrInvalidToken
	}

	// 重新计算预期签名，并使用时间恒定的比较防止时序攻击
	expected := sign(payloadBytes)
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return ErrInvalidToken
	}

	var payload confirmationPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return ErrInvalidToken
	}
	if payload.Action != action {
		return ErrInvalidToken
	}
	if time.Now().Unix() > payload.ExpiresAt {
		return ErrExpiredToken
	}
	return nil
}
