package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// TestConfirmationRoundTrip 确认签发的令牌能够通过校验。
func TestConfirmationRoundTrip(t *testing.T) {
	GenerateSecretKey()

	tok, err := IssueConfirmation("reset-chapter-one", time.Minute)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	if err := ValidateConfirmation(tok, "reset-chapter-one"); err != nil {
		t.Fatalf("合法令牌应通过校验: %v", err)
	}
}

// TestConfirmationWrongAction 确认令牌与操作绑定，不能跨操作使用。
func TestConfirmationWrongAction(t *testing.T) {
	GenerateSecretKey()

	tok, err := IssueConfirmation("reset-chapter-one", time.Minute)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	if err := ValidateConfirmation(tok, "purge-everything"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("跨操作使用应返回 ErrInvalidToken，实际 %v", err)
	}
}

// TestConfirmationTampered 确认被篡改的令牌被拒绝。
func TestConfirmationTampered(t *testing.T) {
	GenerateSecretKey()

	tok, err := IssueConfirmation("reset-chapter-one", time.Minute)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}

	parts := strings.Split(tok, ".")
	forged := parts[0] + "x." + parts[1]
	if err := ValidateConfirmation(forged, "reset-chapter-one"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("篡改payload应返回 ErrInvalidToken，实际 %v", err)
	}

	forged = parts[0] + "." + parts[1] + "x"
	if err := ValidateConfirmation(forged, "reset-chapter-one"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("篡改签名应返回 ErrInvalidToken，实际 %v", err)
	}

	if err := ValidateConfirmation("not-a-token", "reset-chapter-one"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("格式损坏应返回 ErrInvalidToken，实际 %v", err)
	}
}

// TestConfirmationExpired 确认过期令牌被拒绝。
func TestConfirmationExpired(t *testing.T) {
	GenerateSecretKey()

	tok, err := IssueConfirmation("reset-chapter-one", -time.Second)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	if err := ValidateConfirmation(tok, "reset-chapter-one"); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("过期令牌应返回 ErrExpiredToken，实际 %v", err)
	}
}

// TestKeyRotationInvalidatesTokens 确认密钥轮换后旧令牌全部失效。
func TestKeyRotationInvalidatesTokens(t *testing.T) {
	GenerateSecretKey()
	tok, err := IssueConfirmation("reset-chapter-one", time.Minute)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}

	GenerateSecretKey()
	if err := ValidateConfirmation(tok, "reset-chapter-one"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("密钥轮换后旧令牌应失效，实际 %v", err)
	}
}
