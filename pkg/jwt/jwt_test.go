package jwt

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

const testSecret = "test-secret-key"

// TestGenerateAndParse 测试Token生成与解析
func TestGenerateAndParse(t *testing.T) {
	m := NewManager(testSecret, 2*time.Hour, 7*24*time.Hour)

	pair, err := m.GenerateToken(42, "reader@example.com", "user")
	if err != nil {
		t.Fatalf("生成Token失败: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("Token对不应为空")
	}
	if pair.ExpiresIn != int64((2 * time.Hour).Seconds()) {
		t.Errorf("ExpiresIn错误: got=%d", pair.ExpiresIn)
	}

	claims, err := m.ParseToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("解析Token失败: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID错误: expected=42, got=%d", claims.UserID)
	}
	if claims.Email != "reader@example.com" {
		t.Errorf("Email错误: got=%s", claims.Email)
	}
	if claims.Role != "user" {
		t.Errorf("Role错误: got=%s", claims.Role)
	}
}

// TestParseToken_Invalid 测试非法Token
func TestParseToken_Invalid(t *testing.T) {
	m := NewManager(testSecret, 2*time.Hour, 7*24*time.Hour)

	t.Run("乱码Token", func(t *testing.T) {
		_, err := m.ParseToken("not-a-token")
		if !errors.Is(err, apperrors.ErrInvalidToken) {
			t.Errorf("应返回无效Token错误: got=%v", err)
		}
	})

	t.Run("密钥不匹配", func(t *testing.T) {
		other := NewManager("another-secret", 2*time.Hour, 7*24*time.Hour)
		pair, err := other.GenerateToken(1, "a@b.com", "user")
		if err != nil {
			t.Fatalf("生成Token失败: %v", err)
		}
		if _, err := m.ParseToken(pair.AccessToken); !errors.Is(err, apperrors.ErrInvalidToken) {
			t.Errorf("异密钥签名应解析失败: got=%v", err)
		}
	})
}

// TestParseToken_Expired 测试过期Token
func TestParseToken_Expired(t *testing.T) {
	// 有效期为负,签出即过期
	m := NewManager(testSecret, -time.Minute, 7*24*time.Hour)
	pair, err := m.GenerateToken(1, "a@b.com", "user")
	if err != nil {
		t.Fatalf("生成Token失败: %v", err)
	}

	_, err = m.ParseToken(pair.AccessToken)
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("过期Token应返回过期错误: got=%v", err)
	}
}

// TestRefreshAccessToken 测试用Refresh Token换新Access Token
func TestRefreshAccessToken(t *testing.T) {
	m := NewManager(testSecret, 2*time.Hour, 7*24*time.Hour)
	pair, err := m.GenerateToken(42, "reader@example.com", "user")
	if err != nil {
		t.Fatalf("生成Token失败: %v", err)
	}

	newAccess, err := m.RefreshAccessToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("刷新Token失败: %v", err)
	}

	claims, err := m.ParseToken(newAccess)
	if err != nil {
		t.Fatalf("解析新Token失败: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("刷新后UserID错误: got=%d", claims.UserID)
	}

	// Access Token的有效期内,乱字符串无法刷新
	if _, err := m.RefreshAccessToken("garbage"); err == nil {
		t.Error("非法Refresh Token不应刷新成功")
	}
}
