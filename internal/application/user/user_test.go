package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbit/bookstore/internal/domain/user"
	"github.com/hanbit/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/hanbit/bookstore/internal/testutil"
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

func newRegisterUseCase(t *testing.T) (*RegisterUseCase, user.Service) {
	t.Helper()
	svc := user.NewService(mysql.NewUserRepository(testutil.NewDB(t)))
	return NewRegisterUseCase(svc), svc
}

// TestRegister 注册成功与密码脱敏
func TestRegister(t *testing.T) {
	uc, svc := newRegisterUseCase(t)
	ctx := context.Background()

	resp, err := uc.Execute(ctx, RegisterRequest{
		Email:    "reader@example.com",
		Password: "passw0rd123",
		Name:     "读者甲",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "reader@example.com", resp.Email)

	// 注册即可登录,密码以bcrypt散列存储
	u, err := svc.Login(ctx, "reader@example.com", "passw0rd123")
	require.NoError(t, err)
	assert.NotEqual(t, "passw0rd123", u.Password, "密码不应明文存储")
}

// TestRegister_Validation 注册校验规则
func TestRegister_Validation(t *testing.T) {
	uc, _ := newRegisterUseCase(t)
	ctx := context.Background()

	t.Run("邮箱格式非法", func(t *testing.T) {
		_, err := uc.Execute(ctx, RegisterRequest{Email: "not-an-email", Password: "passw0rd123", Name: "读者甲"})
		assert.Error(t, err)
	})

	t.Run("弱密码", func(t *testing.T) {
		for _, pw := range []string{"short1", "alllettersonly", "12345678901"} {
			_, err := uc.Execute(ctx, RegisterRequest{Email: "a@b.com", Password: pw, Name: "读者甲"})
			assert.ErrorIs(t, err, apperrors.ErrWeakPassword, "密码%q应被拒绝", pw)
		}
	})

	t.Run("邮箱重复", func(t *testing.T) {
		req := RegisterRequest{Email: "dup@example.com", Password: "passw0rd123", Name: "读者甲"}
		_, err := uc.Execute(ctx, req)
		require.NoError(t, err)

		_, err = uc.Execute(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
	})
}

// TestLogin_Failures 登录失败路径
func TestLogin_Failures(t *testing.T) {
	uc, svc := newRegisterUseCase(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, RegisterRequest{Email: "reader@example.com", Password: "passw0rd123", Name: "读者甲"})
	require.NoError(t, err)

	t.Run("密码错误", func(t *testing.T) {
		_, err := svc.Login(ctx, "reader@example.com", "wrongpass1")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("用户不存在", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "passw0rd123")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
