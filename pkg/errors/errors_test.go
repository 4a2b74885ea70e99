package errors

import (
	"errors"
	"fmt"
	"testing"
)

// TestNew 测试创建AppError
func TestNew(t *testing.T) {
	err := New(ErrCodeCartEmpty, "购物车为空")

	if err.Code != ErrCodeCartEmpty {
		t.Errorf("错误码错误: expected=%d, got=%d", ErrCodeCartEmpty, err.Code)
	}
	if err.Message != "购物车为空" {
		t.Errorf("错误信息错误: got=%s", err.Message)
	}
	want := fmt.Sprintf("[%d] 购物车为空", ErrCodeCartEmpty)
	if err.Error() != want {
		t.Errorf("Error()输出错误: expected=%s, got=%s", want, err.Error())
	}
}

// TestWrap 测试包装底层错误
func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, "数据库连接失败")

	if err.Code != ErrCodeInternal {
		t.Errorf("包装错误应使用内部错误码: got=%d", err.Code)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is应能穿透到底层错误")
	}

	err2 := Wrapf(cause, "查询%s失败", "orders")
	if err2.Message != "查询orders失败" {
		t.Errorf("Wrapf格式化错误: got=%s", err2.Message)
	}
}

// TestErrorsIs 测试预定义错误的哨兵语义
func TestErrorsIs(t *testing.T) {
	// 预定义错误是单例,指针相等即errors.Is相等
	var err error = ErrUserNotFound
	if !errors.Is(err, ErrUserNotFound) {
		t.Error("同一预定义错误errors.Is应为true")
	}
	if errors.Is(err, ErrEmailDuplicate) {
		t.Error("不同预定义错误errors.Is应为false")
	}
}

// TestIsAppError 测试AppError判定与提取
func TestIsAppError(t *testing.T) {
	if !IsAppError(ErrInvalidParams) {
		t.Error("预定义错误应被判定为AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("普通error不应被判定为AppError")
	}

	// 经fmt.Errorf("%w")包装后仍可提取
	wrapped := fmt.Errorf("handler: %w", ErrForbidden)
	if !IsAppError(wrapped) {
		t.Error("包装后的AppError应仍可判定")
	}
	got := GetAppError(wrapped)
	if got.Code != ErrCodeForbidden {
		t.Errorf("提取的错误码错误: expected=%d, got=%d", ErrCodeForbidden, got.Code)
	}
}

// TestGetAppError_Fallback 非AppError兜底转内部错误
func TestGetAppError_Fallback(t *testing.T) {
	got := GetAppError(errors.New("boom"))
	if got.Code != ErrCodeInternal {
		t.Errorf("兜底错误码错误: expected=%d, got=%d", ErrCodeInternal, got.Code)
	}
	if got.Err == nil || got.Err.Error() != "boom" {
		t.Error("兜底应保留底层错误")
	}
}
