package order

import (
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	// 注意：订单存在但不属于当前用户时也返回这个错误，
	// 避免通过错误差异探测他人订单是否存在。
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrCancelNotAllowed 取消被拒绝（仅CREATED状态可取消）
	ErrCancelNotAllowed = apperrors.New(apperrors.ErrCodeCancelNotAllowed, "当前订单状态不允许取消")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")
)
