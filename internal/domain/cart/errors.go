package cart

import (
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

// 购物车领域错误定义
var (
	// ErrCartEmpty 下单时解析不到任何购物车条目
	ErrCartEmpty = apperrors.New(apperrors.ErrCodeCartEmpty, "购物车为空，无法下单")

	// ErrCartItemNotFound 购物车条目不存在（或不属于当前用户）
	ErrCartItemNotFound = apperrors.New(apperrors.ErrCodeCartNotFound, "购物车条目不存在")

	// ErrInvalidQuantity 数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")
)
