package seller

import (
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

// 卖家领域错误定义
var (
	// ErrProfileNotFound 当前用户没有卖家档案
	ErrProfileNotFound = apperrors.New(apperrors.ErrCodeSellerNotFound, "卖家档案不存在")
)
