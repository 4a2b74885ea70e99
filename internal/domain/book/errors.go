package book

import (
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrBookNotOnSale 图书未在售（加购时校验）
	ErrBookNotOnSale = apperrors.New(apperrors.ErrCodeBookNotOnSale, "图书未在售")
)
