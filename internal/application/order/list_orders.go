package order

import (
	"context"

	"github.com/hanbit/bookstore/internal/domain/book"
	"github.com/hanbit/bookstore/internal/domain/order"
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

// ListOrdersUseCase 我的订单列表用例
type ListOrdersUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
}

// NewListOrdersUseCase 创建我的订单列表用例
func NewListOrdersUseCase(orderRepo order.Repository, bookRepo book.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo, bookRepo: bookRepo}
}

// Execute 分页查询当前用户的订单(按下单时间倒序)
func (uc *ListOrdersUseCase) Execute(ctx context.Context, userID uint, page, pageSize int) ([]*View, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	orders, total, err := uc.orderRepo.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	return uc.toViews(ctx, orders, total)
}

// ListAllOrdersUseCase 管理端订单列表用例
// statusFilter为空字符串时不过滤
type ListAllOrdersUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
}

// NewListAllOrdersUseCase 创建管理端订单列表用例
func NewListAllOrdersUseCase(orderRepo order.Repository, bookRepo book.Repository) *ListAllOrdersUseCase {
	return &ListAllOrdersUseCase{orderRepo: orderRepo, bookRepo: bookRepo}
}

// Execute 分页查询全部订单(管理端)
func (uc *ListAllOrdersUseCase) Execute(ctx context.Context, page, pageSize int, statusFilter string) ([]*View, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	var status *order.Status
	if statusFilter != "" {
		s, ok := order.ParseStatus(statusFilter)
		if !ok {
			return nil, 0, apperrors.New(apperrors.ErrCodeInvalidParams, "无效的订单状态: "+statusFilter)
		}
		status = &s
	}

	orders, total, err := uc.orderRepo.ListAll(ctx, page, pageSize, status)
	if err != nil {
		return nil, 0, err
	}

	lister := &ListOrdersUseCase{orderRepo: uc.orderRepo, bookRepo: uc.bookRepo}
	return lister.toViews(ctx, orders, total)
}

// toViews 批量拼装订单视图(一次批量加载全部图书)
func (uc *ListOrdersUseCase) toViews(ctx context.Context, orders []*order.Order, total int64) ([]*View, int64, error) {
	books, err := loadBooks(ctx, uc.bookRepo, orders...)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*View, len(orders))
	for i, o := range orders {
		views[i] = toView(o, books)
	}
	return views, total, nil
}
