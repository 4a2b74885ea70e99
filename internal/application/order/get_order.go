package order

import (
	"context"

	"github.com/hanbit/bookstore/internal/domain/book"
	"github.com/hanbit/bookstore/internal/domain/order"
)

// GetOrderUseCase 订单详情用例
type GetOrderUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
}

// NewGetOrderUseCase 创建订单详情用例
func NewGetOrderUseCase(orderRepo order.Repository, bookRepo book.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo, bookRepo: bookRepo}
}

// Execute 查询订单详情
// 不属于当前用户的订单与不存在的订单返回同一个错误
func (uc *GetOrderUseCase) Execute(ctx context.Context, userID, orderID uint) (*View, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.IsOwnedBy(userID) {
		return nil, order.ErrOrderNotFound
	}

	books, err := loadBooks(ctx, uc.bookRepo, o)
	if err != nil {
		return nil, err
	}
	return toView(o, books), nil
}
