package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/hanbit/bookstore/internal/domain/book"
	"github.com/hanbit/bookstore/internal/domain/cart"
	"github.com/hanbit/bookstore/internal/domain/order"
	"github.com/hanbit/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/hanbit/bookstore/pkg/metrics"
)

// CreateOrderUseCase 下单用例
// 设计说明:这是整个系统最核心的用例
// 下单管道四步必须同事务:
// 1. 创建订单(含明细,价格取下单时刻快照)
// 2. 逐本图书购买计数+qty(原子UPDATE)
// 3. 清空本次消费的购物车条目
// 任何一步失败整体回滚——绝不出现"订单在、计数没加"或
// "计数加了、购物车还在"的中间态。
type CreateOrderUseCase struct {
	cartRepo  cart.Repository
	bookRepo  book.Repository
	orderRepo order.Repository
	txManager *mysql.TxManager
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	cartRepo cart.Repository,
	bookRepo book.Repository,
	orderRepo order.Repository,
	txManager *mysql.TxManager,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		orderRepo: orderRepo,
		txManager: txManager,
		metrics:   m,
		logger:    logger,
	}
}

// CreateOrderRequest 下单请求DTO
type CreateOrderRequest struct {
	UserID uint // 买家用户ID(从JWT中提取)

	// CartItemIDs 本次下单消费的购物车条目;为空表示整车下单。
	// 不属于当前用户的ID被静默排除。
	CartItemIDs []uint
}

// Execute 执行下单
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*View, error) {
	// 1. 解析购物车条目
	items, err := uc.resolveCartItems(ctx, req)
	if err != nil {
		return nil, err
	}
	// 解析结果为空(整车为空,或传入的ID全部无效)一律视为空购物车
	if len(items) == 0 {
		return nil, cart.ErrCartEmpty
	}

	// 2. 批量加载图书,取价格快照
	bookIDs := make([]uint, len(items))
	for i, item := range items {
		bookIDs[i] = item.BookID
	}
	books, err := uc.bookRepo.FindByIDs(ctx, bookIDs)
	if err != nil {
		return nil, err
	}

	// 3. 构建订单明细(价格用数据库中的当前价,不信任任何前端输入)
	var total int64
	orderItems := make([]order.Item, len(items))
	for i, item := range items {
		b, ok := books[item.BookID]
		if !ok {
			return nil, book.ErrBookNotFound
		}
		if !b.IsOnSale() {
			return nil, book.ErrBookNotOnSale
		}

		lineTotal := b.Price * int64(item.Quantity)
		orderItems[i] = order.Item{
			BookID:      b.ID,
			Price:       b.Price,
			TotalAmount: lineTotal,
			Quantity:    item.Quantity,
		}
		total += lineTotal
	}

	newOrder := order.NewOrder(req.UserID, orderItems, total)

	cartItemIDs := make([]uint, len(items))
	for i, item := range items {
		cartItemIDs[i] = item.ID
	}

	// 4. 事务执行下单管道
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.orderRepo.Create(txCtx, newOrder); err != nil {
			return err
		}

		for _, item := range newOrder.Items {
			if err := uc.bookRepo.UpdatePurchaseCount(txCtx, item.BookID, item.Quantity); err != nil {
				return err
			}
		}

		return uc.cartRepo.DeleteByIDs(txCtx, cartItemIDs)
	})
	if err != nil {
		uc.logger.Warn("下单失败",
			zap.Uint("user_id", req.UserID),
			zap.Error(err))
		return nil, err
	}

	uc.metrics.OrdersCreated.Inc()
	uc.logger.Info("下单成功",
		zap.Uint("user_id", req.UserID),
		zap.Uint("order_id", newOrder.ID),
		zap.Int64("total_amount", newOrder.TotalAmount),
		zap.Int("item_count", len(newOrder.Items)))

	return toView(newOrder, books), nil
}

// resolveCartItems 解析本次下单消费的购物车条目
func (uc *CreateOrderUseCase) resolveCartItems(ctx context.Context, req CreateOrderRequest) ([]*cart.Item, error) {
	if len(req.CartItemIDs) == 0 {
		return uc.cartRepo.FindByUserID(ctx, req.UserID)
	}
	return uc.cartRepo.FindByIDs(ctx, req.UserID, req.CartItemIDs)
}
