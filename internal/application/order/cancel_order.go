package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/hanbit/bookstore/internal/domain/book"
	"github.com/hanbit/bookstore/internal/domain/order"
	"github.com/hanbit/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/hanbit/bookstore/pkg/metrics"
)

// CancelOrderUseCase 取消订单用例
// 设计说明:
//  1. 仅CREATED状态可取消,取消即终态REFUND(不可再流转)
//  2. 状态翻转与购买计数回退同事务
//  3. 归属校验失败与订单不存在返回同一个错误,
//     不给调用方探测他人订单存在性的信号
type CancelOrderUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	txManager *mysql.TxManager
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewCancelOrderUseCase 创建取消订单用例
func NewCancelOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager *mysql.TxManager,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		metrics:   m,
		logger:    logger,
	}
}

// Execute 执行取消订单
func (uc *CancelOrderUseCase) Execute(ctx context.Context, userID, orderID uint) (*View, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.IsOwnedBy(userID) {
		return nil, order.ErrOrderNotFound
	}

	if !o.CanCancel() {
		return nil, order.ErrCancelNotAllowed
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.orderRepo.UpdateStatus(txCtx, o.ID, order.StatusRefund); err != nil {
			return err
		}

		// 逐本回退购买计数(不降到0以下)
		for _, item := range o.Items {
			if err := uc.bookRepo.UpdatePurchaseCount(txCtx, item.BookID, -item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Warn("取消订单失败",
			zap.Uint("user_id", userID),
			zap.Uint("order_id", orderID),
			zap.Error(err))
		return nil, err
	}

	o.Status = order.StatusRefund

	uc.metrics.OrdersCancelled.Inc()
	uc.logger.Info("订单已取消",
		zap.Uint("user_id", userID),
		zap.Uint("order_id", orderID))

	books, err := loadBooks(ctx, uc.bookRepo, o)
	if err != nil {
		// 视图拼装失败不影响已提交的取消,标题降级为Unknown
		uc.logger.Warn("取消订单后加载图书信息失败,标题降级展示",
			zap.Uint("order_id", orderID),
			zap.Error(err))
		books = nil
	}
	return toView(o, books), nil
}
