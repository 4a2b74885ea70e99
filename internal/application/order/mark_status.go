package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/hanbit/bookstore/internal/domain/order"
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

// MarkStatusUseCase 管理端订单状态流转用例
// 履约链路CREATED→SHIPPED→ARRIVED由运营侧逐步推进,
// 合法转换关系定义在领域实体上(Order.CanTransitionTo)。
// REFUND只能走取消用例,不允许在这里直接标记。
type MarkStatusUseCase struct {
	orderRepo order.Repository
	logger    *zap.Logger
}

// NewMarkStatusUseCase 创建订单状态流转用例
func NewMarkStatusUseCase(orderRepo order.Repository, logger *zap.Logger) *MarkStatusUseCase {
	return &MarkStatusUseCase{orderRepo: orderRepo, logger: logger}
}

// Execute 将订单标记为目标状态
func (uc *MarkStatusUseCase) Execute(ctx context.Context, orderID uint, targetStatus string) (*order.Order, error) {
	target, ok := order.ParseStatus(targetStatus)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "无效的订单状态: "+targetStatus)
	}
	if target == order.StatusRefund {
		// 退款必须走取消链路(带计数回退),不能裸改状态
		return nil, order.ErrInvalidStatusTransition
	}

	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.CanTransitionTo(target) {
		return nil, order.ErrInvalidStatusTransition
	}

	if err := uc.orderRepo.UpdateStatus(ctx, orderID, target); err != nil {
		return nil, err
	}
	o.Status = target

	uc.logger.Info("订单状态已更新",
		zap.Uint("order_id", orderID),
		zap.String("status", target.String()))

	return o, nil
}
