package order

import (
	"context"
)

// Repository 订单仓储接口
// 说明：
// 1. 订单与明细是聚合关系，必须一起创建
// 2. 查询时预加载明细，避免N+1
// 3. 写方法通过context参与外围事务
type Repository interface {
	// Create 创建订单（包含订单明细），必须在事务中调用
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单（包含明细）
	FindByID(ctx context.Context, id uint) (*Order, error)

	// UpdateStatus 更新订单状态
	UpdateStatus(ctx context.Context, id uint, status Status) error

	// ListByUserID 分页查询用户的订单（按下单时间倒序）
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)

	// ListAll 分页查询全部订单（管理端），status为nil时不过滤
	ListAll(ctx context.Context, page, pageSize int, status *Status) ([]*Order, int64, error)
}
