package settlement

import (
	"context"
	"time"
)

// Repository 定算仓储接口
// 说明：写方法全部通过context参与批处理事务，
// 一次批处理要么整体落库要么整体回滚，不存在"半个卖家已定算"。
type Repository interface {
	// FindUnsettledItems 查询待定算明细：
	// 父订单状态=ARRIVED 且 明细未出现在定算中间表中。
	// 排除条件必须作为单条集合差查询下推到数据库执行，
	// 不允许先查全量再在内存里过滤（选取与写入之间会产生竞态窗口）。
	FindUnsettledItems(ctx context.Context) ([]*UnsettledItem, error)

	// Create 创建定算记录（回填自增ID）
	Create(ctx context.Context, s *Settlement) error

	// AddOrders 写入定算中间表，将明细绑定到定算记录（幂等标记落库）
	AddOrders(ctx context.Context, settlementID uint, orderItemIDs []uint) error

	// MarkItemsSettled 同步orderItem.is_settled反范式镜像
	// 必须与AddOrders同事务，两个标记不允许出现分歧。
	MarkItemsSettled(ctx context.Context, orderItemIDs []uint) error

	// ListBySellerID 查询卖家的定算记录（按定算日期倒序），
	// start/end为nil时不过滤对应边界
	ListBySellerID(ctx context.Context, sellerID uint, start, end *time.Time) ([]*Settlement, int64, error)
}
