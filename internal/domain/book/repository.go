package book

import (
	"context"
)

// Repository 图书仓储接口（依赖倒置原则）
// 设计说明：
// 1. 由domain层定义接口，infrastructure层实现
// 2. 便于Mock测试，不依赖具体数据库实现
// 3. 写购买计数的方法必须支持事务（通过context传递事务DB）
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs 批量查找图书（下单时取价格快照、拼装标题）
	FindByIDs(ctx context.Context, ids []uint) (map[uint]*Book, error)

	// UpdatePurchaseCount 原子更新购买计数
	// delta为正表示下单增加，为负表示取消订单回退。
	// 回退时计数不会降到0以下（并发取消重叠时直接落在0）。
	// 必须与外围订单写入同处一个事务，由数据库行级串行化
	// 保证并发下单互不丢失更新。
	UpdatePurchaseCount(ctx context.Context, id uint, delta int) error

	// TopByPurchaseCount 按购买数取在售图书Top N（购买数降序）
	TopByPurchaseCount(ctx context.Context, limit int) ([]*Book, error)

	// TopByAverageRating 按平均评分取在售图书Top N
	// 零评论图书被排除：没有评论的图书不可能是"评分最高"。
	TopByAverageRating(ctx context.Context, limit int) ([]*Book, error)
}
