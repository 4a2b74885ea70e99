package cart

import (
	"context"
)

// Repository 购物车仓储接口
// 说明：FindByIDs按用户过滤——调用方传入的ID不属于该用户时
// 静默排除而非报错（防止探测他人购物车）。
type Repository interface {
	// Create 创建购物车条目
	Create(ctx context.Context, item *Item) error

	// FindByUserID 查询用户的全部购物车条目
	FindByUserID(ctx context.Context, userID uint) ([]*Item, error)

	// FindByIDs 按ID集合查询，作用域限定在该用户
	FindByIDs(ctx context.Context, userID uint, ids []uint) ([]*Item, error)

	// FindByUserAndBook 查询用户购物车中指定图书的条目（加购去重）
	FindByUserAndBook(ctx context.Context, userID, bookID uint) (*Item, error)

	// UpdateQuantity 修改条目数量
	UpdateQuantity(ctx context.Context, id uint, quantity int) error

	// Delete 删除单个条目（条目须属于该用户）
	Delete(ctx context.Context, userID, id uint) error

	// DeleteByIDs 批量删除（下单消费购物车，必须在订单事务内调用）
	DeleteByIDs(ctx context.Context, ids []uint) error
}
