package cart

import (
	"time"
)

// Item 购物车条目
// 设计说明：
// 1. (UserID, BookID)唯一：同一本书重复加购时只改数量
// 2. 购物车是临时载体：下单成功即被删除，订单不再引用它
// 3. 不直接内嵌Book对象（跨聚合引用交由应用层按ID批量取）
type Item struct {
	ID        uint
	UserID    uint
	BookID    uint
	Quantity  int // 必须≥1
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewItem 创建购物车条目（工厂方法）
func NewItem(userID, bookID uint, quantity int) *Item {
	now := time.Now()
	return &Item{
		UserID:    userID,
		BookID:    bookID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddQuantity 重复加购时叠加数量
func (i *Item) AddQuantity(n int) {
	i.Quantity += n
	i.UpdatedAt = time.Now()
}
