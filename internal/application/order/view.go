package order

import (
	"context"
	"fmt"
	"time"

	"github.com/hanbit/bookstore/internal/domain/book"
	"github.com/hanbit/bookstore/internal/domain/order"
)

// View 订单视图DTO（我的订单/订单详情/管理端共用）
type View struct {
	OrderID     uint       `json:"order_id"`
	UserID      uint       `json:"user_id"`
	OrderDate   time.Time  `json:"order_date"`
	Status      string     `json:"status"`
	TotalAmount int64      `json:"total_amount"`
	TotalYuan   string     `json:"total_yuan"`
	Items       []ItemView `json:"items"`
}

// ItemView 订单明细视图
type ItemView struct {
	BookID      uint   `json:"book_id"`
	BookTitle   string `json:"book_title"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
	TotalAmount int64  `json:"total_amount"`
	IsSettled   bool   `json:"is_settled"`
}

// yuan 分 → "xx.yy"展示字符串
func yuan(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// toView 领域订单 → 视图DTO
// books为nil或缺少某本书时，标题降级为"Unknown"：
// 图书被下架/清理不能让历史订单变得不可读。
func toView(o *order.Order, books map[uint]*book.Book) *View {
	v := &View{
		OrderID:     o.ID,
		UserID:      o.UserID,
		OrderDate:   o.OrderDate,
		Status:      o.Status.String(),
		TotalAmount: o.TotalAmount,
		TotalYuan:   yuan(o.TotalAmount),
		Items:       make([]ItemView, len(o.Items)),
	}
	for i, item := range o.Items {
		title := "Unknown"
		if b, ok := books[item.BookID]; ok {
			title = b.Title
		}
		v.Items[i] = ItemView{
			BookID:      item.BookID,
			BookTitle:   title,
			Price:       item.Price,
			Quantity:    item.Quantity,
			TotalAmount: item.TotalAmount,
			IsSettled:   item.IsSettled,
		}
	}
	return v
}

// loadBooks 收集订单涉及的图书，一次批量查询（避免N+1）
func loadBooks(ctx context.Context, bookRepo book.Repository, orders ...*order.Order) (map[uint]*book.Book, error) {
	idSet := make(map[uint]struct{})
	for _, o := range orders {
		for _, item := range o.Items {
			idSet[item.BookID] = struct{}{}
		}
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	return bookRepo.FindByIDs(ctx, ids)
}
