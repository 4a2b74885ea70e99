package cart

import (
	"context"
	"errors"

	"github.com/hanbit/bookstore/internal/domain/book"
	"github.com/hanbit/bookstore/internal/domain/cart"
)

// UseCase 购物车用例(增删改查)
// 说明:购物车操作都是单表单行写,不需要事务管理器;
// 批量消费(下单)在订单用例里走事务。
type UseCase struct {
	cartRepo cart.Repository
	bookRepo book.Repository
}

// NewUseCase 创建购物车用例
func NewUseCase(cartRepo cart.Repository, bookRepo book.Repository) *UseCase {
	return &UseCase{cartRepo: cartRepo, bookRepo: bookRepo}
}

// ItemView 购物车条目视图DTO
type ItemView struct {
	CartItemID uint   `json:"cart_item_id"`
	BookID     uint   `json:"book_id"`
	BookTitle  string `json:"book_title"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`
	LineTotal  int64  `json:"line_total"`
}

// Add 加入购物车
// 同一本书重复加购时数量累加,不产生重复条目
func (uc *UseCase) Add(ctx context.Context, userID, bookID uint, quantity int) (*cart.Item, error) {
	if quantity <= 0 {
		return nil, cart.ErrInvalidQuantity
	}

	// 图书必须存在且在售
	b, err := uc.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !b.IsOnSale() {
		return nil, book.ErrBookNotOnSale
	}

	existing, err := uc.cartRepo.FindByUserAndBook(ctx, userID, bookID)
	if err == nil {
		// 已有条目:数量累加
		existing.AddQuantity(quantity)
		if err := uc.cartRepo.UpdateQuantity(ctx, existing.ID, existing.Quantity); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, cart.ErrCartItemNotFound) {
		return nil, err
	}

	item := cart.NewItem(userID, bookID, quantity)
	if err := uc.cartRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// List 查询购物车(带图书标题与小计)
func (uc *UseCase) List(ctx context.Context, userID uint) ([]*ItemView, error) {
	items, err := uc.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*ItemView{}, nil
	}

	bookIDs := make([]uint, len(items))
	for i, item := range items {
		bookIDs[i] = item.BookID
	}
	books, err := uc.bookRepo.FindByIDs(ctx, bookIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*ItemView, len(items))
	for i, item := range items {
		v := &ItemView{
			CartItemID: item.ID,
			BookID:     item.BookID,
			BookTitle:  "Unknown",
			Quantity:   item.Quantity,
		}
		if b, ok := books[item.BookID]; ok {
			v.BookTitle = b.Title
			v.Price = b.Price
			v.LineTotal = b.Price * int64(item.Quantity)
		}
		views[i] = v
	}
	return views, nil
}

// UpdateQuantity 修改条目数量(条目须属于当前用户)
func (uc *UseCase) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) error {
	if quantity <= 0 {
		return cart.ErrInvalidQuantity
	}

	items, err := uc.cartRepo.FindByIDs(ctx, userID, []uint{itemID})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return cart.ErrCartItemNotFound
	}

	return uc.cartRepo.UpdateQuantity(ctx, itemID, quantity)
}

// Remove 删除条目(条目须属于当前用户)
func (uc *UseCase) Remove(ctx context.Context, userID, itemID uint) error {
	return uc.cartRepo.Delete(ctx, userID, itemID)
}
