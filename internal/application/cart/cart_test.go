package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hanbit/bookstore/internal/domain/book"
	"github.com/hanbit/bookstore/internal/domain/cart"
	"github.com/hanbit/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/hanbit/bookstore/internal/testutil"
)

func newUseCase(t *testing.T) (*UseCase, *gorm.DB, book.Repository) {
	t.Helper()
	db := testutil.NewDB(t)
	bookRepo := mysql.NewBookRepository(db)
	return NewUseCase(mysql.NewCartRepository(db), bookRepo), db, bookRepo
}

func seedBook(t *testing.T, repo book.Repository, title string, status book.Status, price int64) *book.Book {
	t.Helper()
	b := book.NewBook(1, title, "作者", "出版社", "ISBN-"+title, price)
	b.Status = status
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

// TestAdd 加购:新条目与重复加购累加
func TestAdd(t *testing.T) {
	uc, _, bookRepo := newUseCase(t)
	ctx := context.Background()

	b := seedBook(t, bookRepo, "图书A", book.StatusOnSale, 12000)

	item, err := uc.Add(ctx, 10, b.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	// 同一本书再次加购:数量累加,不增条目
	item, err = uc.Add(ctx, 10, b.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	views, err := uc.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, views, 1, "重复加购不应产生重复条目")
	assert.Equal(t, 5, views[0].Quantity)
	assert.Equal(t, int64(60000), views[0].LineTotal)
}

// TestAdd_Rules 加购的校验规则
func TestAdd_Rules(t *testing.T) {
	uc, _, bookRepo := newUseCase(t)
	ctx := context.Background()

	onSale := seedBook(t, bookRepo, "在售", book.StatusOnSale, 10000)
	soldOut := seedBook(t, bookRepo, "售罄", book.StatusSoldOut, 10000)

	t.Run("数量非法", func(t *testing.T) {
		_, err := uc.Add(ctx, 10, onSale.ID, 0)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	})

	t.Run("图书不存在", func(t *testing.T) {
		_, err := uc.Add(ctx, 10, 9999, 1)
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})

	t.Run("图书未在售", func(t *testing.T) {
		_, err := uc.Add(ctx, 10, soldOut.ID, 1)
		assert.ErrorIs(t, err, book.ErrBookNotOnSale)
	})
}

// TestList 购物车列表带标题与小计
func TestList(t *testing.T) {
	uc, _, bookRepo := newUseCase(t)
	ctx := context.Background()

	b1 := seedBook(t, bookRepo, "先加的", book.StatusOnSale, 10000)
	b2 := seedBook(t, bookRepo, "后加的", book.StatusOnSale, 20000)

	_, err := uc.Add(ctx, 10, b1.ID, 1)
	require.NoError(t, err)
	_, err = uc.Add(ctx, 10, b2.ID, 2)
	require.NoError(t, err)

	views, err := uc.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "先加的", views[0].BookTitle, "按加入顺序排列")
	assert.Equal(t, int64(40000), views[1].LineTotal)

	// 其他用户的购物车为空
	views, err = uc.List(ctx, 11)
	require.NoError(t, err)
	assert.Empty(t, views)
}

// TestUpdateQuantity 改数量须持有条目
func TestUpdateQuantity(t *testing.T) {
	uc, _, bookRepo := newUseCase(t)
	ctx := context.Background()

	b := seedBook(t, bookRepo, "图书A", book.StatusOnSale, 10000)
	item, err := uc.Add(ctx, 10, b.ID, 1)
	require.NoError(t, err)

	require.NoError(t, uc.UpdateQuantity(ctx, 10, item.ID, 4))
	views, err := uc.List(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, views[0].Quantity)

	t.Run("他人条目", func(t *testing.T) {
		err := uc.UpdateQuantity(ctx, 11, item.ID, 2)
		assert.ErrorIs(t, err, cart.ErrCartItemNotFound)
	})

	t.Run("数量非法", func(t *testing.T) {
		err := uc.UpdateQuantity(ctx, 10, item.ID, -1)
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	})
}

// TestRemove 删除条目
func TestRemove(t *testing.T) {
	uc, _, bookRepo := newUseCase(t)
	ctx := context.Background()

	b := seedBook(t, bookRepo, "图书A", book.StatusOnSale, 10000)
	item, err := uc.Add(ctx, 10, b.ID, 1)
	require.NoError(t, err)

	// 他人删除不生效
	err = uc.Remove(ctx, 11, item.ID)
	assert.ErrorIs(t, err, cart.ErrCartItemNotFound)
	views, err := uc.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, views, 1, "他人删除不应影响本人购物车")

	require.NoError(t, uc.Remove(ctx, 10, item.ID))
	views, err = uc.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, views)
}
