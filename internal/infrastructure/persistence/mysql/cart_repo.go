package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hanbit/bookstore/internal/domain/cart"
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

// cartRepository 购物车仓储实现(MySQL)
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// Create 创建购物车条目
func (r *cartRepository) Create(ctx context.Context, item *cart.Item) error {
	model := &CartModel{
		UserID:   item.UserID,
		BookID:   item.BookID,
		Quantity: item.Quantity,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建购物车条目失败")
	}

	item.ID = model.ID
	item.CreatedAt = model.CreatedAt
	item.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByUserID 查询用户的全部购物车条目
func (r *cartRepository) FindByUserID(ctx context.Context, userID uint) ([]*cart.Item, error) {
	var models []CartModel
	err := getDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	return toCartEntities(models), nil
}

// FindByIDs 按ID集合查询,作用域限定在该用户
// 不属于该用户的ID被静默排除(防止探测他人购物车)
func (r *cartRepository) FindByIDs(ctx context.Context, userID uint, ids []uint) ([]*cart.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []CartModel
	err := getDB(ctx, r.db).
		Where("user_id = ?", userID).
		Where("id IN ?", ids).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车条目失败")
	}

	return toCartEntities(models), nil
}

// FindByUserAndBook 查询用户购物车中指定图书的条目(加购去重)
func (r *cartRepository) FindByUserAndBook(ctx context.Context, userID, bookID uint) (*cart.Item, error) {
	var model CartModel
	err := getDB(ctx, r.db).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartItemNotFound
		}
		return nil, apperrors.Wrap(err, "查询购物车条目失败")
	}

	return toCartEntity(&model), nil
}

// UpdateQuantity 修改条目数量
func (r *cartRepository) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	result := getDB(ctx, r.db).Model(&CartModel{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车数量失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}
	return nil
}

// Delete 删除单个条目(条目须属于该用户)
func (r *cartRepository) Delete(ctx context.Context, userID, id uint) error {
	result := getDB(ctx, r.db).
		Where("user_id = ?", userID).
		Delete(&CartModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除购物车条目失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}
	return nil
}

// DeleteByIDs 批量删除(下单消费购物车,在订单事务内调用)
func (r *cartRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	if err := getDB(ctx, r.db).Delete(&CartModel{}, ids).Error; err != nil {
		return apperrors.Wrap(err, "清空购物车条目失败")
	}
	return nil
}

// toCartEntity GORM模型 → 领域实体
func toCartEntity(model *CartModel) *cart.Item {
	return &cart.Item{
		ID:        model.ID,
		UserID:    model.UserID,
		BookID:    model.BookID,
		Quantity:  model.Quantity,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toCartEntities(models []CartModel) []*cart.Item {
	items := make([]*cart.Item, len(models))
	for i := range models {
		items[i] = toCartEntity(&models[i])
	}
	return items
}
