package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hanbit/bookstore/internal/domain/book"
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如ISBN重复),转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// FindByIDs 批量查找图书
// 返回map便于调用方按ID取价格快照;不存在的ID不在map中出现
func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]*book.Book, error) {
	result := make(map[uint]*book.Book, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var models []BookModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "批量查询图书失败")
	}

	for i := range models {
		result[models[i].ID] = toBookEntity(&models[i])
	}
	return result, nil
}

// UpdatePurchaseCount 原子更新购买计数
// 使用UPDATE ... SET purchase_count = purchase_count + ?原子更新,
// 由数据库行级串行化保证并发下单互不丢失更新。
// 回退(delta<0)时计数不降到0以下:先尝试带下界条件的扣减,
// 扣不动说明当前值已不足,兜底落在0(并发取消重叠的边界情形)。
func (r *bookRepository) UpdatePurchaseCount(ctx context.Context, id uint, delta int) error {
	db := getDB(ctx, r.db)

	if delta >= 0 {
		result := db.Model(&BookModel{}).
			Where("id = ?", id).
			Update("purchase_count", gorm.Expr("purchase_count + ?", delta))
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "更新购买计数失败")
		}
		if result.RowsAffected == 0 {
			return book.ErrBookNotFound
		}
		return nil
	}

	// delta < 0: 只有当前计数足够时才扣减
	dec := -delta
	result := db.Model(&BookModel{}).
		Where("id = ?", id).
		Where("purchase_count >= ?", dec).
		Update("purchase_count", gorm.Expr("purchase_count - ?", dec))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "回退购买计数失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// 扣不动:图书不存在,或计数已小于扣减量(归零兜底)
	result = db.Model(&BookModel{}).
		Where("id = ?", id).
		Update("purchase_count", 0)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "回退购买计数失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// TopByPurchaseCount 按购买数取在售图书Top N
func (r *bookRepository) TopByPurchaseCount(ctx context.Context, limit int) ([]*book.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).
		Where("status = ?", int(book.StatusOnSale)).
		Order("purchase_count DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购买榜失败")
	}

	return toBookEntities(models), nil
}

// TopByAverageRating 按平均评分取在售图书Top N(零评论图书排除)
func (r *bookRepository) TopByAverageRating(ctx context.Context, limit int) ([]*book.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).
		Where("status = ?", int(book.StatusOnSale)).
		Where("review_count > 0").
		Order("average_rating DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询评分榜失败")
	}

	return toBookEntities(models), nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:            b.ID,
		SellerID:      b.SellerID,
		Status:        int(b.Status),
		Title:         b.Title,
		Author:        b.Author,
		Publisher:     b.Publisher,
		ISBN:          b.ISBN,
		Price:         b.Price,
		AverageRating: b.AverageRating,
		ReviewCount:   b.ReviewCount,
		PurchaseCount: b.PurchaseCount,
	}
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:            model.ID,
		SellerID:      model.SellerID,
		Status:        book.Status(model.Status),
		Title:         model.Title,
		Author:        model.Author,
		Publisher:     model.Publisher,
		ISBN:          model.ISBN,
		Price:         model.Price,
		AverageRating: model.AverageRating,
		ReviewCount:   model.ReviewCount,
		PurchaseCount: model.PurchaseCount,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books
}
