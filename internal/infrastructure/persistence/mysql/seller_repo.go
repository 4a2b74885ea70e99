package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hanbit/bookstore/internal/domain/seller"
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

// sellerRepository 卖家档案仓储实现(MySQL)
type sellerRepository struct {
	db *gorm.DB
}

// NewSellerRepository 创建卖家档案仓储
func NewSellerRepository(db *gorm.DB) seller.Repository {
	return &sellerRepository{db: db}
}

// Create 创建卖家档案
func (r *sellerRepository) Create(ctx context.Context, p *seller.Profile) error {
	model := &SellerProfileModel{
		UserID:    p.UserID,
		StoreName: p.StoreName,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建卖家档案失败")
	}

	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByUserID 按用户查找卖家档案
func (r *sellerRepository) FindByUserID(ctx context.Context, userID uint) (*seller.Profile, error) {
	var model SellerProfileModel
	err := getDB(ctx, r.db).Where("user_id = ?", userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, seller.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(err, "查询卖家档案失败")
	}

	return &seller.Profile{
		ID:        model.ID,
		UserID:    model.UserID,
		StoreName: model.StoreName,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}
