package seller

import (
	"context"
)

// Repository 卖家档案仓储接口
type Repository interface {
	// Create 创建卖家档案
	Create(ctx context.Context, profile *Profile) error

	// FindByUserID 按用户查找卖家档案，不存在时返回领域错误
	FindByUserID(ctx context.Context, userID uint) (*Profile, error)
}
