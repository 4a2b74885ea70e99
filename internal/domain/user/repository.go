package user

import (
	"context"
)

// Repository 用户仓储接口（依赖倒置原则）
type Repository interface {
	// Create 创建用户（邮箱唯一性由数据库UNIQUE索引兜底）
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户（登录）
	FindByEmail(ctx context.Context, email string) (*User, error)
}
