package user

import (
	"time"
)

// Role 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin" // 管理端：全量订单、定算触发、榜单刷新
)

// User 用户实体（聚合根）
// 设计说明：
// 1. 密码已加密存储（bcrypt），不提供任何暴露明文的方法
// 2. 领域实体不依赖GORM tag（infrastructure层负责映射）
type User struct {
	ID        uint
	Role      string
	Email     string
	Password  string // bcrypt哈希值
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, name string) *User {
	now := time.Now()
	return &User{
		Role:      RoleUser,
		Email:     email,
		Password:  hashedPassword,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
