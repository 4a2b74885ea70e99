package ranking

import (
	"context"
)

// Repository 榜单仓储接口
type Repository interface {
	// DeleteByType 清空某一类型的榜单（每轮重算先删后插，
	// 必须与CreateBatch同事务；按类型圈定让两张榜互不拖累）
	DeleteByType(ctx context.Context, typ Type) error

	// CreateBatch 批量写入榜单条目
	CreateBatch(ctx context.Context, rankings []*Ranking) error

	// Find 查询某细分榜单（按名次升序，联表填充图书标题/作者）
	Find(ctx context.Context, q Query) ([]*Ranking, error)
}

// Cache 榜单缓存接口（Redis实现）
// 说明：缓存不是权威数据源。Get未命中返回(nil, nil)；
// 读写出错由调用方降级处理（回源数据库），绝不把缓存故障
// 暴露给终端用户。
type Cache interface {
	// Get 读取榜单快照，未命中返回(nil, nil)
	Get(ctx context.Context, typ Type, ageGroup, gender string) (*Snapshot, error)

	// Set 写入榜单快照（带TTL，TTL略长于重算周期）
	Set(ctx context.Context, snap *Snapshot) error
}
