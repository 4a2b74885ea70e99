package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hanbit/bookstore/internal/domain/ranking"
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

// RankingCache 榜单缓存(Redis实现)
// 设计说明：
//  1. Key设计：ranking:{type}:{ageGroup}:{gender}，
//     与榜单的细分维度一一对应
//  2. 值为JSON序列化的完整快照(Top10全量)，读取时按limit裁剪
//  3. TTL略长于重算周期：单次漏跑不至于立刻冷缓存
//  4. 缓存不是权威数据源，Get未命中返回(nil, nil)，
//     读写错误由调用方降级处理(回源数据库)
type RankingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRankingCache 创建榜单缓存
func NewRankingCache(client *redis.Client, ttl time.Duration) ranking.Cache {
	return &RankingCache{client: client, ttl: ttl}
}

// key 生成缓存Key：ranking:{type}:{ageGroup}:{gender}
func (c *RankingCache) key(typ ranking.Type, ageGroup, gender string) string {
	return fmt.Sprintf("ranking:%s:%s:%s", typ, ageGroup, gender)
}

// Get 读取榜单快照，未命中返回(nil, nil)
func (c *RankingCache) Get(ctx context.Context, typ ranking.Type, ageGroup, gender string) (*ranking.Snapshot, error) {
	data, err := c.client.Get(ctx, c.key(typ, ageGroup, gender)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // 未命中不是错误
		}
		return nil, apperrors.Wrap(err, "读取榜单缓存失败")
	}

	var snap ranking.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// 快照反序列化失败按未命中处理的决定留给调用方
		return nil, apperrors.Wrap(err, "榜单缓存反序列化失败")
	}
	return &snap, nil
}

// Set 写入榜单快照(带TTL)
func (c *RankingCache) Set(ctx context.Context, snap *ranking.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return apperrors.Wrap(err, "榜单快照序列化失败")
	}

	key := c.key(snap.Type, snap.AgeGroup, snap.Gender)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return apperrors.Wrap(err, "写入榜单缓存失败")
	}
	return nil
}
