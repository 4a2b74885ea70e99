package ranking

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hanbit/bookstore/internal/domain/ranking"
	apperrors "github.com/hanbit/bookstore/pkg/errors"
	"github.com/hanbit/bookstore/pkg/metrics"
)

// GetUseCase 榜单查询用例(cache-aside)
// 读路径:缓存命中直接返回;未命中或缓存出错回源数据库,
// 回源结果尽力回填缓存。缓存故障绝不暴露给终端用户。
type GetUseCase struct {
	rankingRepo ranking.Repository
	cache       ranking.Cache
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewGetUseCase 创建榜单查询用例
func NewGetUseCase(
	rankingRepo ranking.Repository,
	cache ranking.Cache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *GetUseCase {
	return &GetUseCase{
		rankingRepo: rankingRepo,
		cache:       cache,
		metrics:     m,
		logger:      logger,
	}
}

// Execute 查询榜单
func (uc *GetUseCase) Execute(ctx context.Context, q ranking.Query) (*ranking.Snapshot, error) {
	if !q.Type.Valid() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "无效的榜单类型: "+string(q.Type))
	}
	q = q.Normalize()

	// 1. 读缓存;出错按未命中处理(降级回源)
	snap, err := uc.cache.Get(ctx, q.Type, q.AgeGroup, q.Gender)
	if err != nil {
		uc.logger.Warn("榜单缓存读取失败,回源数据库",
			zap.String("ranking_type", string(q.Type)),
			zap.Error(err))
		snap = nil
	}
	if snap != nil {
		uc.metrics.RankingCacheHits.Inc()
		return snap.Truncate(q.Limit), nil
	}
	uc.metrics.RankingCacheMisses.Inc()

	// 2. 回源数据库
	rankings, err := uc.rankingRepo.Find(ctx, q)
	if err != nil {
		return nil, err
	}

	snap = toSnapshot(q, rankings)

	// 3. 尽力回填缓存(失败只记日志)
	if err := uc.cache.Set(ctx, snap); err != nil {
		uc.logger.Warn("榜单缓存回填失败",
			zap.String("ranking_type", string(q.Type)),
			zap.Error(err))
	}

	return snap.Truncate(q.Limit), nil
}

// toSnapshot 数据库榜单条目 → 快照DTO
func toSnapshot(q ranking.Query, rankings []*ranking.Ranking) *ranking.Snapshot {
	snap := &ranking.Snapshot{
		Type:     q.Type,
		AgeGroup: q.AgeGroup,
		Gender:   q.Gender,
		Rankings: make([]ranking.Item, len(rankings)),
	}
	for i, rk := range rankings {
		snap.Rankings[i] = ranking.Item{
			Rank:          rk.Rank,
			BookID:        rk.BookID,
			BookTitle:     rk.BookTitle,
			BookAuthor:    rk.BookAuthor,
			PurchaseCount: rk.PurchaseCount,
			AverageRating: ratingString(rk.AverageRating),
		}
	}
	return snap
}

// ratingString 定点评分 → "4.50"展示字符串
func ratingString(rating int64) string {
	return fmt.Sprintf("%d.%02d", rating/100, rating%100)
}
