package ranking

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hanbit/bookstore/internal/domain/book"
	"github.com/hanbit/bookstore/internal/domain/ranking"
	"github.com/hanbit/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/hanbit/bookstore/pkg/metrics"
)

// topN 每张榜单的条目数
const topN = 10

// RefreshUseCase 榜单重算用例
// 设计说明:
//  1. 每张榜单各自先删后插,替换在一个事务内:重算中途失败
//     该榜整体回滚,读方看到的永远是完整的上一版榜单
//  2. 名次1..N连续(dense rank),并列不跳号——按查询返回顺序赋名次
//  3. 购买榜与评分榜是独立的故障域:一张榜的查询或落库失败
//     只记日志,另一张照常重算(宁可半边可用也不整体不可用)
//  4. 数据库落库成功后写缓存;缓存写失败只记日志,
//     下一次读会回源数据库并回填
type RefreshUseCase struct {
	bookRepo    book.Repository
	rankingRepo ranking.Repository
	cache       ranking.Cache
	txManager   *mysql.TxManager
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewRefreshUseCase 创建榜单重算用例
func NewRefreshUseCase(
	bookRepo book.Repository,
	rankingRepo ranking.Repository,
	cache ranking.Cache,
	txManager *mysql.TxManager,
	m *metrics.Metrics,
	logger *zap.Logger,
) *RefreshUseCase {
	return &RefreshUseCase{
		bookRepo:    bookRepo,
		rankingRepo: rankingRepo,
		cache:       cache,
		txManager:   txManager,
		metrics:     m,
		logger:      logger,
	}
}

// Execute 重算全部榜单
// 两张榜单各跑各的:一张失败只记日志并汇入返回错误,
// 另一张照常重算、落库、刷缓存。
func (uc *RefreshUseCase) Execute(ctx context.Context) error {
	return errors.Join(
		uc.refreshType(ctx, ranking.TypePurchaseCount, uc.bookRepo.TopByPurchaseCount),
		uc.refreshType(ctx, ranking.TypeAverageRating, uc.bookRepo.TopByAverageRating),
	)
}

// refreshType 重算单张榜单:查询→事务内替换→刷缓存
func (uc *RefreshUseCase) refreshType(
	ctx context.Context,
	typ ranking.Type,
	top func(ctx context.Context, limit int) ([]*book.Book, error),
) error {
	// 1. 事务外先算好新内容
	books, err := top(ctx, topN)
	if err != nil {
		uc.logger.Error("榜单Top查询失败",
			zap.String("ranking_type", string(typ)),
			zap.Error(err))
		return err
	}

	// 2. 该类型的条目在一个事务内整体替换
	rankings := buildRankings(typ, books)
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.rankingRepo.DeleteByType(txCtx, typ); err != nil {
			return err
		}
		return uc.rankingRepo.CreateBatch(txCtx, rankings)
	})
	if err != nil {
		uc.logger.Error("榜单重算失败",
			zap.String("ranking_type", string(typ)),
			zap.Error(err))
		return err
	}

	uc.metrics.RankingRefreshes.Inc()
	uc.logger.Info("榜单重算完成",
		zap.String("ranking_type", string(typ)),
		zap.Int("entries", len(books)))

	// 3. 落库成功后刷新缓存(失败只记日志,读路径会回源)
	uc.refreshCache(ctx, typ, books)
	return nil
}

// buildRankings 将Top查询结果转为榜单条目,名次1..N连续
func buildRankings(typ ranking.Type, books []*book.Book) []*ranking.Ranking {
	rankings := make([]*ranking.Ranking, len(books))
	for i, b := range books {
		rankings[i] = &ranking.Ranking{
			BookID:        b.ID,
			Type:          typ,
			Rank:          i + 1,
			PurchaseCount: b.PurchaseCount,
			AverageRating: b.AverageRating,
			AgeGroup:      ranking.SegmentAll,
			Gender:        ranking.SegmentAll,
			Region:        ranking.SegmentAll,
		}
	}
	return rankings
}

// refreshCache 写入某张榜单的缓存快照
func (uc *RefreshUseCase) refreshCache(ctx context.Context, typ ranking.Type, books []*book.Book) {
	snap := &ranking.Snapshot{
		Type:     typ,
		AgeGroup: ranking.SegmentAll,
		Gender:   ranking.SegmentAll,
		Rankings: make([]ranking.Item, len(books)),
	}
	for i, b := range books {
		snap.Rankings[i] = ranking.Item{
			Rank:          i + 1,
			BookID:        b.ID,
			BookTitle:     b.Title,
			BookAuthor:    b.Author,
			PurchaseCount: b.PurchaseCount,
			AverageRating: b.RatingString(),
		}
	}

	if err := uc.cache.Set(ctx, snap); err != nil {
		// 缓存故障不是重算失败
		uc.logger.Warn("榜单缓存写入失败",
			zap.String("ranking_type", string(typ)),
			zap.Error(err))
	}
}
