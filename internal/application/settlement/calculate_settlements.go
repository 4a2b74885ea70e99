package settlement

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hanbit/bookstore/internal/domain/settlement"
	"github.com/hanbit/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/hanbit/bookstore/pkg/metrics"
)

// CalculateUseCase 定算批处理用例
// 设计说明:
//  1. 幂等:候选明细在仓储层用集合差排除已定算的部分,
//     重复触发时选不出任何明细,直接空跑返回
//  2. 整批一个事务:所有卖家的定算记录+中间表+镜像标记
//     要么全部落库要么全部回滚
//  3. 区间边界取本批全部明细的全局最早/最晚时间,
//     每个卖家的记录上写的都是同一对边界
type CalculateUseCase struct {
	settlementRepo settlement.Repository
	txManager      *mysql.TxManager
	metrics        *metrics.Metrics
	logger         *zap.Logger

	// now供测试注入固定时钟,默认time.Now
	now func() time.Time
}

// NewCalculateUseCase 创建定算批处理用例
func NewCalculateUseCase(
	settlementRepo settlement.Repository,
	txManager *mysql.TxManager,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CalculateUseCase {
	return &CalculateUseCase{
		settlementRepo: settlementRepo,
		txManager:      txManager,
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

// sellerBucket 按卖家归集的明细组
type sellerBucket struct {
	sellerID    uint
	totalSales  int64
	orderItemID []uint
}

// Execute 执行一轮定算批处理
func (uc *CalculateUseCase) Execute(ctx context.Context) (*settlement.Summary, error) {
	uc.metrics.SettlementRuns.Inc()

	items, err := uc.settlementRepo.FindUnsettledItems(ctx)
	if err != nil {
		uc.metrics.SettlementFails.Inc()
		return nil, err
	}

	// 没有待定算明细:空跑,不产生任何记录
	if len(items) == 0 {
		uc.logger.Info("定算批处理:无待定算明细")
		return &settlement.Summary{
			CreatedSettlements:   0,
			TotalProcessedOrders: 0,
			Message:              "No unsettled orders found",
		}, nil
	}

	// 全局区间边界:本批全部明细的最早/最晚时间
	periodStart := items[0].CreatedAt
	periodEnd := items[0].CreatedAt
	for _, item := range items[1:] {
		if item.CreatedAt.Before(periodStart) {
			periodStart = item.CreatedAt
		}
		if item.CreatedAt.After(periodEnd) {
			periodEnd = item.CreatedAt
		}
	}

	// 按卖家归集
	buckets := make(map[uint]*sellerBucket)
	for _, item := range items {
		b, ok := buckets[item.SellerID]
		if !ok {
			b = &sellerBucket{sellerID: item.SellerID}
			buckets[item.SellerID] = b
		}
		b.totalSales += item.TotalAmount
		b.orderItemID = append(b.orderItemID, item.OrderItemID)
	}

	// 卖家顺序固定(map遍历无序,落库顺序要可重现)
	sellerIDs := make([]uint, 0, len(buckets))
	for id := range buckets {
		sellerIDs = append(sellerIDs, id)
	}
	sort.Slice(sellerIDs, func(i, j int) bool { return sellerIDs[i] < sellerIDs[j] })

	settlementDate := uc.now()

	// 整批一个事务
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		for _, sellerID := range sellerIDs {
			b := buckets[sellerID]

			s := settlement.NewSettlement(b.sellerID, b.totalSales, periodStart, periodEnd, settlementDate)
			if err := uc.settlementRepo.Create(txCtx, s); err != nil {
				return err
			}
			if err := uc.settlementRepo.AddOrders(txCtx, s.ID, b.orderItemID); err != nil {
				return err
			}
			if err := uc.settlementRepo.MarkItemsSettled(txCtx, b.orderItemID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.metrics.SettlementFails.Inc()
		uc.logger.Error("定算批处理失败", zap.Error(err))
		return nil, err
	}

	uc.metrics.SettledItems.Add(float64(len(items)))
	uc.logger.Info("定算批处理完成",
		zap.Int("seller_count", len(buckets)),
		zap.Int("item_count", len(items)),
		zap.Time("period_start", periodStart),
		zap.Time("period_end", periodEnd))

	return &settlement.Summary{
		CreatedSettlements:   len(buckets),
		TotalProcessedOrders: len(items),
		Message: fmt.Sprintf("Settlement completed: %d sellers, %d order items",
			len(buckets), len(items)),
	}, nil
}
