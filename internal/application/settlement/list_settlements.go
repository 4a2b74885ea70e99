package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/hanbit/bookstore/internal/domain/seller"
	"github.com/hanbit/bookstore/internal/domain/settlement"
)

// ListUseCase 我的定算列表用例(卖家侧)
type ListUseCase struct {
	settlementRepo settlement.Repository
	sellerRepo     seller.Repository
}

// NewListUseCase 创建定算列表用例
func NewListUseCase(settlementRepo settlement.Repository, sellerRepo seller.Repository) *ListUseCase {
	return &ListUseCase{settlementRepo: settlementRepo, sellerRepo: sellerRepo}
}

// View 定算视图DTO
type View struct {
	SettlementID   uint      `json:"settlement_id"`
	TotalSales     int64     `json:"total_sales"`
	Commission     int64     `json:"commission"`
	FinalPayout    int64     `json:"final_payout"`
	TotalYuan      string    `json:"total_yuan"`
	PayoutYuan     string    `json:"payout_yuan"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	SettlementDate time.Time `json:"settlement_date"`
}

// Execute 查询当前用户(卖家)的定算记录
// 当前用户没有卖家档案时返回领域错误;start/end为nil时不过滤
func (uc *ListUseCase) Execute(ctx context.Context, userID uint, start, end *time.Time) ([]*View, int64, error) {
	profile, err := uc.sellerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	settlements, total, err := uc.settlementRepo.ListBySellerID(ctx, profile.ID, start, end)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*View, len(settlements))
	for i, s := range settlements {
		views[i] = &View{
			SettlementID:   s.ID,
			TotalSales:     s.TotalSales,
			Commission:     s.Commission,
			FinalPayout:    s.FinalPayout,
			TotalYuan:      yuan(s.TotalSales),
			PayoutYuan:     yuan(s.FinalPayout),
			PeriodStart:    s.PeriodStart,
			PeriodEnd:      s.PeriodEnd,
			SettlementDate: s.SettlementDate,
		}
	}
	return views, total, nil
}

// yuan 分 → "xx.yy"展示字符串
func yuan(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
