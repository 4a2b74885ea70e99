package settlement

import (
	"time"
)

// CommissionRate 平台抽佣比率（万分比，1000 = 10%）
// 定点整数避免浮点漂移：commission = totalSales × 1000 / 10000
const CommissionRate = 1000

// Settlement 定算记录（卖家某批已送达明细的营收结算）
// 设计说明：
//  1. 创建后不可变——发现错误只能追加新的定算记录冲正，不允许修改
//  2. PeriodStart/PeriodEnd是本次批处理覆盖的明细创建日期的
//     全局最小/最大值（整个批次共用一个区间，不按卖家拆分）
type Settlement struct {
	ID             uint
	SellerID       uint
	TotalSales     int64 // 销售总额（分）
	Commission     int64 // 平台佣金（分）
	FinalPayout    int64 // 最终打款额（分）= TotalSales − Commission
	PeriodStart    time.Time
	PeriodEnd      time.Time
	SettlementDate time.Time // 批处理运行日期
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Order 定算-订单明细中间记录
// 这张表的存在本身就是幂等标记：某订单明细一旦出现在任何
// 一条记录里即视为"已定算"，后续批处理必须排除它。
// orderItem.is_settled只是它的反范式镜像。
type Order struct {
	ID           uint
	SettlementID uint
	OrderItemID  uint
	CreatedAt    time.Time
}

// ComputeCommission 按固定比率计算佣金（分，向零截断）
func ComputeCommission(totalSales int64) int64 {
	return totalSales * CommissionRate / 10000
}

// NewSettlement 创建定算记录（工厂方法）
// payout = total − commission，两者相加恒等于销售总额，无舍入漂移。
func NewSettlement(sellerID uint, totalSales int64, periodStart, periodEnd, settlementDate time.Time) *Settlement {
	commission := ComputeCommission(totalSales)
	return &Settlement{
		SellerID:       sellerID,
		TotalSales:     totalSales,
		Commission:     commission,
		FinalPayout:    totalSales - commission,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		SettlementDate: settlementDate,
	}
}

// UnsettledItem 待定算明细（读模型）
// 来自"已送达订单的明细 × 未出现在定算中间表"的集合差查询，
// 附带分组所需的卖家ID与金额、日期。
type UnsettledItem struct {
	OrderItemID uint
	BookID      uint
	SellerID    uint
	TotalAmount int64 // 明细小计（分）
	CreatedAt   time.Time
}

// Summary 单次批处理的结果摘要
type Summary struct {
	CreatedSettlements   int    `json:"created_settlements"`
	TotalProcessedOrders int    `json:"total_processed_orders"`
	Message              string `json:"message"`
}
