package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hanbit/bookstore/internal/domain/order"
	"github.com/hanbit/bookstore/internal/domain/settlement"
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

// settlementRepository 定算仓储实现(MySQL)
type settlementRepository struct {
	db *gorm.DB
}

// NewSettlementRepository 创建定算仓储
func NewSettlementRepository(db *gorm.DB) settlement.Repository {
	return &settlementRepository{db: db}
}

// unsettledItemRow 待定算明细查询的扫描结果
type unsettledItemRow struct {
	OrderItemID uint
	BookID      uint
	SellerID    uint
	TotalAmount int64
	CreatedAt   time.Time
}

// FindUnsettledItems 查询待定算明细
// 设计说明:
//  1. 候选集 = 父订单状态ARRIVED的全部明细
//  2. 排除集 = 已出现在settlement_orders中间表里的明细
//  3. 集合差用NOT EXISTS单条SQL下推到数据库执行,
//     选取与排除在同一快照内完成,没有内存过滤的竞态窗口
//  4. 联books表带出卖家ID,供调用方按卖家分组
func (r *settlementRepository) FindUnsettledItems(ctx context.Context) ([]*settlement.UnsettledItem, error) {
	var rows []unsettledItemRow
	err := getDB(ctx, r.db).
		Table("order_items AS oi").
		Select("oi.id AS order_item_id, oi.book_id, b.seller_id, oi.total_amount, oi.created_at").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN books b ON b.id = oi.book_id").
		Where("o.status = ?", int(order.StatusArrived)).
		Where("NOT EXISTS (SELECT 1 FROM settlement_orders so WHERE so.order_item_id = oi.id)").
		Order("oi.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询待定算明细失败")
	}

	items := make([]*settlement.UnsettledItem, len(rows))
	for i, row := range rows {
		items[i] = &settlement.UnsettledItem{
			OrderItemID: row.OrderItemID,
			BookID:      row.BookID,
			SellerID:    row.SellerID,
			TotalAmount: row.TotalAmount,
			CreatedAt:   row.CreatedAt,
		}
	}
	return items, nil
}

// Create 创建定算记录(回填自增ID)
func (r *settlementRepository) Create(ctx context.Context, s *settlement.Settlement) error {
	model := &SettlementModel{
		SellerID:       s.SellerID,
		TotalSales:     s.TotalSales,
		Commission:     s.Commission,
		FinalPayout:    s.FinalPayout,
		PeriodStart:    s.PeriodStart,
		PeriodEnd:      s.PeriodEnd,
		SettlementDate: s.SettlementDate,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建定算记录失败")
	}

	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	s.UpdatedAt = model.UpdatedAt
	return nil
}

// AddOrders 写入定算中间表,将明细绑定到定算记录
// order_item_id上的UNIQUE索引是幂等语义的约束层兜底:
// 并发双跑时后写的一方在这里撞唯一键,整个批处理事务回滚。
func (r *settlementRepository) AddOrders(ctx context.Context, settlementID uint, orderItemIDs []uint) error {
	if len(orderItemIDs) == 0 {
		return nil
	}

	models := make([]SettlementOrderModel, len(orderItemIDs))
	for i, itemID := range orderItemIDs {
		models[i] = SettlementOrderModel{
			SettlementID: settlementID,
			OrderItemID:  itemID,
		}
	}

	if err := getDB(ctx, r.db).Create(&models).Error; err != nil {
		return apperrors.Wrap(err, "写入定算中间表失败")
	}
	return nil
}

// MarkItemsSettled 同步orderItem.is_settled反范式镜像
// 与AddOrders同事务调用,两个标记不允许出现分歧
func (r *settlementRepository) MarkItemsSettled(ctx context.Context, orderItemIDs []uint) error {
	if len(orderItemIDs) == 0 {
		return nil
	}

	err := getDB(ctx, r.db).Model(&OrderItemModel{}).
		Where("id IN ?", orderItemIDs).
		Update("is_settled", true).Error
	if err != nil {
		return apperrors.Wrap(err, "更新明细定算标记失败")
	}
	return nil
}

// ListBySellerID 查询卖家的定算记录(按定算日期倒序)
func (r *settlementRepository) ListBySellerID(ctx context.Context, sellerID uint, start, end *time.Time) ([]*settlement.Settlement, int64, error) {
	query := getDB(ctx, r.db).Model(&SettlementModel{}).Where("seller_id = ?", sellerID)
	if start != nil {
		query = query.Where("settlement_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("settlement_date <= ?", *end)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询定算总数失败")
	}

	var models []SettlementModel
	if err := query.Order("settlement_date DESC, id DESC").Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询定算列表失败")
	}

	settlements := make([]*settlement.Settlement, len(models))
	for i := range models {
		settlements[i] = toSettlementEntity(&models[i])
	}
	return settlements, total, nil
}

// toSettlementEntity GORM模型 → 领域实体
func toSettlementEntity(model *SettlementModel) *settlement.Settlement {
	return &settlement.Settlement{
		ID:             model.ID,
		SellerID:       model.SellerID,
		TotalSales:     model.TotalSales,
		Commission:     model.Commission,
		FinalPayout:    model.FinalPayout,
		PeriodStart:    model.PeriodStart,
		PeriodEnd:      model.PeriodEnd,
		SettlementDate: model.SettlementDate,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
