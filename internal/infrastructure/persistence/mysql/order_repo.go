package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hanbit/bookstore/internal/domain/order"
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 设计说明:
//  1. 订单与明细是聚合关系:Create一次写入订单+全部明细
//     (GORM关联写入,同一条INSERT语句链,天然在外围事务内)
//  2. 查询时Preload("Items")预加载明细,避免N+1
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单(包含订单明细)
// 必须在外围事务中调用:订单写入只是下单管道四步中的一步
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := &OrderModel{
		UserID:      o.UserID,
		OrderDate:   o.OrderDate,
		TotalAmount: o.TotalAmount,
		Status:      int(o.Status),
		Items:       make([]OrderItemModel, len(o.Items)),
	}
	for i, item := range o.Items {
		model.Items[i] = OrderItemModel{
			BookID:      item.BookID,
			Price:       item.Price,
			TotalAmount: item.TotalAmount,
			Quantity:    item.Quantity,
			IsSettled:   item.IsSettled,
		}
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}

	// 回填订单与明细的自增ID
	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	for i := range model.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.Items[i].OrderID
		o.Items[i].CreatedAt = model.Items[i].CreatedAt
	}

	return nil
}

// FindByID 根据ID查找订单(包含明细)
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).Preload("Items").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	return toOrderEntity(&model), nil
}

// UpdateStatus 更新订单状态
func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status order.Status) error {
	result := getDB(ctx, r.db).Model(&OrderModel{}).
		Where("id = ?", id).
		Update("status", int(status))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单状态失败")
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

// ListByUserID 分页查询用户的订单(按下单时间倒序)
func (r *orderRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	db := getDB(ctx, r.db)

	var total int64
	if err := db.Model(&OrderModel{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	var models []OrderModel
	offset := (page - 1) * pageSize
	err := db.Preload("Items").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Limit(pageSize).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	return toOrderEntities(models), total, nil
}

// ListAll 分页查询全部订单(管理端),status为nil时不过滤
func (r *orderRepository) ListAll(ctx context.Context, page, pageSize int, status *order.Status) ([]*order.Order, int64, error) {
	db := getDB(ctx, r.db)

	query := db.Model(&OrderModel{})
	if status != nil {
		query = query.Where("status = ?", int(*status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	var models []OrderModel
	offset := (page - 1) * pageSize
	listQuery := db.Preload("Items")
	if status != nil {
		listQuery = listQuery.Where("status = ?", int(*status))
	}
	err := listQuery.
		Order("order_date DESC").
		Limit(pageSize).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	return toOrderEntities(models), total, nil
}

// toOrderEntity GORM模型 → 领域实体
func toOrderEntity(model *OrderModel) *order.Order {
	o := &order.Order{
		ID:          model.ID,
		UserID:      model.UserID,
		OrderDate:   model.OrderDate,
		TotalAmount: model.TotalAmount,
		Status:      order.Status(model.Status),
		Items:       make([]order.Item, len(model.Items)),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	for i, item := range model.Items {
		o.Items[i] = order.Item{
			ID:          item.ID,
			OrderID:     item.OrderID,
			BookID:      item.BookID,
			Price:       item.Price,
			TotalAmount: item.TotalAmount,
			Quantity:    item.Quantity,
			IsSettled:   item.IsSettled,
			CreatedAt:   item.CreatedAt,
		}
	}
	return o
}

func toOrderEntities(models []OrderModel) []*order.Order {
	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders
}
