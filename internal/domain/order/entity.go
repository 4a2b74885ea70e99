package order

import (
	"time"
)

// Status 订单状态
// 状态机：CREATED → {SHIPPED → ARRIVED, REFUND}
// 本服务只执行CREATED→REFUND（取消）；SHIPPED/ARRIVED由
// 履约事件驱动，ARRIVED是定算引擎的准入前提。
type Status int

const (
	StatusCreated Status = 1 // 已创建（可取消）
	StatusShipped Status = 2 // 已发货
	StatusArrived Status = 3 // 已送达（可定算）
	StatusRefund  Status = 4 // 已退款（取消的终态）
)

// String 实现Stringer接口
func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "CREATED"
	case StatusShipped:
		return "SHIPPED"
	case StatusArrived:
		return "ARRIVED"
	case StatusRefund:
		return "REFUND"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus 解析状态名（管理端筛选、履约回调用）
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "CREATED":
		return StatusCreated, true
	case "SHIPPED":
		return StatusShipped, true
	case "ARRIVED":
		return StatusArrived, true
	case "REFUND":
		return StatusRefund, true
	default:
		return 0, false
	}
}

// Order 订单实体（聚合根）
// 设计说明：
// 1. Order是聚合根，Item是子实体，随订单级联删除
// 2. TotalAmount是创建时刻的快照（各明细小计之和），之后不再重算
type Order struct {
	ID          uint
	UserID      uint
	OrderDate   time.Time
	TotalAmount int64 // 订单总金额（分），创建时快照
	Status      Status
	Items       []Item
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Item 订单明细项
// 设计说明：
//  1. Price/TotalAmount记录"下单时的价格"（历史价格快照），
//     图书后续改价不能回溯影响历史订单
//  2. IsSettled是定算引擎维护的反范式镜像，真实幂等依据是
//     settlementOrder中间表（见settlement包）；该标记false→true
//     只发生一次，且永不回退
//  3. (OrderID, BookID)唯一
type Item struct {
	ID          uint
	OrderID     uint
	BookID      uint
	Price       int64 // 下单时单价（分）
	TotalAmount int64 // 明细小计（分）= Price × Quantity
	Quantity    int
	IsSettled   bool
	CreatedAt   time.Time
}

// NewOrder 创建新订单（工厂方法），初始状态CREATED
func NewOrder(userID uint, items []Item, totalAmount int64) *Order {
	now := time.Now()
	return &Order{
		UserID:      userID,
		OrderDate:   now,
		TotalAmount: totalAmount,
		Status:      StatusCreated,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CanTransitionTo 检查是否允许转换到目标状态
// 防止非法状态跳转（如REFUND后再发货）
func (o *Order) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusCreated: {StatusShipped, StatusRefund},
		StatusShipped: {StatusArrived},
		StatusArrived: {},
		StatusRefund:  {},
	}

	allowed, ok := transitions[o.Status]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// CanCancel 是否可取消——仅CREATED状态允许走退款路径
func (o *Order) CanCancel() bool {
	return o.Status == StatusCreated
}

// IsOwnedBy 检查订单是否属于指定用户（防止越权访问）
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
