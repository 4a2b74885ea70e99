package dto

// CreateOrderRequest 下单请求
// cart_item_ids为空表示整车下单
type CreateOrderRequest struct {
	CartItemIDs []uint `json:"cart_item_ids" example:"1,2,3"`
}

// MarkOrderStatusRequest 管理端订单状态流转请求
type MarkOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"SHIPPED"`
}
