package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/hanbit/bookstore/internal/application/order"
	"github.com/hanbit/bookstore/internal/interface/http/dto"
	"github.com/hanbit/bookstore/internal/interface/http/middleware"
	"github.com/hanbit/bookstore/pkg/response"
)

// OrderHandler 订单HTTP处理器（买家侧）
type OrderHandler struct {
	createUseCase *apporder.CreateOrderUseCase
	cancelUseCase *apporder.CancelOrderUseCase
	getUseCase    *apporder.GetOrderUseCase
	listUseCase   *apporder.ListOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createUseCase *apporder.CreateOrderUseCase,
	cancelUseCase *apporder.CancelOrderUseCase,
	getUseCase *apporder.GetOrderUseCase,
	listUseCase *apporder.ListOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		createUseCase: createUseCase,
		cancelUseCase: cancelUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
	}
}

// Create 下单
// @Summary      从购物车下单
// @Description  以购物车条目为输入创建订单；cart_item_ids为空表示整车下单
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "下单信息"
// @Success      200 {object} response.Response{data=apporder.View} "下单成功"
// @Failure      400 {object} response.Response "购物车为空"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40000, "参数错误: "+err.Error())
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		UserID:      userID,
		CartItemIDs: req.CartItemIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Cancel 取消订单
// @Summary      取消订单
// @Description  仅CREATED状态可取消，取消后订单进入REFUND终态并回退购买计数
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.View} "取消成功"
// @Failure      404 {object} response.Response "订单不存在"
// @Failure      400 {object} response.Response "当前状态不允许取消"
// @Router       /api/v1/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	orderID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40000, "无效的订单ID")
		return
	}

	result, err := h.cancelUseCase.Execute(c.Request.Context(), userID, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Get 订单详情
// @Summary      订单详情
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.View} "订单详情"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	orderID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40000, "无效的订单ID")
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), userID, orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// List 我的订单列表
// @Summary      我的订单列表
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页条数" default(10)
// @Success      200 {object} response.Response{data=response.PageData} "订单列表"
// @Router       /api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	page, pageSize := parsePagination(c)

	views, total, err := h.listUseCase.Execute(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, views, total, page, pageSize)
}

// parsePagination 解析分页查询参数
func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return page, pageSize
}
