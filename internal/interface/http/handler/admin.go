package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/hanbit/bookstore/internal/application/order"
	appranking "github.com/hanbit/bookstore/internal/application/ranking"
	appsettlement "github.com/hanbit/bookstore/internal/application/settlement"
	"github.com/hanbit/bookstore/internal/interface/http/dto"
	"github.com/hanbit/bookstore/pkg/response"
)

// AdminHandler 管理端HTTP处理器
// 说明：全部路由挂RequireAuth+RequireAdmin；
// 定算/榜单的手动触发与调度器走同一个用例，语义完全一致
type AdminHandler struct {
	listAllUseCase    *apporder.ListAllOrdersUseCase
	markStatusUseCase *apporder.MarkStatusUseCase
	settlementUseCase *appsettlement.CalculateUseCase
	rankingUseCase    *appranking.RefreshUseCase
}

// NewAdminHandler 创建管理端处理器
func NewAdminHandler(
	listAllUseCase *apporder.ListAllOrdersUseCase,
	markStatusUseCase *apporder.MarkStatusUseCase,
	settlementUseCase *appsettlement.CalculateUseCase,
	rankingUseCase *appranking.RefreshUseCase,
) *AdminHandler {
	return &AdminHandler{
		listAllUseCase:    listAllUseCase,
		markStatusUseCase: markStatusUseCase,
		settlementUseCase: settlementUseCase,
		rankingUseCase:    rankingUseCase,
	}
}

// ListOrders 全部订单列表
// @Summary      全部订单列表（管理端）
// @Tags         管理端
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页条数" default(10)
// @Param        status query string false "状态过滤" Enums(CREATED, SHIPPED, ARRIVED, REFUND)
// @Success      200 {object} response.Response{data=response.PageData} "订单列表"
// @Router       /api/v1/admin/orders [get]
func (h *AdminHandler) ListOrders(c *gin.Context) {
	page, pageSize := parsePagination(c)

	views, total, err := h.listAllUseCase.Execute(c.Request.Context(), page, pageSize, c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, views, total, page, pageSize)
}

// MarkOrderStatus 订单状态流转
// @Summary      订单状态流转（管理端）
// @Description  履约链路CREATED→SHIPPED→ARRIVED；REFUND必须走取消接口
// @Tags         管理端
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.MarkOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response "流转成功"
// @Failure      400 {object} response.Response "非法的状态转换"
// @Router       /api/v1/admin/orders/{id}/status [put]
func (h *AdminHandler) MarkOrderStatus(c *gin.Context) {
	orderID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40000, "无效的订单ID")
		return
	}

	var req dto.MarkOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40000, "参数错误: "+err.Error())
		return
	}

	o, err := h.markStatusUseCase.Execute(c.Request.Context(), orderID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"order_id": o.ID,
		"status":   o.Status.String(),
	})
}

// RunSettlement 手动触发定算批处理
// @Summary      手动触发定算（管理端）
// @Description  与定时批处理同一条执行路径，幂等：重复触发不产生重复定算
// @Tags         管理端
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=settlement.Summary} "批处理摘要"
// @Router       /api/v1/admin/settlements/run [post]
func (h *AdminHandler) RunSettlement(c *gin.Context) {
	summary, err := h.settlementUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, summary)
}

// RefreshRankings 手动触发榜单重算
// @Summary      手动触发榜单重算（管理端）
// @Tags         管理端
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "重算完成"
// @Router       /api/v1/admin/rankings/refresh [post]
func (h *AdminHandler) RefreshRankings(c *gin.Context) {
	if err := h.rankingUseCase.Execute(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
