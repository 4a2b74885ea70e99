package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appcart "github.com/hanbit/bookstore/internal/application/cart"
	"github.com/hanbit/bookstore/internal/interface/http/dto"
	"github.com/hanbit/bookstore/internal/interface/http/middleware"
	"github.com/hanbit/bookstore/pkg/response"
)

// CartHandler 购物车HTTP处理器
type CartHandler struct {
	cartUseCase *appcart.UseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(cartUseCase *appcart.UseCase) *CartHandler {
	return &CartHandler{cartUseCase: cartUseCase}
}

// List 查询购物车
// @Summary      查询购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appcart.ItemView} "购物车条目"
// @Router       /api/v1/cart [get]
func (h *CartHandler) List(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	items, err := h.cartUseCase.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, items)
}

// Add 加入购物车
// @Summary      加入购物车
// @Description  同一本书重复加购时数量累加
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddCartItemRequest true "加购信息"
// @Success      200 {object} response.Response "加购成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/cart/items [post]
func (h *CartHandler) Add(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40000, "参数错误: "+err.Error())
		return
	}

	item, err := h.cartUseCase.Add(c.Request.Context(), userID, req.BookID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"cart_item_id": item.ID,
		"book_id":      item.BookID,
		"quantity":     item.Quantity,
	})
}

// UpdateQuantity 修改购物车数量
// @Summary      修改购物车数量
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "购物车条目ID"
// @Param        request body dto.UpdateCartItemRequest true "数量"
// @Success      200 {object} response.Response "修改成功"
// @Failure      404 {object} response.Response "条目不存在"
// @Router       /api/v1/cart/items/{id} [put]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	itemID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40000, "无效的条目ID")
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40000, "参数错误: "+err.Error())
		return
	}

	if err := h.cartUseCase.UpdateQuantity(c.Request.Context(), userID, itemID, req.Quantity); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// Remove 删除购物车条目
// @Summary      删除购物车条目
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "购物车条目ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      404 {object} response.Response "条目不存在"
// @Router       /api/v1/cart/items/{id} [delete]
func (h *CartHandler) Remove(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	itemID, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, 40000, "无效的条目ID")
		return
	}

	if err := h.cartUseCase.Remove(c.Request.Context(), userID, itemID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// parseUintParam 解析路径参数为uint
func parseUintParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
