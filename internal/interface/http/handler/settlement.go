package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appsettlement "github.com/hanbit/bookstore/internal/application/settlement"
	"github.com/hanbit/bookstore/internal/interface/http/middleware"
	"github.com/hanbit/bookstore/pkg/response"
)

// SettlementHandler 定算HTTP处理器（卖家侧）
type SettlementHandler struct {
	listUseCase *appsettlement.ListUseCase
}

// NewSettlementHandler 创建定算处理器
func NewSettlementHandler(listUseCase *appsettlement.ListUseCase) *SettlementHandler {
	return &SettlementHandler{listUseCase: listUseCase}
}

// ListMine 我的定算记录
// @Summary      我的定算记录
// @Description  当前登录用户（须有卖家档案）的定算记录，按定算日期倒序
// @Tags         定算
// @Produce      json
// @Security     BearerAuth
// @Param        start query string false "起始日期(YYYY-MM-DD)"
// @Param        end query string false "结束日期(YYYY-MM-DD)"
// @Success      200 {object} response.Response{data=[]appsettlement.View} "定算记录"
// @Failure      404 {object} response.Response "卖家档案不存在"
// @Router       /api/v1/settlements/me [get]
func (h *SettlementHandler) ListMine(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	start, err := parseDateQuery(c, "start")
	if err != nil {
		response.ErrorWithCode(c, 40000, "无效的起始日期")
		return
	}
	end, err := parseDateQuery(c, "end")
	if err != nil {
		response.ErrorWithCode(c, 40000, "无效的结束日期")
		return
	}

	views, total, err := h.listUseCase.Execute(c.Request.Context(), userID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"total":       total,
		"settlements": views,
	})
}

// parseDateQuery 解析YYYY-MM-DD日期查询参数，缺省返回nil
func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
