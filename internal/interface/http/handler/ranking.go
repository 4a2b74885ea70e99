package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appranking "github.com/hanbit/bookstore/internal/application/ranking"
	"github.com/hanbit/bookstore/internal/domain/ranking"
	"github.com/hanbit/bookstore/pkg/response"
)

// RankingHandler 榜单HTTP处理器
// 说明：榜单是公开接口，不要求登录
type RankingHandler struct {
	getUseCase *appranking.GetUseCase
}

// NewRankingHandler 创建榜单处理器
func NewRankingHandler(getUseCase *appranking.GetUseCase) *RankingHandler {
	return &RankingHandler{getUseCase: getUseCase}
}

// Get 查询榜单
// @Summary      查询榜单
// @Description  type为purchaseCount（购买数榜）或averageRating（评分榜）；细分维度默认ALL
// @Tags         榜单
// @Produce      json
// @Param        type query string true "榜单类型" Enums(purchaseCount, averageRating)
// @Param        age_group query string false "年龄段" default(ALL)
// @Param        gender query string false "性别" default(ALL)
// @Param        limit query int false "条数上限(1-10)" default(10)
// @Success      200 {object} response.Response{data=ranking.Snapshot} "榜单快照"
// @Failure      400 {object} response.Response "无效的榜单类型"
// @Router       /api/v1/rankings [get]
func (h *RankingHandler) Get(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	q := ranking.Query{
		Type:     ranking.Type(c.Query("type")),
		AgeGroup: c.Query("age_group"),
		Gender:   c.Query("gender"),
		Limit:    limit,
	}

	snap, err := h.getUseCase.Execute(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, snap)
}
