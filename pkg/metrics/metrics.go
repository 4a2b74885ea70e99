// Package metrics 提供基于Prometheus的业务指标
//
// 指标范围只覆盖本服务关心的三条链路：
// - 下单/取消（订单管道）
// - 定算批处理（运行次数、处理条数）
// - 榜单缓存（命中/未命中，用于观察缓存降级频率）
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 业务指标集合
// 设计说明：
//  1. 使用独立Registry而非全局DefaultRegisterer，
//     避免测试中重复注册panic，也便于多实例并存
//  2. 指标由应用层用例在业务动作成功后递增
type Metrics struct {
	registry *prometheus.Registry

	OrdersCreated   prometheus.Counter
	OrdersCancelled prometheus.Counter

	SettlementRuns  prometheus.Counter
	SettledItems    prometheus.Counter
	SettlementFails prometheus.Counter

	RankingRefreshes   prometheus.Counter
	RankingCacheHits   prometheus.Counter
	RankingCacheMisses prometheus.Counter
}

// New 创建指标集合
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_orders_created_total",
			Help: "成功创建的订单总数",
		}),
		OrdersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_orders_cancelled_total",
			Help: "成功取消（退款）的订单总数",
		}),
		SettlementRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_settlement_runs_total",
			Help: "定算批处理成功运行次数",
		}),
		SettledItems: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_settlement_items_total",
			Help: "定算批处理累计处理的订单明细条数",
		}),
		SettlementFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_settlement_failures_total",
			Help: "定算批处理失败次数（整体回滚）",
		}),
		RankingRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_ranking_refreshes_total",
			Help: "单张榜单重算成功次数（购买榜与评分榜分别计数）",
		}),
		RankingCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_ranking_cache_hits_total",
			Help: "榜单读取命中Redis缓存的次数",
		}),
		RankingCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookstore_ranking_cache_misses_total",
			Help: "榜单读取未命中缓存、回源数据库的次数",
		}),
	}

	registry.MustRegister(
		m.OrdersCreated,
		m.OrdersCancelled,
		m.SettlementRuns,
		m.SettledItems,
		m.SettlementFails,
		m.RankingRefreshes,
		m.RankingCacheHits,
		m.RankingCacheMisses,
	)

	return m
}

// Handler 返回/metrics的HTTP处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
