package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// getCounterValue 读取Counter当前值
func getCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("读取Counter失败: %v", err)
	}
	return m.GetCounter().GetValue()
}

// TestNew 测试指标集合初始化
func TestNew(t *testing.T) {
	m := New()

	counters := map[string]prometheus.Counter{
		"OrdersCreated":      m.OrdersCreated,
		"OrdersCancelled":    m.OrdersCancelled,
		"SettlementRuns":     m.SettlementRuns,
		"SettledItems":       m.SettledItems,
		"SettlementFails":    m.SettlementFails,
		"RankingRefreshes":   m.RankingRefreshes,
		"RankingCacheHits":   m.RankingCacheHits,
		"RankingCacheMisses": m.RankingCacheMisses,
	}
	for name, c := range counters {
		if c == nil {
			t.Errorf("%s未初始化", name)
			continue
		}
		if v := getCounterValue(t, c); v != 0 {
			t.Errorf("%s初始值错误: expected=0, got=%f", name, v)
		}
	}
}

// TestCounter 测试Counter递增
func TestCounter(t *testing.T) {
	m := New()

	m.OrdersCreated.Inc()
	m.OrdersCreated.Inc()
	m.OrdersCreated.Inc()
	if v := getCounterValue(t, m.OrdersCreated); v != 3 {
		t.Errorf("Counter值错误: expected=3, got=%f", v)
	}

	m.SettledItems.Add(5)
	if v := getCounterValue(t, m.SettledItems); v != 5 {
		t.Errorf("Counter值错误: expected=5, got=%f", v)
	}
}

// TestIndependentRegistries 测试多实例互不串扰
func TestIndependentRegistries(t *testing.T) {
	// 独立Registry:能连续New两次且计数互不影响
	m1 := New()
	m2 := New()

	m1.SettlementRuns.Inc()
	if v := getCounterValue(t, m2.SettlementRuns); v != 0 {
		t.Errorf("实例间计数串扰: expected=0, got=%f", v)
	}
}

// TestHandler 测试/metrics输出
func TestHandler(t *testing.T) {
	m := New()
	m.RankingCacheHits.Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("状态码错误: expected=200, got=%d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "bookstore_ranking_cache_hits_total 1") {
		t.Errorf("/metrics缺少计数输出: %s", body)
	}
}
