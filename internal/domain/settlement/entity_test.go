package settlement

import (
	"testing"
	"time"
)

// TestComputeCommission 佣金=销售总额×10%,向零截断
func TestComputeCommission(t *testing.T) {
	cases := []struct {
		totalSales int64
		want       int64
	}{
		{10000, 1000},
		{30000, 3000},
		{99, 9}, // 截断,不四舍五入
		{9, 0},  // 一分钱都抽不到
		{0, 0},
	}
	for _, c := range cases {
		if got := ComputeCommission(c.totalSales); got != c.want {
			t.Errorf("ComputeCommission(%d): expected=%d, got=%d", c.totalSales, c.want, got)
		}
	}
}

// TestNewSettlement 打款额与佣金相加恒等于销售总额
func TestNewSettlement(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	s := NewSettlement(7, 30000, start, end, date)

	if s.SellerID != 7 {
		t.Errorf("SellerID错误: got=%d", s.SellerID)
	}
	if s.Commission != 3000 {
		t.Errorf("佣金错误: expected=3000, got=%d", s.Commission)
	}
	if s.FinalPayout != 27000 {
		t.Errorf("打款额错误: expected=27000, got=%d", s.FinalPayout)
	}
	if s.Commission+s.FinalPayout != s.TotalSales {
		t.Error("佣金+打款额应恒等于销售总额")
	}
	if !s.PeriodStart.Equal(start) || !s.PeriodEnd.Equal(end) || !s.SettlementDate.Equal(date) {
		t.Error("区间/日期字段未正确落入记录")
	}
}
