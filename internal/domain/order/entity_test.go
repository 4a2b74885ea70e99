package order

import (
	"testing"
)

// TestCanTransitionTo 测试状态机合法转换
func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		name   string
		from   Status
		to     Status
		expect bool
	}{
		{"创建→发货", StatusCreated, StatusShipped, true},
		{"创建→退款", StatusCreated, StatusRefund, true},
		{"创建→送达(跳级)", StatusCreated, StatusArrived, false},
		{"发货→送达", StatusShipped, StatusArrived, true},
		{"发货→退款", StatusShipped, StatusRefund, false},
		{"送达→任何状态", StatusArrived, StatusShipped, false},
		{"退款→任何状态", StatusRefund, StatusShipped, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := &Order{Status: c.from}
			if got := o.CanTransitionTo(c.to); got != c.expect {
				t.Errorf("%s→%s: expected=%v, got=%v", c.from, c.to, c.expect, got)
			}
		})
	}
}

// TestCanCancel 只有CREATED状态可取消
func TestCanCancel(t *testing.T) {
	for _, s := range []Status{StatusShipped, StatusArrived, StatusRefund} {
		if (&Order{Status: s}).CanCancel() {
			t.Errorf("%s状态不应允许取消", s)
		}
	}
	if !(&Order{Status: StatusCreated}).CanCancel() {
		t.Error("CREATED状态应允许取消")
	}
}

// TestIsOwnedBy 越权检查
func TestIsOwnedBy(t *testing.T) {
	o := &Order{UserID: 7}
	if !o.IsOwnedBy(7) {
		t.Error("本人应通过归属检查")
	}
	if o.IsOwnedBy(8) {
		t.Error("他人不应通过归属检查")
	}
}

// TestParseStatus 状态名解析
func TestParseStatus(t *testing.T) {
	for name, want := range map[string]Status{
		"CREATED": StatusCreated,
		"SHIPPED": StatusShipped,
		"ARRIVED": StatusArrived,
		"REFUND":  StatusRefund,
	} {
		got, ok := ParseStatus(name)
		if !ok || got != want {
			t.Errorf("ParseStatus(%s): expected=%v, got=%v(ok=%v)", name, want, got, ok)
		}
	}
	if _, ok := ParseStatus("PAID"); ok {
		t.Error("未知状态名不应解析成功")
	}
	if StatusCreated.String() != "CREATED" || Status(99).String() != "UNKNOWN" {
		t.Error("String()输出错误")
	}
}

// TestNewOrder 工厂方法初始状态
func TestNewOrder(t *testing.T) {
	items := []Item{{BookID: 1, Price: 10000, Quantity: 2, TotalAmount: 20000}}
	o := NewOrder(7, items, 20000)

	if o.Status != StatusCreated {
		t.Errorf("新订单状态错误: got=%v", o.Status)
	}
	if o.TotalAmount != 20000 {
		t.Errorf("订单总额错误: got=%d", o.TotalAmount)
	}
	if len(o.Items) != 1 {
		t.Errorf("明细条数错误: got=%d", len(o.Items))
	}
}
