package value

import (
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestMetricProgress(t *testing.T) {
	cases := []struct {
		name     string
		baseline float64
		target   float64
		current  *float64
		want     float64
	}{
		{name: "unmeasured", baseline: 10, target: 20, current: nil, want: 0},
		{name: "halfway", baseline: 10, target: 20, current: ptr(15), want: 0.5},
		{name: "overshoot clamps", baseline: 10, target: 20, current: ptr(40), want: 1},
		{name: "regression clamps", baseline: 10, target: 20, current: ptr(2), want: 0},
		{name: "decreasing target", baseline: 500, target: 200, current: ptr(350), want: 0.5},
		{name: "decreasing overshoot", baseline: 500, target: 200, current: ptr(100), want: 1},
		{name: "flat target met", baseline: 5, target: 5, current: ptr(5), want: 1},
		{name: "flat target above", baseline: 5, target: 5, current: ptr(6), want: 1},
		{name: "flat target below", baseline: 5, target: 5, current: ptr(4), want: 0},
		{name: "flat target unmeasured", baseline: 5, target: 5, current: nil, want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &Metric{BaselineValue: tc.baseline, TargetValue: tc.target, CurrentValue: tc.current}
			got := m.Progress()
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("Progress: got=%v want=%v", got, tc.want)
			}
			if got < 0 || got > 1 {
				t.Fatalf("Progress out of range: %v", got)
			}
			if m.MeetsTarget() != (tc.want >= 1) {
				t.Fatalf("MeetsTarget: got=%v progress=%v", m.MeetsTarget(), got)
			}
		})
	}
}

func TestMetricRealizedValue(t *testing.T) {
	currency := &Metric{MetricType: MetricTypeCurrency, BaselineValue: 10000, CurrentValue: ptr(8500)}
	v, ok := currency.RealizedValue()
	if !ok || v != -1500 {
		t.Fatalf("RealizedValue currency: got=(%v,%v)", v, ok)
	}

	unmeasured := &Metric{MetricType: MetricTypeCurrency, BaselineValue: 100}
	v, ok = unmeasured.RealizedValue()
	if !ok || v != 0 {
		t.Fatalf("RealizedValue unmeasured: got=(%v,%v)", v, ok)
	}

	pct := &Metric{MetricType: MetricTypePercentage, BaselineValue: 10, CurrentValue: ptr(50)}
	if v, ok := pct.RealizedValue(); ok || v != 0 {
		t.Fatalf("RealizedValue percentage: got=(%v,%v) want=(0,false)", v, ok)
	}
}

func TestMetricDefinitionValidate(t *testing.T) {
	valid := MetricDefinition{Name: "Cost", Category: CategoryCostReduction, MetricType: MetricTypeCurrency, Baseline: 1, Target: 2}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate: err=%v", err)
	}

	bad := []MetricDefinition{
		{Name: " ", Category: CategoryCostReduction, MetricType: MetricTypeCurrency},
		{Name: "x", Category: "speed", MetricType: MetricTypeCurrency},
		{Name: "x", Category: CategoryCostReduction, MetricType: "ratio"},
		{Name: "x", Category: CategoryCostReduction, MetricType: MetricTypeCurrency, Frequency: "hourly"},
		{Name: "x", Category: CategoryCostReduction, MetricType: MetricTypeCurrency, Baseline: math.NaN()},
		{Name: "x", Category: CategoryCostReduction, MetricType: MetricTypeCurrency, Target: math.Inf(1)},
	}
	for i, d := range bad {
		if err := d.Validate(); !IsKind(err, KindInvalidValue) {
			t.Fatalf("Validate[%d]: err=%v want invalid_value", i, err)
		}
	}
}
