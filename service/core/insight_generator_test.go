package core

import (
	"reflect"
	"testing"

	dm "pnlanalyzer/data/models"
	sm "pnlanalyzer/service/models"
)

func metric(y int, growth, netMargin float64, hasGrowth, hasMargin bool) dm.PeriodMetrics {
	m := dm.PeriodMetrics{PeriodEnd: year(y)}
	if hasGrowth {
		m.RevenueGrowthPct = v(growth)
	}
	if hasMargin {
		m.NetMarginPct = v(netMargin)
	}
	return m
}

func TestInsightGeneratorRules(t *testing.T) {
	g := NewInsightGenerator(sm.DefaultInsightThresholds())

	tests := []struct {
		name     string
		metrics  []dm.PeriodMetrics
		expected []string
	}{
		{
			name:     "empty",
			metrics:  nil,
			expected: []string{},
		},
		{
			name:     "strong growth at the cut off",
			metrics:  []dm.PeriodMetrics{metric(2022, 0, 0, false, false), metric(2023, 15, 0, true, false)},
			expected: []string{InsightStrongGrowth},
		},
		{
			name:     "moderate growth at zero",
			metrics:  []dm.PeriodMetrics{metric(2023, 0, 0, true, false)},
			expected: []string{InsightModerateGrowth},
		},
		{
			name:     "decline",
			metrics:  []dm.PeriodMetrics{metric(2023, -0.1, 0, true, false)},
			expected: []string{InsightRevenueDecline},
		},
		{
			name:     "high profitability at the cut off",
			metrics:  []dm.PeriodMetrics{metric(2023, 0, 15, false, true)},
			expected: []string{InsightHighProfitability},
		},
		{
			name:     "moderate profitability",
			metrics:  []dm.PeriodMetrics{metric(2023, 0, 5, false, true)},
			expected: []string{InsightModerateProfit},
		},
		{
			name:     "negative profitability",
			metrics:  []dm.PeriodMetrics{metric(2023, 0, -12, false, true)},
			expected: []string{InsightLowProfitability},
		},
		{
			name:     "declining trend",
			metrics:  []dm.PeriodMetrics{metric(2022, 0, 12, false, true), metric(2023, -5, 8, true, true)},
			expected: []string{InsightRevenueDecline, InsightModerateProfit, InsightDecliningNetMargin},
		},
		{
			name:     "flat trend emits nothing",
			metrics:  []dm.PeriodMetrics{metric(2022, 0, 8, false, true), metric(2023, 3, 8, true, true)},
			expected: []string{InsightModerateGrowth, InsightModerateProfit},
		},
		{
			name: "trend skips periods without margin",
			metrics: []dm.PeriodMetrics{
				metric(2021, 0, 4, false, true),
				metric(2022, 10, 0, true, false),
				metric(2023, 0, 0, false, false),
				metric(2024, 0, 6, false, true),
			},
			expected: []string{InsightModerateProfit, InsightImprovingNetMargin},
		},
		{
			name:     "latest period without data falls back to the previous one",
			metrics:  []dm.PeriodMetrics{metric(2022, 20, 16, true, true), metric(2023, 0, 0, false, false)},
			expected: []string{InsightStrongGrowth, InsightHighProfitability},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := g.Generate(tt.metrics)
			if !reflect.DeepEqual(tt.expected, actual) {
				t.Errorf("expected %v, got %v", tt.expected, actual)
			}
		})
	}
}

func TestInsightGeneratorTwoYearScenario(t *testing.T) {
	metrics, err := ComputeMetrics([]dm.RawPeriod{
		period(2021, v(100), absent, absent, v(10)),
		period(2022, v(120), absent, absent, v(24)),
	})
	if err != nil {
		t.Fatalf("error computing metrics: %v", err)
	}

	// 20% growth sits above the default 15% cut off
	expected := []string{InsightStrongGrowth, InsightHighProfitability, InsightImprovingNetMargin}
	if actual := NewInsightGenerator(sm.DefaultInsightThresholds()).Generate(metrics); !reflect.DeepEqual(expected, actual) {
		t.Errorf("expected %v, got %v", expected, actual)
	}

	// with the strong growth cut off raised, the same series reads as moderate growth
	thresholds := sm.DefaultInsightThresholds()
	thresholds.StrongGrowthPct = 25
	expected = []string{InsightModerateGrowth, InsightHighProfitability, InsightImprovingNetMargin}
	if actual := NewInsightGenerator(thresholds).Generate(metrics); !reflect.DeepEqual(expected, actual) {
		t.Errorf("expected %v, got %v", expected, actual)
	}
}

func TestInsightGeneratorIsDeterministic(t *testing.T) {
	g := NewInsightGenerator(sm.DefaultInsightThresholds())
	metrics := []dm.PeriodMetrics{metric(2022, 0, 12, false, true), metric(2023, 7, 14, true, true)}

	first, second := g.Generate(metrics), g.Generate(metrics)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical output, got %v and %v", first, second)
	}
}
