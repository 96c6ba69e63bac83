// Package aggregate is the group-sum-derive engine behind every dashboard
// view: one O(n) pass per domain accumulates base metrics into an
// order-preserving keyed map, then ratios are derived per group with
// zero-guarded division.
package aggregate

import (
	"math"
	"time"

	"github.com/guardianads/pulse/internal/models"
	"github.com/guardianads/pulse/internal/timewindow"
)

// Row is one aggregated group: summed base metrics plus the ratios
// derived from those sums.
type Row struct {
	Key string `json:"key"`
	models.BaseMetrics
	models.DerivedMetrics
}

// grouper accumulates base metrics per key, remembering first-seen key
// order so results are deterministic for equal input.
type grouper struct {
	order []string
	sums  map[string]*models.BaseMetrics
}

func newGrouper() *grouper {
	return &grouper{sums: make(map[string]*models.BaseMetrics)}
}

func (g *grouper) add(key string, b models.BaseMetrics) {
	sum, ok := g.sums[key]
	if !ok {
		sum = &models.BaseMetrics{}
		g.sums[key] = sum
		g.order = append(g.order, key)
	}
	sum.Add(b)
}

func (g *grouper) rows() []Row {
	out := make([]Row, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, finishRow(k, *g.sums[k]))
	}
	return out
}

func finishRow(key string, b models.BaseMetrics) Row {
	b.Spend = round2(b.Spend)
	b.ConversionValue = round2(b.ConversionValue)
	b.Conversions = round2(b.Conversions)
	return Row{Key: key, BaseMetrics: b, DerivedMetrics: Derive(b)}
}

// Derive computes the ratio metrics from summed base metrics. Every
// division substitutes 0 for a zero denominator.
func Derive(b models.BaseMetrics) models.DerivedMetrics {
	return models.DerivedMetrics{
		CTR:      round2(safeDiv(float64(b.Clicks), float64(b.Impressions)) * 100),
		CPC:      round2(safeDiv(b.Spend, float64(b.Clicks))),
		CPA:      round2(safeDiv(b.Spend, b.Conversions)),
		ROAS:     round2(safeDiv(b.ConversionValue, b.Spend)),
		ConvRate: round2(safeDiv(b.Conversions, float64(b.Clicks)) * 100),
	}
}

// Sum groups records by key after window filtering and returns one Row
// per distinct key, in first-seen order. Empty input yields an empty
// slice, never an error.
func Sum[R any](recs []R, w timewindow.Window, now time.Time,
	date func(R) time.Time, key func(R) string, base func(R) models.BaseMetrics) []Row {

	g := newGrouper()
	for _, r := range timewindow.Filter(recs, date, w, now) {
		g.add(key(r), base(r))
	}
	return g.rows()
}

// Value extracts a single metric from an aggregated row, for mover and
// heatmap computations.
func (r Row) Value(m models.Metric) float64 {
	switch m {
	case models.MetricSpend:
		return r.Spend
	case models.MetricImpressions:
		return float64(r.Impressions)
	case models.MetricClicks:
		return float64(r.Clicks)
	case models.MetricConversions:
		return r.Conversions
	case models.MetricConvValue:
		return r.ConversionValue
	case models.MetricCTR:
		return r.CTR
	case models.MetricCPC:
		return r.CPC
	case models.MetricCPA:
		return r.CPA
	case models.MetricROAS:
		return r.ROAS
	case models.MetricConvRate:
		return r.ConvRate
	}
	return 0
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round1(f float64) float64 { return math.Round(f*10) / 10 }
