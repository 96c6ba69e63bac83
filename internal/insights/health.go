package insights

import (
	"math"
	"time"

	"github.com/guardianads/pulse/internal/aggregate"
	"github.com/guardianads/pulse/internal/models"
	"github.com/guardianads/pulse/internal/timewindow"
)

// Health bands; the same thresholds drive per-component color coding.
const (
	BandExcellent      = "Excellent"
	BandGood           = "Good"
	BandFair           = "Fair"
	BandNeedsAttention = "Needs Attention"
)

func Band(score float64) string {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 70:
		return BandGood
	case score >= 60:
		return BandFair
	default:
		return BandNeedsAttention
	}
}

// HealthInputs are the raw signals behind the five components.
type HealthInputs struct {
	AvgQualityScore   float64 // 0-10
	ImpressionShare   float64 // already 0-100
	CPAChangePercent  float64 // period over period, signed
	PacingPercent     float64 // overall account pacing
	ConvChangePercent float64 // period over period, signed
}

// ComposeHealth scales each input onto [0,100], clamps it, and reports
// the rounded mean of the five components.
func ComposeHealth(in HealthInputs) models.HealthScore {
	c := models.HealthScoreComponents{
		QualityScore:    clamp(in.AvgQualityScore*10, 0, 100),
		ImpressionShare: clamp(in.ImpressionShare, 0, 100),
		CPATrend:        clamp(70-in.CPAChangePercent, 0, 100),
		BudgetPacing:    clamp(100-2*math.Abs(in.PacingPercent-100), 0, 100),
		ConversionTrend: clamp(70+in.ConvChangePercent, 0, 100),
	}
	mean := (c.QualityScore + c.ImpressionShare + c.CPATrend + c.BudgetPacing + c.ConversionTrend) / 5
	overall := int(math.Round(mean))
	return models.HealthScore{
		Overall:    overall,
		Band:       Band(float64(overall)),
		Components: c,
	}
}

// HealthComposer assembles the five inputs from the other engines and
// composes the account health score for a window.
type HealthComposer struct {
	agg    *aggregate.Service
	pacing *PacingCalculator
}

func NewHealthComposer(agg *aggregate.Service, pacing *PacingCalculator) *HealthComposer {
	return &HealthComposer{agg: agg, pacing: pacing}
}

func (h *HealthComposer) Compute(w timewindow.Window, now time.Time) models.HealthScore {
	qs := h.agg.QualityScore(w, now)

	cur, prev := periodBounds(w, now)
	current := h.agg.Campaigns(cur, now)
	previous := h.agg.Campaigns(prev, now)

	return ComposeHealth(HealthInputs{
		AvgQualityScore:   qs.WeightedAvg,
		ImpressionShare:   spendWeightedShare(current),
		CPAChangePercent:  totalsChange(current, previous, models.MetricCPA),
		PacingPercent:     overallPacing(h.pacing.Compute(now)),
		ConvChangePercent: totalsChange(current, previous, models.MetricConversions),
	})
}

// spendWeightedShare averages campaign impression share weighted by
// spend, so large campaigns dominate the account-level number.
func spendWeightedShare(rows []aggregate.CampaignRow) float64 {
	var weighted, spend float64
	for _, r := range rows {
		weighted += r.ImpressionShare * r.Spend
		spend += r.Spend
	}
	if spend == 0 {
		return 0
	}
	return weighted / spend
}

// totalsChange compares the account-level value of a metric between the
// two periods, in signed percent. A zero baseline yields 0.
func totalsChange(current, previous []aggregate.CampaignRow, m models.Metric) float64 {
	cur := accountTotal(current, m)
	prev := accountTotal(previous, m)
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}

func accountTotal(rows []aggregate.CampaignRow, m models.Metric) float64 {
	var sums models.BaseMetrics
	for _, r := range rows {
		sums.Add(r.BaseMetrics)
	}
	return aggregate.Row{BaseMetrics: sums, DerivedMetrics: aggregate.Derive(sums)}.Value(m)
}

// overallPacing paces total MTD spend against total MTD target.
func overallPacing(records []models.BudgetPacingRecord) float64 {
	var spend, target float64
	for _, r := range records {
		spend += r.MTDSpend
		target += r.MTDTarget
	}
	if target == 0 {
		return 0
	}
	return math.Round(spend / target * 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
