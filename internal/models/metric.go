package models

// Metric identifies a base or derived metric in API requests, mover
// ranking, alerting and heatmap rendering.
type Metric string

const (
	MetricSpend       Metric = "spend"
	MetricImpressions Metric = "impressions"
	MetricClicks      Metric = "clicks"
	MetricConversions Metric = "conversions"
	MetricConvValue   Metric = "conversion_value"
	MetricCTR         Metric = "ctr"
	MetricCPC         Metric = "cpc"
	MetricCPA         Metric = "cpa"
	MetricROAS        Metric = "roas"
	MetricConvRate    Metric = "conv_rate"
)

// Polarity says which direction of change is desirable for a metric.
type Polarity int

const (
	// PolarityNormal: up is good (conversions, ROAS, CTR, ...).
	PolarityNormal Polarity = iota
	// PolarityInverse: down is good (cost per acquisition).
	PolarityInverse
)

// The single source of truth for metric polarity. Ranking, alerting and
// heatmap intensity must all consult this table, never re-decide locally.
var polarities = map[Metric]Polarity{
	MetricCPA: PolarityInverse,
}

func (m Metric) Polarity() Polarity {
	return polarities[m]
}

// Favorable reports whether a signed percent change is good news for
// this metric once polarity is taken into account.
func (m Metric) Favorable(changePercent float64) bool {
	if m.Polarity() == PolarityInverse {
		return changePercent < 0
	}
	return changePercent > 0
}
