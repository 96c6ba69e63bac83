package insights

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guardianads/pulse/internal/models"
)

// Alert thresholds: percent-change magnitudes that make a mover worth
// surfacing, and the pacing floor below which a product is flagged.
const (
	moverAlertThreshold   = 20 // normal metrics, either direction
	inverseAlertThreshold = 15 // CPA increases
	pacingAlertFloor      = 85
)

// GenerateAlerts applies the alert rules to movers and pacing records.
// Movers with a zero baseline are excluded: their percent change is
// undefined and must never enter the feed. No count cap is applied
// here; truncation belongs to the presentation layer.
func GenerateAlerts(movers []models.TopMover, pacing []models.BudgetPacingRecord, now time.Time) []models.Alert {
	var out []models.Alert

	for _, m := range movers {
		if m.PreviousValue == 0 {
			continue
		}
		change := m.ChangePercent

		if m.Metric.Polarity() == models.PolarityInverse {
			if change > inverseAlertThreshold {
				out = append(out, moverAlert(m, models.SeverityCritical,
					fmt.Sprintf("%s up %.1f%% for %s", metricLabel(m.Metric), change, m.Campaign), now))
			}
			continue
		}

		if change > moverAlertThreshold {
			out = append(out, moverAlert(m, models.SeveritySuccess,
				fmt.Sprintf("%s up %.1f%% for %s", metricLabel(m.Metric), change, m.Campaign), now))
		} else if change < -moverAlertThreshold {
			out = append(out, moverAlert(m, models.SeverityWarning,
				fmt.Sprintf("%s down %.1f%% for %s", metricLabel(m.Metric), -change, m.Campaign), now))
		}
	}

	for _, p := range pacing {
		if p.PacingPercent < pacingAlertFloor {
			out = append(out, models.Alert{
				ID:          uuid.NewString(),
				Severity:    models.SeverityWarning,
				Title:       fmt.Sprintf("%s under pacing", p.Product),
				Description: fmt.Sprintf("Month-to-date spend is at %.0f%% of target ($%.2f of $%.2f).", p.PacingPercent, p.MTDSpend, p.MTDTarget),
				Product:     p.Product,
				Timestamp:   now,
			})
		}
	}

	return out
}

func moverAlert(m models.TopMover, sev models.Severity, title string, now time.Time) models.Alert {
	change := m.ChangePercent
	return models.Alert{
		ID:            uuid.NewString(),
		Severity:      sev,
		Title:         title,
		Description:   fmt.Sprintf("%s moved from %.2f to %.2f period over period.", metricLabel(m.Metric), m.PreviousValue, m.CurrentValue),
		Metric:        m.Metric,
		ChangePercent: &change,
		Timestamp:     now,
	}
}

func metricLabel(m models.Metric) string {
	switch m {
	case models.MetricCPA:
		return "CPA"
	case models.MetricCPC:
		return "CPC"
	case models.MetricCTR:
		return "CTR"
	case models.MetricROAS:
		return "ROAS"
	case models.MetricConvRate:
		return "Conversion rate"
	case models.MetricConvValue:
		return "Conversion value"
	case models.MetricConversions:
		return "Conversions"
	case models.MetricImpressions:
		return "Impressions"
	case models.MetricClicks:
		return "Clicks"
	default:
		return "Spend"
	}
}
