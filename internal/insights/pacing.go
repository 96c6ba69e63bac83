// Package insights turns aggregated rows into the dashboard's derived
// panels: budget pacing, top movers, alerts, health score and heatmap.
package insights

import (
	"math"
	"sort"
	"time"

	"github.com/guardianads/pulse/internal/budget"
	"github.com/guardianads/pulse/internal/models"
	"github.com/guardianads/pulse/internal/store"
)

// Pacing classification brackets, lower bound inclusive to the higher
// bracket: [95,105] on track, (105,∞) over, [85,95) slightly under,
// (-∞,85) under.
const (
	StatusOnTrack       = "On Track"
	StatusOverPacing    = "Over Pacing"
	StatusSlightlyUnder = "Slightly Under"
	StatusUnderPacing   = "Under Pacing"
)

func ClassifyPacing(pacingPercent float64) string {
	switch {
	case pacingPercent > 105:
		return StatusOverPacing
	case pacingPercent >= 95:
		return StatusOnTrack
	case pacingPercent >= 85:
		return StatusSlightlyUnder
	default:
		return StatusUnderPacing
	}
}

// Pace is the pure pacing computation:
//
//	mtdTarget     = monthlyBudget/daysInMonth*daysElapsed
//	pacingPercent = round(mtdSpend/mtdTarget*100)
//	projected     = mtdSpend/daysElapsed*daysInMonth
func Pace(product string, monthlyBudget, mtdSpend float64, daysInMonth, daysElapsed int) models.BudgetPacingRecord {
	target := 0.0
	if daysInMonth > 0 {
		target = monthlyBudget / float64(daysInMonth) * float64(daysElapsed)
	}
	pct := 0.0
	if target > 0 {
		pct = math.Round(mtdSpend / target * 100)
	}
	projected := 0.0
	if daysElapsed > 0 {
		projected = mtdSpend / float64(daysElapsed) * float64(daysInMonth)
	}
	return models.BudgetPacingRecord{
		Product:        product,
		MonthlyBudget:  monthlyBudget,
		MTDSpend:       math.Round(mtdSpend*100) / 100,
		MTDTarget:      math.Round(target),
		PacingPercent:  pct,
		ProjectedSpend: math.Round(projected*100) / 100,
		DaysElapsed:    daysElapsed,
		DaysRemaining:  daysInMonth - daysElapsed,
		Status:         ClassifyPacing(pct),
	}
}

// PacingCalculator derives month-to-date spend per product from the
// campaign records and paces it against the configured budgets. The
// budget store is re-read on every Compute call, never cached.
type PacingCalculator struct {
	budgets *budget.Store
	repo    store.Repository
}

func NewPacingCalculator(b *budget.Store, repo store.Repository) *PacingCalculator {
	return &PacingCalculator{budgets: b, repo: repo}
}

func (p *PacingCalculator) Compute(now time.Time) []models.BudgetPacingRecord {
	budgets := p.budgets.Budgets()

	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()
	daysElapsed := now.Day()

	spend := map[string]float64{}
	for _, r := range p.repo.Campaigns() {
		d := r.Date.UTC()
		if d.Before(monthStart) || d.After(now) {
			continue
		}
		spend[r.Product] += r.Spend
	}

	products := make([]string, 0, len(budgets))
	for name := range budgets {
		products = append(products, name)
	}
	sort.Strings(products)

	out := make([]models.BudgetPacingRecord, 0, len(products))
	for _, name := range products {
		out = append(out, Pace(name, budgets[name], spend[name], daysInMonth, daysElapsed))
	}
	return out
}
