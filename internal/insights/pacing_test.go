package insights

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/guardianads/pulse/internal/budget"
	"github.com/guardianads/pulse/internal/models"
	"github.com/guardianads/pulse/internal/store"
)

func TestPaceProratedTarget(t *testing.T) {
	rec := Pace("Term Life", 65000, 27300, 28, 12)

	require.Equal(t, 27857.0, rec.MTDTarget)
	require.Equal(t, 98.0, rec.PacingPercent)
	require.Equal(t, StatusOnTrack, rec.Status)
	require.Equal(t, 12, rec.DaysElapsed)
	require.Equal(t, 16, rec.DaysRemaining)
	require.Equal(t, 63700.0, rec.ProjectedSpend) // 27300/12*28
}

func TestPaceZeroGuards(t *testing.T) {
	rec := Pace("Disability", 0, 500, 30, 10)
	require.Zero(t, rec.MTDTarget)
	require.Zero(t, rec.PacingPercent)

	rec = Pace("Disability", 1000, 0, 30, 0)
	require.Zero(t, rec.ProjectedSpend)
}

func TestClassifyPacingBrackets(t *testing.T) {
	require.Equal(t, StatusOnTrack, ClassifyPacing(95))
	require.Equal(t, StatusOnTrack, ClassifyPacing(105))
	require.Equal(t, StatusOverPacing, ClassifyPacing(106))
	require.Equal(t, StatusSlightlyUnder, ClassifyPacing(85))
	require.Equal(t, StatusSlightlyUnder, ClassifyPacing(94))
	require.Equal(t, StatusUnderPacing, ClassifyPacing(84))
}

func TestPacingCalculatorRereadsBudgets(t *testing.T) {
	now := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)

	st := store.NewMemoryStore()
	st.AddCampaigns(
		models.CampaignRecord{Date: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), Name: "termlife-leadgen", Product: "Term Life", BaseMetrics: models.BaseMetrics{Spend: 10000}},
		models.CampaignRecord{Date: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), Name: "termlife-leadgen", Product: "Term Life", BaseMetrics: models.BaseMetrics{Spend: 5000}},
		// previous month, must not count toward MTD
		models.CampaignRecord{Date: time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC), Name: "termlife-leadgen", Product: "Term Life", BaseMetrics: models.BaseMetrics{Spend: 9999}},
	)

	path := filepath.Join(t.TempDir(), "budgets.yaml")
	budgets := budget.NewStore(path, zap.NewNop())
	require.NoError(t, budgets.Save(map[string]float64{"Term Life": 31000}))

	calc := NewPacingCalculator(budgets, st)

	recs := calc.Compute(now)
	require.Len(t, recs, 1)
	require.Equal(t, "Term Life", recs[0].Product)
	require.Equal(t, 15000.0, recs[0].MTDSpend)
	require.Equal(t, 12000.0, recs[0].MTDTarget) // 31000/31*12
	require.Equal(t, 125.0, recs[0].PacingPercent)
	require.Equal(t, StatusOverPacing, recs[0].Status)

	// edits take effect on the next call without recreating the calculator
	require.NoError(t, budgets.Save(map[string]float64{"Term Life": 62000}))
	recs = calc.Compute(now)
	require.Equal(t, 24000.0, recs[0].MTDTarget)
	require.Equal(t, 63.0, recs[0].PacingPercent) // round(15000/24000*100)
	require.Equal(t, StatusUnderPacing, recs[0].Status)
}
