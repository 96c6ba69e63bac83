package aggregate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guardianads/pulse/internal/models"
	"github.com/guardianads/pulse/internal/store"
	"github.com/guardianads/pulse/internal/timewindow"
)

func window30d() timewindow.Window { return timewindow.Window{Preset: timewindow.Preset30d} }

func TestKeywordsSpendWeightedQualityScore(t *testing.T) {
	st := store.NewMemoryStore()
	st.AddKeywords(
		models.KeywordRecord{Date: day("2026-08-18"), Keyword: "term life quotes", QualityScore: 4, BaseMetrics: models.BaseMetrics{Spend: 100}},
		models.KeywordRecord{Date: day("2026-08-19"), Keyword: "term life quotes", QualityScore: 8, BaseMetrics: models.BaseMetrics{Spend: 300}},
	)

	rows := NewService(st).Keywords(window30d(), testNow)
	require.Len(t, rows, 1)
	// (4*100 + 8*300) / 400
	require.Equal(t, 7.0, rows[0].QualityScore)
	require.Equal(t, 400.0, rows[0].Spend)
}

func TestKeywordsZeroSpendQualityScoreSafe(t *testing.T) {
	st := store.NewMemoryStore()
	st.AddKeywords(models.KeywordRecord{Date: day("2026-08-19"), Keyword: "dental plans", QualityScore: 6})

	rows := NewService(st).Keywords(window30d(), testNow)
	require.Len(t, rows, 1)
	require.Zero(t, rows[0].QualityScore)
}

func TestCampaignsAverageImpressionShare(t *testing.T) {
	st := store.NewMemoryStore()
	st.AddCampaigns(
		models.CampaignRecord{Date: day("2026-08-18"), Name: "google_brand-termlife", Product: "Term Life", IntentBucket: "Brand", Status: "enabled", ImpressionShare: 60, BaseMetrics: models.BaseMetrics{Spend: 100, Clicks: 10}},
		models.CampaignRecord{Date: day("2026-08-19"), Name: "google_brand-termlife", Product: "Term Life", IntentBucket: "Brand", Status: "enabled", ImpressionShare: 80, BaseMetrics: models.BaseMetrics{Spend: 200, Clicks: 30}},
	)

	rows := NewService(st).Campaigns(window30d(), testNow)
	require.Len(t, rows, 1)
	require.Equal(t, 70.0, rows[0].ImpressionShare)
	require.Equal(t, 300.0, rows[0].Spend)
	require.Equal(t, "Term Life", rows[0].Product)
}

func TestGeoCollapsesWindowPerState(t *testing.T) {
	st := store.NewMemoryStore()
	st.AddGeo(
		models.GeoRecord{Date: day("2026-08-17"), State: "Texas", StateCode: "TX", BaseMetrics: models.BaseMetrics{Spend: 10}},
		models.GeoRecord{Date: day("2026-08-18"), State: "Texas", StateCode: "TX", BaseMetrics: models.BaseMetrics{Spend: 20}},
		models.GeoRecord{Date: day("2026-08-18"), State: "Ohio", StateCode: "OH", BaseMetrics: models.BaseMetrics{Spend: 5}},
	)

	rows := NewService(st).Geo(window30d(), testNow)
	require.Len(t, rows, 2)
	require.Equal(t, "Texas", rows[0].Key)
	require.Equal(t, "TX", rows[0].StateCode)
	require.Equal(t, 30.0, rows[0].Spend)
}

func TestSearchTermLabels(t *testing.T) {
	st := store.NewMemoryStore()
	st.AddSearchTerms(
		// converter with the only CPA: medianCPA != 0, cpa == median -> not <= 0.8*median
		models.SearchTermRecord{Date: day("2026-08-18"), Term: "cheap term life", BaseMetrics: models.BaseMetrics{Spend: 50, Clicks: 10, Conversions: 2}},
		// no conversions, heavy spend
		models.SearchTermRecord{Date: day("2026-08-18"), Term: "free insurance info", BaseMetrics: models.BaseMetrics{Spend: 150, Clicks: 40}},
		// low spend, no conversions
		models.SearchTermRecord{Date: day("2026-08-18"), Term: "what is idi", BaseMetrics: models.BaseMetrics{Spend: 3, Clicks: 1}},
	)

	rows := NewService(st).SearchTerms(window30d(), testNow)
	require.Len(t, rows, 3)

	byTerm := map[string]SearchTermRow{}
	for _, r := range rows {
		byTerm[r.Key] = r
	}
	require.Equal(t, "neutral", byTerm["cheap term life"].Label)
	require.Equal(t, "loser", byTerm["free insurance info"].Label)
	require.Equal(t, "neutral", byTerm["what is idi"].Label)
}

func TestHourlyGroupsBySlot(t *testing.T) {
	st := store.NewMemoryStore()
	st.AddHourly(
		models.HourlyRecord{Date: day("2026-08-12"), DayOfWeek: 3, Hour: 9, BaseMetrics: models.BaseMetrics{Spend: 5}},
		models.HourlyRecord{Date: day("2026-08-19"), DayOfWeek: 3, Hour: 9, BaseMetrics: models.BaseMetrics{Spend: 7}},
		models.HourlyRecord{Date: day("2026-08-19"), DayOfWeek: 1, Hour: 22, BaseMetrics: models.BaseMetrics{Spend: 2}},
	)

	cells := NewService(st).Hourly(window30d(), testNow)
	require.Len(t, cells, 2)
	// sorted by (day, hour)
	require.Equal(t, 1, cells[0].DayOfWeek)
	require.Equal(t, 22, cells[0].Hour)
	require.Equal(t, 12.0, cells[1].Spend)
}

func TestInferProduct(t *testing.T) {
	require.Equal(t, "Term Life", InferProduct("Google_Nonbrand-TermLife-Quotes"))
	require.Equal(t, "Dental Network", InferProduct("dental-network-recruiting"))
	require.Equal(t, "Disability", InferProduct("IDI-leadgen"))
	require.Equal(t, "Annuities", InferProduct("RILA awareness"))
	require.Equal(t, "Other", InferProduct("something else"))
}

func TestInferIntentBucket(t *testing.T) {
	require.Equal(t, "Brand", InferIntentBucket("google_brand-termlife"))
	require.Equal(t, "Group", InferIntentBucket("employer-worksite-dental"))
	require.Equal(t, "Nonbrand Lead Gen", InferIntentBucket("nonbrand-quotes-termlife"))
	require.Equal(t, "Education/Midfunnel", InferIntentBucket("alwayson-awareness"))
}
