package aggregate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guardianads/pulse/internal/models"
	"github.com/guardianads/pulse/internal/store"
)

func TestQualityScoreSummaryWeightedAverage(t *testing.T) {
	st := store.NewMemoryStore()
	st.AddQualityScores(
		models.QualityScoreRecord{Date: day("2026-08-18"), KeywordID: "k1", Product: "Term Life", QualityScore: 4, Spend: 100},
		models.QualityScoreRecord{Date: day("2026-08-19"), KeywordID: "k2", Product: "Term Life", QualityScore: 8, Spend: 300},
	)

	sum := NewService(st).QualityScore(window30d(), testNow)
	require.Equal(t, 7.0, sum.WeightedAvg)
	require.Len(t, sum.ByProduct, 1)
	require.Equal(t, 7.0, sum.ByProduct[0].QualityScore)
	require.Equal(t, map[int]int{4: 1, 8: 1}, sum.Distribution)
}

func TestQualityScoreSummaryZeroSpendSafe(t *testing.T) {
	st := store.NewMemoryStore()
	st.AddQualityScores(models.QualityScoreRecord{Date: day("2026-08-19"), KeywordID: "k1", Product: "Dental Network", QualityScore: 5})

	sum := NewService(st).QualityScore(window30d(), testNow)
	require.Zero(t, sum.WeightedAvg)
}

func TestQualityScoreDistributionUsesLatestSnapshot(t *testing.T) {
	st := store.NewMemoryStore()
	st.AddQualityScores(
		models.QualityScoreRecord{Date: day("2026-08-10"), KeywordID: "k1", QualityScore: 3, Spend: 10},
		models.QualityScoreRecord{Date: day("2026-08-19"), KeywordID: "k1", QualityScore: 6, Spend: 10},
	)

	sum := NewService(st).QualityScore(window30d(), testNow)
	require.Equal(t, map[int]int{6: 1}, sum.Distribution)
}

func TestConversionSummaryViews(t *testing.T) {
	st := store.NewMemoryStore()
	st.AddConversions(
		models.ConversionRecord{Date: day("2026-08-18"), Product: "Term Life", ConversionType: "Quote Start", Attribution: "LEAD", Conversions: 3, ConversionValue: 150},
		models.ConversionRecord{Date: day("2026-08-19"), Product: "Term Life", ConversionType: "Quote Start", Attribution: "LEAD", Conversions: 2, ConversionValue: 100},
		models.ConversionRecord{Date: day("2026-08-19"), Product: "Disability", ConversionType: "Call", Attribution: "PURCHASE", Conversions: 1, ConversionValue: 400},
	)

	sum := NewService(st).Conversions(window30d(), testNow)

	require.Len(t, sum.ByType, 2)
	require.Equal(t, "Quote Start", sum.ByType[0].ConversionType)
	require.Equal(t, 5.0, sum.ByType[0].Conversions)
	require.Equal(t, 250.0, sum.ByType[0].ConversionValue)

	require.Len(t, sum.ByProduct, 2)
	require.Equal(t, "Term Life", sum.ByProduct[0].Product)
	require.Equal(t, 5.0, sum.ByProduct[0].Conversions)

	require.Len(t, sum.Trend, 2)
	require.Equal(t, "2026-08-18", sum.Trend[0].Date)
	require.Equal(t, 3.0, sum.Trend[0].ByType["Quote Start"])
	require.Equal(t, 1.0, sum.Trend[1].ByType["Call"])
}

func TestLandingPagesAverageDeviceRatesAcrossDays(t *testing.T) {
	st := store.NewMemoryStore()
	st.AddLandingPages(
		models.LandingPageRecord{Date: day("2026-08-18"), URL: "/term-life", Sessions: 100, Conversions: 4, ConversionValue: 200, MobileConvRate: 2.0, DesktopConvRate: 6.0, BounceRate: 40},
		models.LandingPageRecord{Date: day("2026-08-19"), URL: "/term-life", Sessions: 100, Conversions: 6, ConversionValue: 300, MobileConvRate: 4.0, DesktopConvRate: 8.0, BounceRate: 50},
	)

	rows := NewService(st).LandingPages(window30d(), testNow)
	require.Len(t, rows, 1)
	row := rows[0]

	// counts sum, overall rate re-derived from the sums
	require.Equal(t, 200, row.Sessions)
	require.Equal(t, 10.0, row.Conversions)
	require.Equal(t, 5.0, row.ConvRate)
	// per-device rates are day averages, not recomputed from counts
	require.Equal(t, 3.0, row.MobileConvRate)
	require.Equal(t, 7.0, row.DesktopConvRate)
	require.Equal(t, 45.0, row.BounceRate)
}

func TestCompetitorsRankedByImpressionShare(t *testing.T) {
	st := store.NewMemoryStore()
	st.AddAuctionInsights(
		models.AuctionInsightRecord{Date: day("2026-08-18"), Competitor: "You", ImpressionShare: 40, TopOfPageRate: 60},
		models.AuctionInsightRecord{Date: day("2026-08-19"), Competitor: "You", ImpressionShare: 50, TopOfPageRate: 70},
		models.AuctionInsightRecord{Date: day("2026-08-19"), Competitor: "Acme Insurance", ImpressionShare: 55, TopOfPageRate: 50},
	)

	sum := NewService(st).Competitors(window30d(), testNow)
	require.Len(t, sum.Competitors, 2)
	require.Equal(t, "Acme Insurance", sum.Competitors[0].Competitor)
	require.Equal(t, 55.0, sum.Competitors[0].ImpressionShare)
	require.Equal(t, 45.0, sum.Competitors[1].ImpressionShare) // (40+50)/2

	require.Len(t, sum.Trend, 2)
	require.Equal(t, "2026-08-18", sum.Trend[0].Date)
	require.Equal(t, 40.0, sum.Trend[0].Shares["You"])
}
