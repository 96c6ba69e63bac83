package aggregate

import (
	"sort"
	"time"

	"github.com/guardianads/pulse/internal/models"
	"github.com/guardianads/pulse/internal/timewindow"
)

type ProductQS struct {
	Product      string  `json:"product"`
	QualityScore float64 `json:"quality_score"`
	Spend        float64 `json:"spend"`
}

type QualityScoreSummary struct {
	WeightedAvg  float64     `json:"weighted_avg"`
	ByProduct    []ProductQS `json:"by_product"`
	Distribution map[int]int `json:"distribution"` // score 1..10 -> keyword count
}

// QualityScore computes spend-weighted average quality scores:
// sum(qs*spend)/sum(spend), one decimal, 0/0-safe. The distribution
// counts each keyword once, at its latest score in the window.
func (s *Service) QualityScore(w timewindow.Window, now time.Time) QualityScoreSummary {
	recs := timewindow.Filter(s.repo.QualityScores(), func(r models.QualityScoreRecord) time.Time { return r.Date }, w, now)

	var weighted, spend float64
	prodW := map[string]float64{}
	prodS := map[string]float64{}
	var prodOrder []string
	latest := map[string]models.QualityScoreRecord{}
	for _, r := range recs {
		weighted += float64(r.QualityScore) * r.Spend
		spend += r.Spend
		if _, ok := prodW[r.Product]; !ok {
			prodOrder = append(prodOrder, r.Product)
		}
		prodW[r.Product] += float64(r.QualityScore) * r.Spend
		prodS[r.Product] += r.Spend
		if prev, ok := latest[r.KeywordID]; !ok || r.Date.After(prev.Date) {
			latest[r.KeywordID] = r
		}
	}

	byProduct := make([]ProductQS, 0, len(prodOrder))
	for _, p := range prodOrder {
		byProduct = append(byProduct, ProductQS{
			Product:      p,
			QualityScore: round1(safeDiv(prodW[p], prodS[p])),
			Spend:        round2(prodS[p]),
		})
	}

	dist := make(map[int]int)
	for _, r := range latest {
		dist[r.QualityScore]++
	}

	return QualityScoreSummary{
		WeightedAvg:  round1(safeDiv(weighted, spend)),
		ByProduct:    byProduct,
		Distribution: dist,
	}
}

type ConversionSplit struct {
	ConversionType  string  `json:"conversion_type"`
	Attribution     string  `json:"attribution"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
}

type ProductConversions struct {
	Product         string  `json:"product"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
}

type ConversionTrendPoint struct {
	Date   string             `json:"date"`
	ByType map[string]float64 `json:"by_type"`
}

type ConversionSummary struct {
	ByType    []ConversionSplit      `json:"by_type"`
	ByProduct []ProductConversions   `json:"by_product"`
	Trend     []ConversionTrendPoint `json:"trend"`
}

// Conversions splits conversion totals by (type, attribution) and by
// product, and builds a date-indexed per-type trend.
func (s *Service) Conversions(w timewindow.Window, now time.Time) ConversionSummary {
	recs := timewindow.Filter(s.repo.Conversions(), func(r models.ConversionRecord) time.Time { return r.Date }, w, now)

	type split struct{ conv, value float64 }
	byType := map[[2]string]*split{}
	var typeOrder [][2]string
	byProd := map[string]*split{}
	var prodOrder []string
	trend := map[string]map[string]float64{}

	for _, r := range recs {
		tk := [2]string{r.ConversionType, r.Attribution}
		t, ok := byType[tk]
		if !ok {
			t = &split{}
			byType[tk] = t
			typeOrder = append(typeOrder, tk)
		}
		t.conv += r.Conversions
		t.value += r.ConversionValue

		p, ok := byProd[r.Product]
		if !ok {
			p = &split{}
			byProd[r.Product] = p
			prodOrder = append(prodOrder, r.Product)
		}
		p.conv += r.Conversions
		p.value += r.ConversionValue

		day := r.Date.UTC().Format("2006-01-02")
		if trend[day] == nil {
			trend[day] = map[string]float64{}
		}
		trend[day][r.ConversionType] += r.Conversions
	}

	out := ConversionSummary{}
	for _, tk := range typeOrder {
		t := byType[tk]
		out.ByType = append(out.ByType, ConversionSplit{
			ConversionType:  tk[0],
			Attribution:     tk[1],
			Conversions:     round2(t.conv),
			ConversionValue: round2(t.value),
		})
	}
	for _, pk := range prodOrder {
		p := byProd[pk]
		out.ByProduct = append(out.ByProduct, ProductConversions{
			Product:         pk,
			Conversions:     round2(p.conv),
			ConversionValue: round2(p.value),
		})
	}
	days := make([]string, 0, len(trend))
	for d := range trend {
		days = append(days, d)
	}
	sort.Strings(days)
	for _, d := range days {
		out.Trend = append(out.Trend, ConversionTrendPoint{Date: d, ByType: trend[d]})
	}
	return out
}

type LandingPageRow struct {
	URL             string  `json:"url"`
	Sessions        int     `json:"sessions"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
	ConvRate        float64 `json:"conversion_rate"`
	BounceRate      float64 `json:"bounce_rate"`
	MobileConvRate  float64 `json:"mobile_conv_rate"`
	DesktopConvRate float64 `json:"desktop_conv_rate"`
}

// LandingPages rolls up per URL. Sessions/conversions/value are summed
// and the overall rate re-derived, but the bounce and per-device
// conversion rates are averaged across days. That average is a
// deliberate simplification: the raw per-device counts are not in the
// feed, so the daily rates are the best available signal.
func (s *Service) LandingPages(w timewindow.Window, now time.Time) []LandingPageRow {
	recs := timewindow.Filter(s.repo.LandingPages(), func(r models.LandingPageRecord) time.Time { return r.Date }, w, now)

	rows := map[string]*LandingPageRow{}
	var order []string
	days := map[string]int{}
	for _, r := range recs {
		row, ok := rows[r.URL]
		if !ok {
			row = &LandingPageRow{URL: r.URL}
			rows[r.URL] = row
			order = append(order, r.URL)
		}
		row.Sessions += r.Sessions
		row.Conversions += r.Conversions
		row.ConversionValue += r.ConversionValue
		row.BounceRate += r.BounceRate
		row.MobileConvRate += r.MobileConvRate
		row.DesktopConvRate += r.DesktopConvRate
		days[r.URL]++
	}

	out := make([]LandingPageRow, 0, len(order))
	for _, u := range order {
		row := rows[u]
		n := float64(days[u])
		out = append(out, LandingPageRow{
			URL:             u,
			Sessions:        row.Sessions,
			Conversions:     round2(row.Conversions),
			ConversionValue: round2(row.ConversionValue),
			ConvRate:        round2(safeDiv(row.Conversions, float64(row.Sessions)) * 100),
			BounceRate:      round2(safeDiv(row.BounceRate, n)),
			MobileConvRate:  round2(safeDiv(row.MobileConvRate, n)),
			DesktopConvRate: round2(safeDiv(row.DesktopConvRate, n)),
		})
	}
	return out
}

type CompetitorRow struct {
	Competitor        string  `json:"competitor"`
	ImpressionShare   float64 `json:"impression_share"`
	OverlapRate       float64 `json:"overlap_rate"`
	PositionAboveRate float64 `json:"position_above_rate"`
	TopOfPageRate     float64 `json:"top_of_page_rate"`
	OutrankingShare   float64 `json:"outranking_share"`
}

type CompetitorTrendPoint struct {
	Date   string             `json:"date"`
	Shares map[string]float64 `json:"shares"`
}

type CompetitorSummary struct {
	Competitors []CompetitorRow        `json:"competitors"`
	Trend       []CompetitorTrendPoint `json:"trend"`
}

// Competitors averages auction-insight shares per competitor over the
// window and ranks by impression share, plus a per-day share trend.
func (s *Service) Competitors(w timewindow.Window, now time.Time) CompetitorSummary {
	recs := timewindow.Filter(s.repo.AuctionInsights(), func(r models.AuctionInsightRecord) time.Time { return r.Date }, w, now)

	sums := map[string]*CompetitorRow{}
	counts := map[string]int{}
	trend := map[string]map[string]float64{}
	trendN := map[string]map[string]int{}
	for _, r := range recs {
		row, ok := sums[r.Competitor]
		if !ok {
			row = &CompetitorRow{Competitor: r.Competitor}
			sums[r.Competitor] = row
		}
		row.ImpressionShare += r.ImpressionShare
		row.OverlapRate += r.OverlapRate
		row.PositionAboveRate += r.PositionAboveRate
		row.TopOfPageRate += r.TopOfPageRate
		row.OutrankingShare += r.OutrankingShare
		counts[r.Competitor]++

		day := r.Date.UTC().Format("2006-01-02")
		if trend[day] == nil {
			trend[day] = map[string]float64{}
			trendN[day] = map[string]int{}
		}
		trend[day][r.Competitor] += r.ImpressionShare
		trendN[day][r.Competitor]++
	}

	out := CompetitorSummary{}
	for name, row := range sums {
		n := float64(counts[name])
		out.Competitors = append(out.Competitors, CompetitorRow{
			Competitor:        name,
			ImpressionShare:   round2(safeDiv(row.ImpressionShare, n)),
			OverlapRate:       round2(safeDiv(row.OverlapRate, n)),
			PositionAboveRate: round2(safeDiv(row.PositionAboveRate, n)),
			TopOfPageRate:     round2(safeDiv(row.TopOfPageRate, n)),
			OutrankingShare:   round2(safeDiv(row.OutrankingShare, n)),
		})
	}
	sort.Slice(out.Competitors, func(i, j int) bool {
		if out.Competitors[i].ImpressionShare != out.Competitors[j].ImpressionShare {
			return out.Competitors[i].ImpressionShare > out.Competitors[j].ImpressionShare
		}
		return out.Competitors[i].Competitor < out.Competitors[j].Competitor
	})

	days := make([]string, 0, len(trend))
	for d := range trend {
		days = append(days, d)
	}
	sort.Strings(days)
	for _, d := range days {
		shares := map[string]float64{}
		for comp, sum := range trend[d] {
			shares[comp] = round2(safeDiv(sum, float64(trendN[d][comp])))
		}
		out.Trend = append(out.Trend, CompetitorTrendPoint{Date: d, Shares: shares})
	}
	return out
}
