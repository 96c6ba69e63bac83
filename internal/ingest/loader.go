// Package ingest pulls the per-domain record feeds into the memory
// store. Validation here is limited to normalization: dates parsed,
// whitespace trimmed, negative metrics clamped to zero. Everything else
// is the upstream ETL's responsibility.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/guardianads/pulse/internal/aggregate"
	"github.com/guardianads/pulse/internal/models"
	"github.com/guardianads/pulse/internal/store"
)

type Loader struct {
	c       HTTPClient
	st      *store.MemoryStore
	log     *zap.Logger
	baseURL string
}

func NewLoader(c HTTPClient, st *store.MemoryStore, log *zap.Logger, baseURL string) *Loader {
	return &Loader{c: c, st: st, log: log, baseURL: baseURL}
}

type baseDTO struct {
	Spend           float64 `json:"spend"`
	Impressions     int     `json:"impressions"`
	Clicks          int     `json:"clicks"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
}

func (b baseDTO) metrics() models.BaseMetrics {
	return models.BaseMetrics{
		Spend:           maxf(b.Spend),
		Impressions:     max0(b.Impressions),
		Clicks:          max0(b.Clicks),
		Conversions:     maxf(b.Conversions),
		ConversionValue: maxf(b.ConversionValue),
	}
}

type campaignDTO struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	Name            string  `json:"campaign_name"`
	Product         string  `json:"product"`
	IntentBucket    string  `json:"intent_bucket"`
	Status          string  `json:"status"`
	ImpressionShare float64 `json:"search_impression_share"`
	LostISBudget    float64 `json:"lost_is_budget"`
	LostISRank      float64 `json:"lost_is_rank"`
	baseDTO
}

type keywordDTO struct {
	ID                    string `json:"id"`
	Date                  string `json:"date"`
	Keyword               string `json:"keyword"`
	MatchType             string `json:"match_type"`
	Campaign              string `json:"campaign_name"`
	AdGroup               string `json:"ad_group_name"`
	QualityScore          int    `json:"quality_score"`
	ExpectedCTR           string `json:"expected_ctr"`
	AdRelevance           string `json:"ad_relevance"`
	LandingPageExperience string `json:"landing_page_experience"`
	baseDTO
}

type searchTermDTO struct {
	Date      string `json:"date"`
	Term      string `json:"search_term"`
	Campaign  string `json:"campaign_name"`
	AdGroup   string `json:"ad_group_name"`
	MatchType string `json:"match_type"`
	baseDTO
}

type adDTO struct {
	ID           string   `json:"id"`
	Date         string   `json:"date"`
	Campaign     string   `json:"campaign_name"`
	AdGroup      string   `json:"ad_group_name"`
	Headlines    []string `json:"headlines"`
	Descriptions []string `json:"descriptions"`
	AdStrength   string   `json:"ad_strength"`
	baseDTO
}

type geoDTO struct {
	Date      string `json:"date"`
	State     string `json:"state"`
	StateCode string `json:"state_code"`
	baseDTO
}

type deviceDTO struct {
	Date   string `json:"date"`
	Device string `json:"device"`
	baseDTO
}

type hourlyDTO struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	Hour      int    `json:"hour"`
	baseDTO
}

type auctionDTO struct {
	Date              string  `json:"date"`
	Competitor        string  `json:"competitor"`
	ImpressionShare   float64 `json:"impression_share"`
	OverlapRate       float64 `json:"overlap_rate"`
	PositionAboveRate float64 `json:"position_above_rate"`
	TopOfPageRate     float64 `json:"top_of_page_rate"`
	OutrankingShare   float64 `json:"outranking_share"`
}

type qualityDTO struct {
	Date                  string  `json:"date"`
	KeywordID             string  `json:"keyword_id"`
	Keyword               string  `json:"keyword"`
	Product               string  `json:"product"`
	QualityScore          int     `json:"quality_score"`
	ExpectedCTR           string  `json:"expected_ctr"`
	AdRelevance           string  `json:"ad_relevance"`
	LandingPageExperience string  `json:"landing_page_experience"`
	Spend                 float64 `json:"spend"`
}

type conversionDTO struct {
	Date            string  `json:"date"`
	Campaign        string  `json:"campaign_name"`
	Product         string  `json:"product"`
	ConversionType  string  `json:"conversion_type"`
	Attribution     string  `json:"attribution"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
}

type landingPageDTO struct {
	Date            string  `json:"date"`
	URL             string  `json:"url"`
	Sessions        int     `json:"sessions"`
	BounceRate      float64 `json:"bounce_rate"`
	ConvRate        float64 `json:"conversion_rate"`
	MobileConvRate  float64 `json:"mobile_conv_rate"`
	DesktopConvRate float64 `json:"desktop_conv_rate"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
}

// Run fetches every entity feed. A failing entity is logged and skipped
// so one broken feed does not starve the others.
func (l *Loader) Run(ctx context.Context) error {
	if l.baseURL == "" {
		return errors.New("data api not configured")
	}
	var errs []error
	for _, entity := range []struct {
		name string
		load func(context.Context) (int, error)
	}{
		{"campaigns", l.loadCampaigns},
		{"keywords", l.loadKeywords},
		{"search_terms", l.loadSearchTerms},
		{"ads", l.loadAds},
		{"geo_performance", l.loadGeo},
		{"device_performance", l.loadDevices},
		{"hourly_performance", l.loadHourly},
		{"auction_insights", l.loadAuctionInsights},
		{"quality_score_snapshots", l.loadQualityScores},
		{"conversion_actions", l.loadConversions},
		{"landing_pages", l.loadLandingPages},
	} {
		n, err := entity.load(ctx)
		if err != nil {
			l.log.Error("ingest failed", zap.String("entity", entity.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", entity.name, err))
			continue
		}
		l.log.Info("ingested", zap.String("entity", entity.name), zap.Int("records", n))
	}
	return errors.Join(errs...)
}

func (l *Loader) fetch(ctx context.Context, entity string, dst any) error {
	return GetJSONWithRetry(ctx, l.c, l.baseURL+"/"+entity, dst)
}

func (l *Loader) loadCampaigns(ctx context.Context) (int, error) {
	var rows []campaignDTO
	if err := l.fetch(ctx, "campaigns", &rows); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		d, err := parseDay(r.Date)
		if err != nil {
			continue
		}
		if !l.st.MarkSeen("campaigns|" + r.ID + "|" + r.Date) {
			continue
		}
		name := strings.TrimSpace(r.Name)
		product := r.Product
		if product == "" {
			product = aggregate.InferProduct(name)
		}
		bucket := r.IntentBucket
		if bucket == "" {
			bucket = aggregate.InferIntentBucket(name)
		}
		l.st.AddCampaigns(models.CampaignRecord{
			ID:              r.ID,
			Date:            d,
			Name:            name,
			Product:         product,
			IntentBucket:    bucket,
			Status:          strings.TrimSpace(r.Status),
			BaseMetrics:     r.metrics(),
			ImpressionShare: maxf(r.ImpressionShare),
			LostISBudget:    maxf(r.LostISBudget),
			LostISRank:      maxf(r.LostISRank),
		})
		n++
	}
	return n, nil
}

func (l *Loader) loadKeywords(ctx context.Context) (int, error) {
	var rows []keywordDTO
	if err := l.fetch(ctx, "keywords", &rows); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		d, err := parseDay(r.Date)
		if err != nil {
			continue
		}
		if !l.st.MarkSeen("keywords|" + r.ID + "|" + r.Date) {
			continue
		}
		l.st.AddKeywords(models.KeywordRecord{
			ID:                    r.ID,
			Date:                  d,
			Keyword:               strings.TrimSpace(r.Keyword),
			MatchType:             r.MatchType,
			Campaign:              r.Campaign,
			AdGroup:               r.AdGroup,
			QualityScore:          max0(r.QualityScore),
			ExpectedCTR:           r.ExpectedCTR,
			AdRelevance:           r.AdRelevance,
			LandingPageExperience: r.LandingPageExperience,
			BaseMetrics:           r.metrics(),
		})
		n++
	}
	return n, nil
}

func (l *Loader) loadSearchTerms(ctx context.Context) (int, error) {
	var rows []searchTermDTO
	if err := l.fetch(ctx, "search_terms", &rows); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		d, err := parseDay(r.Date)
		if err != nil || strings.TrimSpace(r.Term) == "" {
			continue
		}
		if !l.st.MarkSeen("search_terms|" + r.Campaign + "|" + r.AdGroup + "|" + r.Term + "|" + r.Date) {
			continue
		}
		l.st.AddSearchTerms(models.SearchTermRecord{
			Date:        d,
			Term:        strings.TrimSpace(r.Term),
			Campaign:    r.Campaign,
			AdGroup:     r.AdGroup,
			MatchType:   r.MatchType,
			BaseMetrics: r.metrics(),
		})
		n++
	}
	return n, nil
}

func (l *Loader) loadAds(ctx context.Context) (int, error) {
	var rows []adDTO
	if err := l.fetch(ctx, "ads", &rows); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		d, err := parseDay(r.Date)
		if err != nil {
			continue
		}
		if !l.st.MarkSeen("ads|" + r.ID + "|" + r.Date) {
			continue
		}
		l.st.AddAds(models.AdRecord{
			ID:           r.ID,
			Date:         d,
			Campaign:     r.Campaign,
			AdGroup:      r.AdGroup,
			Headlines:    r.Headlines,
			Descriptions: r.Descriptions,
			AdStrength:   r.AdStrength,
			BaseMetrics:  r.metrics(),
		})
		n++
	}
	return n, nil
}

func (l *Loader) loadGeo(ctx context.Context) (int, error) {
	var rows []geoDTO
	if err := l.fetch(ctx, "geo_performance", &rows); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		d, err := parseDay(r.Date)
		if err != nil {
			continue
		}
		if !l.st.MarkSeen("geo|" + r.State + "|" + r.Date) {
			continue
		}
		l.st.AddGeo(models.GeoRecord{
			Date:        d,
			State:       strings.TrimSpace(r.State),
			StateCode:   strings.TrimSpace(r.StateCode),
			BaseMetrics: r.metrics(),
		})
		n++
	}
	return n, nil
}

func (l *Loader) loadDevices(ctx context.Context) (int, error) {
	var rows []deviceDTO
	if err := l.fetch(ctx, "device_performance", &rows); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		d, err := parseDay(r.Date)
		if err != nil {
			continue
		}
		if !l.st.MarkSeen("device|" + r.Device + "|" + r.Date) {
			continue
		}
		l.st.AddDevices(models.DeviceRecord{
			Date:        d,
			Device:      strings.TrimSpace(r.Device),
			BaseMetrics: r.metrics(),
		})
		n++
	}
	return n, nil
}

func (l *Loader) loadHourly(ctx context.Context) (int, error) {
	var rows []hourlyDTO
	if err := l.fetch(ctx, "hourly_performance", &rows); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		d, err := parseDay(r.Date)
		if err != nil || r.Hour < 0 || r.Hour > 23 {
			continue
		}
		dow, ok := dayOfWeekIndex(r.DayOfWeek)
		if !ok {
			continue
		}
		if !l.st.MarkSeen(fmt.Sprintf("hourly|%d|%d|%s", dow, r.Hour, r.Date)) {
			continue
		}
		l.st.AddHourly(models.HourlyRecord{
			Date:        d,
			DayOfWeek:   dow,
			Hour:        r.Hour,
			BaseMetrics: r.metrics(),
		})
		n++
	}
	return n, nil
}

func (l *Loader) loadAuctionInsights(ctx context.Context) (int, error) {
	var rows []auctionDTO
	if err := l.fetch(ctx, "auction_insights", &rows); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		d, err := parseDay(r.Date)
		if err != nil {
			continue
		}
		if !l.st.MarkSeen("auction|" + r.Competitor + "|" + r.Date) {
			continue
		}
		l.st.AddAuctionInsights(models.AuctionInsightRecord{
			Date:              d,
			Competitor:        strings.TrimSpace(r.Competitor),
			ImpressionShare:   maxf(r.ImpressionShare),
			OverlapRate:       maxf(r.OverlapRate),
			PositionAboveRate: maxf(r.PositionAboveRate),
			TopOfPageRate:     maxf(r.TopOfPageRate),
			OutrankingShare:   maxf(r.OutrankingShare),
		})
		n++
	}
	return n, nil
}

func (l *Loader) loadQualityScores(ctx context.Context) (int, error) {
	var rows []qualityDTO
	if err := l.fetch(ctx, "quality_score_snapshots", &rows); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		d, err := parseDay(r.Date)
		if err != nil {
			continue
		}
		if !l.st.MarkSeen("quality|" + r.KeywordID + "|" + r.Date) {
			continue
		}
		l.st.AddQualityScores(models.QualityScoreRecord{
			Date:                  d,
			KeywordID:             r.KeywordID,
			Keyword:               strings.TrimSpace(r.Keyword),
			Product:               r.Product,
			QualityScore:          max0(r.QualityScore),
			ExpectedCTR:           r.ExpectedCTR,
			AdRelevance:           r.AdRelevance,
			LandingPageExperience: r.LandingPageExperience,
			Spend:                 maxf(r.Spend),
		})
		n++
	}
	return n, nil
}

func (l *Loader) loadConversions(ctx context.Context) (int, error) {
	var rows []conversionDTO
	if err := l.fetch(ctx, "conversion_actions", &rows); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		d, err := parseDay(r.Date)
		if err != nil {
			continue
		}
		if !l.st.MarkSeen("conversions|" + r.Campaign + "|" + r.ConversionType + "|" + r.Date) {
			continue
		}
		product := r.Product
		if product == "" {
			product = aggregate.InferProduct(r.Campaign)
		}
		l.st.AddConversions(models.ConversionRecord{
			Date:            d,
			Product:         product,
			ConversionType:  strings.TrimSpace(r.ConversionType),
			Attribution:     r.Attribution,
			Conversions:     maxf(r.Conversions),
			ConversionValue: maxf(r.ConversionValue),
		})
		n++
	}
	return n, nil
}

func (l *Loader) loadLandingPages(ctx context.Context) (int, error) {
	var rows []landingPageDTO
	if err := l.fetch(ctx, "landing_pages", &rows); err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		d, err := parseDay(r.Date)
		if err != nil || strings.TrimSpace(r.URL) == "" {
			continue
		}
		if !l.st.MarkSeen("landing_pages|" + r.URL + "|" + r.Date) {
			continue
		}
		l.st.AddLandingPages(models.LandingPageRecord{
			Date:            d,
			URL:             strings.TrimSpace(r.URL),
			Sessions:        max0(r.Sessions),
			BounceRate:      maxf(r.BounceRate),
			ConvRate:        maxf(r.ConvRate),
			MobileConvRate:  maxf(r.MobileConvRate),
			DesktopConvRate: maxf(r.DesktopConvRate),
			Conversions:     maxf(r.Conversions),
			ConversionValue: maxf(r.ConversionValue),
		})
		n++
	}
	return n, nil
}

func parseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

// dayOfWeekIndex accepts either a weekday name from the feed or a bare
// index, returning time.Weekday numbering (0=Sunday).
func dayOfWeekIndex(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "0":
		return 0, true
	case "monday", "1":
		return 1, true
	case "tuesday", "2":
		return 2, true
	case "wednesday", "3":
		return 3, true
	case "thursday", "4":
		return 4, true
	case "friday", "5":
		return 5, true
	case "saturday", "6":
		return 6, true
	}
	return 0, false
}

func max0(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
