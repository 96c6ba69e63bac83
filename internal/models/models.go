package models

import "time"

// BaseMetrics are the five additive fields every performance record carries.
// Group totals are plain sums of these; everything else is derived afterwards.
type BaseMetrics struct {
	Spend           float64 `json:"spend"`
	Impressions     int     `json:"impressions"`
	Clicks          int     `json:"clicks"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
}

func (b *BaseMetrics) Add(o BaseMetrics) {
	b.Spend += o.Spend
	b.Impressions += o.Impressions
	b.Clicks += o.Clicks
	b.Conversions += o.Conversions
	b.ConversionValue += o.ConversionValue
}

// DerivedMetrics are never stored; they are recomputed from summed
// BaseMetrics after every aggregation, each division zero-guarded.
type DerivedMetrics struct {
	CTR      float64 `json:"ctr"`
	CPC      float64 `json:"cpc"`
	CPA      float64 `json:"cpa"`
	ROAS     float64 `json:"roas"`
	ConvRate float64 `json:"conv_rate"`
}

type CampaignRecord struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Name         string    `json:"campaign_name"`
	Product      string    `json:"product"`
	IntentBucket string    `json:"intent_bucket"`
	Status       string    `json:"status"`
	BaseMetrics
	ImpressionShare float64 `json:"search_impression_share"`
	LostISBudget    float64 `json:"lost_is_budget"`
	LostISRank      float64 `json:"lost_is_rank"`
}

type KeywordRecord struct {
	ID                    string    `json:"id"`
	Date                  time.Time `json:"date"`
	Keyword               string    `json:"keyword"`
	MatchType             string    `json:"match_type"`
	Campaign              string    `json:"campaign_name"`
	AdGroup               string    `json:"ad_group_name"`
	QualityScore          int       `json:"quality_score"`
	ExpectedCTR           string    `json:"expected_ctr"`
	AdRelevance           string    `json:"ad_relevance"`
	LandingPageExperience string    `json:"landing_page_experience"`
	BaseMetrics
}

type SearchTermRecord struct {
	Date      time.Time `json:"date"`
	Term      string    `json:"search_term"`
	Campaign  string    `json:"campaign_name"`
	AdGroup   string    `json:"ad_group_name"`
	MatchType string    `json:"match_type"`
	BaseMetrics
}

type AdRecord struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Campaign     string    `json:"campaign_name"`
	AdGroup      string    `json:"ad_group_name"`
	Headlines    []string  `json:"headlines"`
	Descriptions []string  `json:"descriptions"`
	AdStrength   string    `json:"ad_strength"`
	BaseMetrics
}

type GeoRecord struct {
	Date      time.Time `json:"date"`
	State     string    `json:"state"`
	StateCode string    `json:"state_code"`
	BaseMetrics
}

type DeviceRecord struct {
	Date   time.Time `json:"date"`
	Device string    `json:"device"`
	BaseMetrics
}

// HourlyRecord is one dated observation for a (day-of-week, hour) slot.
// DayOfWeek follows time.Weekday numbering: 0=Sunday .. 6=Saturday.
type HourlyRecord struct {
	Date      time.Time `json:"date"`
	DayOfWeek int       `json:"day_of_week"`
	Hour      int       `json:"hour"`
	BaseMetrics
}

type QualityScoreRecord struct {
	Date                  time.Time `json:"date"`
	KeywordID             string    `json:"keyword_id"`
	Keyword               string    `json:"keyword"`
	Product               string    `json:"product"`
	QualityScore          int       `json:"quality_score"`
	ExpectedCTR           string    `json:"expected_ctr"`
	AdRelevance           string    `json:"ad_relevance"`
	LandingPageExperience string    `json:"landing_page_experience"`
	Spend                 float64   `json:"spend"`
}

type ConversionRecord struct {
	Date            time.Time `json:"date"`
	Product         string    `json:"product"`
	ConversionType  string    `json:"conversion_type"`
	Attribution     string    `json:"attribution"`
	Conversions     float64   `json:"conversions"`
	ConversionValue float64   `json:"conversion_value"`
}

type LandingPageRecord struct {
	Date            time.Time `json:"date"`
	URL             string    `json:"url"`
	Sessions        int       `json:"sessions"`
	BounceRate      float64   `json:"bounce_rate"`
	ConvRate        float64   `json:"conversion_rate"`
	MobileConvRate  float64   `json:"mobile_conv_rate"`
	DesktopConvRate float64   `json:"desktop_conv_rate"`
	Conversions     float64   `json:"conversions"`
	ConversionValue float64   `json:"conversion_value"`
}

type AuctionInsightRecord struct {
	Date              time.Time `json:"date"`
	Competitor        string    `json:"competitor"`
	ImpressionShare   float64   `json:"impression_share"`
	OverlapRate       float64   `json:"overlap_rate"`
	PositionAboveRate float64   `json:"position_above_rate"`
	TopOfPageRate     float64   `json:"top_of_page_rate"`
	OutrankingShare   float64   `json:"outranking_share"`
}
