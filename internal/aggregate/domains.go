package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/guardianads/pulse/internal/models"
	"github.com/guardianads/pulse/internal/store"
	"github.com/guardianads/pulse/internal/timewindow"
)

// Service exposes one aggregation operation per dashboard domain, all
// backed by the same grouping engine over an injected record repository.
type Service struct {
	repo store.Repository
}

func NewService(repo store.Repository) *Service {
	return &Service{repo: repo}
}

type CampaignRow struct {
	Row
	Product         string  `json:"product"`
	IntentBucket    string  `json:"intent_bucket"`
	Status          string  `json:"status"`
	ImpressionShare float64 `json:"search_impression_share"`
	LostISBudget    float64 `json:"lost_is_budget"`
	LostISRank      float64 `json:"lost_is_rank"`
}

// Campaigns rolls up per campaign name. Impression-share fields are not
// additive, so they are averaged over the campaign's daily records.
func (s *Service) Campaigns(w timewindow.Window, now time.Time) []CampaignRow {
	recs := timewindow.Filter(s.repo.Campaigns(), func(r models.CampaignRecord) time.Time { return r.Date }, w, now)

	g := newGrouper()
	extra := map[string]*CampaignRow{}
	days := map[string]int{}
	for _, r := range recs {
		g.add(r.Name, r.BaseMetrics)
		e, ok := extra[r.Name]
		if !ok {
			e = &CampaignRow{Product: r.Product, IntentBucket: r.IntentBucket}
			extra[r.Name] = e
		}
		e.Status = r.Status
		e.ImpressionShare += r.ImpressionShare
		e.LostISBudget += r.LostISBudget
		e.LostISRank += r.LostISRank
		days[r.Name]++
	}

	out := make([]CampaignRow, 0, len(extra))
	for _, row := range g.rows() {
		e := extra[row.Key]
		n := float64(days[row.Key])
		out = append(out, CampaignRow{
			Row:             row,
			Product:         e.Product,
			IntentBucket:    e.IntentBucket,
			Status:          e.Status,
			ImpressionShare: round2(safeDiv(e.ImpressionShare, n)),
			LostISBudget:    round2(safeDiv(e.LostISBudget, n)),
			LostISRank:      round2(safeDiv(e.LostISRank, n)),
		})
	}
	return out
}

type KeywordRow struct {
	Row
	MatchType    string  `json:"match_type"`
	Campaign     string  `json:"campaign_name"`
	AdGroup      string  `json:"ad_group_name"`
	QualityScore float64 `json:"quality_score"`
}

// Keywords rolls up per keyword text. The quality score is the
// spend-weighted average over the keyword's records, one decimal.
func (s *Service) Keywords(w timewindow.Window, now time.Time) []KeywordRow {
	recs := timewindow.Filter(s.repo.Keywords(), func(r models.KeywordRecord) time.Time { return r.Date }, w, now)

	g := newGrouper()
	extra := map[string]*KeywordRow{}
	qsWeighted := map[string]float64{}
	qsSpend := map[string]float64{}
	for _, r := range recs {
		g.add(r.Keyword, r.BaseMetrics)
		if _, ok := extra[r.Keyword]; !ok {
			extra[r.Keyword] = &KeywordRow{MatchType: r.MatchType, Campaign: r.Campaign, AdGroup: r.AdGroup}
		}
		if r.QualityScore > 0 {
			qsWeighted[r.Keyword] += float64(r.QualityScore) * r.Spend
			qsSpend[r.Keyword] += r.Spend
		}
	}

	out := make([]KeywordRow, 0, len(extra))
	for _, row := range g.rows() {
		e := extra[row.Key]
		out = append(out, KeywordRow{
			Row:          row,
			MatchType:    e.MatchType,
			Campaign:     e.Campaign,
			AdGroup:      e.AdGroup,
			QualityScore: round1(safeDiv(qsWeighted[row.Key], qsSpend[row.Key])),
		})
	}
	return out
}

type SearchTermRow struct {
	Row
	Campaign  string `json:"campaign_name"`
	AdGroup   string `json:"ad_group_name"`
	MatchType string `json:"match_type"`
	Label     string `json:"label"`
	Reason    string `json:"reason"`
}

// SearchTerms rolls up per search term and labels each term winner,
// loser or neutral against the median CPA of converting terms.
func (s *Service) SearchTerms(w timewindow.Window, now time.Time) []SearchTermRow {
	recs := timewindow.Filter(s.repo.SearchTerms(), func(r models.SearchTermRecord) time.Time { return r.Date }, w, now)

	g := newGrouper()
	extra := map[string]*SearchTermRow{}
	for _, r := range recs {
		g.add(r.Term, r.BaseMetrics)
		if _, ok := extra[r.Term]; !ok {
			extra[r.Term] = &SearchTermRow{Campaign: r.Campaign, AdGroup: r.AdGroup, MatchType: r.MatchType}
		}
	}

	rows := g.rows()
	var cpas []float64
	for _, row := range rows {
		if row.Conversions > 0 && row.CPA > 0 {
			cpas = append(cpas, row.CPA)
		}
	}
	medianCPA := median(cpas)

	out := make([]SearchTermRow, 0, len(rows))
	for _, row := range rows {
		e := extra[row.Key]
		label, reason := classifySearchTerm(row.Spend, row.Conversions, row.CPA, medianCPA)
		out = append(out, SearchTermRow{
			Row:       row,
			Campaign:  e.Campaign,
			AdGroup:   e.AdGroup,
			MatchType: e.MatchType,
			Label:     label,
			Reason:    reason,
		})
	}
	return out
}

type AdRow struct {
	Row
	Campaign     string   `json:"campaign_name"`
	AdGroup      string   `json:"ad_group_name"`
	Headlines    []string `json:"headlines"`
	Descriptions []string `json:"descriptions"`
	AdStrength   string   `json:"ad_strength"`
}

func (s *Service) Ads(w timewindow.Window, now time.Time) []AdRow {
	recs := timewindow.Filter(s.repo.Ads(), func(r models.AdRecord) time.Time { return r.Date }, w, now)

	g := newGrouper()
	extra := map[string]*AdRow{}
	for _, r := range recs {
		g.add(r.ID, r.BaseMetrics)
		// creative fields are stable per ad id, last record wins
		extra[r.ID] = &AdRow{
			Campaign:     r.Campaign,
			AdGroup:      r.AdGroup,
			Headlines:    r.Headlines,
			Descriptions: r.Descriptions,
			AdStrength:   r.AdStrength,
		}
	}

	out := make([]AdRow, 0, len(extra))
	for _, row := range g.rows() {
		e := extra[row.Key]
		e.Row = row
		out = append(out, *e)
	}
	return out
}

type GeoRow struct {
	Row
	StateCode string `json:"state_code"`
}

// Geo collapses the whole window into one row per state.
func (s *Service) Geo(w timewindow.Window, now time.Time) []GeoRow {
	recs := timewindow.Filter(s.repo.Geo(), func(r models.GeoRecord) time.Time { return r.Date }, w, now)

	g := newGrouper()
	codes := map[string]string{}
	for _, r := range recs {
		g.add(r.State, r.BaseMetrics)
		codes[r.State] = r.StateCode
	}

	out := make([]GeoRow, 0, len(codes))
	for _, row := range g.rows() {
		out = append(out, GeoRow{Row: row, StateCode: codes[row.Key]})
	}
	return out
}

// Devices collapses the whole window into one row per device.
func (s *Service) Devices(w timewindow.Window, now time.Time) []Row {
	return Sum(s.repo.Devices(), w, now,
		func(r models.DeviceRecord) time.Time { return r.Date },
		func(r models.DeviceRecord) string { return r.Device },
		func(r models.DeviceRecord) models.BaseMetrics { return r.BaseMetrics })
}

type HourlyCell struct {
	DayOfWeek int `json:"day_of_week"`
	Hour      int `json:"hour"`
	models.BaseMetrics
	models.DerivedMetrics
}

// Hourly groups by (day-of-week, hour), up to 168 populated cells.
func (s *Service) Hourly(w timewindow.Window, now time.Time) []HourlyCell {
	recs := timewindow.Filter(s.repo.Hourly(), func(r models.HourlyRecord) time.Time { return r.Date }, w, now)

	g := newGrouper()
	slot := map[string][2]int{}
	for _, r := range recs {
		k := fmt.Sprintf("%d|%d", r.DayOfWeek, r.Hour)
		g.add(k, r.BaseMetrics)
		slot[k] = [2]int{r.DayOfWeek, r.Hour}
	}

	out := make([]HourlyCell, 0, len(slot))
	for _, row := range g.rows() {
		pos := slot[row.Key]
		out = append(out, HourlyCell{DayOfWeek: pos[0], Hour: pos[1], BaseMetrics: row.BaseMetrics, DerivedMetrics: row.DerivedMetrics})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].Hour < out[j].Hour
	})
	return out
}
