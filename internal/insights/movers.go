package insights

import (
	"math"
	"sort"
	"time"

	"github.com/guardianads/pulse/internal/aggregate"
	"github.com/guardianads/pulse/internal/models"
	"github.com/guardianads/pulse/internal/timewindow"
)

// MoverRanker compares the selected window against the immediately
// preceding window of equal length and surfaces the campaigns whose
// metric moved the most.
type MoverRanker struct {
	agg *aggregate.Service
}

func NewMoverRanker(agg *aggregate.Service) *MoverRanker {
	return &MoverRanker{agg: agg}
}

func (m *MoverRanker) Compute(metric models.Metric, w timewindow.Window, now time.Time) []models.TopMover {
	return RankMovers(m.All(metric, w, now), metric, 4, true)
}

// All returns every campaign's mover for the metric, unranked. The
// alert generator works from this full list, not the top selection.
func (m *MoverRanker) All(metric models.Metric, w timewindow.Window, now time.Time) []models.TopMover {
	cur, prev := periodBounds(w, now)
	return Movers(m.agg.Campaigns(cur, now), m.agg.Campaigns(prev, now), metric)
}

// Movers computes one period-over-period mover per campaign present in
// the current period. A campaign absent from the previous period keeps
// previousValue 0 and changePercent 0; alerting excludes it later.
func Movers(current, previous []aggregate.CampaignRow, metric models.Metric) []models.TopMover {
	prevByName := make(map[string]float64, len(previous))
	for _, row := range previous {
		prevByName[row.Key] = row.Value(metric)
	}

	out := make([]models.TopMover, 0, len(current))
	for _, row := range current {
		cur := row.Value(metric)
		prev := prevByName[row.Key]
		change := 0.0
		if prev != 0 {
			change = math.Round((cur-prev)/prev*100*100) / 100
		}
		dir := models.DirectionFlat
		switch {
		case cur > prev:
			dir = models.DirectionUp
		case cur < prev:
			dir = models.DirectionDown
		}
		out = append(out, models.TopMover{
			Campaign:      row.Key,
			Metric:        metric,
			CurrentValue:  cur,
			PreviousValue: prev,
			ChangePercent: change,
			Direction:     dir,
		})
	}
	return out
}

// RankMovers orders by |changePercent| descending. When split is set it
// returns the top n improving and top n declining movers according to
// the metric's polarity; otherwise a flat top n.
func RankMovers(movers []models.TopMover, metric models.Metric, n int, split bool) []models.TopMover {
	ranked := append([]models.TopMover(nil), movers...)
	sort.Slice(ranked, func(i, j int) bool {
		ai, aj := math.Abs(ranked[i].ChangePercent), math.Abs(ranked[j].ChangePercent)
		if ai != aj {
			return ai > aj
		}
		return ranked[i].Campaign < ranked[j].Campaign
	})

	if !split {
		if len(ranked) > n {
			ranked = ranked[:n]
		}
		return ranked
	}

	var improving, declining []models.TopMover
	for _, mv := range ranked {
		if mv.ChangePercent == 0 {
			continue
		}
		if metric.Favorable(mv.ChangePercent) {
			if len(improving) < n {
				improving = append(improving, mv)
			}
		} else if len(declining) < n {
			declining = append(declining, mv)
		}
	}
	return append(improving, declining...)
}

// periodBounds resolves the comparison periods: the current window as
// explicit dates plus the equal-length window right before it.
func periodBounds(w timewindow.Window, now time.Time) (cur, prev timewindow.Window) {
	today := dayUTC(now)
	start := today.AddDate(0, 0, -30)
	end := today

	switch w.Preset {
	case timewindow.PresetYTD:
		start = time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	case timewindow.PresetCustom:
		if !w.Start.IsZero() && !w.End.IsZero() {
			start, end = dayUTC(w.Start), dayUTC(w.End)
		}
	case timewindow.Preset7d:
		start = today.AddDate(0, 0, -7)
	case timewindow.Preset14d:
		start = today.AddDate(0, 0, -14)
	case timewindow.Preset90d:
		start = today.AddDate(0, 0, -90)
	}

	days := int(end.Sub(start).Hours()/24) + 1
	cur = timewindow.Window{Preset: timewindow.PresetCustom, Start: start, End: end}
	prev = timewindow.Window{
		Preset: timewindow.PresetCustom,
		Start:  start.AddDate(0, 0, -days),
		End:    start.AddDate(0, 0, -1),
	}
	return cur, prev
}

func dayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
