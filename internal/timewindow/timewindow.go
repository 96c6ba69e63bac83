// Package timewindow resolves the dashboard's time-range presets into
// concrete date filters. All comparisons happen at day granularity in UTC.
package timewindow

import (
	"fmt"
	"time"
)

const (
	Preset7d     = "7d"
	Preset14d    = "14d"
	Preset30d    = "30d"
	Preset90d    = "90d"
	PresetYTD    = "ytd"
	PresetCustom = "custom"
)

var presetDays = map[string]int{
	Preset7d:  7,
	Preset14d: 14,
	Preset30d: 30,
	Preset90d: 90,
}

type Window struct {
	Preset string
	// Start/End only apply to the custom preset, [Start,End] inclusive.
	Start time.Time
	End   time.Time
}

// Parse builds a Window from query-string inputs. from/to are YYYY-MM-DD
// and only consulted for the custom preset; either may be empty.
func Parse(preset, from, to string) (Window, error) {
	if preset == "" {
		preset = Preset30d
	}
	if _, ok := presetDays[preset]; !ok && preset != PresetYTD && preset != PresetCustom {
		return Window{}, fmt.Errorf("unknown window preset %q", preset)
	}
	w := Window{Preset: preset}
	if preset != PresetCustom {
		return w, nil
	}
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return Window{}, fmt.Errorf("bad from date %q", from)
		}
		w.Start = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return Window{}, fmt.Errorf("bad to date %q", to)
		}
		w.End = t
	}
	return w, nil
}

// Contains reports whether a record dated d falls inside the window,
// resolved against the reference time now. A custom window missing
// either bound filters nothing: it behaves as "all time".
func (w Window) Contains(d, now time.Time) bool {
	d = dayUTC(d)
	if w.Preset == PresetCustom {
		if w.Start.IsZero() || w.End.IsZero() {
			return true
		}
		return !d.Before(dayUTC(w.Start)) && !d.After(dayUTC(w.End))
	}
	return !d.Before(w.startDate(now))
}

func (w Window) startDate(now time.Time) time.Time {
	today := dayUTC(now)
	if w.Preset == PresetYTD {
		return time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}
	days := presetDays[w.Preset]
	if days == 0 {
		days = 30
	}
	return today.AddDate(0, 0, -days)
}

// Filter keeps the records whose date falls inside the window,
// preserving input order.
func Filter[R any](recs []R, date func(R) time.Time, w Window, now time.Time) []R {
	out := make([]R, 0, len(recs))
	for _, r := range recs {
		if w.Contains(date(r), now) {
			out = append(out, r)
		}
	}
	return out
}

func dayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
