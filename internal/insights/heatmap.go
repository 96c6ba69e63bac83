package insights

import (
	"github.com/guardianads/pulse/internal/aggregate"
	"github.com/guardianads/pulse/internal/models"
)

// BuildHeatmap expands hourly aggregates into the complete 7×24 grid.
// Missing slots get value 0. Intensity min-max normalizes the nonzero
// cells onto [0,1]; for inverse metrics (CPA) the scale is flipped so a
// good cell is always high intensity. When all nonzero cells share one
// value, their intensity defaults to 0.5.
func BuildHeatmap(cells []aggregate.HourlyCell, metric models.Metric) []models.HeatmapCell {
	var grid [7][24]float64
	for _, c := range cells {
		if c.DayOfWeek < 0 || c.DayOfWeek > 6 || c.Hour < 0 || c.Hour > 23 {
			continue
		}
		row := aggregate.Row{BaseMetrics: c.BaseMetrics, DerivedMetrics: c.DerivedMetrics}
		grid[c.DayOfWeek][c.Hour] = row.Value(metric)
	}

	min, max, any := 0.0, 0.0, false
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			v := grid[d][h]
			if v == 0 {
				continue
			}
			if !any || v < min {
				min = v
			}
			if !any || v > max {
				max = v
			}
			any = true
		}
	}

	inverse := metric.Polarity() == models.PolarityInverse
	out := make([]models.HeatmapCell, 0, 7*24)
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			v := grid[d][h]
			intensity := 0.0
			if v != 0 {
				if max == min {
					intensity = 0.5
				} else {
					intensity = (v - min) / (max - min)
					if inverse {
						intensity = 1 - intensity
					}
				}
			}
			out = append(out, models.HeatmapCell{DayOfWeek: d, Hour: h, Value: v, Intensity: intensity})
		}
	}
	return out
}
