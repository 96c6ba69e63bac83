package insights

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guardianads/pulse/internal/aggregate"
	"github.com/guardianads/pulse/internal/models"
)

func TestHeatmapUniformValuesGetMidIntensity(t *testing.T) {
	var cells []aggregate.HourlyCell
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			cells = append(cells, aggregate.HourlyCell{
				DayOfWeek:   d,
				Hour:        h,
				BaseMetrics: models.BaseMetrics{Spend: 10},
			})
		}
	}

	grid := BuildHeatmap(cells, models.MetricSpend)
	require.Len(t, grid, 168)
	for _, c := range grid {
		require.Equal(t, 10.0, c.Value)
		require.Equal(t, 0.5, c.Intensity)
	}
}

func TestHeatmapFillsMissingSlotsWithZero(t *testing.T) {
	cells := []aggregate.HourlyCell{
		{DayOfWeek: 1, Hour: 9, BaseMetrics: models.BaseMetrics{Spend: 10}},
		{DayOfWeek: 1, Hour: 10, BaseMetrics: models.BaseMetrics{Spend: 30}},
	}

	grid := BuildHeatmap(cells, models.MetricSpend)
	require.Len(t, grid, 168)

	byKey := map[[2]int]models.HeatmapCell{}
	for _, c := range grid {
		byKey[[2]int{c.DayOfWeek, c.Hour}] = c
	}

	require.Equal(t, 0.0, byKey[[2]int{1, 9}].Intensity)  // min of nonzero cells
	require.Equal(t, 1.0, byKey[[2]int{1, 10}].Intensity) // max
	require.Zero(t, byKey[[2]int{0, 0}].Value)
	require.Zero(t, byKey[[2]int{0, 0}].Intensity)
}

func TestHeatmapInvertsIntensityForCPA(t *testing.T) {
	cells := []aggregate.HourlyCell{
		{DayOfWeek: 2, Hour: 8, DerivedMetrics: models.DerivedMetrics{CPA: 10}},
		{DayOfWeek: 2, Hour: 9, DerivedMetrics: models.DerivedMetrics{CPA: 20}},
	}

	grid := BuildHeatmap(cells, models.MetricCPA)
	byKey := map[[2]int]models.HeatmapCell{}
	for _, c := range grid {
		byKey[[2]int{c.DayOfWeek, c.Hour}] = c
	}

	// lower CPA is the good cell, so it gets the high intensity
	require.Equal(t, 1.0, byKey[[2]int{2, 8}].Intensity)
	require.Equal(t, 0.0, byKey[[2]int{2, 9}].Intensity)
}

func TestHeatmapIntensityInterpolates(t *testing.T) {
	cells := []aggregate.HourlyCell{
		{DayOfWeek: 3, Hour: 1, BaseMetrics: models.BaseMetrics{Spend: 10}},
		{DayOfWeek: 3, Hour: 2, BaseMetrics: models.BaseMetrics{Spend: 20}},
		{DayOfWeek: 3, Hour: 3, BaseMetrics: models.BaseMetrics{Spend: 30}},
	}

	grid := BuildHeatmap(cells, models.MetricSpend)
	for _, c := range grid {
		if c.DayOfWeek == 3 && c.Hour == 2 {
			require.Equal(t, 0.5, c.Intensity)
		}
	}
}
