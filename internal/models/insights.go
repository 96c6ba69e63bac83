package models

import "time"

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
	SeveritySuccess  Severity = "success"
)

type Alert struct {
	ID            string    `json:"id"`
	Severity      Severity  `json:"severity"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Product       string    `json:"product,omitempty"`
	Metric        Metric    `json:"metric,omitempty"`
	ChangePercent *float64  `json:"change_percent,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

type TopMover struct {
	Campaign      string    `json:"campaign"`
	Metric        Metric    `json:"metric"`
	CurrentValue  float64   `json:"current_value"`
	PreviousValue float64   `json:"previous_value"`
	ChangePercent float64   `json:"change_percent"`
	Direction     Direction `json:"direction"`
}

type BudgetPacingRecord struct {
	Product        string  `json:"product"`
	MonthlyBudget  float64 `json:"monthly_budget"`
	MTDSpend       float64 `json:"mtd_spend"`
	MTDTarget      float64 `json:"mtd_target"`
	PacingPercent  float64 `json:"pacing_percent"`
	ProjectedSpend float64 `json:"projected_spend"`
	DaysElapsed    int     `json:"days_elapsed"`
	DaysRemaining  int     `json:"days_remaining"`
	Status         string  `json:"status"`
}

// HealthScore is the 0-100 composite plus its five clamped components.
type HealthScore struct {
	Overall    int                   `json:"overall"`
	Band       string                `json:"band"`
	Components HealthScoreComponents `json:"components"`
}

type HealthScoreComponents struct {
	QualityScore    float64 `json:"quality_score"`
	ImpressionShare float64 `json:"impression_share"`
	CPATrend        float64 `json:"cpa_trend"`
	BudgetPacing    float64 `json:"budget_pacing"`
	ConversionTrend float64 `json:"conversion_trend"`
}

type HeatmapCell struct {
	DayOfWeek int     `json:"day_of_week"`
	Hour      int     `json:"hour"`
	Value     float64 `json:"value"`
	Intensity float64 `json:"intensity"`
}
