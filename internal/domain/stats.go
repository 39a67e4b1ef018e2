package domain

import "time"

// StatsSnapshot is what the store aggregates in one consistent read.
type StatsSnapshot struct {
	Total      int64
	ByStatus   map[string]int64
	ByCategory map[string]int64
	ByPriority map[string]int64
	// Monthly maps the first instant (UTC) of a calendar month to the number
	// of complaints created in it.
	Monthly map[time.Time]int64
}

type MonthCount struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

type DashboardStats struct {
	Total          int64            `json:"total"`
	ThisMonth      int64            `json:"thisMonth"`
	LastMonth      int64            `json:"lastMonth"`
	GrowthPercent  float64          `json:"growthPercent"`
	ResolutionRate float64          `json:"resolutionRate"`
	ByStatus       map[string]int64 `json:"statusBreakdown"`
	ByCategory     map[string]int64 `json:"categoryBreakdown"`
	ByPriority     map[string]int64 `json:"priorityBreakdown"`
	Trend          []MonthCount     `json:"monthlyTrend"`
	GeneratedAt    time.Time        `json:"generatedAt"`
}
