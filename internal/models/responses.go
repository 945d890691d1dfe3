package models

import "velar-backend/internal/dataset"

// Stats is the aggregate summary of the loaded dataset.
type Stats struct {
	Total         int            `json:"total"`
	ByCategory    map[string]int `json:"by_category"`
	Modalities    map[string]int `json:"modalities"`
	OpenSourcePct *int           `json:"open_source_pct"`
	APIsPct       *int           `json:"apis_pct"`
	LatestYear    *int           `json:"latest_year"`
}

// WhiteSpace flags likely market gaps.
type WhiteSpace struct {
	HasDefi                bool     `json:"has_defi"`
	HasBitcoin             bool     `json:"has_bitcoin"`
	LowCountCategories     []string `json:"low_count_categories"`
	MajorGapRecommendation string   `json:"major_gap_recommendation"`
}

// SummaryResponse is returned by /api/summary
type SummaryResponse struct {
	Stats      Stats      `json:"stats"`
	WhiteSpace WhiteSpace `json:"whitespace"`
}

// ToolsResponse is returned by /api/tools
type ToolsResponse struct {
	Count int                        `json:"count"`
	Rows  []map[string]dataset.Value `json:"rows"`
}

// Phase is one step of the product roadmap.
type Phase struct {
	Phase    string   `json:"phase" yaml:"phase"`
	Features []string `json:"features" yaml:"features"`
}

// RecommendationsResponse is returned by /api/recommendations
type RecommendationsResponse struct {
	Recommendations []Phase `json:"recommendations"`
}

// PingResponse is returned by /api/ping
type PingResponse struct {
	Status     string `json:"status"`
	ToolsCount int    `json:"tools_count"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
