package model

import "time"

// Correlation modes tracked by the analytics service: "extract" is the
// text-only path, "correlate" merges text with detections, and "document"
// is label computation for a registered document.
const (
	ModeExtract   = "extract"
	ModeCorrelate = "correlate"
	ModeDocument  = "document"
)

// CorrelationEvent records one run of the pipeline for analytics.
type CorrelationEvent struct {
	DocumentID     string        `json:"document_id,omitempty"`
	Mode           string        `json:"mode"`
	NumeralCount   int           `json:"numeral_count"`
	DetectionCount int           `json:"detection_count"`
	ResponseTime   time.Duration `json:"response_time"`
	Timestamp      time.Time     `json:"timestamp"`
}

// StatsReport summarizes recent engine activity.
type StatsReport struct {
	TotalRuns       int            `json:"total_runs"`
	Runs24h         int            `json:"runs_24h"`
	AvgResponseTime float64        `json:"avg_response_time_ms"`
	AvgNumeralCount float64        `json:"avg_numeral_count"`
	RunsByMode      map[string]int `json:"runs_by_mode"`
	TotalDocuments  int            `json:"total_documents"`
	GeneratedAt     time.Time      `json:"generated_at"`
}
