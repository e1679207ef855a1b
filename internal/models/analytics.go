package models

import "time"

// AnalyticsSnapshot is a derived summary of stored conversations. It is
// computed on demand and never persisted.
type AnalyticsSnapshot struct {
	TotalConversations int       `json:"total_conversations"`
	AIHandled          int       `json:"ai_handled"`
	Escalated          int       `json:"escalated"`
	AvgResponseTime    float64   `json:"avg_response_time"`
	SatisfactionScore  float64   `json:"satisfaction_score"`
	TimeSavedHours     float64   `json:"time_saved_hours"`
	ComputedAt         time.Time `json:"computed_at"`
}
