package models

import (
	"time"

	"github.com/google/uuid"
)

// Summary call outcomes recorded in the usage log
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// OpContinentSummary is the operation type of a dashboard summary call
const OpContinentSummary = "continent_summary"

// LLMUsage is one summary call's metadata. The generated text is never stored.
type LLMUsage struct {
	ID               uuid.UUID `json:"id" db:"id"`
	RequestID        uuid.UUID `json:"request_id" db:"request_id"`
	Provider         string    `json:"provider" db:"provider"`
	Model            string    `json:"model" db:"model"`
	OperationType    string    `json:"operation_type" db:"operation_type"`
	Continent        string    `json:"continent" db:"continent"`
	RecordCount      int       `json:"record_count" db:"record_count"`
	Outcome          string    `json:"outcome" db:"outcome"`
	FailureKind      string    `json:"failure_kind,omitempty" db:"failure_kind"`
	PromptTokens     int       `json:"prompt_tokens" db:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens" db:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens" db:"total_tokens"`
	LatencyMS        int64     `json:"latency_ms" db:"latency_ms"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// UsageData represents raw usage data from LLM provider APIs
type UsageData struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
	Provider         string `json:"provider"`
}

// UsageSummary aggregates usage over a period
type UsageSummary struct {
	PeriodStart  time.Time                 `json:"period_start"`
	PeriodEnd    time.Time                 `json:"period_end"`
	RequestCount int                       `json:"request_count" db:"request_count"`
	FailureCount int                       `json:"failure_count" db:"failure_count"`
	TotalTokens  int                       `json:"total_tokens" db:"total_tokens"`
	AvgLatencyMS float64                   `json:"avg_latency_ms" db:"avg_latency_ms"`
	ByContinent  map[string]ContinentUsage `json:"by_continent"`
}

// ContinentUsage is usage aggregated for one continent
type ContinentUsage struct {
	Continent    string `json:"continent" db:"continent"`
	RequestCount int    `json:"request_count" db:"request_count"`
	TotalTokens  int    `json:"total_tokens" db:"total_tokens"`
}
