package domain

// CategoryTotal is one ranked entry in a forecast or historical answer.
// Ephemeral: built per request, never persisted as-is.
type CategoryTotal struct {
	Category            string  `json:"category"`
	Amount              float64 `json:"amount"`
	Percentage          float64 `json:"percentage"` // share of the grand total over ALL categories
	FormattedAmount     string  `json:"formatted_amount"`
	FormattedPercentage string  `json:"formatted_percentage"`
}

// DataQuality reports how much of an answered period was recorded
// versus model-filled. Points are counted per date.
type DataQuality struct {
	HistoricalPoints int     `json:"historical_points"`
	PredictedPoints  int     `json:"predicted_points"`
	CompletenessPct  float64 `json:"completeness_pct"` // historical / (historical+predicted) * 100
}

// PeriodSummary is the wire form of a period.
type PeriodSummary struct {
	Start string `json:"start"` // YYYY-MM-DD
	End   string `json:"end"`   // YYYY-MM-DD
	Days  int    `json:"days"`
}

// GrowthRate compares a period total against its baseline.
// Undefined marks the zero-baseline, positive-current case where the
// rate has no finite value; Percentage is nil (JSON null) there.
type GrowthRate struct {
	Percentage *float64 `json:"percentage"`
	Formatted  string   `json:"formatted"`
	Undefined  bool     `json:"undefined,omitempty"`
}

// ForecastResult is the reconciled answer for one requested period.
type ForecastResult struct {
	RunID          string          `json:"run_id,omitempty"`
	Period         PeriodSummary   `json:"period"`
	TotalAmount    float64         `json:"total_amount"`
	TopCategories  []CategoryTotal `json:"top_categories"`
	DataQuality    DataQuality     `json:"data_quality"`
	Degraded       bool            `json:"degraded"`
	DegradedReason string          `json:"degraded_reason,omitempty"`
	Historical     *ForecastResult `json:"historical,omitempty"`
	Growth         *GrowthRate     `json:"growth,omitempty"`
}
