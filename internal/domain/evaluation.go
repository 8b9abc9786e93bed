package domain

// CategoryScore holds per-category accuracy for an evaluated period.
// MAPE is left 0 with Skipped=true when every actual daily value is 0,
// since the ratio is undefined there.
type CategoryScore struct {
	Category       string  `json:"category"`
	ActualTotal    float64 `json:"actual_total"`
	PredictedTotal float64 `json:"predicted_total"`
	MAE            float64 `json:"mae"`  // mean absolute error over daily values
	MAPE           float64 `json:"mape"` // mean absolute percentage error over non-zero days
	Skipped        bool    `json:"skipped,omitempty"`
}

// EvaluationResult scores predictions against fully recorded history.
type EvaluationResult struct {
	Period         PeriodSummary   `json:"period"`
	Categories     []CategoryScore `json:"categories"`
	OverallMAE     float64         `json:"overall_mae"`
	OverallMAPE    float64         `json:"overall_mape"`
	DaysEvaluated  int             `json:"days_evaluated"`
	ActualTotal    float64         `json:"actual_total"`
	PredictedTotal float64         `json:"predicted_total"`
}
