package domain

// DailySeries is the per-category daily amount view of a period, shaped
// for plotting: one dates axis plus one aligned value slice per
// category. Days with no recorded value hold 0.0.
type DailySeries struct {
	Period PeriodSummary        `json:"period"`
	Dates  []string             `json:"dates"`  // YYYY-MM-DD, ascending
	Series map[string][]float64 `json:"series"` // category -> one value per date
}
