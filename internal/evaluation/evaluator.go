// Package evaluation scores the predictor against held-out recorded
// history: a fully recorded past period is re-forecast and the
// predicted daily amounts are compared with the actuals.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"categoryforecast/internal/domain"
	"categoryforecast/internal/gapfill"
	"categoryforecast/internal/storage"
)

// ErrNoActuals is returned when the evaluated period has no recorded
// data to score against.
var ErrNoActuals = errors.New("no recorded data in evaluated period")

// Evaluator re-forecasts recorded periods and scores the predictions.
type Evaluator struct {
	sales     storage.SalesStore
	predictor gapfill.SpanPredictor
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(sales storage.SalesStore, predictor gapfill.SpanPredictor) *Evaluator {
	return &Evaluator{sales: sales, predictor: predictor}
}

// Evaluate scores predictions for period against its recorded actuals.
// categories limits scoring to the given names; nil scores every
// category present in either the actual or the predicted rows.
//
// MAE is the mean absolute error over all daily values of the period
// (absent days count as 0.0, matching how the engine treats them).
// MAPE averages |error|/actual over days with a non-zero actual only; a
// category with no non-zero day is marked Skipped since the ratio is
// undefined everywhere.
func (e *Evaluator) Evaluate(ctx context.Context, period domain.Period, categories []string) (*domain.EvaluationResult, error) {
	actuals, err := e.sales.GetByDateRange(ctx, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("load actuals for %s: %w", period, err)
	}
	if len(actuals) == 0 {
		return nil, fmt.Errorf("period %s: %w", period, ErrNoActuals)
	}

	predicted, err := e.predictor.PredictSpan(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("predict %s: %w", period, err)
	}

	actualByKey := indexByKey(actuals)
	predictedByKey := indexByKey(predicted)

	if categories == nil {
		categories = unionCategories(actuals, predicted)
	}

	days := period.Dates()
	result := &domain.EvaluationResult{
		Period:        period.Summary(),
		DaysEvaluated: len(days),
	}

	var overallAbsSum float64
	var overallAbsCount int
	var overallPctSum float64
	var overallPctCount int

	for _, category := range categories {
		score := domain.CategoryScore{Category: category}
		var pctSum float64
		var pctCount int

		for _, day := range days {
			key := domain.FormatDay(day) + "|" + category
			actual := actualByKey[key]
			pred := predictedByKey[key]

			absErr := math.Abs(pred - actual)
			score.ActualTotal += actual
			score.PredictedTotal += pred
			score.MAE += absErr
			overallAbsSum += absErr
			overallAbsCount++

			if actual != 0 {
				pctSum += absErr / math.Abs(actual) * 100
				pctCount++
			}
		}

		score.MAE /= float64(len(days))
		if pctCount > 0 {
			score.MAPE = pctSum / float64(pctCount)
			overallPctSum += pctSum
			overallPctCount += pctCount
		} else {
			score.Skipped = true
		}

		result.Categories = append(result.Categories, score)
		result.ActualTotal += score.ActualTotal
		result.PredictedTotal += score.PredictedTotal
	}

	if overallAbsCount > 0 {
		result.OverallMAE = overallAbsSum / float64(overallAbsCount)
	}
	if overallPctCount > 0 {
		result.OverallMAPE = overallPctSum / float64(overallPctCount)
	}

	return result, nil
}

// indexByKey maps (date, category) keys to amounts.
func indexByKey(points []*domain.SalesPoint) map[string]float64 {
	index := make(map[string]float64, len(points))
	for _, p := range points {
		index[p.Key()] = p.Amount
	}
	return index
}

// unionCategories returns the distinct category names across both row
// sets, sorted for deterministic report order.
func unionCategories(actuals, predicted []*domain.SalesPoint) []string {
	seen := make(map[string]struct{})
	for _, p := range actuals {
		seen[p.Category] = struct{}{}
	}
	for _, p := range predicted {
		seen[p.Category] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
