// Package predictor defines the model inference contract and its
// implementations: an HTTP client for an external inference service and
// a deterministic in-process stub.
package predictor

import "context"

// Predictor scores feature matrices. Row columns must follow the
// manifest order exactly; behavior on a mismatched matrix is undefined,
// so callers build rows through the synthesizer rather than by hand.
// The output carries one vector per input row, interpreted positionally
// against the fixed target-category list.
type Predictor interface {
	// Predict returns one output vector per input row.
	Predict(ctx context.Context, columns []string, rows [][]float64) ([][]float64, error)

	// Available reports whether a model is ready to score. When false,
	// callers degrade to historical-only answers instead of failing.
	Available() bool
}
