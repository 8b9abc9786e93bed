// Package idhash derives deterministic identifiers for forecast runs.
package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// runIDBytes is the hash prefix length encoded into a run ID. 16 bytes
// keeps IDs short enough to paste into a URL while leaving collisions
// out of practical reach.
const runIDBytes = 16

// RunID derives the identifier for one forecast run from the request
// shape and generation time. The same request at the same millisecond
// maps to the same ID, so retried snapshot writes stay idempotent.
func RunID(periodStart, periodEnd string, topN int, generatedAtMs int64) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%d", periodStart, periodEnd, topN, generatedAtMs)
	sum := h.Sum(nil)
	return base58.Encode(sum[:runIDBytes])
}
