package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Category Revenue Forecast\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run: `%s`\n\n", r.RunID))
	}
	sb.WriteString(fmt.Sprintf("Period: %s to %s (%d days)\n\n", r.PeriodStart, r.PeriodEnd, r.PeriodDays))

	if r.Degraded {
		sb.WriteString(fmt.Sprintf("**Degraded mode:** %s\n\n", r.DegradedReason))
	}

	// Top categories
	sb.WriteString("## Top Categories\n\n")
	if len(r.Categories) > 0 {
		sb.WriteString("| Rank | Category | Amount | Share |\n")
		sb.WriteString("|------|----------|--------|-------|\n")
		for _, c := range r.Categories {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n",
				c.Rank, c.Category, c.FormattedAmount, c.FormattedPercentage))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("No category data for this period.\n\n")
	}
	sb.WriteString(fmt.Sprintf("Total: %s\n\n", r.FormattedTotal))

	// Data quality
	sb.WriteString("## Data Quality\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Historical Points | %d |\n", r.HistoricalPoints))
	sb.WriteString(fmt.Sprintf("| Predicted Points | %d |\n", r.PredictedPoints))
	sb.WriteString(fmt.Sprintf("| Completeness | %.2f%% |\n", r.CompletenessPct))
	if r.SnapshotRows > 0 {
		sb.WriteString(fmt.Sprintf("| Snapshot Rows | %d |\n", r.SnapshotRows))
		sb.WriteString(fmt.Sprintf("| Predicted Snapshot Rows | %d |\n", r.PredictedSnapshots))
	}
	sb.WriteString("\n")

	// Baseline comparison
	if r.Baseline != nil {
		sb.WriteString("## Baseline Comparison\n\n")
		sb.WriteString(fmt.Sprintf("Baseline period: %s to %s\n\n", r.Baseline.PeriodStart, r.Baseline.PeriodEnd))
		sb.WriteString(fmt.Sprintf("Baseline total: %s\n\n", r.Baseline.FormattedTotal))
		if r.Baseline.GrowthUndefined {
			sb.WriteString("Growth: undefined (zero baseline)\n")
		} else if r.Baseline.GrowthFormatted != "" {
			sb.WriteString(fmt.Sprintf("Growth: %s\n", r.Baseline.GrowthFormatted))
		}
	}

	return sb.String()
}
