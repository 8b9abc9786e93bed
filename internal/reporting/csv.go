package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the ranked categories as CSV string.
func RenderCSV(rows []CategoryRow) string {
	var sb strings.Builder

	sb.WriteString("rank,category,amount,percentage\n")

	for _, c := range rows {
		sb.WriteString(fmt.Sprintf("%d,%s,%.2f,%.2f\n",
			c.Rank,
			c.Category,
			c.Amount,
			c.Percentage,
		))
	}

	return sb.String()
}
