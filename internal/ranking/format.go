package ranking

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCurrency renders an amount as "$1,234.50": two decimals with
// thousands separators, sign ahead of the symbol ("-$1,234.50").
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	fixed := strconv.FormatFloat(math.Abs(amount), 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	return sign + "$" + groupThousands(intPart) + "." + fracPart
}

// FormatPercentage renders a value as "12.34%".
func FormatPercentage(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// groupThousands inserts comma separators into a digit string.
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var sb strings.Builder
	sb.Grow(n + (n-1)/3)
	lead := n % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}
