package dashboard

import "strconv"

// FormatLargeNumber abbreviates counts for overview cards: 1.25M, 850.0k, 999.
func FormatLargeNumber(num float64) string {
	switch {
	case num >= 1_000_000:
		return strconv.FormatFloat(num/1_000_000, 'f', 2, 64) + "M"
	case num >= 1_000:
		return strconv.FormatFloat(num/1_000, 'f', 1, 64) + "k"
	default:
		return strconv.FormatFloat(round(num, 3), 'f', -1, 64)
	}
}

func formatPercent(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64) + "%"
}

func formatCurrency(value float64) string {
	return "$" + strconv.FormatFloat(value, 'f', 2, 64)
}
