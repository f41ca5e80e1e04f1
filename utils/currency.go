package utils

import (
	"fmt"
	"strings"
)

// FormatCurrency memformat angka ke format Rupiah (pemisah ribuan titik).
func FormatCurrency(amount float64) string {
	formatted := fmt.Sprintf("%.0f", amount)

	negative := strings.HasPrefix(formatted, "-")
	if negative {
		formatted = formatted[1:]
	}

	var parts []string
	for i := len(formatted); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		parts = append([]string{formatted[start:i]}, parts...)
	}

	result := strings.Join(parts, ".")
	if negative {
		result = "-" + result
	}
	return result
}
