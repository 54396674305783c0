package report

import (
	"fmt"
	"strconv"
)

// formatShekels renders a cost with thousands separators, zero decimal
// places and the shekel sign, e.g. ₪2,458.
func formatShekels(amount float64) string {
	return "₪" + addThousands(amount)
}

// addThousands renders a float as a whole number with comma separators.
func addThousands(amount float64) string {
	n := int64(amount + 0.5)
	if amount < 0 {
		n = int64(amount - 0.5)
	}
	s := strconv.FormatInt(n, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// yearOrPlaceholder formats a vehicle year, treating zero as missing.
func yearOrPlaceholder(year int) string {
	if year == 0 {
		return notAvailable
	}
	return fmt.Sprintf("%d", year)
}
