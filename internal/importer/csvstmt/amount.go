package csvstmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseAmount converts a decimal amount string to cents. Both separator
// conventions are accepted ("1,234.56" and "1.234,56"): whichever of '.'
// or ',' appears last is treated as the decimal separator.
func parseAmount(s string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}

	lastDot := strings.LastIndex(clean, ".")
	lastComma := strings.LastIndex(clean, ",")

	switch {
	case lastComma > lastDot:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case lastDot > lastComma:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, err
	}

	return int64(math.Round(val * 100)), nil
}
