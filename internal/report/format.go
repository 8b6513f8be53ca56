package report

import (
	"fmt"
)

const millionsThreshold = 999950

// FormatCount renders a count the way the report's number format displays
// it: millions with an "M" suffix from 999,950 on (the point where two
// decimals round to 1.00M), thousands with a "K" suffix below.
func FormatCount(count int64) string {
	if count >= millionsThreshold || count <= -millionsThreshold {
		return scaled(count, 10000) + "M"
	}
	return scaled(count, 10) + "K"
}

// scaled divides count by divisor, rounding half away from zero, and prints
// the result as hundredths.
func scaled(count, divisor int64) string {
	negative := count < 0
	abs := uint64(count)
	if negative {
		abs = uint64(-count)
	}

	hundredths := (abs + uint64(divisor)/2) / uint64(divisor)
	out := fmt.Sprintf("%d.%02d", hundredths/100, hundredths%100)
	if negative && hundredths != 0 {
		out = "-" + out
	}
	return out
}
