package bar

import (
	"fmt"
	"strings"
)

// FormatDuration renders a duration for display. Years, months and days are
// always shown when present; hours and minutes appear only while the span is
// still under a month, since the remainder past full months is not useful at
// that scale. Parts are joined Oxford-style ("a, b, and c").
func FormatDuration(d Duration) string {
	var parts []string
	if d.Years > 0 {
		parts = append(parts, pluralize(d.Years, "year"))
	}
	if d.Months > 0 {
		parts = append(parts, pluralize(d.Months, "month"))
	}
	if d.Days > 0 {
		parts = append(parts, pluralize(d.Days, "day"))
	}
	if d.Years == 0 && d.Months == 0 {
		if d.Hours > 0 {
			parts = append(parts, pluralize(d.Hours, "hour"))
		}
		if d.Minutes > 0 {
			parts = append(parts, pluralize(d.Minutes, "minute"))
		}
	}

	switch len(parts) {
	case 0:
		return "0 minutes"
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
